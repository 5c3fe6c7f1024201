package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// Session is the token grant returned by a successful sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         Record `json:"user,omitempty"`
}

// SignInResult pairs the signed-in user with the full session.
type SignInResult struct {
	User    Record
	Session Session
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges an email and password for an access token, which then
// replaces any credential the client held.
func (c *Client) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	jsonData, err := json.Marshal(credentials{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.config.AuthURL() + "/token?grant_type=password"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.config.PublicKey)
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var grant struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &grant); err == nil && grant.AccessToken != "" {
		c.setAccessToken(grant.AccessToken)
		session := decodeSession(body)
		session.AccessToken = grant.AccessToken
		return &SignInResult{User: session.User, Session: session}, nil
	}

	eb := parseErrorBody(body)
	msg := eb.ErrorDescription
	if msg == "" {
		msg = eb.Message
	}
	if msg == "" {
		msg = "Login failed"
	}
	return nil, &AuthError{StatusCode: status, Message: msg}
}

// decodeSession fills what it can of a grant. A field with an unexpected
// type is left zero rather than failing the sign-in.
func decodeSession(body []byte) Session {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Session{}
	}

	var session Session
	for key, dst := range map[string]any{
		"token_type":    &session.TokenType,
		"refresh_token": &session.RefreshToken,
		"expires_in":    &session.ExpiresIn,
		"expires_at":    &session.ExpiresAt,
		"user":          &session.User,
	} {
		if raw, ok := fields[key]; ok {
			_ = json.Unmarshal(raw, dst)
		}
	}
	return session
}

// SignOut forgets the credential, in memory and in the token store.
func (c *Client) SignOut() {
	c.clearAccessToken()
}

// GetUser returns the user behind the current credential. It returns nil
// without a request when no credential is held, and nil on any failure.
func (c *Client) GetUser(ctx context.Context) Record {
	token := c.AccessToken()
	if token == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.AuthURL()+"/user", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("apikey", c.config.PublicKey)
	req.Header.Set("Authorization", "Bearer "+token)

	status, body, err := c.do(req)
	if err != nil {
		c.logger.Debug("get user failed", slog.Any("error", err))
		return nil
	}
	if !isSuccess(status) {
		c.logger.Debug("get user rejected", slog.Int("status", status))
		return nil
	}

	var user Record
	if err := json.Unmarshal(body, &user); err != nil {
		return nil
	}
	return user
}
