package supabase

import (
	"encoding/json"
	"errors"
	"net/http"
)

// AuthError is returned when the backend rejects a sign-in.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return e.Message
}

// RequestError is returned when a data or storage mutation gets a non-2xx
// response. Code, Details and Hint are copied from the error body when present.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
	Code       string
	Details    string
	Hint       string
}

func (e *RequestError) Error() string {
	return e.Message
}

// SelectError is returned when a read gets a non-2xx response.
type SelectError struct {
	StatusCode int
	StatusText string
	Code       string
	Message    string
}

func (e *SelectError) Error() string {
	return "Select failed: " + e.StatusText
}

// errorBody is the union of the error payloads returned by PostgREST, GoTrue
// and the storage API.
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	Message          string          `json:"message"`
	Details          string          `json:"details"`
	Hint             string          `json:"hint"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func parseErrorBody(body []byte) errorBody {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	return eb
}

// code returns the error code whether it was sent as a string or a number.
func (eb errorBody) code() string {
	if len(eb.Code) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(eb.Code, &s); err == nil {
		return s
	}
	return string(eb.Code)
}

func newRequestError(op, fallback string, status int, body []byte) *RequestError {
	eb := parseErrorBody(body)
	msg := eb.Message
	if msg == "" {
		msg = fallback
	}
	return &RequestError{
		Op:         op,
		StatusCode: status,
		Message:    msg,
		Code:       eb.code(),
		Details:    eb.Details,
		Hint:       eb.Hint,
	}
}

func newSelectError(status int, statusText string, body []byte) *SelectError {
	eb := parseErrorBody(body)
	return &SelectError{
		StatusCode: status,
		StatusText: statusText,
		Code:       eb.code(),
		Message:    eb.Message,
	}
}

// IsMissingRelation reports whether err is a read against a table that does
// not exist, as opposed to a table with no matching rows.
func IsMissingRelation(err error) bool {
	var se *SelectError
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code {
	case "42P01", "PGRST205":
		return true
	}
	return se.StatusCode == http.StatusNotFound
}
