package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"
)

func (c *Client) objectURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/object/%s/%s", c.config.StorageURL(), bucket, objectPath)
}

// UploadFile stores file at objectPath inside bucket, sent as the "file" part
// of a multipart form.
func (c *Client) UploadFile(ctx context.Context, bucket, objectPath string, file io.Reader) (Response, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	filename := path.Base(objectPath)
	contentType := mime.TypeByExtension(path.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(bucket, objectPath), &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.config.PublicKey)
	req.Header.Set("Authorization", "Bearer "+c.bearer())
	req.Header.Set("Content-Type", writer.FormDataContentType())

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, newRequestError("upload", "Upload failed", status, body)
	}
	return Response(body), nil
}

// PublicURL returns the address of an object in a public bucket. No request
// is made.
func (c *Client) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", c.config.StorageURL(), bucket, objectPath)
}
