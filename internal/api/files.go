package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
)

// UploadFile uploads a single file and returns its public URL.
func (c *Client) UploadFile(ctx context.Context, file ImageFile) (string, error) {
	if file.Name == "" || len(file.Data) == 0 {
		return "", validationErr("file", "required")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", file.Name)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Message: err.Error()}
	}
	if _, err := part.Write(file.Data); err != nil {
		return "", &Error{Kind: KindNetwork, Message: err.Error()}
	}
	if err := w.Close(); err != nil {
		return "", &Error{Kind: KindNetwork, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/files/upload", &buf)
	if err != nil {
		return "", &Error{Kind: KindNetwork, Message: err.Error()}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
