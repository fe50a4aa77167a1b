package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
)

// Memories lists memories visible to the caller, optionally scoped to one
// group. A nil groupID lists everything.
func (c *Client) Memories(ctx context.Context, groupID *int64) ([]Memory, error) {
	path := "/memories"
	if groupID != nil {
		path += "?groupId=" + url.QueryEscape(strconv.FormatInt(*groupID, 10))
	}
	var out []Memory
	if err := c.doJSON(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Memory fetches a single memory by ID.
func (c *Client) Memory(ctx context.Context, memoryID int64) (*Memory, error) {
	var out Memory
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/memories/%d", memoryID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateMemory submits a new memory as a multipart body: scalar fields,
// tag names as a JSON-encoded array string, and image binaries. Required
// fields are rejected client-side before the request is built.
func (c *Client) CreateMemory(ctx context.Context, req CreateMemoryRequest) (*Memory, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"groupId":   strconv.FormatInt(req.GroupID, 10),
		"title":     req.Title,
		"latitude":  strconv.FormatFloat(req.Latitude, 'f', -1, 64),
		"longitude": strconv.FormatFloat(req.Longitude, 'f', -1, 64),
		"visitedAt": req.VisitedAt,
	}
	if req.Description != "" {
		fields["description"] = req.Description
	}
	if req.LocationName != "" {
		fields["locationName"] = req.LocationName
	}
	if len(req.TagNames) > 0 {
		tagJSON, err := json.Marshal(req.TagNames)
		if err != nil {
			return nil, &Error{Kind: KindNetwork, Message: fmt.Sprintf("encode tagNames: %v", err)}
		}
		fields["tagNames"] = string(tagJSON)
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, &Error{Kind: KindNetwork, Message: err.Error()}
		}
	}
	for _, img := range req.Images {
		part, err := w.CreateFormFile("images", img.Name)
		if err != nil {
			return nil, &Error{Kind: KindNetwork, Message: err.Error()}
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, &Error{Kind: KindNetwork, Message: err.Error()}
		}
	}
	if err := w.Close(); err != nil {
		return nil, &Error{Kind: KindNetwork, Message: err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/memories", &buf)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: err.Error()}
	}
	httpReq.Header.Set("Content-Type", w.FormDataContentType())

	var out Memory
	if err := c.do(httpReq, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMemory applies partial updates as JSON. Image changes go through
// CreateMemory or the file upload endpoint, matching the backend contract.
func (c *Client) UpdateMemory(ctx context.Context, memoryID int64, req UpdateMemoryRequest) (*Memory, error) {
	var out Memory
	if err := c.doJSON(ctx, "PUT", fmt.Sprintf("/memories/%d", memoryID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMemory deletes a memory.
func (c *Client) DeleteMemory(ctx context.Context, memoryID int64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/memories/%d", memoryID), nil, nil)
}

// LikeMemory records a like. The updated count comes from a refetch, never
// from local arithmetic.
func (c *Client) LikeMemory(ctx context.Context, memoryID int64) error {
	return c.doJSON(ctx, "POST", fmt.Sprintf("/memories/%d/like", memoryID), nil, nil)
}

// UnlikeMemory removes a like.
func (c *Client) UnlikeMemory(ctx context.Context, memoryID int64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/memories/%d/like", memoryID), nil, nil)
}
