package api

import (
	"context"
	"fmt"
)

// Comments lists the comments on a memory.
func (c *Client) Comments(ctx context.Context, memoryID int64) ([]Comment, error) {
	var out []Comment
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/memories/%d/comments", memoryID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateComment posts a new comment.
func (c *Client) CreateComment(ctx context.Context, req CreateCommentRequest) (*Comment, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	var out Comment
	if err := c.doJSON(ctx, "POST", "/comments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateComment replaces a comment's content.
func (c *Client) UpdateComment(ctx context.Context, commentID int64, content string) (*Comment, error) {
	if content == "" {
		return nil, validationErr("content", "required")
	}
	body := map[string]string{"content": content}
	var out Comment
	if err := c.doJSON(ctx, "PUT", fmt.Sprintf("/comments/%d", commentID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteComment deletes a comment.
func (c *Client) DeleteComment(ctx context.Context, commentID int64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/comments/%d", commentID), nil, nil)
}
