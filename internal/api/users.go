package api

import "context"

// Me returns the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.doJSON(ctx, "GET", "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile updates the caller's profile fields.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	var out User
	if err := c.doJSON(ctx, "PUT", "/users/me", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePassword changes the caller's password.
func (c *Client) UpdatePassword(ctx context.Context, req UpdatePasswordRequest) error {
	if err := c.checkRequest(req); err != nil {
		return err
	}
	return c.doJSON(ctx, "PUT", "/users/me/password", req, nil)
}
