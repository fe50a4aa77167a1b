package api

import "context"

// Login exchanges credentials for a token pair and the authenticated user.
// Persisting the tokens is the caller's job (see session.Store).
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := c.doJSON(ctx, "POST", "/auth/login", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signup registers a new account and returns a token pair.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := c.doJSON(ctx, "POST", "/auth/signup", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a refresh token for a fresh pair. The adapter never
// calls this automatically; a 401 stays terminal.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var out AuthResponse
	if err := c.doJSON(ctx, "POST", "/auth/refresh", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the session server-side. Callers clear the local token
// pair regardless of the result.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, "POST", "/auth/logout", nil, nil)
}
