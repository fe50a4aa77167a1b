package api

import (
	"context"
	"fmt"
)

// Groups lists the caller's groups.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var out []Group
	if err := c.doJSON(ctx, "GET", "/groups", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateGroup creates a group without invitations.
func (c *Client) CreateGroup(ctx context.Context, req CreateGroupRequest) (*Group, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, validationErr("type", "must be one of COUPLE, FAMILY, FRIEND, TEAM, ETC")
	}
	body := req
	body.InviteeEmails = nil
	var out Group
	if err := c.doJSON(ctx, "POST", "/groups", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateGroupWithInvites creates a group and invites the given emails in
// the same call.
func (c *Client) CreateGroupWithInvites(ctx context.Context, req CreateGroupRequest) (*Group, error) {
	if err := c.checkRequest(req); err != nil {
		return nil, err
	}
	if !req.Type.Valid() {
		return nil, validationErr("type", "must be one of COUPLE, FAMILY, FRIEND, TEAM, ETC")
	}
	var out Group
	if err := c.doJSON(ctx, "POST", "/groups/with-invites", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JoinGroup joins a group by invite code.
func (c *Client) JoinGroup(ctx context.Context, inviteCode string) (*Group, error) {
	if inviteCode == "" {
		return nil, validationErr("inviteCode", "required")
	}
	body := map[string]string{"inviteCode": inviteCode}
	var out Group
	if err := c.doJSON(ctx, "POST", "/groups/join", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateGroup applies partial updates to a group.
func (c *Client) UpdateGroup(ctx context.Context, groupID int64, req UpdateGroupRequest) (*Group, error) {
	if req.Type != "" && !req.Type.Valid() {
		return nil, validationErr("type", "must be one of COUPLE, FAMILY, FRIEND, TEAM, ETC")
	}
	var out Group
	if err := c.doJSON(ctx, "PUT", fmt.Sprintf("/groups/%d", groupID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteGroup deletes a group.
func (c *Client) DeleteGroup(ctx context.Context, groupID int64) error {
	return c.doJSON(ctx, "DELETE", fmt.Sprintf("/groups/%d", groupID), nil, nil)
}
