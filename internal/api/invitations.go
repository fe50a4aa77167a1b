package api

import (
	"context"
	"fmt"
)

// Invitations lists every invitation addressed to the caller.
func (c *Client) Invitations(ctx context.Context) ([]Invitation, error) {
	var out []Invitation
	if err := c.doJSON(ctx, "GET", "/invitations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PendingInvitations lists only invitations still awaiting a response.
func (c *Client) PendingInvitations(ctx context.Context) ([]Invitation, error) {
	var out []Invitation
	if err := c.doJSON(ctx, "GET", "/invitations/pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AcceptInvitation accepts a pending invitation.
func (c *Client) AcceptInvitation(ctx context.Context, invitationID int64) error {
	return c.doJSON(ctx, "POST", fmt.Sprintf("/invitations/%d/accept", invitationID), nil, nil)
}

// RejectInvitation rejects a pending invitation.
func (c *Client) RejectInvitation(ctx context.Context, invitationID int64) error {
	return c.doJSON(ctx, "POST", fmt.Sprintf("/invitations/%d/reject", invitationID), nil, nil)
}
