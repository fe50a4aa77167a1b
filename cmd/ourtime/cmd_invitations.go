package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ourtime/internal/api"
)

var invitationsCmd = &cobra.Command{
	Use:   "invitations",
	Short: "Manage group invitations",
}

var invitationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending invitations",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStack()
		if err != nil {
			return err
		}
		if err := st.requireLogin(); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
		defer cancel()
		invs, err := st.client.PendingInvitations(ctx)
		if err != nil {
			return err
		}
		if len(invs) == 0 {
			fmt.Println("no pending invitations")
			return nil
		}
		for _, inv := range invs {
			if inv.Status != api.InvitationPending {
				continue
			}
			fmt.Printf("%d\t%s invited you to %s\n", inv.ID, inv.InviterNickname, inv.GroupName)
		}
		return nil
	},
}

var invitationsAcceptCmd = &cobra.Command{
	Use:   "accept [invitation-id]",
	Short: "Accept an invitation",
	Args:  cobra.ExactArgs(1),
	RunE:  respondInvitation(true),
}

var invitationsRejectCmd = &cobra.Command{
	Use:   "reject [invitation-id]",
	Short: "Decline an invitation",
	Args:  cobra.ExactArgs(1),
	RunE:  respondInvitation(false),
}

func respondInvitation(accept bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		st, err := newStack()
		if err != nil {
			return err
		}
		if err := st.requireLogin(); err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid invitation id %q", args[0])
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
		defer cancel()
		if accept {
			if err := st.client.AcceptInvitation(ctx, id); err != nil {
				return err
			}
			fmt.Println("invitation accepted")
			return nil
		}
		if err := st.client.RejectInvitation(ctx, id); err != nil {
			return err
		}
		fmt.Println("invitation declined")
		return nil
	}
}

func init() {
	invitationsCmd.AddCommand(invitationsListCmd, invitationsAcceptCmd, invitationsRejectCmd)
	rootCmd.AddCommand(invitationsCmd)
}
