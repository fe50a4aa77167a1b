package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ourtime/internal/api"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "Manage memory-sharing groups",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your groups",
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
		groups, err := st.client.Groups(ctx)
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			fmt.Println("no groups")
			return nil
		}
		for _, g := range groups {
			fmt.Printf("%d\t%s\t%s\tinvite:%s\n", g.ID, g.Name, g.Type.Label(), g.InviteCode)
		}
		return nil
	},
}

var (
	groupType     string
	groupDesc     string
	groupInvitees string
)

var groupsCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a group",
	Long: `Creates a group and prints its invite code. Optional invitees are
invited by email, comma separated.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStack()
		if err != nil {
			return err
		}
		if err := st.requireLogin(); err != nil {
			return err
		}
		req := api.CreateGroupRequest{
			Name:        args[0],
			Type:        api.GroupType(strings.ToUpper(groupType)),
			Description: groupDesc,
		}
		for _, part := range strings.Split(groupInvitees, ",") {
			if email := strings.TrimSpace(part); email != "" {
				req.InviteeEmails = append(req.InviteeEmails, email)
			}
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
		defer cancel()
		g, err := st.client.CreateGroupWithInvites(ctx, req)
		if err != nil {
			return err
		}
		logger.Info("group created", zap.Int64("id", g.ID), zap.String("name", g.Name))
		fmt.Printf("created %q (id %d), invite code %s\n", g.Name, g.ID, g.InviteCode)
		return nil
	},
}

var groupsJoinCmd = &cobra.Command{
	Use:   "join [invite-code]",
	Short: "Join a group by invite code",
	Args:  cobra.ExactArgs(1),
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
		g, err := st.client.JoinGroup(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("joined %q\n", g.Name)
		return nil
	},
}

var groupsDeleteCmd = &cobra.Command{
	Use:   "delete [group-id]",
	Short: "Delete a group you created",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStack()
		if err != nil {
			return err
		}
		if err := st.requireLogin(); err != nil {
			return err
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid group id %q", args[0])
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
		defer cancel()
		if err := st.client.DeleteGroup(ctx, id); err != nil {
			return err
		}
		fmt.Println("group deleted")
		return nil
	},
}

func init() {
	groupsCreateCmd.Flags().StringVar(&groupType, "type", "FRIEND", "group type: COUPLE, FAMILY, FRIEND, TEAM, ETC")
	groupsCreateCmd.Flags().StringVar(&groupDesc, "description", "", "group description")
	groupsCreateCmd.Flags().StringVar(&groupInvitees, "invite", "", "invitee emails, comma separated")

	groupsCmd.AddCommand(groupsListCmd, groupsCreateCmd, groupsJoinCmd, groupsDeleteCmd)
	rootCmd.AddCommand(groupsCmd)
}
