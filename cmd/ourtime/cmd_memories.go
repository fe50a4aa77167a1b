package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var memoriesGroupID int64

var memoriesCmd = &cobra.Command{
	Use:   "memories",
	Short: "Browse memories",
}

var memoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List memories, optionally for one group",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := newStack()
		if err != nil {
			return err
		}
		if err := st.requireLogin(); err != nil {
			return err
		}
		var filter *int64
		if memoriesGroupID != 0 {
			filter = &memoriesGroupID
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
		defer cancel()
		memories, err := st.client.Memories(ctx, filter)
		if err != nil {
			return err
		}
		if len(memories) == 0 {
			fmt.Println("no memories")
			return nil
		}
		for _, m := range memories {
			fmt.Printf("%d\t%s\t%s\tby %s\t(%.4f, %.4f)\n",
				m.ID, m.VisitedAt, m.Title, m.User.Nickname, m.Latitude, m.Longitude)
		}
		return nil
	},
}

var memoriesShowCmd = &cobra.Command{
	Use:   "show [memory-id]",
	Short: "Show one memory with its comments",
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
			return fmt.Errorf("invalid memory id %q", args[0])
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
		defer cancel()
		m, err := st.client.Memory(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("%s\nby %s · visited %s · ♥ %d\n", m.Title, m.User.Nickname, m.VisitedAt, m.LikeCount)
		if m.LocationName != "" {
			fmt.Printf("at %s (%.4f, %.4f)\n", m.LocationName, m.Latitude, m.Longitude)
		}
		if m.Description != "" {
			fmt.Println("\n" + m.Description)
		}
		for _, t := range m.Tags {
			fmt.Printf("#%s ", t.Name)
		}
		if len(m.Tags) > 0 {
			fmt.Println()
		}

		comments, err := st.client.Comments(ctx, id)
		if err != nil {
			return err
		}
		if len(comments) > 0 {
			fmt.Println("\ncomments:")
			for _, c := range comments {
				fmt.Printf("  %s: %s\n", c.User.Nickname, c.Content)
			}
		}
		return nil
	},
}

func init() {
	memoriesListCmd.Flags().Int64Var(&memoriesGroupID, "group", 0, "only memories of this group id")

	memoriesCmd.AddCommand(memoriesListCmd, memoriesShowCmd)
	rootCmd.AddCommand(memoriesCmd)
}
