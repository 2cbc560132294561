package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set-role <username> <user|premium|admin>",
		Short: "Change an account's role; takes effect at the next sign-in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(context.Background())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.services.Authorization.SetRole(args[0], args[1]); err != nil {
				return fmt.Errorf("set role: %w", err)
			}
			a.log.Infow("user_role_changed", "username", args[0], "role", args[1])
			fmt.Printf("%s is now %s\n", args[0], args[1])
			return nil
		},
	})
	return cmd
}
