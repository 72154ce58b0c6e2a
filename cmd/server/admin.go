package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/user-management-console/internal/models"
)

func newAddUserCommand() *cobra.Command {
	var u models.NewUser
	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Add a user to the roster without logging in",
		Long: "Add a user to the roster directly. Use this to create the first\n" +
			"AdminAccess account on an empty table.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			user, err := a.services.Directory.Add(cmd.Context(), &u)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User '%s' added with role '%s' and email '%s'\n",
				user.Username, user.Role.Label(), user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&u.Username, "username", "", "Username")
	cmd.Flags().StringVar(&u.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&u.Role, "role", string(models.RoleView), "Role: ViewAccess, EditAccess or AdminAccess")
	cmd.Flags().StringVar(&u.Password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUsersCommand() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Print the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			users, err := a.services.Directory.FilterByRole(cmd.Context(), role)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "USERNAME\tEMAIL\tROLE")
			for _, u := range users {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", u.Username, u.Email, u.Role)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&role, "role", models.RoleAll, "Only list users with this role")
	return cmd
}
