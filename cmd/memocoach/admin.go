package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/memoai-dev/memocoach"
	"github.com/memoai-dev/memocoach/pkg/service"
	"github.com/spf13/cobra"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "User and configuration management (admin accounts only)",
	}
	cmd.AddCommand(adminUsersCmd(), adminConfigCmd())
	return cmd
}

func adminUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all user accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(app *memocoach.App) error {
				res, err := app.Auth.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				if !res.Success {
					return fmt.Errorf("list users failed: %s", res.Error)
				}
				var payload struct {
					Users []service.UserRecord `json:"users"`
				}
				if err := res.Decode(&payload); err != nil {
					return err
				}
				for _, u := range payload.Users {
					role := "user"
					if u.IsAdmin {
						role = "admin"
					}
					info("%-20s %-6s id=%d", u.Username, role, u.UserID)
				}
				success("%d account(s)", len(payload.Users))
				return nil
			})
		},
	})

	var createAdmin bool
	create := &cobra.Command{
		Use:   "create <username> <password>",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(app *memocoach.App) error {
				res, err := app.Auth.CreateUser(cmd.Context(), service.NewUser{
					Username: args[0],
					Password: args[1],
					IsAdmin:  createAdmin,
				})
				if err != nil {
					return err
				}
				if !res.Success {
					return fmt.Errorf("create user failed: %s", res.Error)
				}
				success("created %s", args[0])
				return nil
			})
		},
	}
	create.Flags().BoolVar(&createAdmin, "admin", false, "grant admin privileges")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(app *memocoach.App) error {
				res, err := app.Auth.DeleteUser(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !res.Success {
					return fmt.Errorf("delete user failed: %s", res.Error)
				}
				success("deleted %s", args[0])
				return nil
			})
		},
	})

	return cmd
}

func adminConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage service configuration documents",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <name>",
		Short: "Print a configuration document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(app *memocoach.App) error {
				res, err := app.Auth.GetConfig(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !res.Success {
					return fmt.Errorf("get config failed: %s", res.Error)
				}
				pretty, err := json.MarshalIndent(res.Data, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(pretty))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <name> <file>",
		Short: "Replace a configuration document from a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			var content any
			if err := json.Unmarshal(raw, &content); err != nil {
				return fmt.Errorf("%s is not valid JSON: %w", args[1], err)
			}
			return withSession(cmd.Context(), func(app *memocoach.App) error {
				res, err := app.Auth.UpdateConfig(cmd.Context(), args[0], content)
				if err != nil {
					return err
				}
				if !res.Success {
					return fmt.Errorf("update config failed: %s", res.Error)
				}
				success("updated %s", args[0])
				return nil
			})
		},
	})

	return cmd
}
