package main

import (
	"github.com/memoai-dev/memocoach"
	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Verify credentials against the service",
		Long: `Logs in, validates the issued session, prints the account, and logs
out again. Useful as a connectivity and credentials check; no token is
kept anywhere.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(app *memocoach.App) error {
				user, ok := app.Session.User()
				if !ok {
					warn("login reported success but no user record is present")
					return nil
				}
				success("authenticated as %s", user.Username)
				info("user id:  %d", user.ID)
				info("is admin: %t", user.IsAdmin)

				if app.Session.ValidateSession(cmd.Context()) {
					success("session validated")
				} else {
					warn("session did not validate")
				}
				return nil
			})
		},
	}
}
