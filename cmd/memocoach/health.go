package main

import (
	"github.com/spf13/cobra"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			status, err := app.Health.Check(cmd.Context())
			if err != nil {
				return err
			}
			if status.Healthy() {
				success("service is healthy")
			} else {
				warn("service status: %s", status.Status)
			}
			for name, state := range status.Services {
				info("%-10s %s", name, state)
			}
			return nil
		},
	}
}
