package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags shared by all commands.
var (
	flagConfig   string
	flagURL      string
	flagUsername string
	flagPassword string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "memocoach",
		Short: "Command-line client for the Memo AI Coach service",
		Long: `memocoach talks to a Memo AI Coach service: submit text for
automated scoring, inspect results, and manage users and configuration.

Credentials come from --username/--password or the MEMOCOACH_USERNAME and
MEMOCOACH_PASSWORD environment variables. Each invocation logs in, acts,
and logs out; the session token is held in memory only and never written
to disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to memocoach.json")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "service base URL (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&flagUsername, "username", "u", "", "account username")
	rootCmd.PersistentFlags().StringVarP(&flagPassword, "password", "p", "", "account password")

	rootCmd.AddCommand(
		loginCmd(),
		submitCmd(),
		evaluationCmd(),
		adminCmd(),
		healthCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("memocoach %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
