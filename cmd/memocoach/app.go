package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/memoai-dev/memocoach"
	"github.com/memoai-dev/memocoach/internal/config"
)

// newApp builds a wired client from config file, environment and flags.
func newApp() (*memocoach.App, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagURL != "" {
		cfg.BackendURL = flagURL
	}
	return memocoach.New(memocoach.Config{
		BaseURL:     cfg.BackendURL,
		Timeout:     cfg.Timeout(),
		TokenHeader: cfg.TokenHeader,
	})
}

// credentials resolves the account credentials from flags or environment.
func credentials() (username, password string, err error) {
	username = flagUsername
	if username == "" {
		username = os.Getenv("MEMOCOACH_USERNAME")
	}
	password = flagPassword
	if password == "" {
		password = os.Getenv("MEMOCOACH_PASSWORD")
	}
	if username == "" || password == "" {
		return "", "", errors.New("credentials required: use --username/--password or MEMOCOACH_USERNAME/MEMOCOACH_PASSWORD")
	}
	return username, password, nil
}

// withSession runs fn inside a logged-in session and always tears the
// session down afterwards, even when fn fails.
func withSession(ctx context.Context, fn func(app *memocoach.App) error) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	username, password, err := credentials()
	if err != nil {
		return err
	}
	if err := app.Session.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	defer app.Session.Logout(ctx)

	return fn(app)
}
