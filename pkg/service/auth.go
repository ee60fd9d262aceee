package service

import (
	"context"
	"net/url"

	"github.com/memoai-dev/memocoach/pkg/gateway"
)

// Auth drives the authentication and admin endpoints.
type Auth struct {
	api *gateway.Client
}

// NewAuth creates the auth service over the shared gateway client.
func NewAuth(api *gateway.Client) *Auth {
	return &Auth{api: api}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginPayload is the data object of a successful login.
type LoginPayload struct {
	SessionToken string `json:"session_token"`
	Username     string `json:"username"`
	IsAdmin      bool   `json:"is_admin"`
	UserID       int64  `json:"user_id"`
}

// ValidatePayload is the data object of a successful session validation.
type ValidatePayload struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// UserRecord is an admin view of a user account.
type UserRecord struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	IsActive bool   `json:"is_active"`
}

// NewUser is an account-creation request.
type NewUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// Login exchanges credentials for a session token.
func (a *Auth) Login(ctx context.Context, username, password string) (gateway.Result, error) {
	return a.api.Post(ctx, "/api/v1/auth/login", loginRequest{
		Username: username,
		Password: password,
	})
}

// Validate checks the current session credential and returns the user it
// belongs to. The credential travels in the gateway's token header.
func (a *Auth) Validate(ctx context.Context) (gateway.Result, error) {
	return a.api.Get(ctx, "/api/v1/auth/validate")
}

// Logout invalidates the current session server-side. Callers treat this as
// best-effort; local teardown does not depend on it.
func (a *Auth) Logout(ctx context.Context) (gateway.Result, error) {
	return a.api.Post(ctx, "/api/v1/auth/logout", nil)
}

// ListUsers returns all user accounts. Admin only.
func (a *Auth) ListUsers(ctx context.Context) (gateway.Result, error) {
	return a.api.Get(ctx, "/api/v1/admin/users")
}

// CreateUser creates a user account. Admin only.
func (a *Auth) CreateUser(ctx context.Context, user NewUser) (gateway.Result, error) {
	return a.api.Post(ctx, "/api/v1/admin/users/create", user)
}

// DeleteUser removes a user account by username. Admin only.
func (a *Auth) DeleteUser(ctx context.Context, username string) (gateway.Result, error) {
	return a.api.Delete(ctx, "/api/v1/admin/users/"+url.PathEscape(username))
}

// GetConfig fetches a named service configuration document. Admin only.
func (a *Auth) GetConfig(ctx context.Context, name string) (gateway.Result, error) {
	return a.api.Get(ctx, "/api/v1/admin/config/"+url.PathEscape(name))
}

// UpdateConfig replaces a named service configuration document. Admin only.
func (a *Auth) UpdateConfig(ctx context.Context, name string, content any) (gateway.Result, error) {
	body := map[string]any{"content": content}
	return a.api.Put(ctx, "/api/v1/admin/config/"+url.PathEscape(name), body)
}
