package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/memoai-dev/memocoach/pkg/gateway"
)

// User is the authenticated user record.
type User struct {
	ID       int64  `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// AuthAPI is the remote auth surface the store drives. It is satisfied by
// service.Auth; the indirection keeps the store free of endpoint knowledge
// and breaks the construction cycle with the gateway.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (gateway.Result, error)
	Validate(ctx context.Context) (gateway.Result, error)
	Logout(ctx context.Context) (gateway.Result, error)
}

// Store holds the session record. The zero state is "logged out".
// All methods are safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	user       *User
	credential string
	loading    bool
	lastError  string

	api    AuthAPI
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates an empty session store. Bind must be called before any of the
// session operations are used; the facade package does this during wiring.
func New(opts ...Option) *Store {
	s := &Store{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bind attaches the remote auth API. Called once during application wiring,
// after the gateway (which reads this store's credential) exists.
func (s *Store) Bind(api AuthAPI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api = api
}

// loginPayload is the data object of a successful login response.
type loginPayload struct {
	SessionToken string `json:"session_token"`
	Username     string `json:"username"`
	IsAdmin      bool   `json:"is_admin"`
	UserID       int64  `json:"user_id"`
}

// validatePayload is the data object of a successful validate response.
type validatePayload struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Login authenticates against the service. On success the user record and
// credential are committed atomically and nil is returned. On failure the
// returned error is an *AuthError with a user-facing message; the previous
// session state is left untouched. Login never panics: anything unexpected
// maps to the generic failure.
func (s *Store) Login(ctx context.Context, username, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	s.mu.Lock()
	s.lastError = ""
	api := s.api
	s.mu.Unlock()

	if api == nil {
		return s.failLogin(&AuthError{Message: MessageLoginFailed})
	}

	res, err := api.Login(ctx, username, password)
	if err != nil {
		s.logger.Warn("session: login request failed", "error", err)
		return s.failLogin(&AuthError{Message: MessageLoginFailed})
	}

	if !res.Success {
		return s.failLogin(loginFailure(res.Code, res.Error))
	}

	var payload loginPayload
	if err := res.Decode(&payload); err != nil {
		s.logger.Warn("session: malformed login payload", "error", err)
		return s.failLogin(&AuthError{Message: MessageLoginFailed})
	}

	s.mu.Lock()
	s.user = &User{
		ID:       payload.UserID,
		Username: payload.Username,
		IsAdmin:  payload.IsAdmin,
	}
	s.credential = payload.SessionToken
	s.mu.Unlock()

	s.logger.Info("session: login succeeded", "username", payload.Username)
	return nil
}

func (s *Store) failLogin(authErr *AuthError) error {
	s.mu.Lock()
	s.lastError = authErr.Message
	s.mu.Unlock()
	return authErr
}

// ValidateSession checks the current credential against the service.
//
// Without a credential it returns false immediately, no network call. On
// success the user record is refreshed (credential unchanged). An explicit
// expiry or invalid-token code tears the session down. Any other failure
// returns false but leaves the session untouched: a transient network error
// must not silently deauthenticate a possibly-still-valid session.
func (s *Store) ValidateSession(ctx context.Context) bool {
	s.mu.RLock()
	credential := s.credential
	api := s.api
	s.mu.RUnlock()

	if credential == "" || api == nil {
		return false
	}

	s.setLoading(true)
	defer s.setLoading(false)

	res, err := api.Validate(ctx)
	if err != nil {
		s.logger.Warn("session: validate request failed", "error", err)
		return false
	}

	if res.Success {
		var payload validatePayload
		if err := res.Decode(&payload); err != nil {
			s.logger.Warn("session: malformed validate payload", "error", err)
			return false
		}
		s.mu.Lock()
		// Refresh the user only if the session was not torn down while the
		// call was in flight (e.g. by the gateway's 401 hook).
		if s.credential != "" {
			s.user = &User{
				ID:       payload.UserID,
				Username: payload.Username,
				IsAdmin:  payload.IsAdmin,
			}
		}
		s.mu.Unlock()
		return true
	}

	switch res.Code {
	case CodeSessionExpired, CodeInvalidToken:
		s.logger.Info("session: credential rejected, logging out", "code", res.Code)
		s.Logout(ctx)
	}
	return false
}

// Logout tears the session down. The remote logout is best-effort: teardown
// must succeed even when the server is unreachable. Idempotent.
func (s *Store) Logout(ctx context.Context) {
	s.mu.RLock()
	api := s.api
	hasCredential := s.credential != ""
	s.mu.RUnlock()

	if api != nil && hasCredential {
		if _, err := api.Logout(ctx); err != nil {
			s.logger.Debug("session: remote logout failed", "error", err)
		}
	}
	s.Invalidate()
}

// Invalidate clears the session record without a network call. The gateway's
// 401 hook uses this instead of Logout so a rejected request never spirals
// into a logout request that gets rejected again.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.user = nil
	s.credential = ""
	s.lastError = ""
	s.mu.Unlock()
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Credential returns the current session credential, empty when logged out.
// Implements gateway.CredentialSource.
func (s *Store) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// User returns a copy of the authenticated user record.
func (s *Store) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// IsAuthenticated reports whether a user is logged in.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// IsAdmin reports whether the authenticated user has admin privileges.
// False when logged out.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin
}

// Username returns the authenticated username, empty when logged out.
func (s *Store) Username() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Username
}

// Loading reports whether a login or validate call is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError returns the user-facing message of the last failed login,
// empty after a success or teardown.
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}
