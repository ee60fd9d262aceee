package coachtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// Account is a configured user of the fake service.
type Account struct {
	Username string
	Password string
	IsAdmin  bool
	UserID   int64
	Locked   bool
}

// Server is an in-process fake Memo AI service.
type Server struct {
	httpServer *httptest.Server

	mu          sync.Mutex
	accounts    map[string]*Account
	tokens      map[string]string // token -> username
	evaluations map[string]map[string]any
	configs     map[string]any
	nextID      int64
	nextEval    int

	loginCalls    int
	validateCalls int
	logoutCalls   int
	submitCalls   int
}

// ServerOption configures the fake service.
type ServerOption func(*Server)

// WithUser registers an account.
func WithUser(username, password string, admin bool) ServerOption {
	return func(s *Server) {
		s.nextID++
		s.accounts[username] = &Account{
			Username: username,
			Password: password,
			IsAdmin:  admin,
			UserID:   s.nextID,
		}
	}
}

// WithLockedUser registers an account whose logins always fail with
// AUTH_ACCOUNT_LOCKED.
func WithLockedUser(username, password string) ServerOption {
	return func(s *Server) {
		s.nextID++
		s.accounts[username] = &Account{
			Username: username,
			Password: password,
			UserID:   s.nextID,
			Locked:   true,
		}
	}
}

// NewServer starts a fake Memo AI service. Close it when done.
func NewServer(opts ...ServerOption) *Server {
	s := &Server{
		accounts:    make(map[string]*Account),
		tokens:      make(map[string]string),
		evaluations: make(map[string]map[string]any),
		configs:     make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Post("/api/v1/auth/login", s.handleLogin)
	r.Get("/api/v1/auth/validate", s.handleValidate)
	r.Post("/api/v1/auth/logout", s.handleLogout)
	r.Post("/api/v1/evaluations/submit", s.handleSubmit)
	r.Get("/api/v1/evaluations/{id}", s.handleGetEvaluation)
	r.Get("/api/v1/admin/users", s.handleListUsers)
	r.Post("/api/v1/admin/users/create", s.handleCreateUser)
	r.Delete("/api/v1/admin/users/{username}", s.handleDeleteUser)
	r.Get("/api/v1/admin/config/{name}", s.handleGetConfig)
	r.Put("/api/v1/admin/config/{name}", s.handleUpdateConfig)
	r.Get("/api/v1/config/frontend", s.handleFrontendConfig)
	r.Get("/health", s.handleHealth)

	s.httpServer = httptest.NewServer(r)
	return s
}

// URL returns the base URL of the fake service.
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Close shuts the fake service down.
func (s *Server) Close() {
	s.httpServer.Close()
}

// RevokeToken invalidates a previously issued session token, simulating
// server-side expiry. Subsequent authenticated calls with it get 401.
func (s *Server) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// RevokeAll invalidates every issued token.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = make(map[string]string)
}

// IssuedTokens returns the currently valid tokens.
func (s *Server) IssuedTokens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.tokens))
	for tok := range s.tokens {
		out = append(out, tok)
	}
	return out
}

// LoginCalls returns how many login requests reached the service.
func (s *Server) LoginCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loginCalls
}

// ValidateCalls returns how many validate requests reached the service.
func (s *Server) ValidateCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateCalls
}

// LogoutCalls returns how many logout requests reached the service.
func (s *Server) LogoutCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logoutCalls
}

// SubmitCalls returns how many evaluation submissions reached the service.
func (s *Server) SubmitCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitCalls
}

// --- response envelope helpers ---

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{
		"data": data,
		"meta": map[string]any{
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"request_id":  fmt.Sprintf("req-%d", time.Now().UnixNano()),
			"status_code": status,
		},
		"errors": []any{},
	})
}

func writeError(w http.ResponseWriter, status int, code any, message string) {
	writeJSON(w, status, map[string]any{
		"data": nil,
		"meta": map[string]any{
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"status_code": status,
		},
		"errors": []map[string]any{
			{"code": code, "message": message},
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// authenticate resolves the request's token header to an account.
func (s *Server) authenticate(r *http.Request) (*Account, bool) {
	token := r.Header.Get("X-Session-Token")
	if token == "" {
		return nil, false
	}
	username, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	account, ok := s.accounts[username]
	return account, ok
}

// --- handlers ---

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loginCalls++

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, 400, "malformed request body")
		return
	}

	account, ok := s.accounts[req.Username]
	if ok && account.Locked {
		writeError(w, http.StatusUnprocessableEntity, "AUTH_ACCOUNT_LOCKED",
			"account locked after repeated failures")
		return
	}
	if !ok || account.Password != req.Password {
		writeError(w, http.StatusUnprocessableEntity, "AUTH_INVALID_CREDENTIALS",
			"invalid username or password")
		return
	}

	token := fmt.Sprintf("token-%s-%d", account.Username, len(s.tokens)+1)
	s.tokens[token] = account.Username

	writeData(w, http.StatusOK, map[string]any{
		"session_token": token,
		"username":      account.Username,
		"is_admin":      account.IsAdmin,
		"user_id":       account.UserID,
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validateCalls++

	account, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTH_INVALID_TOKEN", "session token not recognized")
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"user_id":  account.UserID,
		"username": account.Username,
		"is_admin": account.IsAdmin,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutCalls++

	token := r.Header.Get("X-Session-Token")
	if _, ok := s.tokens[token]; !ok {
		writeError(w, http.StatusUnauthorized, "AUTH_INVALID_TOKEN", "session token not recognized")
		return
	}
	delete(s.tokens, token)
	writeData(w, http.StatusOK, map[string]any{"logged_out": true})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitCalls++

	if _, ok := s.authenticate(r); !ok {
		writeError(w, http.StatusUnauthorized, "AUTH_INVALID_TOKEN", "session token not recognized")
		return
	}

	var req struct {
		TextContent string `json:"text_content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TextContent == "" {
		writeError(w, http.StatusOK, 400, "Text content is required")
		return
	}

	s.nextEval++
	eval := map[string]any{
		"id":            fmt.Sprintf("eval-%d", s.nextEval),
		"overall_score": 4.2,
		"strengths":     []string{"clear structure"},
		"opportunities": []string{"tighten the opening"},
		"rubric_scores": map[string]any{
			"clarity": map[string]any{"score": 4},
		},
		"processing_time": 1.5,
		"created_at":      time.Now().UTC().Format(time.RFC3339),
	}
	s.evaluations[eval["id"].(string)] = eval

	writeData(w, http.StatusOK, map[string]any{"evaluation": eval})
}

func (s *Server) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.authenticate(r); !ok {
		writeError(w, http.StatusUnauthorized, "AUTH_INVALID_TOKEN", "session token not recognized")
		return
	}
	eval, ok := s.evaluations[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, 404, "evaluation not found")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"evaluation": eval})
}

// requireAdmin authenticates and checks the admin flag, writing the
// appropriate error itself. Callers bail out when it returns false.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	account, ok := s.authenticate(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTH_INVALID_TOKEN", "session token not recognized")
		return false
	}
	if !account.IsAdmin {
		writeError(w, http.StatusForbidden, 403, "admin access required")
		return false
	}
	return true
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.requireAdmin(w, r) {
		return
	}
	users := make([]map[string]any, 0, len(s.accounts))
	for _, a := range s.accounts {
		users = append(users, map[string]any{
			"user_id":   a.UserID,
			"username":  a.Username,
			"is_admin":  a.IsAdmin,
			"is_active": !a.Locked,
		})
	}
	writeData(w, http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.requireAdmin(w, r) {
		return
	}
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"is_admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		writeError(w, http.StatusOK, 400, "username is required")
		return
	}
	if _, exists := s.accounts[req.Username]; exists {
		writeError(w, http.StatusOK, 409, "username already exists")
		return
	}
	s.nextID++
	s.accounts[req.Username] = &Account{
		Username: req.Username,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
		UserID:   s.nextID,
	}
	writeData(w, http.StatusOK, map[string]any{"username": req.Username, "user_id": s.nextID})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.requireAdmin(w, r) {
		return
	}
	username := chi.URLParam(r, "username")
	if _, ok := s.accounts[username]; !ok {
		writeError(w, http.StatusNotFound, 404, "user not found")
		return
	}
	delete(s.accounts, username)
	writeData(w, http.StatusOK, map[string]any{"deleted": username})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.requireAdmin(w, r) {
		return
	}
	name := chi.URLParam(r, "name")
	content, ok := s.configs[name]
	if !ok {
		writeError(w, http.StatusNotFound, 404, "config not found")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"name": name, "content": content})
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.requireAdmin(w, r) {
		return
	}
	var req struct {
		Content any `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusOK, 400, "malformed request body")
		return
	}
	name := chi.URLParam(r, "name")
	s.configs[name] = req.Content
	writeData(w, http.StatusOK, map[string]any{"name": name, "updated": true})
}

func (s *Server) handleFrontendConfig(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]any{
		"session_warning_threshold": 10,
		"session_refresh_interval":  60,
		"debug_console_log_limit":   50,
		"llm_timeout_expectation":   15,
		"default_response_time":     1000,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	// Health is the one unwrapped endpoint.
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"services": map[string]string{
			"api":      "healthy",
			"database": "healthy",
			"llm":      "healthy",
		},
	})
}
