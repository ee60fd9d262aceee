// Package memocoach provides the public API for the Memo AI Coach client.
//
// This is the recommended import for most applications:
//
//	import "github.com/memoai-dev/memocoach"
//
// New wires the full client: the in-memory session store, the gateway HTTP
// client that injects the session credential and reacts to 401s, the
// navigation guard, and the typed endpoint services. The pieces form an
// explicit dependency graph — there is no global state:
//
//	app, err := memocoach.New(memocoach.Config{
//	    BaseURL:   "https://coach.example.com",
//	    Navigator: gateway.NavigatorFunc(showView),
//	})
//	if err != nil {
//	    // ...
//	}
//	if err := app.Session.Login(ctx, username, password); err != nil {
//	    // render err under the form
//	}
//	switch d := app.Guard.Resolve(ctx, "/text-input"); d.Outcome {
//	case guard.Allow:
//	    record, err := app.Evaluations.Submit(ctx, draft)
//	    // ...
//	default:
//	    showView(d.Location)
//	}
package memocoach

import (
	"errors"
	"log/slog"
	"time"

	"github.com/memoai-dev/memocoach/pkg/evaluation"
	"github.com/memoai-dev/memocoach/pkg/gateway"
	"github.com/memoai-dev/memocoach/pkg/guard"
	"github.com/memoai-dev/memocoach/pkg/service"
	"github.com/memoai-dev/memocoach/pkg/session"
)

// Config configures a client App.
type Config struct {
	// BaseURL is the Memo AI service URL. Required.
	BaseURL string

	// Timeout is the fixed per-request budget. Default: gateway.DefaultTimeout.
	Timeout time.Duration

	// TokenHeader overrides the credential header name.
	// Default: gateway.DefaultTokenHeader.
	TokenHeader string

	// Navigator receives the forced redirect to the login view after a 401.
	// Optional; without it the teardown still happens, only the redirect is
	// skipped.
	Navigator gateway.Navigator

	// Routes overrides the route table. Default: guard.DefaultTable().
	Routes *guard.Table

	// Middleware is appended to the gateway transport chain (metrics,
	// tracing, ...).
	Middleware []gateway.Middleware

	// Logger is used by all components. Default: slog.Default().
	Logger *slog.Logger
}

// App is a fully wired Memo AI client.
type App struct {
	// Session owns the user record and credential.
	Session *session.Store

	// Gateway is the shared HTTP client. Services already use it; it is
	// exposed for callers adding their own endpoints.
	Gateway *gateway.Client

	// Guard authorizes route transitions.
	Guard *guard.Guard

	// Auth, Evaluations, ServiceConfig and Health are the typed endpoint
	// clients.
	Auth          *service.Auth
	Evaluations   *evaluation.Store
	EvaluationAPI *service.Evaluation
	ServiceConfig *service.Config
	Health        *service.Health
}

// ErrMissingBaseURL is returned by New when no service URL is configured.
var ErrMissingBaseURL = errors.New("memocoach: BaseURL is required")

// New wires an App. Construction order matters and resolves the mutual
// dependency between store and gateway: the store exists first, the gateway
// reads its credential and invalidates it on 401, and the auth service is
// bound back onto the store last. The guard is created after the store, so
// its bootstrap fail-open path never triggers for apps built here.
func New(cfg Config) (*App, error) {
	if cfg.BaseURL == "" {
		return nil, ErrMissingBaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store := session.New(session.WithLogger(logger))

	opts := []gateway.Option{
		gateway.WithCredentials(store),
		gateway.WithUnauthorizedHook(store.Invalidate),
		gateway.WithLogger(logger),
		gateway.WithMiddleware(cfg.Middleware...),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, gateway.WithTimeout(cfg.Timeout))
	}
	if cfg.TokenHeader != "" {
		opts = append(opts, gateway.WithTokenHeader(cfg.TokenHeader))
	}
	if cfg.Navigator != nil {
		opts = append(opts, gateway.WithNavigator(cfg.Navigator))
	}
	gw := gateway.New(cfg.BaseURL, opts...)

	auth := service.NewAuth(gw)
	store.Bind(auth)

	evalAPI := service.NewEvaluation(gw)

	return &App{
		Session:       store,
		Gateway:       gw,
		Guard:         guard.New(cfg.Routes, store),
		Auth:          auth,
		Evaluations:   evaluation.New(evalAPI, logger),
		EvaluationAPI: evalAPI,
		ServiceConfig: service.NewConfig(gw, logger),
		Health:        service.NewHealth(gw),
	}, nil
}
