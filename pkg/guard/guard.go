package guard

import (
	"context"
	"net/url"
	"sync"
)

// Outcome is the terminal result of a route transition.
type Outcome int

const (
	// Allow lets the transition proceed.
	Allow Outcome = iota

	// RedirectLogin sends the user to the login route, carrying the
	// originally requested path in the redirect query parameter.
	RedirectLogin

	// RedirectHome sends the user to the home route.
	RedirectHome
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Decision is the resolved authorization for one transition.
type Decision struct {
	Outcome Outcome

	// Location is the redirect target, including any query. Empty on Allow.
	Location string
}

// SessionState is the view of the session the guard needs. Satisfied by
// session.Store.
type SessionState interface {
	IsAuthenticated() bool
	IsAdmin() bool
	ValidateSession(ctx context.Context) bool
}

// Guard authorizes route transitions. A mutex serializes transitions so one
// is fully resolved, including any nested session validation, before the
// next is evaluated.
type Guard struct {
	mu      sync.Mutex
	table   *Table
	session SessionState
}

// New creates a guard over the given route table and session state.
// A nil session makes the guard fail open on every transition; that is
// acceptable only during bootstrap, and the facade package constructs the
// store before the guard so the window never occurs there.
func New(table *Table, session SessionState) *Guard {
	if table == nil {
		table = DefaultTable()
	}
	return &Guard{table: table, session: session}
}

// Resolve evaluates a transition to the target path (with optional query)
// and returns exactly one terminal decision.
func (g *Guard) Resolve(ctx context.Context, target string) Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	parsed, err := url.Parse(target)
	if err != nil {
		// An unparseable target cannot match a protected route.
		return Decision{Outcome: Allow}
	}
	path := parsed.Path

	// Rule 1: fail open while the session store is not observable yet.
	if g.session == nil {
		return Decision{Outcome: Allow}
	}

	// Rule 2: the login route itself. Authenticated users go home instead.
	if path == g.table.LoginPath() {
		if g.session.IsAuthenticated() {
			return Decision{Outcome: RedirectHome, Location: g.table.HomePath()}
		}
		return Decision{Outcome: Allow}
	}

	route := g.table.Route(path)

	// Rule 3: protected route without an authenticated user. One validation
	// attempt may rescue an existing credential; otherwise redirect to login
	// with the intended path preserved.
	if route.RequiresAuth || route.RequiresAdmin {
		if !g.session.IsAuthenticated() {
			if !g.session.ValidateSession(ctx) {
				return Decision{
					Outcome:  RedirectLogin,
					Location: g.loginRedirect(target),
				}
			}
		}

		// Rule 4: admin route, non-admin user.
		if route.RequiresAdmin && !g.session.IsAdmin() {
			return Decision{Outcome: RedirectHome, Location: g.table.HomePath()}
		}
	}

	// Rule 5: everything else proceeds.
	return Decision{Outcome: Allow}
}

// loginRedirect builds the login location carrying the intended path.
func (g *Guard) loginRedirect(intended string) string {
	q := url.Values{}
	q.Set("redirect", intended)
	return g.table.LoginPath() + "?" + q.Encode()
}
