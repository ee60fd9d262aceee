package guard_test

import (
	"context"
	"testing"

	"github.com/memoai-dev/memocoach/pkg/guard"
)

// fakeSession is a scriptable SessionState.
type fakeSession struct {
	authenticated bool
	admin         bool
	validateOK    bool
	validateCalls int

	// validateAuthenticates flips authenticated/admin when validation
	// succeeds, the way a real store refreshes itself.
	validateAdmin bool
}

func (f *fakeSession) IsAuthenticated() bool { return f.authenticated }
func (f *fakeSession) IsAdmin() bool         { return f.admin }

func (f *fakeSession) ValidateSession(ctx context.Context) bool {
	f.validateCalls++
	if f.validateOK {
		f.authenticated = true
		f.admin = f.validateAdmin
	}
	return f.validateOK
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name          string
		session       *fakeSession
		target        string
		want          guard.Outcome
		wantLocation  string
		wantValidates int
	}{
		{
			name:    "public route anonymous",
			session: &fakeSession{},
			target:  "/",
			want:    guard.Allow,
		},
		{
			name:    "login route anonymous",
			session: &fakeSession{},
			target:  "/login",
			want:    guard.Allow,
		},
		{
			name:         "login route authenticated goes home",
			session:      &fakeSession{authenticated: true},
			target:       "/login",
			want:         guard.RedirectHome,
			wantLocation: "/",
		},
		{
			name:    "protected route authenticated",
			session: &fakeSession{authenticated: true},
			target:  "/text-input",
			want:    guard.Allow,
		},
		{
			name:          "protected route anonymous redirects with return path",
			session:       &fakeSession{},
			target:        "/text-input",
			want:          guard.RedirectLogin,
			wantLocation:  "/login?redirect=%2Ftext-input",
			wantValidates: 1,
		},
		{
			name:          "stale credential rescued by validation",
			session:       &fakeSession{validateOK: true},
			target:        "/text-input",
			want:          guard.Allow,
			wantValidates: 1,
		},
		{
			name:    "admin route as admin",
			session: &fakeSession{authenticated: true, admin: true},
			target:  "/admin",
			want:    guard.Allow,
		},
		{
			name:         "admin route as regular user goes home",
			session:      &fakeSession{authenticated: true},
			target:       "/admin",
			want:         guard.RedirectHome,
			wantLocation: "/",
		},
		{
			name:          "admin route anonymous redirects to login first",
			session:       &fakeSession{},
			target:        "/admin",
			want:          guard.RedirectLogin,
			wantLocation:  "/login?redirect=%2Fadmin",
			wantValidates: 1,
		},
		{
			name:          "admin route rescued as non-admin goes home",
			session:       &fakeSession{validateOK: true},
			target:        "/admin",
			want:          guard.RedirectHome,
			wantLocation:  "/",
			wantValidates: 1,
		},
		{
			name:          "admin route rescued as admin",
			session:       &fakeSession{validateOK: true, validateAdmin: true},
			target:        "/admin",
			want:          guard.Allow,
			wantValidates: 1,
		},
		{
			name:    "unknown route anonymous",
			session: &fakeSession{},
			target:  "/no-such-page",
			want:    guard.Allow,
		},
		{
			name:          "query string preserved in return path",
			session:       &fakeSession{},
			target:        "/detailed-feedback?tab=rubric",
			want:          guard.RedirectLogin,
			wantLocation:  "/login?redirect=%2Fdetailed-feedback%3Ftab%3Drubric",
			wantValidates: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := guard.New(nil, tt.session)
			d := g.Resolve(context.Background(), tt.target)
			if d.Outcome != tt.want {
				t.Fatalf("outcome = %s, want %s", d.Outcome, tt.want)
			}
			if d.Location != tt.wantLocation {
				t.Errorf("location = %q, want %q", d.Location, tt.wantLocation)
			}
			if tt.session.validateCalls != tt.wantValidates {
				t.Errorf("validate calls = %d, want %d", tt.session.validateCalls, tt.wantValidates)
			}
		})
	}
}

func TestResolveNilSessionFailsOpen(t *testing.T) {
	g := guard.New(nil, nil)
	for _, target := range []string{"/", "/admin", "/text-input"} {
		if d := g.Resolve(context.Background(), target); d.Outcome != guard.Allow {
			t.Errorf("Resolve(%q) = %s, want allow before the session exists", target, d.Outcome)
		}
	}
}

func TestResolveCustomTable(t *testing.T) {
	table := guard.NewTable("/signin", "/dashboard",
		guard.Route{Path: "/dashboard", Name: "Dashboard", RequiresAuth: true},
		guard.Route{Path: "/signin", Name: "SignIn"},
	)
	g := guard.New(table, &fakeSession{authenticated: true})

	if d := g.Resolve(context.Background(), "/signin"); d.Outcome != guard.RedirectHome || d.Location != "/dashboard" {
		t.Errorf("signin while authenticated: %+v", d)
	}

	anon := guard.New(table, &fakeSession{})
	if d := anon.Resolve(context.Background(), "/dashboard"); d.Outcome != guard.RedirectLogin || d.Location != "/signin?redirect=%2Fdashboard" {
		t.Errorf("dashboard while anonymous: %+v", d)
	}
}

func TestOutcomeString(t *testing.T) {
	pairs := map[guard.Outcome]string{
		guard.Allow:         "allow",
		guard.RedirectLogin: "redirect-login",
		guard.RedirectHome:  "redirect-home",
		guard.Outcome(99):   "unknown",
	}
	for o, want := range pairs {
		if o.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(o), o.String(), want)
		}
	}
}
