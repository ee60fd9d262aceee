// Package guard authorizes route transitions against the session state.
//
// The guard is a strictly sequential gate: each transition is resolved to
// exactly one terminal Decision (allow, redirect to login with a return
// path, or redirect home) before the next transition is evaluated. When a
// protected route is requested without an authenticated user, the guard
// first attempts a session validation; only if that fails does it redirect
// to login, preserving the originally requested path so the caller can
// return after logging in.
//
//	g := guard.New(guard.DefaultTable(), store)
//	switch d := g.Resolve(ctx, "/admin"); d.Outcome {
//	case guard.Allow:
//	    // render the view
//	case guard.RedirectLogin, guard.RedirectHome:
//	    navigate(d.Location)
//	}
package guard
