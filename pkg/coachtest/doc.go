// Package coachtest provides an in-process fake of the Memo AI service for
// tests.
//
// The fake speaks the real wire contract: the {data, meta, errors} response
// envelope, the X-Session-Token credential header, the auth error codes, and
// 401 for any authenticated endpoint hit with a missing or revoked token.
// Tests exercise a real client stack against it over HTTP:
//
//	srv := coachtest.NewServer(
//	    coachtest.WithUser("alice", "s3cret", false),
//	    coachtest.WithUser("root", "admin", true),
//	)
//	defer srv.Close()
//
//	app, _ := memocoach.New(memocoach.Config{BaseURL: srv.URL()})
//
// Call counters (LoginCalls, ValidateCalls, ...) let tests assert on wire
// traffic, e.g. that a validate without a credential never reaches the
// network.
package coachtest
