// Package session owns the authenticated-user record and session credential
// for a Memo AI client.
//
// The Store is the only stateful piece of the authentication layer. Its two
// invariants:
//
//   - user and credential are set and cleared atomically together; no caller
//     can observe one present and the other absent.
//   - the credential lives in process memory only. It is never written to
//     disk, a session store, or any other durable location.
//
// The store performs no navigation itself. Route-level consequences of
// session changes are the guard package's responsibility, driven by the
// derived IsAuthenticated and IsAdmin flags.
//
// Overlapping Login or ValidateSession calls resolve as last-completion-wins.
// This is an accepted weak-consistency policy for user-driven auth actions,
// not a bug: the record is always replaced whole, so no torn state is
// observable.
package session
