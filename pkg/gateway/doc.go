// Package gateway provides the single configured HTTP client shared by all
// Memo AI service clients.
//
// The gateway enforces two cross-cutting contracts so that individual
// services never have to:
//
//   - Credential injection: every outbound request carries the session token
//     header when a credential is present. Requests without a credential go
//     out unauthenticated; the server decides whether that is acceptable.
//   - Response normalization: the service wraps every JSON payload in a
//     {data, meta, errors} envelope. A 200 with a non-empty errors array is
//     a failure, not a success with nested errors.
//
// Expected HTTP and business failures are reported through the Result value,
// never as Go errors. A non-nil error from a verb method means the request
// could not even be constructed.
//
// Cross-cutting behavior is composed as middleware around the transport:
//
//	client := gateway.New("https://coach.example.com",
//	    gateway.WithCredentials(store),
//	    gateway.WithUnauthorizedHook(store.Invalidate),
//	    gateway.WithMiddleware(middleware.Metrics(), middleware.Tracing()),
//	)
//
// Any response with HTTP status 401, on any endpoint, fires the unauthorized
// hook and navigates to the login view before the failure reaches the caller.
package gateway
