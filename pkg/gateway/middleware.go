package gateway

import "net/http"

// RoundTripFunc executes a single HTTP request.
type RoundTripFunc func(*http.Request) (*http.Response, error)

// Middleware wraps the transport with cross-cutting behavior. Middleware may
// mutate the request before calling next and inspect the response after.
type Middleware func(next RoundTripFunc) RoundTripFunc

// CredentialSource supplies the current session credential.
// An empty credential means the request is sent unauthenticated.
type CredentialSource interface {
	Credential() string
}

// CredentialFunc adapts a function to a CredentialSource.
type CredentialFunc func() string

// Credential implements CredentialSource.
func (f CredentialFunc) Credential() string { return f() }

// Navigator performs a client-side navigation. The host application adapts
// its routing mechanism (browser location, view switch) to this interface.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to a Navigator.
type NavigatorFunc func(path string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(path string) { f(path) }

// chain composes middleware around a transport. The first middleware is the
// outermost: it sees the request first and the response last.
func chain(base RoundTripFunc, mws ...Middleware) RoundTripFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// injectCredential attaches the session token header when a credential is
// present. Absence of a credential is not an error here; the server is the
// sole arbiter of whether an unauthenticated request is acceptable.
func injectCredential(header string, creds CredentialSource) Middleware {
	return func(next RoundTripFunc) RoundTripFunc {
		return func(req *http.Request) (*http.Response, error) {
			if creds != nil {
				if token := creds.Credential(); token != "" {
					req.Header.Set(header, token)
				}
			}
			return next(req)
		}
	}
}

// handleUnauthorized fires the hook and redirects to the login path on any
// 401 response, before the failure propagates to the caller. This keeps
// every part of the application from issuing further requests against a
// known-dead session.
func handleUnauthorized(hook func(), nav Navigator, loginPath string) Middleware {
	return func(next RoundTripFunc) RoundTripFunc {
		return func(req *http.Request) (*http.Response, error) {
			resp, err := next(req)
			if resp != nil && resp.StatusCode == http.StatusUnauthorized {
				if hook != nil {
					hook()
				}
				if nav != nil {
					nav.Navigate(loginPath)
				}
			}
			return resp, err
		}
	}
}
