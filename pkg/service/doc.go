// Package service contains the typed Memo AI endpoint clients.
//
// Each service is a thin layer over the shared gateway client: it knows the
// endpoint paths and payload shapes, nothing about credentials or response
// envelopes — the gateway handles both. Auth additionally satisfies
// session.AuthAPI so the session store can drive the auth endpoints without
// importing this package's route knowledge.
package service
