package api

import "context"

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated actor for one request. The auth middleware
// resolves it once at the boundary and handlers thread it into the core as
// plain values, no package in the core consults auth state itself.
type Identity struct {
	ActorID string
	Admin   bool
}

// WithIdentity stores the actor identity on the context
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the actor identity set by the auth middleware
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
