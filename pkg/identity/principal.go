// Package identity carries the authenticated caller handle supplied by the
// external identity provider.
package identity

import "context"

// Principal is an opaque caller identifier. Only byte equality is meaningful.
type Principal string

// Anonymous is the well-known unauthenticated principal. It owns and is a
// member of the General channel.
const Anonymous Principal = "2vxsx-fae"

func (p Principal) String() string { return string(p) }

func (p Principal) IsZero() bool { return p == "" }

type ctxKey struct{}

// WithPrincipal stores the authenticated caller in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the caller stored by WithPrincipal.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok && !p.IsZero()
}
