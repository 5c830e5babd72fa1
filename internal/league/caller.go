package league

import "context"

// Principal identifies the caller of an operation.
type Principal string

// Anonymous is the principal of a call that carries no identity.
const Anonymous Principal = "anonymous"

type callerKey struct{}

func WithCaller(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, callerKey{}, p)
}

func CallerFrom(ctx context.Context) Principal {
	if p, ok := ctx.Value(callerKey{}).(Principal); ok && p != "" {
		return p
	}
	return Anonymous
}
