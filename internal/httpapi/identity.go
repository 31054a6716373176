package httpapi

import "context"

type ctxKey int

const tcIDKey ctxKey = 0

// WithTCID binds the authenticated account id to a request context.
// The binding is request-scoped; nothing identity-related is shared
// across requests.
func WithTCID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, tcIDKey, id)
}

// TCIDFromContext returns the authenticated account id bound by the
// request gate, or false on an ungated request.
func TCIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(tcIDKey).(int64)
	return id, ok
}
