// Package ctxkeys holds the typed context keys shared between the API
// middleware and handlers. It is a leaf package so both can import it
// without a cycle.
package ctxkeys

import "context"

// key is unexported so no other package can construct colliding keys.
type key string

const (
	userID key = "user_id"
	email  key = "email"
	token  key = "token"
)

// WithUser stores the authenticated user's identity and raw token.
// Injected by the auth middleware from verified JWT claims.
func WithUser(ctx context.Context, id int64, emailAddr, rawToken string) context.Context {
	ctx = context.WithValue(ctx, userID, id)
	ctx = context.WithValue(ctx, email, emailAddr)
	return context.WithValue(ctx, token, rawToken)
}

// UserID returns the authenticated user's ID.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userID).(int64)
	return id, ok
}

// Email returns the authenticated user's email.
func Email(ctx context.Context) (string, bool) {
	e, ok := ctx.Value(email).(string)
	return e, ok
}

// Token returns the raw bearer token the request authenticated with.
// Logout needs it to blocklist the exact token.
func Token(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(token).(string)
	return t, ok
}
