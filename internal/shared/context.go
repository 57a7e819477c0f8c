package shared

import "context"

type contextKey string

const sessionContextKey contextKey = "session"

// ContextWithSession stores the session on the context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SessionFromContext retrieves the session, nil when unauthenticated.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey).(*Session)
	return sess
}

// UserIDFromContext is a convenience for handlers that only need the actor.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	sess := SessionFromContext(ctx)
	if sess == nil || sess.UserID == 0 {
		return 0, false
	}
	return sess.UserID, true
}
