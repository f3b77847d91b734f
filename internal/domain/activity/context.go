package activity

import "context"

type sessionKey struct{}

// WithSessionID attaches the caller's session to ctx so events carry it.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if sessionID == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionID returns the session attached by WithSessionID.
func SessionID(ctx context.Context) string {
	v, _ := ctx.Value(sessionKey{}).(string)
	return v
}
