package transport

import (
	"context"
	"net/http"
	"strings"
)

// Session headers, checked in order. Streamable MCP clients send the first;
// plain JSON-RPC callers may send the second.
var sessionHeaders = []string{"Mcp-Session-Id", "X-Session-Id"}

const maxSessionIDLength = 128

type sessionKey struct{}

// SessionIDFromContext returns the session ID from context, if present.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionKey{}).(string)
	return sessionID, ok
}

// sessionIDFromRequest returns the first usable session header value.
// Overlong values are ignored.
func sessionIDFromRequest(r *http.Request) string {
	for _, h := range sessionHeaders {
		v := strings.TrimSpace(r.Header.Get(h))
		if v != "" && len(v) <= maxSessionIDLength {
			return v
		}
	}
	return ""
}

// SessionMiddleware stores the caller's session ID in context so activity
// events can be attributed to it.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionID := sessionIDFromRequest(r); sessionID != "" {
			r = r.WithContext(context.WithValue(r.Context(), sessionKey{}, sessionID))
		}
		next.ServeHTTP(w, r)
	})
}
