// Package middleware disponibiliza middlewares HTTP específicos da aplicação.
package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey string

const clientIDKey contextKey = "client_id"

// ClientIdentity resolves a best-effort client identifier and stores it in
// the request context. Precedence: the edge proxy's X-Real-IP, the first
// X-Forwarded-For entry, then the connection address. The raw string is used
// as-is as a map key; no IP format validation happens here.
func ClientIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), clientIDKey, extractIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientID returns the identifier resolved by ClientIdentity, or "unknown"
// when the middleware did not run.
func ClientID(ctx context.Context) string {
	if id, ok := ctx.Value(clientIDKey).(string); ok && id != "" {
		return id
	}
	return "unknown"
}

func extractIP(r *http.Request) string {
	xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if xRealIP != "" {
		return xRealIP
	}

	xForwardedFor := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xForwardedFor != "" {
		parts := strings.Split(xForwardedFor, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
