package middleware

import (
	"context"
	"io"
	"net/http"
	"strings"

	"courier-dispatch/internal/logx"
)

// Headers set by the upstream gateway after authenticating the caller.
const (
	HeaderCallerID   = "X-Caller-ID"
	HeaderCallerRole = "X-Caller-Role"
)

// Role is the kind of authenticated caller.
type Role string

// List of caller roles
const (
	RoleClient  Role = "client"
	RoleCourier Role = "courier"
)

// Caller is the authenticated identity of the request.
type Caller struct {
	ID   string
	Role Role
}

type callerKey struct{}

// WithCaller returns a copy of ctx carrying c.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFrom returns the caller placed in ctx by Identity.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey{}).(Caller)
	return c, ok
}

// Identity places the gateway-provided caller into the request context.
// Requests without identity headers pass through anonymous.
func Identity(logger logx.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(HeaderCallerID))
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			role := Role(strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderCallerRole))))
			if role != RoleClient && role != RoleCourier {
				logger.Warn("invalid caller role",
					logx.String("caller_id", id),
					logx.String("role", string(role)),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"error":"invalid caller role"}`)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), Caller{ID: id, Role: role})))
		})
	}
}
