package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ActorLookup resolves a login to the acting user. Implemented by
// user.Repository; session/token verification itself lives outside this app.
type ActorLookup interface {
	FindActorByEmail(ctx context.Context, email string) (*Actor, error)
}

// RequireUser is a minimal identity middleware for the staff-facing API.
//
// Contract:
// - Caller provides the acting user via `X-User-Email` header or `?actor=`.
// - Middleware loads the user record from DB and attaches it to context.
//
// Note: the session layer in front of this app (reverse proxy / SSO) is
// responsible for having authenticated that identity.
func RequireUser(lookup ActorLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := strings.TrimSpace(r.Header.Get("X-User-Email"))
			if email == "" {
				email = strings.TrimSpace(r.URL.Query().Get("actor"))
			}
			if email == "" {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
				return
			}

			a, err := lookup.FindActorByEmail(r.Context(), email)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unknown user")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), a)))
		})
	}
}

// RequireRole gates a route group to actors holding one of the given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a := ActorFromContext(r.Context())
			if a == nil {
				WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
				return
			}
			if !allowed[a.Role] {
				WriteError(w, http.StatusForbidden, "FORBIDDEN", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestLogger logs method, path, status and latency for every request.
func RequestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", sw.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
