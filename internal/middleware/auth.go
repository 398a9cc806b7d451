// Package middleware provides HTTP middleware components.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/waxlog/waxlog/internal/auth"
	"github.com/waxlog/waxlog/internal/model"
	"github.com/waxlog/waxlog/internal/repository"
	"github.com/waxlog/waxlog/internal/session"
)

// SessionResolver maps a session token to a user ID. An empty ID means
// no identity (missing, expired or invalid session).
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// UserSource loads users for role resolution.
type UserSource interface {
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// AuthConfig holds dependencies for the access-control gates.
type AuthConfig struct {
	Logger     *slog.Logger
	Sessions   SessionResolver
	Users      UserSource
	CookieName string
	Secret     string
}

// RequireAuth admits any request with a valid session, attaching the
// resolved identity to the request context. Everything else is denied
// with 401 before any handler runs.
func RequireAuth(cfg AuthConfig) func(http.Handler) http.Handler {
	return requireRole(cfg, "")
}

// RequireAdmin admits only sessions belonging to an admin user. Denial
// is the same 401 as RequireAuth: the API never signals a distinct
// "forbidden", so the existence of admin-only data is not leaked.
func RequireAdmin(cfg AuthConfig) func(http.Handler) http.Handler {
	return requireRole(cfg, model.RoleAdmin)
}

func requireRole(cfg AuthConfig, required model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// A request without a cookie is rejected with zero store
			// round-trips.
			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				writeAuthRequired(w)
				return
			}

			token, ok := session.ParseSignedToken(cfg.Secret, cookie.Value)
			if !ok {
				cfg.Logger.Warn("rejected tampered session cookie",
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthRequired(w)
				return
			}

			userID, err := cfg.Sessions.Resolve(r.Context(), token)
			if err != nil {
				// Fail closed on session-store errors.
				cfg.Logger.Error("session resolve failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthRequired(w)
				return
			}
			if userID == "" {
				writeAuthRequired(w)
				return
			}

			user, err := cfg.Users.GetUserByID(r.Context(), userID)
			if err != nil {
				if !errors.Is(err, repository.ErrUserNotFound) {
					cfg.Logger.Error("user lookup failed during auth",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				}
				writeAuthRequired(w)
				return
			}

			if required == model.RoleAdmin && !user.IsAdmin() {
				writeAuthRequired(w)
				return
			}

			identity := &auth.Identity{UserID: user.ID, Role: user.Role}
			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeAuthRequired writes the uniform 401 response. The same message is
// used for every denial reason to prevent enumeration.
func writeAuthRequired(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Authentication required"}`))
}
