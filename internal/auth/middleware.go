package auth

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"restaurant-pos/internal/apperr"
	"restaurant-pos/internal/httpx"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/models"
)

// Middleware resolves the bearer token into a Session.
func Middleware(tokens *TokenIssuer, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				httpx.WriteError(w, r, log, "auth_failed", apperr.ErrUnauthorized)
				return
			}

			session, err := tokens.Parse(token)
			if err != nil {
				httpx.WriteError(w, r, log, "auth_failed", err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireTenant rejects requests whose session cannot access the {tenantID}
// route variable.
func RequireTenant(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID, err := httpx.PathID(r, "tenantID")
			if err != nil {
				httpx.WriteError(w, r, log, "auth_failed", err)
				return
			}
			session, ok := FromContext(r.Context())
			if !ok {
				httpx.WriteError(w, r, log, "auth_failed", apperr.ErrUnauthorized)
				return
			}
			if !session.CanAccessTenant(tenantID) {
				httpx.WriteError(w, r, log, "auth_forbidden", apperr.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole wraps a handler so that only the listed roles reach it.
func RequireRole(log *logger.Logger, next http.HandlerFunc, roles ...models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := FromContext(r.Context())
		if !ok {
			httpx.WriteError(w, r, log, "auth_failed", apperr.ErrUnauthorized)
			return
		}
		if !session.HasRole(roles...) {
			httpx.WriteError(w, r, log, "auth_forbidden", apperr.ErrForbidden)
			return
		}
		next(w, r)
	}
}
