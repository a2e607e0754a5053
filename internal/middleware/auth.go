package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/msv-stihl/limpeza/internal/pkg/response"
)

type contextKey string

const usernameKey contextKey = "username"

// UsernameFromContext returns the operator set by AdminOnly.
func UsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(usernameKey).(string)
	return name, ok && name != ""
}

// AdminOnly lets through tokens whose role is admin or superadmin. It must
// run after jwtauth.Verifier and jwtauth.Authenticator.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			response.RespondWithError(w, http.StatusForbidden, "Role not found")
			return
		}
		switch role {
		case "admin", "superadmin":
		default:
			response.RespondWithError(w, http.StatusForbidden, "Access denied")
			return
		}

		if user, ok := claims["user"].(string); ok {
			r = r.WithContext(context.WithValue(r.Context(), usernameKey, user))
		}
		next.ServeHTTP(w, r)
	})
}
