package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/response"
)

// RequireRole lets through callers holding any of roles. It must run after
// AuthRequired.
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if !claims.Is(roles...) {
				response.HandleError(w, auth.ErrAccessDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSupervisor allows supervisors and HR.
func RequireSupervisor(next http.Handler) http.Handler {
	return RequireRole(auth.RoleSupervisor, auth.RoleHR)(next)
}

// RequireHR allows HR only.
func RequireHR(next http.Handler) http.Handler {
	return RequireRole(auth.RoleHR)(next)
}
