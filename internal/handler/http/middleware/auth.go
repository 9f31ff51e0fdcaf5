package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/timebank-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timebank-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timebank-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type claimsKey struct{}

// TokenFromQuery reads the token from the "token" query parameter. Browsers
// cannot set headers on EventSource connections.
func TokenFromQuery(r *http.Request) string {
	return r.URL.Query().Get("token")
}

// AuthRequired rejects requests without a verified token of one of the
// accepted types (access tokens when none are given) and stores the caller's
// claims in the request context.
func AuthRequired(tokenTypes ...string) func(http.Handler) http.Handler {
	if len(tokenTypes) == 0 {
		tokenTypes = []string{jwt.TypeAccess}
	}

	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, _ := claims["type"].(string)
			if !accepted(tokenType, tokenTypes) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			employeeID, _ := claims["employee_id"].(string)
			role, _ := claims["role"].(string)
			caller := auth.Claims{EmployeeID: employeeID, Role: auth.Role(role)}
			if employeeID == "" || !caller.Role.Valid() {
				response.HandleError(w, auth.ErrInvalidClaims)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), caller)))
		}
		return http.HandlerFunc(hfn)
	}
}

func accepted(tokenType string, types []string) bool {
	for _, t := range types {
		if t == tokenType {
			return true
		}
	}
	return false
}

func WithClaims(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the caller stored by AuthRequired.
func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(auth.Claims)
	return claims, ok
}
