package middleware

import (
	"net/http"

	"clinic-appointment-service/pkg/jwt"
	"clinic-appointment-service/pkg/response"
)

// RequireRole checks that the authenticated actor holds one of the allowed
// roles. Role is read from context (set by AuthMiddleware from JWT claims).
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}

			allowed := false
			for _, allowedRole := range allowedRoles {
				if role == allowedRole {
					allowed = true
					break
				}
			}

			if !allowed {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(jwt.RoleAdmin)(next)
}

// RequireStaff allows both staff and admin actors
func RequireStaff(next http.Handler) http.Handler {
	return RequireRole(jwt.RoleStaff, jwt.RoleAdmin)(next)
}
