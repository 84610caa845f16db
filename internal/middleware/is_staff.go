package middleware

import (
	"net/http"
	"time"

	"infinite-experiment/flightlog/internal/auth"
	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/constants"
)

// IsStaffMiddleware admits pilots holding any PIREP reviewing role
func IsStaffMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			claims := auth.GetUserClaims(r.Context())

			if claims != nil && constants.HasRequiredRole(claims.Roles(), constants.PrivilegedRoles) {
				next.ServeHTTP(w, r)
				return
			}
			common.RespondErrorCode(w, time.Now(), constants.ErrCodePermissionDenied, "Forbidden. Need PIREP staff perms", http.StatusForbidden, nil)
		})
	}
}
