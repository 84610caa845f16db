package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"infinite-experiment/flightlog/internal/auth"
	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/logging"
)

// TokenValidator decodes a bearer token into a pilot identity
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*common.PilotToken, error)
}

var _ TokenValidator = (*common.TokenSignerService)(nil)

func AuthMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, initTime, nil, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			token, err := tokens.ValidateToken(r.Context(), strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")))
			if err != nil {
				logging.Debug("Rejected bearer token", "error", err.Error(), "request_id", auth.GetRequestID(r.Context()))
				common.RespondError(w, initTime, nil, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			claims := &auth.JWTClaims{
				PilotID: token.PilotID,
				RoleSet: constants.ParseRoleSet(token.Roles),
				TokenID: token.TokenID,
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
