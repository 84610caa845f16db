package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"infinite-experiment/flightlog/internal/auth"
	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTokenValidator struct {
	validateFunc func(ctx context.Context, token string) (*common.PilotToken, error)
}

func (m *mockTokenValidator) ValidateToken(ctx context.Context, token string) (*common.PilotToken, error) {
	return m.validateFunc(ctx, token)
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuthMiddleware(t *testing.T) {
	tokens := &mockTokenValidator{validateFunc: func(ctx context.Context, token string) (*common.PilotToken, error) {
		if token != "good" {
			return nil, errors.New("bad signature")
		}
		return &common.PilotToken{PilotID: "pilot-1", Roles: []string{"pireps", "unknown"}}, nil
	}}

	var seen auth.UserClaims
	handler := AuthMiddleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.GetUserClaims(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic Zm9vOmJhcg==", http.StatusUnauthorized},
		{"invalid token", "Bearer forged", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/pireps/1", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
		})
	}

	require.NotNil(t, seen)
	assert.Equal(t, "pilot-1", seen.UserID())
	assert.True(t, seen.HasRole(constants.RolePireps))
	assert.Len(t, seen.Roles(), 1, "unknown roles are dropped")
}

func TestIsStaffMiddleware(t *testing.T) {
	handler := IsStaffMiddleware()(http.HandlerFunc(okHandler))

	cases := []struct {
		name   string
		claims auth.UserClaims
		want   int
	}{
		{"no claims", nil, http.StatusForbidden},
		{"plain pilot", &auth.JWTClaims{PilotID: "p", RoleSet: constants.NewRoleSet()}, http.StatusForbidden},
		{"reviewer", &auth.JWTClaims{PilotID: "p", RoleSet: constants.NewRoleSet(constants.RolePireps)}, http.StatusOK},
		{"owner", &auth.JWTClaims{PilotID: "p", RoleSet: constants.NewRoleSet(constants.RoleOwner)}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/pireps/1/approve", nil)
			if tc.claims != nil {
				req = req.WithContext(auth.SetUserClaims(req.Context(), tc.claims))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 1, "10.0.0.1")
	handler := limiter.Middleware(http.HandlerFunc(okHandler))

	send := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, send("192.0.2.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, send("192.0.2.1:5678"))
	assert.Equal(t, http.StatusOK, send("192.0.2.2:1234"), "buckets are per IP")

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, send("10.0.0.1:80"), "whitelisted IPs are never limited")
	}
}

func TestRequestIDAndMetricsMiddleware(t *testing.T) {
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(MetricsMiddleware(reg))
	var requestID string
	r.Get("/pireps/{id}", func(w http.ResponseWriter, r *http.Request) {
		requestID = auth.GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/pireps/abc", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "req-42", requestID)
	assert.Equal(t, "req-42", rr.Header().Get("X-Request-ID"))

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pireps/def", nil))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
