package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"infinite-experiment/flightlog/internal/db"
	"infinite-experiment/flightlog/internal/models/dtos"
)

// HealthCheckHandler handles GET /healthCheck. redisClient may be nil.
func HealthCheckHandler(sqlDB *sqlx.DB, redisClient *redis.Client, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		services := make(map[string]dtos.ServiceStatus)

		// Check postgres
		pgStatus := dtos.ServiceStatus{Status: "ok", Details: "Postgres Connected"}
		if err := db.Ping(r.Context(), sqlDB); err != nil {
			pgStatus = dtos.ServiceStatus{Status: "down", Details: err.Error()}
		}
		services["postgres"] = pgStatus

		if redisClient != nil {
			redisStatus := dtos.ServiceStatus{Status: "ok", Details: "Redis Connected"}
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				redisStatus = dtos.ServiceStatus{Status: "down", Details: err.Error()}
			}
			cancel()
			services["redis"] = redisStatus
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		resp := dtos.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			UpSince:  upSince,
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
