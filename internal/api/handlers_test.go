package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"infinite-experiment/flightlog/internal/auth"
	"infinite-experiment/flightlog/internal/config"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/metrics"
	"infinite-experiment/flightlog/internal/models/dtos"
	gormModels "infinite-experiment/flightlog/internal/models/gorm"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db       *gorm.DB
	sqlDB    *sqlx.DB
	deps     *Dependencies
	router   chi.Router
	pilot    *gormModels.Pilot
	staff    *gormModels.Pilot
	aircraft *gormModels.Aircraft
}

// withClaims stands in for the bearer token middleware
func withClaims(pilotID string, roles ...constants.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &auth.JWTClaims{PilotID: pilotID, RoleSet: constants.NewRoleSet(roles...)}
			next.ServeHTTP(w, r.WithContext(auth.SetUserClaims(r.Context(), claims)))
		})
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	rawDB, err := db.DB()
	require.NoError(t, err)
	rawDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = rawDB.Close() })
	require.NoError(t, db.AutoMigrate(gormModels.All()...))
	sqlDB := sqlx.NewDb(rawDB, "sqlite3")

	cfg := &config.Config{
		Pirep: config.PirepConfig{MaxCargoKg: 100000, MaxFuelKg: 100000},
		Rank:  config.RankConfig{QueueBackend: config.QueueBackendChannel, QueueWorkers: 1, QueueCapacity: 16},
	}
	deps, err := InitDependencies(cfg, db, sqlDB, nil, metrics.NewMetricsRegistry(prometheus.NewRegistry()))
	require.NoError(t, err)

	env := &testEnv{db: db, sqlDB: sqlDB, deps: deps}

	env.pilot = &gormModels.Pilot{Callsign: "VA001"}
	env.staff = &gormModels.Pilot{Callsign: "VA002"}
	require.NoError(t, db.Create(env.pilot).Error)
	require.NoError(t, db.Create(env.staff).Error)
	require.NoError(t, db.Create(&gormModels.PilotRole{PilotID: env.staff.ID, Role: constants.RoleAdmin}).Error)

	env.aircraft = &gormModels.Aircraft{Name: "Airbus A320", Registration: "G-EUUA"}
	require.NoError(t, db.Create(env.aircraft).Error)

	return env
}

// routerAs mounts the PIREP handlers for a fixed actor
func (e *testEnv) routerAs(pilotID string, roles ...constants.Role) http.Handler {
	h := NewHandlers(e.deps)
	r := chi.NewRouter()
	r.Use(withClaims(pilotID, roles...))
	r.Post("/pireps", h.CreatePirep())
	r.Get("/pireps/{id}", h.GetPirep())
	r.Patch("/pireps/{id}", h.EditPirep())
	r.Get("/pireps/{id}/events", h.ListPirepEvents())
	r.Post("/pireps/{id}/approve", h.ApprovePirep())
	r.Post("/pireps/{id}/deny", h.DenyPirep())
	r.Get("/pilots/{id}/ledger", h.GetPilotLedger())
	r.Get("/pilots/{id}/pireps", h.ListPilotPireps())
	return r
}

type envelope struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"error_code"`
	Data      json.RawMessage `json:"data"`
}

func do(t *testing.T, handler http.Handler, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var resp envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp), "body must be a JSON envelope")
	return rr, resp
}

func (e *testEnv) createBody() map[string]any {
	return map[string]any{
		"flight_number":  "EZY8001",
		"date":           time.Now().UTC().Format(time.RFC3339),
		"departure_icao": "EGKK",
		"arrival_icao":   "LFPG",
		"flight_time":    75,
		"cargo":          1500,
		"fuel_burned":    2400,
		"aircraft_id":    e.aircraft.ID,
	}
}

func (e *testEnv) filePirep(t *testing.T) dtos.PirepResponse {
	t.Helper()
	rr, resp := do(t, e.routerAs(e.pilot.ID), http.MethodPost, "/pireps", e.createBody())
	require.Equal(t, http.StatusCreated, rr.Code, resp.Message)

	var created dtos.CreatePirepResponse
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	return created.Pirep
}

func TestCreatePirepHandler_Success(t *testing.T) {
	env := setupTestEnv(t)

	rr, resp := do(t, env.routerAs(env.pilot.ID), http.MethodPost, "/pireps", env.createBody())

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "ok", resp.Status)

	var created dtos.CreatePirepResponse
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, 75, created.AdjustedFlightTime)
	assert.Equal(t, "pending", created.Pirep.Status)
	assert.Equal(t, env.pilot.ID, created.Pirep.OwnerID)
}

func TestCreatePirepHandler_ValidationError(t *testing.T) {
	env := setupTestEnv(t)
	body := env.createBody()
	body["departure_icao"] = "gatwick"

	rr, resp := do(t, env.routerAs(env.pilot.ID), http.MethodPost, "/pireps", body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, constants.ErrCodeValidation, resp.ErrorCode)
}

func TestCreatePirepHandler_UnknownField(t *testing.T) {
	env := setupTestEnv(t)
	body := env.createBody()
	body["status"] = "approved"

	rr, resp := do(t, env.routerAs(env.pilot.ID), http.MethodPost, "/pireps", body)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, constants.ErrCodeValidation, resp.ErrorCode)
}

func TestCreatePirepHandler_RankLimit(t *testing.T) {
	env := setupTestEnv(t)
	limit := 1.0
	require.NoError(t, env.db.Create(&gormModels.Rank{Name: "Cadet", MaximumFlightTime: &limit}).Error)

	rr, resp := do(t, env.routerAs(env.pilot.ID), http.MethodPost, "/pireps", env.createBody())

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, constants.ErrCodeRankLimitExceeded, resp.ErrorCode)
	assert.Equal(t, "Flight time of 1.25h exceeds the 1h limit for rank Cadet", resp.Message)

	var details map[string]string
	require.NoError(t, json.Unmarshal(resp.Data, &details))
	assert.Equal(t, "1.25h", details["entered_flight_time"])
	assert.Equal(t, "1h", details["flight_time_limit"])
	assert.Equal(t, "Cadet", details["rank"])
}

func TestEditPirepHandler_RejectsUnsafeEdits(t *testing.T) {
	env := setupTestEnv(t)
	pirep := env.filePirep(t)
	owner := env.routerAs(env.pilot.ID)

	rr, resp := do(t, owner, http.MethodPatch, "/pireps/"+pirep.ID, map[string]any{"flight_time_minutes": 45})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, constants.ErrCodeValidation, resp.ErrorCode)

	rr, resp = do(t, owner, http.MethodPatch, "/pireps/"+pirep.ID, map[string]any{"denied_reason": "self-set"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, constants.ErrCodePermissionDenied, resp.ErrorCode)

	rr, resp = do(t, owner, http.MethodGet, "/pireps/"+pirep.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var stored dtos.PirepResponse
	require.NoError(t, json.Unmarshal(resp.Data, &stored))
	assert.Equal(t, 75, stored.FlightTime)
	assert.Nil(t, stored.DeniedReason)
}

func TestListPilotPirepsHandler(t *testing.T) {
	env := setupTestEnv(t)
	env.filePirep(t)
	env.filePirep(t)
	router := env.routerAs(env.staff.ID)

	rr, resp := do(t, router, http.MethodGet, "/pilots/"+env.pilot.ID+"/pireps", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var pireps []dtos.PirepResponse
	require.NoError(t, json.Unmarshal(resp.Data, &pireps))
	assert.Len(t, pireps, 2)

	rr, resp = do(t, router, http.MethodGet, "/pilots/"+env.pilot.ID+"/pireps?limit=1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(resp.Data, &pireps))
	assert.Len(t, pireps, 1)

	rr, _ = do(t, router, http.MethodGet, "/pilots/"+env.staff.ID+"/pireps", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	for _, bad := range []string{"abc", "-1"} {
		rr, resp = do(t, router, http.MethodGet, "/pilots/"+env.pilot.ID+"/pireps?limit="+bad, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code, bad)
		assert.Equal(t, constants.ErrCodeValidation, resp.ErrorCode)
	}
}

func TestGetPirepHandler_NotFound(t *testing.T) {
	env := setupTestEnv(t)

	rr, resp := do(t, env.routerAs(env.pilot.ID), http.MethodGet, "/pireps/missing", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, constants.ErrCodeNotFound, resp.ErrorCode)
}

func TestPirepLifecycleHandlers(t *testing.T) {
	env := setupTestEnv(t)
	pirep := env.filePirep(t)
	owner := env.routerAs(env.pilot.ID)
	staff := env.routerAs(env.staff.ID, constants.RoleAdmin)

	rr, resp := do(t, owner, http.MethodPatch, "/pireps/"+pirep.ID, map[string]any{
		"flight_time_hours":   1,
		"flight_time_minutes": 30,
		"comments":            "Holding over BNN",
	})
	require.Equal(t, http.StatusOK, rr.Code, resp.Message)

	var edited dtos.PirepResponse
	require.NoError(t, json.Unmarshal(resp.Data, &edited))
	assert.Equal(t, 90, edited.FlightTime)
	require.NotNil(t, edited.Comments)

	rr, resp = do(t, owner, http.MethodPost, "/pireps/"+pirep.ID+"/approve", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, constants.ErrCodePermissionDenied, resp.ErrorCode)

	rr, _ = do(t, staff, http.MethodPost, "/pireps/"+pirep.ID+"/approve", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, resp = do(t, staff, http.MethodPost, "/pireps/"+pirep.ID+"/deny", dtos.DenyPirepRequest{Reason: "  "})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, constants.ErrCodeValidation, resp.ErrorCode)

	rr, resp = do(t, owner, http.MethodGet, "/pireps/"+pirep.ID+"/events", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var events []dtos.PirepEventResponse
	require.NoError(t, json.Unmarshal(resp.Data, &events))
	require.Len(t, events, 3)
	actions := []string{events[0].Action, events[1].Action, events[2].Action}
	assert.ElementsMatch(t, []string{"created", "edited", "approved"}, actions)

	rr, resp = do(t, owner, http.MethodGet, "/pilots/"+env.pilot.ID+"/ledger", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var ledger dtos.PilotLedgerResponse
	require.NoError(t, json.Unmarshal(resp.Data, &ledger))
	assert.Equal(t, 90, ledger.ApprovedMinutes)
	assert.Equal(t, "1.5h", ledger.ApprovedHours)
	assert.Equal(t, 1, ledger.ApprovedCount)
	assert.Nil(t, ledger.Rank)
}

func TestHealthCheckHandler(t *testing.T) {
	env := setupTestEnv(t)
	upSince := time.Now().Add(-time.Minute)

	rr := httptest.NewRecorder()
	HealthCheckHandler(env.sqlDB, nil, upSince).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp dtos.HealthCheckResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Contains(t, resp.Services, "postgres")
	assert.NotContains(t, resp.Services, "redis")
}
