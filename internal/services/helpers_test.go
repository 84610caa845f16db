package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/config"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/db/repositories"
	"infinite-experiment/flightlog/internal/models/dtos"
	gormModels "infinite-experiment/flightlog/internal/models/gorm"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

// Setup test database
func setupTestDB(t *testing.T) (*gorm.DB, *sqlx.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "Failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(gormModels.All()...), "Failed to migrate")

	t.Cleanup(func() { _ = sqlDB.Close() })

	return db, sqlx.NewDb(sqlDB, "sqlite3")
}

type recordingScheduler struct {
	mu          sync.Mutex
	evaluations []dtos.RankEvaluation
}

func (s *recordingScheduler) ScheduleRankEvaluation(ctx context.Context, evaluation dtos.RankEvaluation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evaluations = append(s.evaluations, evaluation)
}

func (s *recordingScheduler) Scheduled() []dtos.RankEvaluation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dtos.RankEvaluation(nil), s.evaluations...)
}

type mockNotifier struct {
	notifyFunc func(ctx context.Context, payload dtos.PirepCreatedPayload) error
	payloads   []dtos.PirepCreatedPayload
}

func (m *mockNotifier) NotifyPirepCreated(ctx context.Context, payload dtos.PirepCreatedPayload) error {
	m.payloads = append(m.payloads, payload)
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, payload)
	}
	return nil
}

// pirepFixture wires a PirepService against a fresh sqlite database
type pirepFixture struct {
	db        *gorm.DB
	svc       *PirepService
	scheduler *recordingScheduler
	notifier  *mockNotifier
	events    *repositories.PirepEventRepo
	pireps    *repositories.PirepRepo

	pilot    *gormModels.Pilot
	staff    *gormModels.Pilot
	aircraft *gormModels.Aircraft
}

// failingEventStore delegates to the real store unless appendFunc is set
type failingEventStore struct {
	PirepEventStore
	appendFunc func(ctx context.Context, event *gormModels.PirepEvent) error
}

func (s *failingEventStore) Append(ctx context.Context, event *gormModels.PirepEvent) error {
	if s.appendFunc != nil {
		if err := s.appendFunc(ctx, event); err != nil {
			return err
		}
	}
	return s.PirepEventStore.Append(ctx, event)
}

// failingLedger delegates to the real ledger unless totalFunc is set
type failingLedger struct {
	LedgerReader
	totalFunc func(ctx context.Context, pilotID string) (int, error)
}

func (l *failingLedger) LedgerTotal(ctx context.Context, pilotID string) (int, error) {
	if l.totalFunc != nil {
		return l.totalFunc(ctx, pilotID)
	}
	return l.LedgerReader.LedgerTotal(ctx, pilotID)
}

// newPirepFixture accepts options that swap collaborators before the service is built
func newPirepFixture(t *testing.T, opts ...func(deps *PirepServiceDeps)) *pirepFixture {
	t.Helper()

	db, sqlDB := setupTestDB(t)

	pilot := &gormModels.Pilot{Callsign: "VA001", Name: "Line Pilot"}
	require.NoError(t, db.Create(pilot).Error)

	staff := &gormModels.Pilot{Callsign: "VA002", Name: "Reviewer"}
	require.NoError(t, db.Create(staff).Error)
	require.NoError(t, db.Create(&gormModels.PilotRole{PilotID: staff.ID, Role: constants.RolePireps}).Error)

	aircraft := &gormModels.Aircraft{Name: "Boeing 777-300ER", IcaoType: "B77W", Registration: "G-STBA"}
	require.NoError(t, db.Create(aircraft).Error)

	cache := common.NewCacheService(600, 60)
	scheduler := &recordingScheduler{}
	notifier := &mockNotifier{}
	pireps := repositories.NewPirepRepo(db)
	events := repositories.NewPirepEventRepo(db)

	deps := PirepServiceDeps{
		Pireps:      pireps,
		Events:      events,
		Aircraft:    repositories.NewAircraftRepo(db),
		Multipliers: NewMultiplierService(repositories.NewMultiplierRepo(db), cache),
		Ranks:       NewRankService(repositories.NewRankRepo(db), cache),
		Ledger:      repositories.NewLedgerRepo(sqlDB),
		Roles:       repositories.NewPilotRepo(db),
		Scheduler:   scheduler,
		Notifier:    notifier,
		Limits:      config.PirepConfig{MaxCargoKg: 100000, MaxFuelKg: 200000},
	}
	for _, opt := range opts {
		opt(&deps)
	}
	svc := NewPirepService(deps)
	svc.SetClock(func() time.Time { return testNow })

	return &pirepFixture{
		db:        db,
		svc:       svc,
		scheduler: scheduler,
		notifier:  notifier,
		events:    events,
		pireps:    pireps,
		pilot:     pilot,
		staff:     staff,
		aircraft:  aircraft,
	}
}

func (f *pirepFixture) addMultiplier(t *testing.T, name string, value float64) *gormModels.Multiplier {
	t.Helper()
	m := &gormModels.Multiplier{Name: name, Value: value}
	require.NoError(t, f.db.Create(m).Error)
	return m
}

func (f *pirepFixture) addRank(t *testing.T, name string, minHours float64, maxHours *float64, aircraftIDs ...string) *gormModels.Rank {
	t.Helper()
	rank := &gormModels.Rank{Name: name, MinimumFlightTime: minHours, MaximumFlightTime: maxHours}
	require.NoError(t, f.db.Create(rank).Error)
	for _, id := range aircraftIDs {
		require.NoError(t, f.db.Create(&gormModels.RankAircraft{RankID: rank.ID, AircraftID: id}).Error)
	}
	return rank
}

func (f *pirepFixture) createRequest() *dtos.CreatePirepRequest {
	return &dtos.CreatePirepRequest{
		FlightNumber:  "BAW117",
		Date:          testNow.AddDate(0, 0, -1),
		DepartureIcao: "KJFK",
		ArrivalIcao:   "EGLL",
		FlightTime:    510,
		Cargo:         12000,
		FuelBurned:    68000,
		AircraftID:    f.aircraft.ID,
	}
}

func (f *pirepFixture) file(t *testing.T, req *dtos.CreatePirepRequest) *gormModels.Pirep {
	t.Helper()
	result, err := f.svc.CreatePirep(context.Background(), req, f.pilot.ID)
	require.NoError(t, err)
	return result.Pirep
}

func (f *pirepFixture) eventsFor(t *testing.T, pirepID string) []gormModels.PirepEvent {
	t.Helper()
	events, err := f.events.ListByPirep(context.Background(), pirepID)
	require.NoError(t, err)
	return events
}

func (f *pirepFixture) reload(t *testing.T, pirepID string) *gormModels.Pirep {
	t.Helper()
	pirep, err := f.pireps.GetByID(context.Background(), pirepID)
	require.NoError(t, err)
	require.NotNil(t, pirep)
	return pirep
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }
