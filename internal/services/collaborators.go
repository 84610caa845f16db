package services

import (
	"context"

	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/db/repositories"
	"infinite-experiment/flightlog/internal/models/dtos"
	gormModels "infinite-experiment/flightlog/internal/models/gorm"
)

// RankResolver maps a ledger total to a rank. A nil rank means the pilot has none
// yet, and rank based restrictions do not apply.
type RankResolver interface {
	ResolveRank(ctx context.Context, totalMinutes int) (*gormModels.Rank, error)
	AllowedAircraft(ctx context.Context, rankID string) ([]string, error)
}

type LedgerReader interface {
	LedgerTotal(ctx context.Context, pilotID string) (int, error)
	LedgerSummary(ctx context.Context, pilotID string) (*repositories.LedgerSummary, error)
}

// MultiplierResolver returns nil for an unknown id
type MultiplierResolver interface {
	ResolveMultiplier(ctx context.Context, id string) (*gormModels.Multiplier, error)
}

// RankEvaluationScheduler must never block the caller
type RankEvaluationScheduler interface {
	ScheduleRankEvaluation(ctx context.Context, evaluation dtos.RankEvaluation)
}

type PirepNotifier interface {
	NotifyPirepCreated(ctx context.Context, payload dtos.PirepCreatedPayload) error
}

type RoleResolver interface {
	RolesFor(ctx context.Context, actorID string) (constants.RoleSet, error)
}

type PirepStore interface {
	Create(ctx context.Context, pirep *gormModels.Pirep) error
	GetByID(ctx context.Context, id string) (*gormModels.Pirep, error)
	Save(ctx context.Context, pirep *gormModels.Pirep) error
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]gormModels.Pirep, error)
}

type PirepEventStore interface {
	Append(ctx context.Context, event *gormModels.PirepEvent) error
	ListByPirep(ctx context.Context, pirepID string) ([]gormModels.PirepEvent, error)
}

type AircraftStore interface {
	GetByID(ctx context.Context, id string) (*gormModels.Aircraft, error)
}

var (
	_ PirepStore      = (*repositories.PirepRepo)(nil)
	_ PirepEventStore = (*repositories.PirepEventRepo)(nil)
	_ AircraftStore   = (*repositories.AircraftRepo)(nil)
	_ LedgerReader    = (*repositories.LedgerRepo)(nil)
	_ RoleResolver    = (*repositories.PilotRepo)(nil)
)
