package workers

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/db/repositories"
	"infinite-experiment/flightlog/internal/logging"
	"infinite-experiment/flightlog/internal/metrics"
	"infinite-experiment/flightlog/internal/models/dtos"
	gormModels "infinite-experiment/flightlog/internal/models/gorm"
	"infinite-experiment/flightlog/internal/services"
)

// RankEvaluationHandler processes one queued evaluation
type RankEvaluationHandler interface {
	Evaluate(ctx context.Context, evaluation dtos.RankEvaluation) error
}

type PilotRankStore interface {
	GetByID(ctx context.Context, id string) (*gormModels.Pilot, error)
	UpdateCurrentRank(ctx context.Context, pilotID string, rankID *string) error
}

// PilotLedgerReader reads a pilot's approved total at evaluation time
type PilotLedgerReader interface {
	LedgerTotal(ctx context.Context, pilotID string) (int, error)
}

var (
	_ PilotRankStore    = (*repositories.PilotRepo)(nil)
	_ PilotLedgerReader = (*repositories.LedgerRepo)(nil)
)

const pilotLockStripes = 64

// Evaluation outcomes, used as metric labels
const (
	outcomeChanged      = "changed"
	outcomeUnchanged    = "unchanged"
	outcomeUnknownPilot = "unknown_pilot"
	outcomeError        = "error"
)

// RankEvaluator stores the rank a pilot's current ledger total resolves to.
// The queued totals only describe the change that triggered the evaluation: jobs for one
// pilot may finish out of order, so the total is read again under a per-pilot lock.
type RankEvaluator struct {
	ranks   services.RankResolver
	pilots  PilotRankStore
	ledger  PilotLedgerReader
	metrics *metrics.MetricsRegistry
	locks   [pilotLockStripes]sync.Mutex
}

func NewRankEvaluator(ranks services.RankResolver, pilots PilotRankStore, ledger PilotLedgerReader, metricsReg *metrics.MetricsRegistry) *RankEvaluator {
	return &RankEvaluator{
		ranks:   ranks,
		pilots:  pilots,
		ledger:  ledger,
		metrics: metricsReg,
	}
}

func (e *RankEvaluator) lockFor(pilotID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(pilotID))
	return &e.locks[h.Sum32()%pilotLockStripes]
}

func (e *RankEvaluator) Evaluate(ctx context.Context, evaluation dtos.RankEvaluation) error {
	outcome, err := e.evaluate(ctx, evaluation)
	if err != nil {
		outcome = outcomeError
	}
	e.metrics.RankEvaluation(outcome)
	return err
}

func (e *RankEvaluator) evaluate(ctx context.Context, evaluation dtos.RankEvaluation) (string, error) {
	lock := e.lockFor(evaluation.PilotID)
	lock.Lock()
	defer lock.Unlock()

	pilot, err := e.pilots.GetByID(ctx, evaluation.PilotID)
	if err != nil {
		return "", err
	}
	if pilot == nil {
		logging.Warn("[RankEvaluator] Evaluation for unknown pilot", "pilot_id", evaluation.PilotID, "source", evaluation.Source)
		return outcomeUnknownPilot, nil
	}

	total, err := e.ledger.LedgerTotal(ctx, pilot.ID)
	if err != nil {
		return "", fmt.Errorf("failed to read ledger total: %w", err)
	}

	rank, err := e.ranks.ResolveRank(ctx, total)
	if err != nil {
		return "", fmt.Errorf("failed to resolve rank: %w", err)
	}

	var rankID *string
	rankName := "none"
	if rank != nil {
		rankID = &rank.ID
		rankName = rank.Name
	}

	if common.StringPtrEqual(pilot.CurrentRankID, rankID) {
		return outcomeUnchanged, nil
	}

	if err := e.pilots.UpdateCurrentRank(ctx, pilot.ID, rankID); err != nil {
		return "", err
	}

	direction := "promoted"
	if evaluation.NewTotal < evaluation.OldTotal {
		direction = "demoted"
	}
	logging.Info("[RankEvaluator] Pilot rank changed",
		"pilot_id", pilot.ID,
		"callsign", pilot.Callsign,
		"direction", direction,
		"rank", rankName,
		"total", total,
		"queued_old_total", evaluation.OldTotal,
		"queued_new_total", evaluation.NewTotal,
		"source", evaluation.Source,
	)

	return outcomeChanged, nil
}
