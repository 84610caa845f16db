package services

import (
	"context"
	"strings"
	"time"

	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/config"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/logging"
	"infinite-experiment/flightlog/internal/metrics"
	"infinite-experiment/flightlog/internal/models/dtos"
	gormModels "infinite-experiment/flightlog/internal/models/gorm"
)

// PirepServiceDeps bundles the collaborators of PirepService
type PirepServiceDeps struct {
	Pireps      PirepStore
	Events      PirepEventStore
	Aircraft    AircraftStore
	Multipliers MultiplierResolver
	Ranks       RankResolver
	Ledger      LedgerReader
	Roles       RoleResolver
	Scheduler   RankEvaluationScheduler
	Notifier    PirepNotifier
	Limits      config.PirepConfig
	Metrics     *metrics.MetricsRegistry // optional
}

// PirepService owns the PIREP lifecycle: filing, editing, approving and denying
type PirepService struct {
	pireps      PirepStore
	validator   *PirepValidationService
	audit       *PirepAuditService
	multipliers MultiplierResolver
	ranks       RankResolver
	ledger      LedgerReader
	roles       RoleResolver
	scheduler   RankEvaluationScheduler
	notifier    PirepNotifier
	metrics     *metrics.MetricsRegistry
	now         func() time.Time
}

func NewPirepService(deps PirepServiceDeps) *PirepService {
	return &PirepService{
		pireps:      deps.Pireps,
		validator:   NewPirepValidationService(deps.Limits, deps.Aircraft, deps.Multipliers, deps.Ranks, deps.Ledger),
		audit:       NewPirepAuditService(deps.Events),
		multipliers: deps.Multipliers,
		ranks:       deps.Ranks,
		ledger:      deps.Ledger,
		roles:       deps.Roles,
		scheduler:   deps.Scheduler,
		notifier:    deps.Notifier,
		metrics:     deps.Metrics,
		now:         time.Now,
	}
}

// SetClock replaces the time source of the service and its validator
func (s *PirepService) SetClock(now func() time.Time) {
	s.now = now
	s.validator.now = now
}

// CreatePirepResult is returned by CreatePirep
type CreatePirepResult struct {
	Pirep              *gormModels.Pirep
	AdjustedFlightTime int
}

func (s *PirepService) rejected(err error) error {
	if pirepErr, ok := err.(*PirepError); ok && pirepErr.Code != constants.ErrCodePersistence {
		s.metrics.ValidationFailure(pirepErr.Code)
	}
	return err
}

// CreatePirep validates and files a new PIREP for pilotID.
//
// The row and its "created" event are committed before the notifier runs. A notifier
// failure is returned together with the populated result; the PIREP stays filed.
func (s *PirepService) CreatePirep(ctx context.Context, input *dtos.CreatePirepRequest, pilotID string) (*CreatePirepResult, error) {
	validated, err := s.validator.ValidateCreate(ctx, input, pilotID)
	if err != nil {
		return nil, s.rejected(err)
	}

	var multiplierValue *float64
	var multiplierID *string
	multiplierName := ""
	if validated.Multiplier != nil {
		multiplierValue = &validated.Multiplier.Value
		multiplierID = &validated.Multiplier.ID
		multiplierName = validated.Multiplier.Name
	}

	adjusted := common.ComputeAdjusted(input.FlightTime, multiplierValue)

	pirep := &gormModels.Pirep{
		FlightNumber:  strings.TrimSpace(input.FlightNumber),
		Date:          input.Date,
		DepartureIcao: input.DepartureIcao,
		ArrivalIcao:   input.ArrivalIcao,
		FlightTime:    adjusted,
		Cargo:         input.Cargo,
		FuelBurned:    input.FuelBurned,
		AircraftID:    validated.Aircraft.ID,
		MultiplierID:  multiplierID,
		Comments:      common.TrimmedOrNil(input.Comments),
		Status:        constants.PirepStatusPending,
		OwnerID:       pilotID,
	}

	if err := s.pireps.Create(ctx, pirep); err != nil {
		return nil, newPersistenceError(err)
	}

	log := logging.WithPirep(pirep.ID, pilotID)

	if _, err := s.audit.RecordCreated(ctx, pirep, validated.Aircraft.Label()); err != nil {
		log.Errorw("[PirepService] PIREP filed but created event was not recorded", "error", err.Error())
		return nil, newPersistenceError(err)
	}

	s.metrics.PirepCreated()
	log.Infow("[PirepService] PIREP filed",
		"flight_number", pirep.FlightNumber,
		"flight_time", adjusted,
	)

	result := &CreatePirepResult{
		Pirep:              pirep,
		AdjustedFlightTime: adjusted,
	}

	payload := dtos.PirepCreatedPayload{
		PirepID:            pirep.ID,
		PilotID:            pilotID,
		FlightNumber:       pirep.FlightNumber,
		DepartureIcao:      pirep.DepartureIcao,
		ArrivalIcao:        pirep.ArrivalIcao,
		AdjustedFlightTime: adjusted,
		AircraftLabel:      validated.Aircraft.Label(),
		MultiplierName:     multiplierName,
		FiledAt:            s.now().UTC(),
	}
	if err := s.notifier.NotifyPirepCreated(ctx, payload); err != nil {
		s.metrics.Notification("failed")
		log.Warnw("[PirepService] PIREP created notification failed", "error", err.Error())
		return result, &PirepError{
			Code:    constants.ErrCodeNotificationFailed,
			Message: constants.GetPirepErrorMessage(constants.ErrCodeNotificationFailed),
			Err:     err,
		}
	}
	s.metrics.Notification("sent")

	return result, nil
}

func (s *PirepService) getPirep(ctx context.Context, id string) (*gormModels.Pirep, error) {
	pirep, err := s.pireps.GetByID(ctx, id)
	if err != nil {
		return nil, newPersistenceError(err)
	}
	if pirep == nil {
		return nil, newNotFound(id)
	}
	return pirep, nil
}

// GetPirep returns a single PIREP
func (s *PirepService) GetPirep(ctx context.Context, id string) (*gormModels.Pirep, error) {
	return s.getPirep(ctx, id)
}

// ListEvents returns the audit trail of a PIREP, oldest first
func (s *PirepService) ListEvents(ctx context.Context, pirepID string) ([]gormModels.PirepEvent, error) {
	if _, err := s.getPirep(ctx, pirepID); err != nil {
		return nil, err
	}
	events, err := s.audit.ListEvents(ctx, pirepID)
	if err != nil {
		return nil, newPersistenceError(err)
	}
	return events, nil
}

// ListPilotPireps returns a pilot's PIREPs, newest flight first. limit 0 means the default page size.
func (s *PirepService) ListPilotPireps(ctx context.Context, pilotID string, limit int) ([]gormModels.Pirep, error) {
	switch {
	case limit < 0:
		return nil, newValidationError("Limit cannot be negative")
	case limit == 0:
		limit = constants.DefaultPirepListLimit
	case limit > constants.MaxPirepListLimit:
		limit = constants.MaxPirepListLimit
	}

	pireps, err := s.pireps.ListByOwner(ctx, pilotID, limit)
	if err != nil {
		return nil, newPersistenceError(err)
	}
	return pireps, nil
}

// multiplierValue returns the value of an optional multiplier; an unset or vanished one counts as 1
func (s *PirepService) multiplierValue(ctx context.Context, id *string) (float64, error) {
	if id == nil {
		return 1, nil
	}
	multiplier, err := s.multipliers.ResolveMultiplier(ctx, *id)
	if err != nil {
		return 0, newPersistenceError(err)
	}
	if multiplier == nil {
		logging.Warn("[PirepService] PIREP references a missing multiplier, treating it as 1", "multiplier_id", *id)
		return 1, nil
	}
	return multiplier.Value, nil
}

// EditPirep applies a partial update. Flight time is only recomputed when the caller
// entered a new duration or changed the multiplier.
func (s *PirepService) EditPirep(ctx context.Context, input *dtos.EditPirepRequest, actorID string, actorRoles constants.RoleSet) error {
	current, err := s.getPirep(ctx, input.ID)
	if err != nil {
		return err
	}

	validated, err := s.validator.ValidateEdit(ctx, input, current, actorID, actorRoles)
	if err != nil {
		return s.rejected(err)
	}

	before := *current
	updated := *current
	labels := DiffLabels{}

	if input.FlightNumber != nil {
		updated.FlightNumber = strings.TrimSpace(*input.FlightNumber)
	}
	if input.DepartureIcao != nil {
		updated.DepartureIcao = *input.DepartureIcao
	}
	if input.ArrivalIcao != nil {
		updated.ArrivalIcao = *input.ArrivalIcao
	}
	if input.Cargo != nil {
		updated.Cargo = *input.Cargo
	}
	if input.FuelBurned != nil {
		updated.FuelBurned = *input.FuelBurned
	}
	if validated.Aircraft != nil {
		updated.AircraftID = validated.Aircraft.ID
		labels.Aircraft = validated.Aircraft.Label()
	}
	if input.Comments != nil {
		updated.Comments = common.TrimmedOrNil(input.Comments)
	}
	if input.DeniedReason != nil {
		updated.DeniedReason = common.TrimmedOrNil(input.DeniedReason)
	}

	multiplierChanged := false
	if input.MultiplierID != nil {
		if validated.Multiplier != nil {
			updated.MultiplierID = &validated.Multiplier.ID
			labels.Multiplier = validated.Multiplier.Name
		} else {
			updated.MultiplierID = nil
		}
		multiplierChanged = !common.StringPtrEqual(before.MultiplierID, updated.MultiplierID)
	}

	switch {
	case input.HasDirectTimeChange():
		newValue, err := s.multiplierValue(ctx, updated.MultiplierID)
		if err != nil {
			return err
		}
		hours, minutes := input.RawTime()
		updated.FlightTime = common.RecomputeOnDirectTimeChange(hours, minutes, newValue)
	case multiplierChanged:
		oldValue, err := s.multiplierValue(ctx, before.MultiplierID)
		if err != nil {
			return err
		}
		newValue, err := s.multiplierValue(ctx, updated.MultiplierID)
		if err != nil {
			return err
		}
		updated.FlightTime = common.RecomputeOnMultiplierChange(before.FlightTime, oldValue, newValue)
	}

	previous, next, clauses := DiffPireps(&before, &updated, labels)
	flightTimeChanged := before.FlightTime != updated.FlightTime

	log := logging.WithPirep(current.ID, actorID)

	var ledgerBefore int
	ledgerKnown := false
	if flightTimeChanged {
		ledgerBefore, ledgerKnown = s.ledgerTotal(ctx, current.OwnerID)
	}

	if err := s.pireps.Save(ctx, &updated); err != nil {
		return newPersistenceError(err)
	}
	if _, err := s.audit.Record(ctx, current.ID, constants.EventActionEdited, actorID, EditDetails(clauses), previous, next); err != nil {
		log.Errorw("[PirepService] PIREP edited but event was not recorded", "error", err.Error())
		return newPersistenceError(err)
	}

	s.metrics.PirepEdited()
	log.Infow("[PirepService] PIREP edited", "changed_fields", next.Len())

	if flightTimeChanged && ledgerKnown {
		if ledgerAfter, ok := s.ledgerTotal(ctx, current.OwnerID); ok {
			s.scheduleEvaluation(ctx, current, ledgerBefore, ledgerAfter, constants.RankEvalSourceEdit)
		}
	}

	return nil
}

// ApprovePirep marks a PIREP approved. Approving an approved PIREP is allowed and logged again.
func (s *PirepService) ApprovePirep(ctx context.Context, id string, actorID string) error {
	if err := s.requirePrivileged(ctx, actorID, "approve"); err != nil {
		return err
	}

	pirep, err := s.getPirep(ctx, id)
	if err != nil {
		return err
	}

	return s.transition(ctx, pirep, actorID, constants.PirepStatusApproved, nil)
}

// DenyPirep marks a PIREP denied with a mandatory reason
func (s *PirepService) DenyPirep(ctx context.Context, id string, actorID string, reason string) error {
	trimmed, err := ValidateDenyReason(reason)
	if err != nil {
		return s.rejected(err)
	}

	if err := s.requirePrivileged(ctx, actorID, "deny"); err != nil {
		return err
	}

	pirep, err := s.getPirep(ctx, id)
	if err != nil {
		return err
	}

	return s.transition(ctx, pirep, actorID, constants.PirepStatusDenied, &trimmed)
}

func (s *PirepService) requirePrivileged(ctx context.Context, actorID string, verb string) error {
	roles, err := s.roles.RolesFor(ctx, actorID)
	if err != nil {
		return newPersistenceError(err)
	}
	if !constants.HasRequiredRole(roles, constants.PrivilegedRoles) {
		return s.rejected(newPermissionDenied("Only PIREP staff can " + verb + " PIREPs"))
	}
	return nil
}

func (s *PirepService) transition(ctx context.Context, pirep *gormModels.Pirep, actorID string, status constants.PirepStatus, deniedReason *string) error {
	before := *pirep
	updated := *pirep
	updated.Status = status

	action := constants.EventActionApproved
	details := "PIREP approved"
	if status == constants.PirepStatusDenied {
		action = constants.EventActionDenied
		updated.DeniedReason = deniedReason
		details = "PIREP denied: " + *deniedReason
	}

	previous, next, _ := DiffPireps(&before, &updated, DiffLabels{})

	ledgerBefore, ledgerKnown := s.ledgerTotal(ctx, pirep.OwnerID)

	if err := s.pireps.Save(ctx, &updated); err != nil {
		return newPersistenceError(err)
	}

	log := logging.WithPirep(pirep.ID, actorID)

	if _, err := s.audit.Record(ctx, pirep.ID, action, actorID, details, previous, next); err != nil {
		log.Errorw("[PirepService] PIREP status changed but event was not recorded", "status", status, "error", err.Error())
		return newPersistenceError(err)
	}

	s.metrics.PirepTransition(action.String())
	log.Infow("[PirepService] PIREP status changed", "from", before.Status, "to", status)

	if ledgerKnown {
		if ledgerAfter, ok := s.ledgerTotal(ctx, pirep.OwnerID); ok && ledgerAfter != ledgerBefore {
			source := constants.RankEvalSourceApprove
			if status == constants.PirepStatusDenied {
				source = constants.RankEvalSourceDeny
			}
			s.scheduleEvaluation(ctx, pirep, ledgerBefore, ledgerAfter, source)
		}
	}

	return nil
}

// ledgerTotal is best effort: a failure only skips the rank evaluation
func (s *PirepService) ledgerTotal(ctx context.Context, pilotID string) (int, bool) {
	total, err := s.ledger.LedgerTotal(ctx, pilotID)
	if err != nil {
		logging.Warn("[PirepService] Failed to read ledger total, skipping rank evaluation",
			"pilot_id", pilotID,
			"error", err.Error(),
		)
		return 0, false
	}
	return total, true
}

func (s *PirepService) scheduleEvaluation(ctx context.Context, pirep *gormModels.Pirep, oldTotal, newTotal int, source string) {
	s.scheduler.ScheduleRankEvaluation(ctx, dtos.RankEvaluation{
		PilotID:     pirep.OwnerID,
		PirepID:     pirep.ID,
		OldTotal:    oldTotal,
		NewTotal:    newTotal,
		Source:      source,
		RequestedAt: s.now().UTC(),
	})
}

// PilotLedger summarises a pilot's PIREPs and the rank their approved time resolves to
func (s *PirepService) PilotLedger(ctx context.Context, pilotID string) (*dtos.PilotLedgerResponse, error) {
	summary, err := s.ledger.LedgerSummary(ctx, pilotID)
	if err != nil {
		return nil, newPersistenceError(err)
	}

	response := &dtos.PilotLedgerResponse{
		PilotID:         pilotID,
		ApprovedMinutes: summary.ApprovedMinutes,
		ApprovedHours:   common.FormatHours(summary.ApprovedMinutes),
		ApprovedCount:   summary.ApprovedCount,
		PendingCount:    summary.PendingCount,
		DeniedCount:     summary.DeniedCount,
	}

	rank, err := s.ranks.ResolveRank(ctx, summary.ApprovedMinutes)
	if err != nil {
		return nil, newPersistenceError(err)
	}
	if rank != nil {
		response.Rank = &dtos.RankSummary{
			ID:                rank.ID,
			Name:              rank.Name,
			MinimumFlightTime: rank.MinimumFlightTime,
			MaximumFlightTime: rank.MaximumFlightTime,
		}
	}

	return response, nil
}
