package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/config"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/models/dtos"
	gormModels "infinite-experiment/flightlog/internal/models/gorm"
)

// PirepValidationService runs every check a PIREP mutation must pass before anything is written
type PirepValidationService struct {
	limits      config.PirepConfig
	aircraft    AircraftStore
	multipliers MultiplierResolver
	ranks       RankResolver
	ledger      LedgerReader
	now         func() time.Time
}

func NewPirepValidationService(
	limits config.PirepConfig,
	aircraft AircraftStore,
	multipliers MultiplierResolver,
	ranks RankResolver,
	ledger LedgerReader,
) *PirepValidationService {
	return &PirepValidationService{
		limits:      limits,
		aircraft:    aircraft,
		multipliers: multipliers,
		ranks:       ranks,
		ledger:      ledger,
		now:         time.Now,
	}
}

// CreateValidation carries the records resolved while validating a new PIREP
type CreateValidation struct {
	Aircraft   *gormModels.Aircraft
	Multiplier *gormModels.Multiplier // nil when none was chosen
	Rank       *gormModels.Rank       // nil when the pilot has no rank yet
}

// EditValidation carries the records resolved while validating an edit.
// Nil entries mean the field was not changed by the request.
type EditValidation struct {
	Aircraft   *gormModels.Aircraft
	Multiplier *gormModels.Multiplier
}

func isIcao(code string) bool {
	if len(code) != 4 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return false
		}
	}
	return true
}

func validateIcao(field, code string) error {
	if !isIcao(code) {
		return newValidationError("%s must be a 4 letter uppercase ICAO code, got %q", field, code)
	}
	return nil
}

func validateFlightNumber(flightNumber string) error {
	trimmed := strings.TrimSpace(flightNumber)
	if trimmed == "" {
		return newValidationError("Flight number is required")
	}
	if utf8.RuneCountInString(trimmed) > constants.MaxFlightNumberLength {
		return newValidationError("Flight number must be at most %d characters", constants.MaxFlightNumberLength)
	}
	return nil
}

func validateAmount(field string, value, max int) error {
	if value < 0 || value > max {
		return newValidationError("%s must be between 0 and %d kg, got %d", field, max, value)
	}
	return nil
}

func validateText(field string, value *string, max int) error {
	if value != nil && utf8.RuneCountInString(strings.TrimSpace(*value)) > max {
		return newValidationError("%s must be at most %d characters", field, max)
	}
	return nil
}

func (v *PirepValidationService) validateDate(date time.Time) error {
	if date.IsZero() {
		return newValidationError("Flight date is required")
	}
	if date.After(common.EndOfTomorrow(v.now())) {
		return newValidationError("Flight date cannot be later than tomorrow")
	}
	return nil
}

func (v *PirepValidationService) resolveAircraft(ctx context.Context, aircraftID string) (*gormModels.Aircraft, error) {
	if strings.TrimSpace(aircraftID) == "" {
		return nil, newValidationError("Aircraft is required")
	}
	aircraft, err := v.aircraft.GetByID(ctx, aircraftID)
	if err != nil {
		return nil, newPersistenceError(err)
	}
	if aircraft == nil {
		return nil, newValidationError("Aircraft %s does not exist", aircraftID)
	}
	return aircraft, nil
}

func (v *PirepValidationService) resolveMultiplier(ctx context.Context, multiplierID string) (*gormModels.Multiplier, error) {
	multiplier, err := v.multipliers.ResolveMultiplier(ctx, multiplierID)
	if err != nil {
		return nil, newPersistenceError(err)
	}
	if multiplier == nil {
		return nil, newValidationError("Multiplier %s does not exist", multiplierID)
	}
	return multiplier, nil
}

// ValidateCreate checks a new PIREP, including the rank time cap and aircraft eligibility
// of the filing pilot. Nothing is written.
func (v *PirepValidationService) ValidateCreate(ctx context.Context, req *dtos.CreatePirepRequest, pilotID string) (*CreateValidation, error) {
	if err := validateFlightNumber(req.FlightNumber); err != nil {
		return nil, err
	}
	if err := validateIcao("Departure", req.DepartureIcao); err != nil {
		return nil, err
	}
	if err := validateIcao("Arrival", req.ArrivalIcao); err != nil {
		return nil, err
	}
	if err := v.validateDate(req.Date); err != nil {
		return nil, err
	}
	if err := validateAmount("Cargo", req.Cargo, v.limits.MaxCargoKg); err != nil {
		return nil, err
	}
	if err := validateAmount("Fuel burned", req.FuelBurned, v.limits.MaxFuelKg); err != nil {
		return nil, err
	}
	if req.FlightTime <= 0 {
		return nil, newValidationError("Flight time must be greater than zero")
	}
	if err := validateText("Comments", req.Comments, constants.MaxCommentsLength); err != nil {
		return nil, err
	}

	result := &CreateValidation{}

	aircraft, err := v.resolveAircraft(ctx, req.AircraftID)
	if err != nil {
		return nil, err
	}
	result.Aircraft = aircraft

	if id := common.TrimmedOrNil(req.MultiplierID); id != nil {
		multiplier, err := v.resolveMultiplier(ctx, *id)
		if err != nil {
			return nil, err
		}
		result.Multiplier = multiplier
	}

	total, err := v.ledger.LedgerTotal(ctx, pilotID)
	if err != nil {
		return nil, newPersistenceError(err)
	}
	rank, err := v.ranks.ResolveRank(ctx, total)
	if err != nil {
		return nil, newPersistenceError(err)
	}
	result.Rank = rank

	// No rank yet: nothing restricts time or aircraft
	if rank == nil {
		return result, nil
	}

	if rank.MaximumFlightTime != nil {
		limit := common.HoursToMinutes(*rank.MaximumFlightTime)
		if req.FlightTime > limit {
			entered, limitText := common.FormatHours(req.FlightTime), common.FormatHours(limit)
			return nil, &PirepError{
				Code:    constants.ErrCodeRankLimitExceeded,
				Message: fmt.Sprintf("Flight time of %s exceeds the %s limit for rank %s", entered, limitText, rank.Name),
				Details: map[string]string{
					DetailEnteredTime: entered,
					DetailTimeLimit:   limitText,
					DetailRank:        rank.Name,
				},
			}
		}
	}

	allowed, err := v.ranks.AllowedAircraft(ctx, rank.ID)
	if err != nil {
		return nil, newPersistenceError(err)
	}
	if len(allowed) > 0 && !containsString(allowed, aircraft.ID) {
		return nil, &PirepError{
			Code:    constants.ErrCodeAircraftNotAllowed,
			Message: fmt.Sprintf("%s is not available at rank %s", aircraft.Label(), rank.Name),
			Details: map[string]string{
				DetailAircraft: aircraft.Label(),
				DetailRank:     rank.Name,
			},
		}
	}

	return result, nil
}

// CanEdit applies the edit permission rule: a pending PIREP may be edited by its owner or
// a privileged role, anything else by a privileged role only.
func CanEdit(pirep *gormModels.Pirep, actorID string, actorRoles constants.RoleSet) bool {
	if constants.HasRequiredRole(actorRoles, constants.PrivilegedRoles) {
		return true
	}
	return pirep.IsPending() && pirep.OwnerID == actorID
}

// ValidateEdit checks permission and the structure of every supplied field.
// Rank limits are not re-applied to edits.
func (v *PirepValidationService) ValidateEdit(
	ctx context.Context,
	req *dtos.EditPirepRequest,
	current *gormModels.Pirep,
	actorID string,
	actorRoles constants.RoleSet,
) (*EditValidation, error) {
	if !CanEdit(current, actorID, actorRoles) {
		if current.IsPending() {
			return nil, newPermissionDenied("Only the owner or PIREP staff can edit this PIREP")
		}
		return nil, newPermissionDenied(fmt.Sprintf("Only PIREP staff can edit a %s PIREP", current.Status))
	}

	// The denial reason belongs to the review flow
	if req.DeniedReason != nil {
		if !constants.HasRequiredRole(actorRoles, constants.PrivilegedRoles) {
			return nil, newPermissionDenied("Only PIREP staff can set a denial reason")
		}
		if current.Status == constants.PirepStatusDenied && common.TrimmedOrNil(req.DeniedReason) == nil {
			return nil, newValidationError("A denied PIREP must keep a denial reason")
		}
	}

	if req.FlightNumber != nil {
		if err := validateFlightNumber(*req.FlightNumber); err != nil {
			return nil, err
		}
	}
	if req.DepartureIcao != nil {
		if err := validateIcao("Departure", *req.DepartureIcao); err != nil {
			return nil, err
		}
	}
	if req.ArrivalIcao != nil {
		if err := validateIcao("Arrival", *req.ArrivalIcao); err != nil {
			return nil, err
		}
	}
	if req.Cargo != nil {
		if err := validateAmount("Cargo", *req.Cargo, v.limits.MaxCargoKg); err != nil {
			return nil, err
		}
	}
	if req.FuelBurned != nil {
		if err := validateAmount("Fuel burned", *req.FuelBurned, v.limits.MaxFuelKg); err != nil {
			return nil, err
		}
	}
	if req.HasDirectTimeChange() {
		if req.FlightTimeHours == nil || req.FlightTimeMinutes == nil {
			return nil, newValidationError("Flight time edits need both hours and minutes")
		}
		hours, minutes := req.RawTime()
		if hours < 0 {
			return nil, newValidationError("Hours cannot be negative")
		}
		if minutes < 0 || minutes > 59 {
			return nil, newValidationError("Minutes must be between 0 and 59")
		}
		if hours*60+minutes <= 0 {
			return nil, newValidationError("Flight time must be greater than zero")
		}
	}
	if err := validateText("Comments", req.Comments, constants.MaxCommentsLength); err != nil {
		return nil, err
	}
	if err := validateText("Denial reason", req.DeniedReason, constants.MaxDeniedReasonLength); err != nil {
		return nil, err
	}

	result := &EditValidation{}

	if req.AircraftID != nil {
		aircraft, err := v.resolveAircraft(ctx, *req.AircraftID)
		if err != nil {
			return nil, err
		}
		result.Aircraft = aircraft
	}

	if id := common.TrimmedOrNil(req.MultiplierID); id != nil {
		multiplier, err := v.resolveMultiplier(ctx, *id)
		if err != nil {
			return nil, err
		}
		result.Multiplier = multiplier
	}

	return result, nil
}

// ValidateDenyReason returns the trimmed reason or a validation error
func ValidateDenyReason(reason string) (string, error) {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return "", newValidationError("A reason is required to deny a PIREP")
	}
	if utf8.RuneCountInString(trimmed) > constants.MaxDeniedReasonLength {
		return "", newValidationError("Denial reason must be at most %d characters", constants.MaxDeniedReasonLength)
	}
	return trimmed, nil
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
