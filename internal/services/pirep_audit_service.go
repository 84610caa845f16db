package services

import (
	"context"
	"fmt"
	"strings"

	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/models/dtos"
	gormModels "infinite-experiment/flightlog/internal/models/gorm"
)

// PirepAuditService records one event per PIREP mutation
type PirepAuditService struct {
	events PirepEventStore
}

func NewPirepAuditService(events PirepEventStore) *PirepAuditService {
	return &PirepAuditService{events: events}
}

// DiffLabels holds display names for the ids that may appear in edit details
type DiffLabels struct {
	Aircraft   string
	Multiplier string
}

// DiffPireps compares the tracked fields of two versions of a PIREP. Only fields whose
// value differs appear in the returned diffs, with one details clause each.
func DiffPireps(before, after *gormModels.Pirep, labels DiffLabels) (previous, next dtos.FieldDiff, clauses []string) {
	previous = dtos.NewFieldDiff()
	next = dtos.NewFieldDiff()

	if before.FlightNumber != after.FlightNumber {
		previous.SetString(dtos.FieldFlightNumber, before.FlightNumber)
		next.SetString(dtos.FieldFlightNumber, after.FlightNumber)
		clauses = append(clauses, "Flight number to "+after.FlightNumber)
	}
	if before.DepartureIcao != after.DepartureIcao {
		previous.SetString(dtos.FieldDepartureIcao, before.DepartureIcao)
		next.SetString(dtos.FieldDepartureIcao, after.DepartureIcao)
		clauses = append(clauses, "Departure to "+after.DepartureIcao)
	}
	if before.ArrivalIcao != after.ArrivalIcao {
		previous.SetString(dtos.FieldArrivalIcao, before.ArrivalIcao)
		next.SetString(dtos.FieldArrivalIcao, after.ArrivalIcao)
		clauses = append(clauses, "Arrival to "+after.ArrivalIcao)
	}
	if before.FlightTime != after.FlightTime {
		previous.SetInt(dtos.FieldFlightTime, before.FlightTime)
		next.SetInt(dtos.FieldFlightTime, after.FlightTime)
		clauses = append(clauses, "Flight time to "+common.FormatHours(after.FlightTime))
	}
	if before.Cargo != after.Cargo {
		previous.SetInt(dtos.FieldCargo, before.Cargo)
		next.SetInt(dtos.FieldCargo, after.Cargo)
		clauses = append(clauses, fmt.Sprintf("Cargo to %dkg", after.Cargo))
	}
	if before.FuelBurned != after.FuelBurned {
		previous.SetInt(dtos.FieldFuelBurned, before.FuelBurned)
		next.SetInt(dtos.FieldFuelBurned, after.FuelBurned)
		clauses = append(clauses, fmt.Sprintf("Fuel burned to %dkg", after.FuelBurned))
	}
	if !common.StringPtrEqual(before.MultiplierID, after.MultiplierID) {
		previous.SetOptionalString(dtos.FieldMultiplierID, before.MultiplierID)
		next.SetOptionalString(dtos.FieldMultiplierID, after.MultiplierID)
		if after.MultiplierID == nil {
			clauses = append(clauses, "Multiplier removed")
		} else {
			clauses = append(clauses, "Multiplier to "+labelOr(labels.Multiplier, *after.MultiplierID))
		}
	}
	if before.AircraftID != after.AircraftID {
		previous.SetString(dtos.FieldAircraftID, before.AircraftID)
		next.SetString(dtos.FieldAircraftID, after.AircraftID)
		clauses = append(clauses, "Aircraft to "+labelOr(labels.Aircraft, after.AircraftID))
	}
	if !common.StringPtrEqual(before.Comments, after.Comments) {
		previous.SetOptionalString(dtos.FieldComments, before.Comments)
		next.SetOptionalString(dtos.FieldComments, after.Comments)
		if after.Comments == nil {
			clauses = append(clauses, "Comments cleared")
		} else {
			clauses = append(clauses, "Comments updated")
		}
	}
	if !common.StringPtrEqual(before.DeniedReason, after.DeniedReason) {
		previous.SetOptionalString(dtos.FieldDeniedReason, before.DeniedReason)
		next.SetOptionalString(dtos.FieldDeniedReason, after.DeniedReason)
		if after.DeniedReason == nil {
			clauses = append(clauses, "Denial reason cleared")
		} else {
			clauses = append(clauses, "Denial reason to "+*after.DeniedReason)
		}
	}

	return previous, next, clauses
}

func labelOr(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}

// SnapshotPirep captures every tracked field, used as the new values of a "created" event
func SnapshotPirep(p *gormModels.Pirep) dtos.FieldDiff {
	snapshot := dtos.NewFieldDiff()
	snapshot.SetString(dtos.FieldFlightNumber, p.FlightNumber)
	snapshot.SetString(dtos.FieldDepartureIcao, p.DepartureIcao)
	snapshot.SetString(dtos.FieldArrivalIcao, p.ArrivalIcao)
	snapshot.SetInt(dtos.FieldFlightTime, p.FlightTime)
	snapshot.SetInt(dtos.FieldCargo, p.Cargo)
	snapshot.SetInt(dtos.FieldFuelBurned, p.FuelBurned)
	snapshot.SetOptionalString(dtos.FieldMultiplierID, p.MultiplierID)
	snapshot.SetString(dtos.FieldAircraftID, p.AircraftID)
	snapshot.SetOptionalString(dtos.FieldComments, p.Comments)
	return snapshot
}

// EditDetails joins the clauses of an edit into the event details
func EditDetails(clauses []string) string {
	if len(clauses) == 0 {
		return "No changes"
	}
	return strings.Join(clauses, "; ")
}

// Record appends a single event
func (a *PirepAuditService) Record(
	ctx context.Context,
	pirepID string,
	action constants.EventAction,
	actorID string,
	details string,
	previous, next dtos.FieldDiff,
) (*gormModels.PirepEvent, error) {
	event := &gormModels.PirepEvent{
		PirepID:        pirepID,
		Action:         action,
		PerformedBy:    actorID,
		Details:        details,
		PreviousValues: previous,
		NewValues:      next,
	}

	if err := a.events.Append(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (a *PirepAuditService) RecordCreated(ctx context.Context, pirep *gormModels.Pirep, aircraftLabel string) (*gormModels.PirepEvent, error) {
	details := fmt.Sprintf("Filed %s %s-%s, %s on %s",
		pirep.FlightNumber, pirep.DepartureIcao, pirep.ArrivalIcao,
		common.FormatHours(pirep.FlightTime), aircraftLabel)

	return a.Record(ctx, pirep.ID, constants.EventActionCreated, pirep.OwnerID, details, dtos.NewFieldDiff(), SnapshotPirep(pirep))
}

func (a *PirepAuditService) ListEvents(ctx context.Context, pirepID string) ([]gormModels.PirepEvent, error) {
	return a.events.ListByPirep(ctx, pirepID)
}
