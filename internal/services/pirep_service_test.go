package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/models/dtos"
	gormModels "infinite-experiment/flightlog/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPirepService_CreatePirep_Success(t *testing.T) {
	f := newPirepFixture(t)
	ctx := context.Background()

	result, err := f.svc.CreatePirep(ctx, f.createRequest(), f.pilot.ID)
	require.NoError(t, err)

	assert.Equal(t, 510, result.AdjustedFlightTime)
	assert.Equal(t, 510, result.Pirep.FlightTime)
	assert.Equal(t, constants.PirepStatusPending, result.Pirep.Status)
	assert.Equal(t, f.pilot.ID, result.Pirep.OwnerID)

	stored := f.reload(t, result.Pirep.ID)
	assert.Equal(t, "BAW117", stored.FlightNumber)
	assert.Equal(t, constants.PirepStatusPending, stored.Status)

	events := f.eventsFor(t, result.Pirep.ID)
	require.Len(t, events, 1)
	assert.Equal(t, constants.EventActionCreated, events[0].Action)
	assert.Equal(t, f.pilot.ID, events[0].PerformedBy)
	assert.Equal(t, "Filed BAW117 KJFK-EGLL, 8.5h on Boeing 777-300ER (G-STBA)", events[0].Details)
	assert.Equal(t, 0, events[0].PreviousValues.Len())
	assert.Equal(t, int64(510), events[0].NewValues.Fields[dtos.FieldFlightTime])

	require.Len(t, f.notifier.payloads, 1)
	assert.Equal(t, 510, f.notifier.payloads[0].AdjustedFlightTime)
	assert.Empty(t, f.scheduler.Scheduled())
}

func TestPirepService_CreatePirep_AppliesMultiplier(t *testing.T) {
	f := newPirepFixture(t)
	multiplier := f.addMultiplier(t, "Event", 1.5)

	req := f.createRequest()
	req.MultiplierID = strPtr(" " + multiplier.ID + " ")

	result, err := f.svc.CreatePirep(context.Background(), req, f.pilot.ID)
	require.NoError(t, err)

	assert.Equal(t, 765, result.AdjustedFlightTime)
	require.NotNil(t, result.Pirep.MultiplierID)
	assert.Equal(t, multiplier.ID, *result.Pirep.MultiplierID)
	assert.Equal(t, "Event", f.notifier.payloads[0].MultiplierName)
}

func TestPirepService_CreatePirep_RankLimit(t *testing.T) {
	f := newPirepFixture(t)
	f.addRank(t, "Cadet", 0, floatPtr(10))
	ctx := context.Background()

	req := f.createRequest()
	req.FlightTime = 600
	_, err := f.svc.CreatePirep(ctx, req, f.pilot.ID)
	require.NoError(t, err, "a report exactly at the limit is accepted")

	req = f.createRequest()
	req.FlightTime = 601
	result, err := f.svc.CreatePirep(ctx, req, f.pilot.ID)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsErrorCode(err, constants.ErrCodeRankLimitExceeded))
	assert.Contains(t, err.Error(), "10.02h exceeds the 10h limit for rank Cadet")

	var count int64
	require.NoError(t, f.db.Model(&gormModels.Pirep{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "rejected report must not be written")
}

func TestPirepService_CreatePirep_AircraftNotAllowed(t *testing.T) {
	f := newPirepFixture(t)

	other := &gormModels.Aircraft{Name: "Airbus A320", Registration: "G-EUUA"}
	require.NoError(t, f.db.Create(other).Error)
	f.addRank(t, "Cadet", 0, nil, other.ID)

	_, err := f.svc.CreatePirep(context.Background(), f.createRequest(), f.pilot.ID)
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, constants.ErrCodeAircraftNotAllowed))
	assert.Equal(t, "Boeing 777-300ER (G-STBA) is not available at rank Cadet", err.Error())
}

func TestPirepService_CreatePirep_NoRankSkipsRestrictions(t *testing.T) {
	f := newPirepFixture(t)
	f.addRank(t, "Captain", 100, floatPtr(1))

	req := f.createRequest()
	req.FlightTime = 900
	_, err := f.svc.CreatePirep(context.Background(), req, f.pilot.ID)
	assert.NoError(t, err)
}

func TestPirepService_CreatePirep_NotificationFailure(t *testing.T) {
	f := newPirepFixture(t)
	f.notifier.notifyFunc = func(ctx context.Context, payload dtos.PirepCreatedPayload) error {
		return errors.New("webhook down")
	}

	result, err := f.svc.CreatePirep(context.Background(), f.createRequest(), f.pilot.ID)
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, constants.ErrCodeNotificationFailed))

	require.NotNil(t, result, "the filed report is returned with the notification error")
	stored := f.reload(t, result.Pirep.ID)
	assert.Equal(t, 510, stored.FlightTime)
	assert.Len(t, f.eventsFor(t, result.Pirep.ID), 1)
}

func TestPirepService_CreatePirep_ValidationErrors(t *testing.T) {
	f := newPirepFixture(t)

	cases := []struct {
		name   string
		mutate func(req *dtos.CreatePirepRequest)
	}{
		{"lowercase departure", func(req *dtos.CreatePirepRequest) { req.DepartureIcao = "kjfk" }},
		{"short arrival", func(req *dtos.CreatePirepRequest) { req.ArrivalIcao = "EGL" }},
		{"blank flight number", func(req *dtos.CreatePirepRequest) { req.FlightNumber = "   " }},
		{"long flight number", func(req *dtos.CreatePirepRequest) { req.FlightNumber = "BAW1171234X" }},
		{"zero flight time", func(req *dtos.CreatePirepRequest) { req.FlightTime = 0 }},
		{"negative cargo", func(req *dtos.CreatePirepRequest) { req.Cargo = -1 }},
		{"fuel above limit", func(req *dtos.CreatePirepRequest) { req.FuelBurned = 200001 }},
		{"date after tomorrow", func(req *dtos.CreatePirepRequest) { req.Date = testNow.AddDate(0, 0, 2) }},
		{"missing date", func(req *dtos.CreatePirepRequest) { req.Date = time.Time{} }},
		{"unknown aircraft", func(req *dtos.CreatePirepRequest) { req.AircraftID = "missing" }},
		{"unknown multiplier", func(req *dtos.CreatePirepRequest) { req.MultiplierID = strPtr("missing") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.createRequest()
			tc.mutate(req)

			_, err := f.svc.CreatePirep(context.Background(), req, f.pilot.ID)
			require.Error(t, err)
			assert.True(t, IsErrorCode(err, constants.ErrCodeValidation), "got %v", err)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&gormModels.Pirep{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPirepService_ApprovePirep_Twice(t *testing.T) {
	f := newPirepFixture(t)
	ctx := context.Background()
	pirep := f.file(t, f.createRequest())

	require.NoError(t, f.svc.ApprovePirep(ctx, pirep.ID, f.staff.ID))
	require.NoError(t, f.svc.ApprovePirep(ctx, pirep.ID, f.staff.ID))

	assert.Equal(t, constants.PirepStatusApproved, f.reload(t, pirep.ID).Status)

	events := f.eventsFor(t, pirep.ID)
	require.Len(t, events, 3)
	approvals := 0
	for _, ev := range events {
		if ev.Action == constants.EventActionApproved {
			approvals++
			assert.Equal(t, f.staff.ID, ev.PerformedBy)
			assert.Equal(t, "PIREP approved", ev.Details)
		}
	}
	assert.Equal(t, 2, approvals)

	// Only the first approval moved the ledger
	scheduled := f.scheduler.Scheduled()
	require.Len(t, scheduled, 1)
	assert.Equal(t, f.pilot.ID, scheduled[0].PilotID)
	assert.Equal(t, 0, scheduled[0].OldTotal)
	assert.Equal(t, 510, scheduled[0].NewTotal)
	assert.Equal(t, constants.RankEvalSourceApprove, scheduled[0].Source)
}

func TestPirepService_ApprovePirep_RequiresStaff(t *testing.T) {
	f := newPirepFixture(t)
	pirep := f.file(t, f.createRequest())

	err := f.svc.ApprovePirep(context.Background(), pirep.ID, f.pilot.ID)
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, constants.ErrCodePermissionDenied))

	assert.Equal(t, constants.PirepStatusPending, f.reload(t, pirep.ID).Status)
	assert.Len(t, f.eventsFor(t, pirep.ID), 1)
}

func TestPirepService_ApprovePirep_NotFound(t *testing.T) {
	f := newPirepFixture(t)

	err := f.svc.ApprovePirep(context.Background(), "missing", f.staff.ID)
	assert.True(t, IsErrorCode(err, constants.ErrCodeNotFound))
}

func TestPirepService_DenyPirep(t *testing.T) {
	f := newPirepFixture(t)
	ctx := context.Background()
	pirep := f.file(t, f.createRequest())

	require.NoError(t, f.svc.DenyPirep(ctx, pirep.ID, f.staff.ID, "  Wrong aircraft  "))

	stored := f.reload(t, pirep.ID)
	assert.Equal(t, constants.PirepStatusDenied, stored.Status)
	require.NotNil(t, stored.DeniedReason)
	assert.Equal(t, "Wrong aircraft", *stored.DeniedReason)

	events := f.eventsFor(t, pirep.ID)
	require.Len(t, events, 2)
	denied := events[1]
	assert.Equal(t, constants.EventActionDenied, denied.Action)
	assert.Equal(t, "PIREP denied: Wrong aircraft", denied.Details)
	assert.Nil(t, denied.PreviousValues.Fields[dtos.FieldDeniedReason])
	assert.Equal(t, "Wrong aircraft", denied.NewValues.Fields[dtos.FieldDeniedReason])

	// Denying a pending report does not change the approved total
	assert.Empty(t, f.scheduler.Scheduled())
}

func TestPirepService_DenyPirep_ApprovedSchedulesEvaluation(t *testing.T) {
	f := newPirepFixture(t)
	ctx := context.Background()
	pirep := f.file(t, f.createRequest())

	require.NoError(t, f.svc.ApprovePirep(ctx, pirep.ID, f.staff.ID))
	require.NoError(t, f.svc.DenyPirep(ctx, pirep.ID, f.staff.ID, "Duplicate"))

	scheduled := f.scheduler.Scheduled()
	require.Len(t, scheduled, 2)
	assert.Equal(t, constants.RankEvalSourceDeny, scheduled[1].Source)
	assert.Equal(t, 510, scheduled[1].OldTotal)
	assert.Equal(t, 0, scheduled[1].NewTotal)
}

func TestPirepService_DenyPirep_BlankReason(t *testing.T) {
	f := newPirepFixture(t)
	pirep := f.file(t, f.createRequest())

	err := f.svc.DenyPirep(context.Background(), pirep.ID, f.staff.ID, "   ")
	require.Error(t, err)
	assert.True(t, IsErrorCode(err, constants.ErrCodeValidation))

	assert.Equal(t, constants.PirepStatusPending, f.reload(t, pirep.ID).Status)
	assert.Len(t, f.eventsFor(t, pirep.ID), 1, "no event for a rejected denial")
}

func TestPirepService_EditPirep_CommentsOnly(t *testing.T) {
	f := newPirepFixture(t)
	ctx := context.Background()
	pirep := f.file(t, f.createRequest())

	err := f.svc.EditPirep(ctx, &dtos.EditPirepRequest{
		ID:       pirep.ID,
		Comments: strPtr("Smooth flight"),
	}, f.pilot.ID, constants.NewRoleSet())
	require.NoError(t, err)

	stored := f.reload(t, pirep.ID)
	require.NotNil(t, stored.Comments)
	assert.Equal(t, "Smooth flight", *stored.Comments)
	assert.Equal(t, 510, stored.FlightTime)

	events := f.eventsFor(t, pirep.ID)
	require.Len(t, events, 2)
	edited := events[1]
	assert.Equal(t, constants.EventActionEdited, edited.Action)
	assert.Equal(t, []dtos.TrackedField{dtos.FieldComments}, edited.NewValues.Keys())
	assert.Equal(t, []dtos.TrackedField{dtos.FieldComments}, edited.PreviousValues.Keys())
	assert.Nil(t, edited.PreviousValues.Fields[dtos.FieldComments])
	assert.Equal(t, "Comments updated", edited.Details)

	assert.Empty(t, f.scheduler.Scheduled())
}

func TestPirepService_EditPirep_MultiplierChangeGoesThroughBase(t *testing.T) {
	f := newPirepFixture(t)
	ctx := context.Background()
	double := f.addMultiplier(t, "Double", 2.0)
	event := f.addMultiplier(t, "Event", 1.5)

	req := f.createRequest()
	req.FlightTime = 480
	req.MultiplierID = strPtr(double.ID)
	pirep := f.file(t, req)
	require.Equal(t, 960, pirep.FlightTime)

	err := f.svc.EditPirep(ctx, &dtos.EditPirepRequest{
		ID:           pirep.ID,
		MultiplierID: strPtr(event.ID),
	}, f.pilot.ID, constants.NewRoleSet())
	require.NoError(t, err)

	assert.Equal(t, 720, f.reload(t, pirep.ID).FlightTime)

	events := f.eventsFor(t, pirep.ID)
	require.Len(t, events, 2)
	edited := events[1]
	assert.Equal(t, []dtos.TrackedField{dtos.FieldFlightTime, dtos.FieldMultiplierID}, edited.NewValues.Keys())
	assert.Equal(t, int64(960), edited.PreviousValues.Fields[dtos.FieldFlightTime])
	assert.Equal(t, int64(720), edited.NewValues.Fields[dtos.FieldFlightTime])
	assert.Equal(t, "Flight time to 12h; Multiplier to Event", edited.Details)

	scheduled := f.scheduler.Scheduled()
	require.Len(t, scheduled, 1)
	assert.Equal(t, constants.RankEvalSourceEdit, scheduled[0].Source)
}

func TestPirepService_EditPirep_RemoveMultiplier(t *testing.T) {
	f := newPirepFixture(t)
	double := f.addMultiplier(t, "Double", 2.0)

	req := f.createRequest()
	req.FlightTime = 480
	req.MultiplierID = strPtr(double.ID)
	pirep := f.file(t, req)

	err := f.svc.EditPirep(context.Background(), &dtos.EditPirepRequest{
		ID:           pirep.ID,
		MultiplierID: strPtr(""),
	}, f.pilot.ID, constants.NewRoleSet())
	require.NoError(t, err)

	stored := f.reload(t, pirep.ID)
	assert.Nil(t, stored.MultiplierID)
	assert.Equal(t, 480, stored.FlightTime)
}

func TestPirepService_EditPirep_DirectTimeUsesCurrentMultiplier(t *testing.T) {
	f := newPirepFixture(t)
	event := f.addMultiplier(t, "Event", 1.5)

	req := f.createRequest()
	req.MultiplierID = strPtr(event.ID)
	pirep := f.file(t, req)

	err := f.svc.EditPirep(context.Background(), &dtos.EditPirepRequest{
		ID:                pirep.ID,
		FlightTimeHours:   intPtr(2),
		FlightTimeMinutes: intPtr(0),
	}, f.pilot.ID, constants.NewRoleSet())
	require.NoError(t, err)

	assert.Equal(t, 180, f.reload(t, pirep.ID).FlightTime)
}

func TestPirepService_EditPirep_Permissions(t *testing.T) {
	f := newPirepFixture(t)
	ctx := context.Background()
	pirep := f.file(t, f.createRequest())

	stranger := &gormModels.Pilot{Callsign: "VA003"}
	require.NoError(t, f.db.Create(stranger).Error)

	edit := &dtos.EditPirepRequest{ID: pirep.ID, Cargo: intPtr(100)}

	err := f.svc.EditPirep(ctx, edit, stranger.ID, constants.NewRoleSet())
	assert.True(t, IsErrorCode(err, constants.ErrCodePermissionDenied))

	require.NoError(t, f.svc.ApprovePirep(ctx, pirep.ID, f.staff.ID))

	err = f.svc.EditPirep(ctx, edit, f.pilot.ID, constants.NewRoleSet())
	assert.True(t, IsErrorCode(err, constants.ErrCodePermissionDenied), "owners cannot edit a reviewed report")

	err = f.svc.EditPirep(ctx, edit, f.staff.ID, constants.NewRoleSet(constants.RolePireps))
	require.NoError(t, err)
	assert.Equal(t, 100, f.reload(t, pirep.ID).Cargo)
}

func TestPirepService_EditPirep_InvalidMinutes(t *testing.T) {
	f := newPirepFixture(t)
	pirep := f.file(t, f.createRequest())

	err := f.svc.EditPirep(context.Background(), &dtos.EditPirepRequest{
		ID:                pirep.ID,
		FlightTimeHours:   intPtr(1),
		FlightTimeMinutes: intPtr(60),
	}, f.pilot.ID, constants.NewRoleSet())
	assert.True(t, IsErrorCode(err, constants.ErrCodeValidation))
	assert.Len(t, f.eventsFor(t, pirep.ID), 1)
}

func TestPirepService_ListEvents_UnknownPirep(t *testing.T) {
	f := newPirepFixture(t)

	_, err := f.svc.ListEvents(context.Background(), "missing")
	assert.True(t, IsErrorCode(err, constants.ErrCodeNotFound))
}

func TestPirepService_PilotLedger(t *testing.T) {
	f := newPirepFixture(t)
	ctx := context.Background()
	f.addRank(t, "Cadet", 0, nil)
	f.addRank(t, "First Officer", 8, nil)

	approved := f.file(t, f.createRequest())
	f.file(t, f.createRequest())
	denied := f.file(t, f.createRequest())

	require.NoError(t, f.svc.ApprovePirep(ctx, approved.ID, f.staff.ID))
	require.NoError(t, f.svc.DenyPirep(ctx, denied.ID, f.staff.ID, "Duplicate"))

	ledger, err := f.svc.PilotLedger(ctx, f.pilot.ID)
	require.NoError(t, err)

	assert.Equal(t, 510, ledger.ApprovedMinutes)
	assert.Equal(t, "8.5h", ledger.ApprovedHours)
	assert.Equal(t, 1, ledger.ApprovedCount)
	assert.Equal(t, 1, ledger.PendingCount)
	assert.Equal(t, 1, ledger.DeniedCount)
	require.NotNil(t, ledger.Rank)
	assert.Equal(t, "First Officer", ledger.Rank.Name)
}

func TestPirepService_EditPirep_DeniedReasonBelongsToReview(t *testing.T) {
	f := newPirepFixture(t)
	ctx := context.Background()
	staffRoles := constants.NewRoleSet(constants.RolePireps)

	pending := f.file(t, f.createRequest())
	err := f.svc.EditPirep(ctx, &dtos.EditPirepRequest{
		ID:           pending.ID,
		DeniedReason: strPtr("self-set"),
	}, f.pilot.ID, constants.NewRoleSet())
	assert.True(t, IsErrorCode(err, constants.ErrCodePermissionDenied))
	assert.Nil(t, f.reload(t, pending.ID).DeniedReason)

	denied := f.file(t, f.createRequest())
	require.NoError(t, f.svc.DenyPirep(ctx, denied.ID, f.staff.ID, "Wrong aircraft"))

	err = f.svc.EditPirep(ctx, &dtos.EditPirepRequest{
		ID:           denied.ID,
		DeniedReason: strPtr(""),
	}, f.staff.ID, staffRoles)
	assert.True(t, IsErrorCode(err, constants.ErrCodeValidation))

	stored := f.reload(t, denied.ID)
	assert.Equal(t, constants.PirepStatusDenied, stored.Status)
	require.NotNil(t, stored.DeniedReason)
	assert.Equal(t, "Wrong aircraft", *stored.DeniedReason)
	assert.Len(t, f.eventsFor(t, denied.ID), 2, "rejected edits record nothing")

	err = f.svc.EditPirep(ctx, &dtos.EditPirepRequest{
		ID:           denied.ID,
		DeniedReason: strPtr("Wrong route"),
	}, f.staff.ID, staffRoles)
	require.NoError(t, err)
	assert.Equal(t, "Wrong route", *f.reload(t, denied.ID).DeniedReason)
}

func TestPirepService_EditPirep_PartialTimeRejected(t *testing.T) {
	f := newPirepFixture(t)
	pirep := f.file(t, f.createRequest())

	err := f.svc.EditPirep(context.Background(), &dtos.EditPirepRequest{
		ID:                pirep.ID,
		FlightTimeMinutes: intPtr(45),
	}, f.pilot.ID, constants.NewRoleSet())
	assert.True(t, IsErrorCode(err, constants.ErrCodeValidation))

	assert.Equal(t, 510, f.reload(t, pirep.ID).FlightTime)
	assert.Empty(t, f.scheduler.Scheduled())
}

func TestPirepService_CreatePirep_EventFailureKeepsRow(t *testing.T) {
	f := newPirepFixture(t, func(deps *PirepServiceDeps) {
		deps.Events = &failingEventStore{
			PirepEventStore: deps.Events,
			appendFunc: func(ctx context.Context, event *gormModels.PirepEvent) error {
				return errors.New("disk full")
			},
		}
	})

	result, err := f.svc.CreatePirep(context.Background(), f.createRequest(), f.pilot.ID)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsErrorCode(err, constants.ErrCodePersistence))
	assert.Empty(t, f.notifier.payloads, "no notification for a partially recorded PIREP")

	var rows []gormModels.Pirep
	require.NoError(t, f.db.Find(&rows).Error)
	require.Len(t, rows, 1, "the row is not rolled back")
	assert.Empty(t, f.eventsFor(t, rows[0].ID))
}

func TestPirepService_EditPirep_EventFailureKeepsRow(t *testing.T) {
	failEdits := false
	f := newPirepFixture(t, func(deps *PirepServiceDeps) {
		deps.Events = &failingEventStore{
			PirepEventStore: deps.Events,
			appendFunc: func(ctx context.Context, event *gormModels.PirepEvent) error {
				if failEdits && event.Action == constants.EventActionEdited {
					return errors.New("disk full")
				}
				return nil
			},
		}
	})
	pirep := f.file(t, f.createRequest())
	failEdits = true

	err := f.svc.EditPirep(context.Background(), &dtos.EditPirepRequest{
		ID:    pirep.ID,
		Cargo: intPtr(500),
	}, f.pilot.ID, constants.NewRoleSet())
	assert.True(t, IsErrorCode(err, constants.ErrCodePersistence))

	assert.Equal(t, 500, f.reload(t, pirep.ID).Cargo)
	assert.Len(t, f.eventsFor(t, pirep.ID), 1)
}

func TestPirepService_EditPirep_LedgerFailureSkipsEvaluation(t *testing.T) {
	failTotals := false
	f := newPirepFixture(t, func(deps *PirepServiceDeps) {
		ledger := deps.Ledger
		deps.Ledger = &failingLedger{
			LedgerReader: ledger,
			totalFunc: func(ctx context.Context, pilotID string) (int, error) {
				if failTotals {
					return 0, errors.New("connection reset")
				}
				return ledger.LedgerTotal(ctx, pilotID)
			},
		}
	})
	pirep := f.file(t, f.createRequest())
	failTotals = true

	err := f.svc.EditPirep(context.Background(), &dtos.EditPirepRequest{
		ID:                pirep.ID,
		FlightTimeHours:   intPtr(9),
		FlightTimeMinutes: intPtr(15),
	}, f.pilot.ID, constants.NewRoleSet())
	require.NoError(t, err)

	assert.Equal(t, 555, f.reload(t, pirep.ID).FlightTime)
	assert.Len(t, f.eventsFor(t, pirep.ID), 2)
	assert.Empty(t, f.scheduler.Scheduled())
}

func TestPirepService_ListPilotPireps(t *testing.T) {
	f := newPirepFixture(t)
	ctx := context.Background()

	older := f.createRequest()
	older.Date = testNow.AddDate(0, 0, -3)
	f.file(t, older)
	newest := f.file(t, f.createRequest())

	pireps, err := f.svc.ListPilotPireps(ctx, f.pilot.ID, 0)
	require.NoError(t, err)
	require.Len(t, pireps, 2)
	assert.Equal(t, newest.ID, pireps[0].ID)

	pireps, err = f.svc.ListPilotPireps(ctx, f.pilot.ID, constants.MaxPirepListLimit+1)
	require.NoError(t, err)
	assert.Len(t, pireps, 2)

	pireps, err = f.svc.ListPilotPireps(ctx, f.staff.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, pireps)

	_, err = f.svc.ListPilotPireps(ctx, f.pilot.ID, -1)
	assert.True(t, IsErrorCode(err, constants.ErrCodeValidation))
}
