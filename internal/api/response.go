package api

import (
	"errors"
	"net/http"
	"time"

	"infinite-experiment/flightlog/internal/auth"
	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/logging"
	"infinite-experiment/flightlog/internal/models/dtos"
	gormModels "infinite-experiment/flightlog/internal/models/gorm"
	"infinite-experiment/flightlog/internal/services"
)

// respondServiceError maps a service failure to the response envelope.
// data is included in the body, e.g. the filed PIREP when only the notification failed.
func respondServiceError(w http.ResponseWriter, r *http.Request, initTime time.Time, err error, data any) {
	var pirepErr *services.PirepError
	if !errors.As(err, &pirepErr) {
		logRequestError(r, err)
		common.RespondError(w, initTime, nil, "Internal server error", http.StatusInternalServerError)
		return
	}

	status := pirepErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logRequestError(r, err)
	}

	// Store details stay in the logs
	message := pirepErr.Message
	if pirepErr.Code == constants.ErrCodePersistence {
		message = constants.GetPirepErrorMessage(constants.ErrCodePersistence)
	}

	if data == nil && len(pirepErr.Details) > 0 {
		data = pirepErr.Details
	}

	common.RespondErrorCode(w, initTime, pirepErr.Code, message, status, data)
}

func logRequestError(r *http.Request, err error) {
	userID := ""
	if claims := auth.GetUserClaims(r.Context()); claims != nil {
		userID = claims.UserID()
	}
	logging.WithRequest(auth.GetRequestID(r.Context()), userID, r.URL.Path).Errorw("Request failed", "error", err.Error())
}

func toPirepResponse(p *gormModels.Pirep) dtos.PirepResponse {
	return dtos.PirepResponse{
		ID:            p.ID,
		FlightNumber:  p.FlightNumber,
		Date:          p.Date,
		DepartureIcao: p.DepartureIcao,
		ArrivalIcao:   p.ArrivalIcao,
		FlightTime:    p.FlightTime,
		Cargo:         p.Cargo,
		FuelBurned:    p.FuelBurned,
		AircraftID:    p.AircraftID,
		MultiplierID:  p.MultiplierID,
		Comments:      p.Comments,
		DeniedReason:  p.DeniedReason,
		Status:        p.Status.String(),
		OwnerID:       p.OwnerID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toEventResponse(e *gormModels.PirepEvent) dtos.PirepEventResponse {
	previous := e.PreviousValues.Fields
	if previous == nil {
		previous = map[dtos.TrackedField]interface{}{}
	}
	next := e.NewValues.Fields
	if next == nil {
		next = map[dtos.TrackedField]interface{}{}
	}
	return dtos.PirepEventResponse{
		ID:             e.ID,
		PirepID:        e.PirepID,
		Action:         e.Action.String(),
		PerformedBy:    e.PerformedBy,
		Details:        e.Details,
		PreviousValues: previous,
		NewValues:      next,
		CreatedAt:      e.CreatedAt,
	}
}
