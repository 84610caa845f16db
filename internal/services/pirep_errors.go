package services

import (
	"errors"
	"fmt"
	"net/http"

	"infinite-experiment/flightlog/internal/constants"
)

// PirepError is returned by every PIREP operation that fails for a domain reason
type PirepError struct {
	Code    string
	Message string
	// Details carries the values behind rank rejections, keyed by the Detail* constants
	Details map[string]string
	Err     error
}

// Keys of PirepError.Details
const (
	DetailEnteredTime = "entered_flight_time"
	DetailTimeLimit   = "flight_time_limit"
	DetailRank        = "rank"
	DetailAircraft    = "aircraft"
)

func (e *PirepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PirepError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error code to the response status used by the API
func (e *PirepError) HTTPStatus() int {
	switch e.Code {
	case constants.ErrCodeValidation:
		return http.StatusBadRequest
	case constants.ErrCodePermissionDenied:
		return http.StatusForbidden
	case constants.ErrCodeRankLimitExceeded, constants.ErrCodeAircraftNotAllowed:
		return http.StatusUnprocessableEntity
	case constants.ErrCodeNotFound:
		return http.StatusNotFound
	case constants.ErrCodeNotificationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsErrorCode reports whether err is a PirepError with the given code
func IsErrorCode(err error, code string) bool {
	var pirepErr *PirepError
	if errors.As(err, &pirepErr) {
		return pirepErr.Code == code
	}
	return false
}

func newValidationError(format string, args ...interface{}) *PirepError {
	return &PirepError{
		Code:    constants.ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

func newPermissionDenied(message string) *PirepError {
	return &PirepError{
		Code:    constants.ErrCodePermissionDenied,
		Message: message,
	}
}

func newNotFound(pirepID string) *PirepError {
	return &PirepError{
		Code:    constants.ErrCodeNotFound,
		Message: fmt.Sprintf("PIREP %s not found", pirepID),
	}
}

// newPersistenceError wraps a store failure exactly once
func newPersistenceError(err error) *PirepError {
	var pirepErr *PirepError
	if errors.As(err, &pirepErr) {
		return pirepErr
	}
	return &PirepError{
		Code:    constants.ErrCodePersistence,
		Message: constants.GetPirepErrorMessage(constants.ErrCodePersistence),
		Err:     err,
	}
}
