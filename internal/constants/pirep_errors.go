package constants

// PIREP Error Codes
// These constants define the failure kinds surfaced by the PIREP core

const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodePermissionDenied   = "PERMISSION_DENIED"
	ErrCodeRankLimitExceeded  = "RANK_LIMIT_EXCEEDED"
	ErrCodeAircraftNotAllowed = "AIRCRAFT_NOT_ALLOWED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodePersistence        = "PERSISTENCE_ERROR"
	ErrCodeNotificationFailed = "NOTIFICATION_FAILED"
)

// Error Messages
// Generic messages used when a more specific one is not available

var PirepErrorMessages = map[string]string{
	ErrCodeValidation:         "The submitted PIREP is invalid",
	ErrCodePermissionDenied:   "You do not have permission to perform this action",
	ErrCodeRankLimitExceeded:  "Flight time exceeds the maximum allowed for your rank",
	ErrCodeAircraftNotAllowed: "This aircraft is not available at your rank",
	ErrCodeNotFound:           "PIREP not found",
	ErrCodePersistence:        "Failed to save PIREP data",
	ErrCodeNotificationFailed: "PIREP was filed but the notification could not be delivered",
}

// GetPirepErrorMessage returns the human-readable message for an error code
func GetPirepErrorMessage(code string) string {
	if msg, exists := PirepErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
