package constants

// Outbound provider error codes
const (
	ErrCodeNetworkError    = "NETWORK_ERROR"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeWebhookRejected = "WEBHOOK_REJECTED"
)

var ProviderErrorMessages = map[string]string{
	ErrCodeNetworkError:    "Unable to reach the webhook endpoint",
	ErrCodeRateLimited:     "Rate limit exceeded. Please try again later",
	ErrCodeWebhookRejected: "The webhook endpoint rejected the notification",
}

// GetProviderErrorMessage returns the human-readable message for a provider error code
func GetProviderErrorMessage(code string) string {
	if msg, exists := ProviderErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
