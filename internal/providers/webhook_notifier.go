package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/models/dtos"
)

// WebhookNotifier posts a Discord-compatible embed whenever a PIREP is filed
type WebhookNotifier struct {
	URL     string
	Client  *http.Client
	limiter *rate.Limiter
}

// NewWebhookNotifier creates a notifier that sends at most requestsPerSecond posts
func NewWebhookNotifier(url string, requestsPerSecond float64) *WebhookNotifier {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &WebhookNotifier{
		URL: url,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

type webhookEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type webhookEmbed struct {
	Title     string              `json:"title"`
	Fields    []webhookEmbedField `json:"fields"`
	Timestamp string              `json:"timestamp"`
}

type webhookMessage struct {
	Content string         `json:"content"`
	Embeds  []webhookEmbed `json:"embeds"`
}

func buildWebhookMessage(payload dtos.PirepCreatedPayload) webhookMessage {
	fields := []webhookEmbedField{
		{Name: "Flight", Value: payload.FlightNumber, Inline: true},
		{Name: "Route", Value: payload.DepartureIcao + " → " + payload.ArrivalIcao, Inline: true},
		{Name: "Flight time", Value: common.FormatHours(payload.AdjustedFlightTime), Inline: true},
		{Name: "Aircraft", Value: payload.AircraftLabel, Inline: true},
	}
	if payload.MultiplierName != "" {
		fields = append(fields, webhookEmbedField{Name: "Multiplier", Value: payload.MultiplierName, Inline: true})
	}

	return webhookMessage{
		Content: fmt.Sprintf("New PIREP filed by pilot %s", payload.PilotID),
		Embeds: []webhookEmbed{{
			Title:     "PIREP " + payload.PirepID,
			Fields:    fields,
			Timestamp: payload.FiledAt.UTC().Format(time.RFC3339),
		}},
	}
}

// NotifyPirepCreated delivers the notification; any failure is returned to the caller
func (n *WebhookNotifier) NotifyPirepCreated(ctx context.Context, payload dtos.PirepCreatedPayload) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetProviderErrorMessage(constants.ErrCodeRateLimited),
			Err:     err,
		}
	}

	body, err := json.Marshal(buildWebhookMessage(payload))
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetProviderErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		code := constants.ErrCodeWebhookRejected
		if resp.StatusCode == http.StatusTooManyRequests {
			code = constants.ErrCodeRateLimited
		}
		return &ProviderError{
			Code:       code,
			Message:    fmt.Sprintf("HTTP %d from webhook", resp.StatusCode),
			Details:    string(respBody),
			StatusCode: resp.StatusCode,
		}
	}

	return nil
}

// NoopNotifier is used when no webhook is configured
type NoopNotifier struct{}

func (NoopNotifier) NotifyPirepCreated(ctx context.Context, payload dtos.PirepCreatedPayload) error {
	return nil
}
