package dtos

import "time"

type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	ErrorCode    string `json:"error_code,omitempty"`
	ResponseTime string `json:"response_time"`
	Data         any    `json:"data,omitempty"`
}

type PirepResponse struct {
	ID            string    `json:"id"`
	FlightNumber  string    `json:"flight_number"`
	Date          time.Time `json:"date"`
	DepartureIcao string    `json:"departure_icao"`
	ArrivalIcao   string    `json:"arrival_icao"`
	FlightTime    int       `json:"flight_time"`
	Cargo         int       `json:"cargo"`
	FuelBurned    int       `json:"fuel_burned"`
	AircraftID    string    `json:"aircraft_id"`
	MultiplierID  *string   `json:"multiplier_id,omitempty"`
	Comments      *string   `json:"comments,omitempty"`
	DeniedReason  *string   `json:"denied_reason,omitempty"`
	Status        string    `json:"status"`
	OwnerID       string    `json:"owner_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreatePirepResponse struct {
	Pirep              PirepResponse `json:"pirep"`
	AdjustedFlightTime int           `json:"adjusted_flight_time"`
}

type PirepEventResponse struct {
	ID             string                       `json:"id"`
	PirepID        string                       `json:"pirep_id"`
	Action         string                       `json:"action"`
	PerformedBy    string                       `json:"performed_by"`
	Details        string                       `json:"details"`
	PreviousValues map[TrackedField]interface{} `json:"previous_values"`
	NewValues      map[TrackedField]interface{} `json:"new_values"`
	CreatedAt      time.Time                    `json:"created_at"`
}

type RankSummary struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	MinimumFlightTime float64  `json:"minimum_flight_time"`
	MaximumFlightTime *float64 `json:"maximum_flight_time,omitempty"`
}

type PilotLedgerResponse struct {
	PilotID         string       `json:"pilot_id"`
	ApprovedMinutes int          `json:"approved_minutes"`
	ApprovedHours   string       `json:"approved_hours"`
	ApprovedCount   int          `json:"approved_count"`
	PendingCount    int          `json:"pending_count"`
	DeniedCount     int          `json:"denied_count"`
	Rank            *RankSummary `json:"rank,omitempty"`
}
