package dtos

import "time"

// RankEvaluation asks the rank evaluator to re-check a pilot after their ledger moved.
type RankEvaluation struct {
	PilotID     string    `json:"pilot_id"`
	PirepID     string    `json:"pirep_id,omitempty"`
	OldTotal    int       `json:"old_total"`
	NewTotal    int       `json:"new_total"`
	Source      string    `json:"source"`
	RequestedAt time.Time `json:"requested_at"`
}

// PirepCreatedPayload is handed to the outbound notifier once a PIREP is filed.
type PirepCreatedPayload struct {
	PirepID            string    `json:"pirep_id"`
	PilotID            string    `json:"pilot_id"`
	FlightNumber       string    `json:"flight_number"`
	DepartureIcao      string    `json:"departure_icao"`
	ArrivalIcao        string    `json:"arrival_icao"`
	AdjustedFlightTime int       `json:"adjusted_flight_time"`
	AircraftLabel      string    `json:"aircraft_label"`
	MultiplierName     string    `json:"multiplier_name,omitempty"`
	FiledAt            time.Time `json:"filed_at"`
}
