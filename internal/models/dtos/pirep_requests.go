package dtos

import "time"

// CreatePirepRequest represents the request body for POST /api/v1/pireps
type CreatePirepRequest struct {
	FlightNumber  string    `json:"flight_number"`
	Date          time.Time `json:"date"`
	DepartureIcao string    `json:"departure_icao"`
	ArrivalIcao   string    `json:"arrival_icao"`
	FlightTime    int       `json:"flight_time"` // raw minutes, before any multiplier
	Cargo         int       `json:"cargo"`
	FuelBurned    int       `json:"fuel_burned"`
	AircraftID    string    `json:"aircraft_id"`
	MultiplierID  *string   `json:"multiplier_id,omitempty"`
	Comments      *string   `json:"comments,omitempty"`
}

// EditPirepRequest represents the request body for PATCH /api/v1/pireps/{id}.
// Nil fields are left untouched. For MultiplierID, Comments and DeniedReason an
// empty string clears the value.
type EditPirepRequest struct {
	ID                string  `json:"-"`
	FlightNumber      *string `json:"flight_number,omitempty"`
	DepartureIcao     *string `json:"departure_icao,omitempty"`
	ArrivalIcao       *string `json:"arrival_icao,omitempty"`
	FlightTimeHours   *int    `json:"flight_time_hours,omitempty"`
	FlightTimeMinutes *int    `json:"flight_time_minutes,omitempty"`
	Cargo             *int    `json:"cargo,omitempty"`
	FuelBurned        *int    `json:"fuel_burned,omitempty"`
	AircraftID        *string `json:"aircraft_id,omitempty"`
	MultiplierID      *string `json:"multiplier_id,omitempty"`
	Comments          *string `json:"comments,omitempty"`
	DeniedReason      *string `json:"denied_reason,omitempty"`
}

// HasDirectTimeChange reports whether the caller entered a new raw duration.
func (r *EditPirepRequest) HasDirectTimeChange() bool {
	return r.FlightTimeHours != nil || r.FlightTimeMinutes != nil
}

// RawTime returns the entered duration. Edits are validated to carry both components.
func (r *EditPirepRequest) RawTime() (hours, minutes int) {
	if r.FlightTimeHours != nil {
		hours = *r.FlightTimeHours
	}
	if r.FlightTimeMinutes != nil {
		minutes = *r.FlightTimeMinutes
	}
	return hours, minutes
}

// DenyPirepRequest represents the request body for POST /api/v1/pireps/{id}/deny
type DenyPirepRequest struct {
	Reason string `json:"reason"`
}
