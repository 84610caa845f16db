package gorm

import (
	"time"

	"github.com/google/uuid"
	"infinite-experiment/flightlog/internal/constants"

	gormlib "gorm.io/gorm"
)

// Pirep is a pilot's report of one completed flight.
// FlightTime is the credited (multiplier adjusted) duration in minutes.
type Pirep struct {
	ID            string    `gorm:"column:id;primaryKey;type:uuid"`
	FlightNumber  string    `gorm:"column:flight_number;type:varchar(10);not null"`
	Date          time.Time `gorm:"column:date;not null"`
	DepartureIcao string    `gorm:"column:departure_icao;type:char(4);not null"`
	ArrivalIcao   string    `gorm:"column:arrival_icao;type:char(4);not null"`
	FlightTime    int       `gorm:"column:flight_time;not null"`
	Cargo         int       `gorm:"column:cargo;not null;default:0"`
	FuelBurned    int       `gorm:"column:fuel_burned;not null;default:0"`
	AircraftID    string    `gorm:"column:aircraft_id;type:uuid;not null;index"`
	MultiplierID  *string   `gorm:"column:multiplier_id;type:uuid"`
	Comments      *string   `gorm:"column:comments;type:text"`
	DeniedReason  *string   `gorm:"column:denied_reason;type:text"`

	Status  constants.PirepStatus `gorm:"column:status;type:varchar(16);not null;default:'pending';index"`
	OwnerID string                `gorm:"column:owner_id;type:uuid;not null;index"`

	// Timestamps
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Pirep) TableName() string {
	return "pireps"
}

// BeforeCreate assigns a UUID when the caller did not
func (p *Pirep) BeforeCreate(tx *gormlib.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Pirep) IsPending() bool {
	return p.Status == constants.PirepStatusPending
}
