package gorm

import (
	"time"

	"github.com/google/uuid"

	gormlib "gorm.io/gorm"
)

// Rank is a seniority tier. Flight time bounds are in hours.
type Rank struct {
	ID                string    `gorm:"column:id;primaryKey;type:uuid"`
	Name              string    `gorm:"column:name;type:varchar(100);not null;uniqueIndex"`
	MinimumFlightTime float64   `gorm:"column:minimum_flight_time;not null;default:0"`
	MaximumFlightTime *float64  `gorm:"column:maximum_flight_time"` // caps a single report
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	AllowedAircraft []RankAircraft `gorm:"foreignKey:RankID"`
}

// TableName specifies the table name for GORM
func (Rank) TableName() string {
	return "ranks"
}

func (r *Rank) BeforeCreate(tx *gormlib.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// RankAircraft is one entry of a rank's aircraft allow-list.
// A rank with no entries may fly anything.
type RankAircraft struct {
	RankID     string `gorm:"column:rank_id;primaryKey;type:uuid"`
	AircraftID string `gorm:"column:aircraft_id;primaryKey;type:uuid"`
}

// TableName specifies the table name for GORM
func (RankAircraft) TableName() string {
	return "rank_aircraft"
}
