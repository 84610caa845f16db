package gorm

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/models/dtos"

	gormlib "gorm.io/gorm"
)

// ErrPirepEventImmutable is returned when anything tries to change a recorded event
var ErrPirepEventImmutable = errors.New("pirep events are append-only")

// PirepEvent is one entry of a PIREP's audit trail
type PirepEvent struct {
	ID             string                `gorm:"column:id;primaryKey;type:uuid"`
	PirepID        string                `gorm:"column:pirep_id;type:uuid;not null;index"`
	Action         constants.EventAction `gorm:"column:action;type:varchar(16);not null"`
	PerformedBy    string                `gorm:"column:performed_by;type:uuid;not null"`
	Details        string                `gorm:"column:details;type:text;not null;default:''"`
	PreviousValues dtos.FieldDiff        `gorm:"column:previous_values;type:text"`
	NewValues      dtos.FieldDiff        `gorm:"column:new_values;type:text"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName specifies the table name for GORM
func (PirepEvent) TableName() string {
	return "pirep_events"
}

func (e *PirepEvent) BeforeCreate(tx *gormlib.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func (e *PirepEvent) BeforeUpdate(tx *gormlib.DB) error {
	return ErrPirepEventImmutable
}

func (e *PirepEvent) BeforeDelete(tx *gormlib.DB) error {
	return ErrPirepEventImmutable
}
