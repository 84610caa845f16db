package gorm

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	gormlib "gorm.io/gorm"
)

type Aircraft struct {
	ID           string    `gorm:"column:id;primaryKey;type:uuid"`
	Name         string    `gorm:"column:name;type:varchar(100);not null"`
	IcaoType     string    `gorm:"column:icao_type;type:varchar(4)"`
	Registration string    `gorm:"column:registration;type:varchar(16)"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Aircraft) TableName() string {
	return "aircraft"
}

func (a *Aircraft) BeforeCreate(tx *gormlib.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Label is the human readable name used in messages, e.g. "Airbus A320 (G-EUUA)"
func (a *Aircraft) Label() string {
	if a.Registration == "" {
		return a.Name
	}
	return fmt.Sprintf("%s (%s)", a.Name, a.Registration)
}
