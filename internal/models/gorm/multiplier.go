package gorm

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	gormlib "gorm.io/gorm"
)

// Multiplier is a bonus factor applied to a report's raw flight time
type Multiplier struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	Name      string    `gorm:"column:name;type:varchar(100);not null"`
	Value     float64   `gorm:"column:value;type:numeric(6,3);not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Multiplier) TableName() string {
	return "multipliers"
}

func (m *Multiplier) BeforeSave(tx *gormlib.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Value <= 1.0 {
		return fmt.Errorf("multiplier %q must be greater than 1.0, got %v", m.Name, m.Value)
	}
	return nil
}
