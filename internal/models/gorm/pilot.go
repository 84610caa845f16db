package gorm

import (
	"time"

	"github.com/google/uuid"
	"infinite-experiment/flightlog/internal/constants"

	gormlib "gorm.io/gorm"
)

type Pilot struct {
	ID            string    `gorm:"column:id;primaryKey;type:uuid"`
	Callsign      string    `gorm:"column:callsign;type:varchar(20);uniqueIndex"`
	Name          string    `gorm:"column:name;type:varchar(100)"`
	CurrentRankID *string   `gorm:"column:current_rank_id;type:uuid"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Roles []PilotRole `gorm:"foreignKey:PilotID"`
}

// TableName specifies the table name for GORM
func (Pilot) TableName() string {
	return "pilots"
}

func (p *Pilot) BeforeCreate(tx *gormlib.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PilotRole grants a capability to a pilot
type PilotRole struct {
	PilotID   string         `gorm:"column:pilot_id;primaryKey;type:uuid"`
	Role      constants.Role `gorm:"column:role;primaryKey;type:varchar(16)"`
	GrantedAt time.Time      `gorm:"column:granted_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (PilotRole) TableName() string {
	return "pilot_roles"
}
