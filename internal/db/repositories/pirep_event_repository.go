package repositories

import (
	"context"
	"fmt"

	gormModels "infinite-experiment/flightlog/internal/models/gorm"

	"gorm.io/gorm"
)

// PirepEventRepo is the append-only store for the PIREP audit trail.
// It deliberately has no update or delete methods.
type PirepEventRepo struct {
	db *gorm.DB
}

func NewPirepEventRepo(db *gorm.DB) *PirepEventRepo {
	return &PirepEventRepo{db: db}
}

// Append inserts one event
func (r *PirepEventRepo) Append(ctx context.Context, event *gormModels.PirepEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to append pirep event: %w", err)
	}
	return nil
}

// ListByPirep returns a PIREP's events, oldest first. id breaks timestamp ties so the order is stable.
func (r *PirepEventRepo) ListByPirep(ctx context.Context, pirepID string) ([]gormModels.PirepEvent, error) {
	var events []gormModels.PirepEvent

	err := r.db.WithContext(ctx).
		Where("pirep_id = ?", pirepID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pirep events: %w", err)
	}

	return events, nil
}
