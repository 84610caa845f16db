package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "infinite-experiment/flightlog/internal/models/gorm"

	"gorm.io/gorm"
)

type AircraftRepo struct {
	db *gorm.DB
}

func NewAircraftRepo(db *gorm.DB) *AircraftRepo {
	return &AircraftRepo{db: db}
}

// GetByID returns nil when the aircraft does not exist
func (r *AircraftRepo) GetByID(ctx context.Context, id string) (*gormModels.Aircraft, error) {
	var aircraft gormModels.Aircraft

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&aircraft).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch aircraft: %w", err)
	}

	return &aircraft, nil
}
