package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "infinite-experiment/flightlog/internal/models/gorm"

	"gorm.io/gorm"
)

type MultiplierRepo struct {
	db *gorm.DB
}

func NewMultiplierRepo(db *gorm.DB) *MultiplierRepo {
	return &MultiplierRepo{db: db}
}

// GetByID returns nil when the multiplier does not exist
func (r *MultiplierRepo) GetByID(ctx context.Context, id string) (*gormModels.Multiplier, error) {
	var multiplier gormModels.Multiplier

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&multiplier).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch multiplier: %w", err)
	}

	return &multiplier, nil
}

func (r *MultiplierRepo) Create(ctx context.Context, multiplier *gormModels.Multiplier) error {
	if err := r.db.WithContext(ctx).Create(multiplier).Error; err != nil {
		return fmt.Errorf("failed to create multiplier: %w", err)
	}
	return nil
}
