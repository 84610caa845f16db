package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "infinite-experiment/flightlog/internal/models/gorm"

	"gorm.io/gorm"
)

// PirepRepo handles pireps table operations using GORM
type PirepRepo struct {
	db *gorm.DB
}

func NewPirepRepo(db *gorm.DB) *PirepRepo {
	return &PirepRepo{db: db}
}

// Create inserts a new PIREP row
func (r *PirepRepo) Create(ctx context.Context, pirep *gormModels.Pirep) error {
	if err := r.db.WithContext(ctx).Create(pirep).Error; err != nil {
		return fmt.Errorf("failed to create pirep: %w", err)
	}
	return nil
}

// GetByID retrieves a PIREP by its ID. Returns nil when it does not exist.
func (r *PirepRepo) GetByID(ctx context.Context, id string) (*gormModels.Pirep, error) {
	var pirep gormModels.Pirep

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&pirep).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch pirep: %w", err)
	}

	return &pirep, nil
}

// Save writes every column of the row, including cleared optional fields
func (r *PirepRepo) Save(ctx context.Context, pirep *gormModels.Pirep) error {
	if err := r.db.WithContext(ctx).Save(pirep).Error; err != nil {
		return fmt.Errorf("failed to save pirep: %w", err)
	}
	return nil
}

// ListByOwner returns a pilot's PIREPs, newest flight first
func (r *PirepRepo) ListByOwner(ctx context.Context, ownerID string, limit int) ([]gormModels.Pirep, error) {
	var pireps []gormModels.Pirep

	query := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("date DESC, created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&pireps).Error; err != nil {
		return nil, fmt.Errorf("failed to list pireps: %w", err)
	}
	return pireps, nil
}
