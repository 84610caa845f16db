package repositories

import (
	"context"
	"errors"
	"fmt"

	"infinite-experiment/flightlog/internal/constants"
	gormModels "infinite-experiment/flightlog/internal/models/gorm"

	"gorm.io/gorm"
)

// PilotRepo handles pilots and pilot_roles
type PilotRepo struct {
	db *gorm.DB
}

func NewPilotRepo(db *gorm.DB) *PilotRepo {
	return &PilotRepo{db: db}
}

// GetByID returns nil when the pilot does not exist
func (r *PilotRepo) GetByID(ctx context.Context, id string) (*gormModels.Pilot, error) {
	var pilot gormModels.Pilot

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&pilot).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch pilot: %w", err)
	}

	return &pilot, nil
}

// RolesFor returns the roles granted to a pilot. Unknown pilots hold no roles.
func (r *PilotRepo) RolesFor(ctx context.Context, pilotID string) (constants.RoleSet, error) {
	var roles []constants.Role

	err := r.db.WithContext(ctx).
		Model(&gormModels.PilotRole{}).
		Where("pilot_id = ?", pilotID).
		Pluck("role", &roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pilot roles: %w", err)
	}

	return constants.NewRoleSet(roles...), nil
}

// UpdateCurrentRank stores the rank the evaluator resolved for the pilot
func (r *PilotRepo) UpdateCurrentRank(ctx context.Context, pilotID string, rankID *string) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.Pilot{}).
		Where("id = ?", pilotID).
		Update("current_rank_id", rankID)
	if result.Error != nil {
		return fmt.Errorf("failed to update pilot rank: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("pilot %s not found", pilotID)
	}
	return nil
}
