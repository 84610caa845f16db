package repositories

import (
	"context"
	"fmt"

	gormModels "infinite-experiment/flightlog/internal/models/gorm"

	"gorm.io/gorm"
)

// RankRepo handles ranks and their aircraft allow-lists
type RankRepo struct {
	db *gorm.DB
}

func NewRankRepo(db *gorm.DB) *RankRepo {
	return &RankRepo{db: db}
}

// ListWithAircraft returns every rank, lowest first, with its allow-list preloaded
func (r *RankRepo) ListWithAircraft(ctx context.Context) ([]gormModels.Rank, error) {
	var ranks []gormModels.Rank

	err := r.db.WithContext(ctx).
		Preload("AllowedAircraft").
		Order("minimum_flight_time ASC").
		Find(&ranks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list ranks: %w", err)
	}

	return ranks, nil
}
