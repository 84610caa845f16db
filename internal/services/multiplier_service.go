package services

import (
	"context"
	"errors"
	"time"

	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/db/repositories"
	gormModels "infinite-experiment/flightlog/internal/models/gorm"
)

const multiplierCacheTTL = 30 * time.Minute

var errMultiplierMissing = errors.New("multiplier not found")

type MultiplierStore interface {
	GetByID(ctx context.Context, id string) (*gormModels.Multiplier, error)
}

var _ MultiplierStore = (*repositories.MultiplierRepo)(nil)

// MultiplierService caches multiplier lookups; misses are not cached
type MultiplierService struct {
	store MultiplierStore
	cache common.CacheInterface
}

func NewMultiplierService(store MultiplierStore, cache common.CacheInterface) *MultiplierService {
	return &MultiplierService{
		store: store,
		cache: cache,
	}
}

var _ MultiplierResolver = (*MultiplierService)(nil)

func (s *MultiplierService) ResolveMultiplier(ctx context.Context, id string) (*gormModels.Multiplier, error) {
	var multiplier gormModels.Multiplier

	err := s.cache.GetOrSet(string(constants.CachePrefixMultiplier)+id, multiplierCacheTTL, &multiplier, func() (interface{}, error) {
		found, err := s.store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, errMultiplierMissing
		}
		return found, nil
	})
	if errors.Is(err, errMultiplierMissing) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &multiplier, nil
}
