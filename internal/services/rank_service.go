package services

import (
	"context"
	"fmt"
	"time"

	"infinite-experiment/flightlog/internal/common"
	"infinite-experiment/flightlog/internal/constants"
	"infinite-experiment/flightlog/internal/db/repositories"
	gormModels "infinite-experiment/flightlog/internal/models/gorm"

	"golang.org/x/sync/singleflight"
)

const rankCacheTTL = 10 * time.Minute

type RankStore interface {
	ListWithAircraft(ctx context.Context) ([]gormModels.Rank, error)
}

var _ RankStore = (*repositories.RankRepo)(nil)

// cachedRank is the cache representation of a rank and its allow-list
type cachedRank struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	MinimumFlightTime float64  `json:"minimum_flight_time"`
	MaximumFlightTime *float64 `json:"maximum_flight_time,omitempty"`
	Aircraft          []string `json:"aircraft"`
}

func (r cachedRank) toModel() *gormModels.Rank {
	return &gormModels.Rank{
		ID:                r.ID,
		Name:              r.Name,
		MinimumFlightTime: r.MinimumFlightTime,
		MaximumFlightTime: r.MaximumFlightTime,
	}
}

// RankService resolves ranks from a cached copy of the rank table.
// Concurrent cache misses share a single load.
type RankService struct {
	store RankStore
	cache common.CacheInterface
	group singleflight.Group
}

func NewRankService(store RankStore, cache common.CacheInterface) *RankService {
	return &RankService{
		store: store,
		cache: cache,
	}
}

var _ RankResolver = (*RankService)(nil)

func (s *RankService) loadRanks(ctx context.Context) ([]cachedRank, error) {
	key := string(constants.CachePrefixRanks)

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		var ranks []cachedRank
		err := s.cache.GetOrSet(key, rankCacheTTL, &ranks, func() (interface{}, error) {
			rows, err := s.store.ListWithAircraft(ctx)
			if err != nil {
				return nil, err
			}
			loaded := make([]cachedRank, 0, len(rows))
			for _, row := range rows {
				entry := cachedRank{
					ID:                row.ID,
					Name:              row.Name,
					MinimumFlightTime: row.MinimumFlightTime,
					MaximumFlightTime: row.MaximumFlightTime,
					Aircraft:          make([]string, 0, len(row.AllowedAircraft)),
				}
				for _, ra := range row.AllowedAircraft {
					entry.Aircraft = append(entry.Aircraft, ra.AircraftID)
				}
				loaded = append(loaded, entry)
			}
			return loaded, nil
		})
		return ranks, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load ranks: %w", err)
	}

	return v.([]cachedRank), nil
}

// ResolveRank returns the highest rank whose minimum is covered by totalMinutes,
// or nil when the total is below every rank.
func (s *RankService) ResolveRank(ctx context.Context, totalMinutes int) (*gormModels.Rank, error) {
	ranks, err := s.loadRanks(ctx)
	if err != nil {
		return nil, err
	}

	var best *cachedRank
	for i := range ranks {
		if common.HoursToMinutes(ranks[i].MinimumFlightTime) > totalMinutes {
			continue
		}
		if best == nil || ranks[i].MinimumFlightTime > best.MinimumFlightTime {
			best = &ranks[i]
		}
	}

	if best == nil {
		return nil, nil
	}
	return best.toModel(), nil
}

// AllowedAircraft returns the rank's allow-list; empty means any aircraft
func (s *RankService) AllowedAircraft(ctx context.Context, rankID string) ([]string, error) {
	ranks, err := s.loadRanks(ctx)
	if err != nil {
		return nil, err
	}

	for _, r := range ranks {
		if r.ID == rankID {
			return append([]string(nil), r.Aircraft...), nil
		}
	}
	return nil, nil
}

// Invalidate drops the cached rank table, e.g. after ranks are edited
func (s *RankService) Invalidate() {
	s.cache.Delete(string(constants.CachePrefixRanks))
}
