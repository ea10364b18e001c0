package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/league-standings/internal/domain/league"
)

// LeagueRepository holds the static descriptor table. It is built once and never mutated.
type LeagueRepository struct {
	mu     sync.RWMutex
	items  map[string]league.Descriptor
	orders []string
}

func NewLeagueRepository(descriptors []league.Descriptor) (*LeagueRepository, error) {
	items := make(map[string]league.Descriptor, len(descriptors))
	orders := make([]string, 0, len(descriptors))

	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("seed league descriptor: %w", err)
		}
		if _, exists := items[d.Key]; exists {
			return nil, fmt.Errorf("duplicate league key %q", d.Key)
		}
		items[d.Key] = d
		orders = append(orders, d.Key)
	}

	return &LeagueRepository{
		items:  items,
		orders: orders,
	}, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.Descriptor, 0, len(r.orders))
	for _, key := range r.orders {
		out = append(out, r.items[key])
	}

	return out, nil
}

func (r *LeagueRepository) GetByKey(_ context.Context, key string) (league.Descriptor, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.items[league.NormalizeKey(key)]
	if !ok {
		return league.Descriptor{}, false, nil
	}

	return d, true, nil
}
