package usecase

import (
	"context"

	"github.com/riskibarqy/league-standings/internal/domain/league"
	"github.com/riskibarqy/league-standings/internal/domain/standings"
)

// Normalizer maps one provider's payload onto the canonical standings shape. Implementations
// must be pure: the same payload always yields the same result.
type Normalizer interface {
	Normalize(payload []byte) (standings.Result, error)
}

// Provider is one standings data source. The pipeline resolves, fetches and normalizes through
// this interface without knowing which provider is configured.
type Provider interface {
	Normalizer
	Name() string
	// Resolve picks the provider's own league identifier from a descriptor.
	Resolve(ctx context.Context, descriptor league.Descriptor) (string, error)
	// Fetch makes a single upstream call and returns the raw payload.
	Fetch(ctx context.Context, ref, season string) ([]byte, error)
}
