package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/league-standings/internal/domain/league"
	"github.com/riskibarqy/league-standings/internal/domain/standings"
	"github.com/riskibarqy/league-standings/internal/platform/cache"
	"github.com/riskibarqy/league-standings/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultStandingsTTL = 5 * time.Minute

// StandingsService runs the lookup, resolve, fetch, normalize and store pipeline.
type StandingsService struct {
	leagues  league.Repository
	provider Provider
	cache    *cache.Store[standings.Result]
	ttl      time.Duration
	logger   *logging.Logger
}

func NewStandingsService(leagues league.Repository, provider Provider, store *cache.Store[standings.Result], ttl time.Duration, logger *logging.Logger) *StandingsService {
	if store == nil {
		store = cache.NewStore[standings.Result]()
	}
	if ttl <= 0 {
		ttl = DefaultStandingsTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		leagues:  leagues,
		provider: provider,
		cache:    store,
		ttl:      ttl,
		logger:   logger,
	}
}

// CacheKey builds the cache key for a league and optional season.
func CacheKey(leagueKey, season string) string {
	season = strings.TrimSpace(season)
	if season == "" {
		season = standings.CurrentSeason
	}
	return league.NormalizeKey(leagueKey) + ":" + season
}

func (s *StandingsService) ProviderName() string {
	return s.provider.Name()
}

func (s *StandingsService) ListLeagues(ctx context.Context) ([]league.Descriptor, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ListLeagues")
	items, err := s.leagues.List(ctx)
	endUsecaseSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return items, nil
}

// ResolveLeague maps a league key onto its static descriptor.
func (s *StandingsService) ResolveLeague(ctx context.Context, key string) (league.Descriptor, error) {
	normalized := league.NormalizeKey(key)
	if normalized == "" {
		return league.Descriptor{}, fmt.Errorf("%w: league is required", ErrInvalidInput)
	}

	descriptor, ok, err := s.leagues.GetByKey(ctx, normalized)
	if err != nil {
		return league.Descriptor{}, fmt.Errorf("get league %s: %w", normalized, err)
	}
	if !ok {
		return league.Descriptor{}, fmt.Errorf("%w: %s", ErrUnsupportedLeague, normalized)
	}
	return descriptor, nil
}

// GetStandings serves from the cache while fresh and loads through the provider otherwise.
func (s *StandingsService) GetStandings(ctx context.Context, leagueKey, season string) (standings.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.GetStandings",
		attribute.String("league", leagueKey),
		attribute.String("season", season),
	)
	result, err := s.getStandings(ctx, leagueKey, season, false)
	endUsecaseSpan(span, err)
	return result, err
}

// Refresh reloads standings even when a fresh entry exists.
func (s *StandingsService) Refresh(ctx context.Context, leagueKey, season string) (standings.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Refresh", attribute.String("league", leagueKey))
	result, err := s.getStandings(ctx, leagueKey, season, true)
	endUsecaseSpan(span, err)
	return result, err
}

func (s *StandingsService) getStandings(ctx context.Context, leagueKey, season string, force bool) (standings.Result, error) {
	season = strings.TrimSpace(season)
	if !standings.ValidSeason(season) {
		return standings.Result{}, fmt.Errorf("%w: season %q", ErrInvalidInput, season)
	}

	descriptor, err := s.ResolveLeague(ctx, leagueKey)
	if err != nil {
		return standings.Result{}, err
	}

	key := CacheKey(descriptor.Key, season)
	loader := func(loadCtx context.Context) (standings.Result, error) {
		// Coalesced callers share this load, so one caller going away must not cancel it.
		return s.load(context.WithoutCancel(loadCtx), descriptor, season)
	}

	var result standings.Result
	if force {
		result, err = s.cache.Refresh(ctx, key, loader)
	} else {
		result, err = s.cache.GetOrLoad(ctx, key, s.ttl, loader)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "standings unavailable",
			"provider", s.provider.Name(),
			"league", descriptor.Key,
			"season", season,
			"reason", Reason(err),
			"error", err,
		)
		return standings.Result{}, err
	}
	return result, nil
}

func (s *StandingsService) load(ctx context.Context, descriptor league.Descriptor, season string) (standings.Result, error) {
	started := time.Now()

	ref, err := s.provider.Resolve(ctx, descriptor)
	if err != nil {
		return standings.Result{}, fmt.Errorf("resolve %s on %s: %w", descriptor.Key, s.provider.Name(), err)
	}

	payload, err := s.provider.Fetch(ctx, ref, season)
	if err != nil {
		return standings.Result{}, err
	}

	result, err := s.provider.Normalize(payload)
	if err != nil {
		return standings.Result{}, err
	}
	if len(result.Standings) == 0 {
		return standings.Result{}, fmt.Errorf("%w: %s returned no rows for %s", ErrEmptyStandings, s.provider.Name(), descriptor.Key)
	}
	for _, rec := range result.Standings {
		if err := rec.Validate(); err != nil {
			return standings.Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	result.League = descriptor.Name
	if season != "" {
		result.Season = season
	}

	s.logger.InfoContext(ctx, "standings loaded",
		"provider", s.provider.Name(),
		"league", descriptor.Key,
		"ref", ref,
		"season", result.Season,
		"rows", len(result.Standings),
		"elapsed", time.Since(started),
	)
	return result, nil
}
