package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/riskibarqy/league-standings/internal/domain/league"
	"github.com/riskibarqy/league-standings/internal/domain/standings"
	"github.com/riskibarqy/league-standings/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-standings/internal/platform/cache"
	leaguemock "github.com/riskibarqy/league-standings/internal/mocks/domain/league"
	usecasemock "github.com/riskibarqy/league-standings/internal/mocks/usecase"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newLeagueRepo(t *testing.T) league.Repository {
	t.Helper()
	repo, err := memory.NewLeagueRepository(memory.SeedLeagues())
	require.NoError(t, err)
	return repo
}

func table(n int) standings.Result {
	out := standings.Result{League: "provider name", Standings: make([]standings.Record, 0, n)}
	for i := 1; i <= n; i++ {
		out.Standings = append(out.Standings, standings.NewRecord(
			i, fmt.Sprintf("Team %02d", i), 10, 5, 3, 2, 18, nil, standings.IntPtr(20-i), standings.IntPtr(10), "",
		))
	}
	return out
}

func TestStandingsService_GetStandings_LoadsThenServesFromCache(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewProvider(t)
	provider.On("Name").Return("allsports").Maybe()
	provider.On("Resolve", mock.Anything, mock.MatchedBy(func(d league.Descriptor) bool { return d.Key == "england" })).
		Return("152", nil).Once()
	provider.On("Fetch", mock.Anything, "152", "").Return([]byte(`{}`), nil).Once()
	provider.On("Normalize", []byte(`{}`)).Return(table(20), nil).Once()

	service := NewStandingsService(newLeagueRepo(t), provider, cache.NewStore[standings.Result](), time.Minute, nil)

	first, err := service.GetStandings(context.Background(), "  England ", "")
	require.NoError(t, err)
	require.Equal(t, "Premier League", first.League)
	require.Len(t, first.Standings, 20)

	second, err := service.GetStandings(context.Background(), "england", "")
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("cached result differs (-first +second):\n%s", diff)
	}
}

func TestStandingsService_GetStandings_ReloadsAfterTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	provider := usecasemock.NewProvider(t)
	provider.On("Name").Return("footballdata").Maybe()
	provider.On("Resolve", mock.Anything, mock.Anything).Return("PD", nil).Twice()
	provider.On("Fetch", mock.Anything, "PD", "2024").Return([]byte(`{}`), nil).Twice()
	provider.On("Normalize", mock.Anything).Return(table(3), nil).Twice()

	store := cache.NewStore[standings.Result]().WithClock(clock)
	service := NewStandingsService(newLeagueRepo(t), provider, store, 5*time.Minute, nil)

	result, err := service.GetStandings(context.Background(), "spain", "2024")
	require.NoError(t, err)
	require.Equal(t, "2024", result.Season)

	mu.Lock()
	now = now.Add(4 * time.Minute)
	mu.Unlock()
	_, err = service.GetStandings(context.Background(), "spain", "2024")
	require.NoError(t, err)

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()
	_, err = service.GetStandings(context.Background(), "spain", "2024")
	require.NoError(t, err)
}

func TestStandingsService_GetStandings_UnsupportedLeague(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewProvider(t)
	provider.On("Name").Return("allsports").Maybe()

	service := NewStandingsService(newLeagueRepo(t), provider, nil, time.Minute, nil)
	_, err := service.GetStandings(context.Background(), "germany", "")
	if !errors.Is(err, ErrUnsupportedLeague) {
		t.Fatalf("expected ErrUnsupportedLeague, got %v", err)
	}
	require.Contains(t, err.Error(), "germany")
}

func TestStandingsService_RepositoryFailuresPropagate(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("league table unavailable")
	repo := leaguemock.NewRepository(t)
	repo.On("GetByKey", mock.Anything, "england").Return(league.Descriptor{}, false, repoErr).Once()
	repo.On("List", mock.Anything).Return(nil, repoErr).Once()
	provider := usecasemock.NewProvider(t)

	service := NewStandingsService(repo, provider, nil, time.Minute, nil)

	_, err := service.GetStandings(context.Background(), " England ", "")
	require.ErrorIs(t, err, repoErr)
	require.Equal(t, "InternalError", Reason(err))

	_, err = service.ListLeagues(context.Background())
	require.ErrorIs(t, err, repoErr)
}

func TestStandingsService_GetStandings_InvalidSeason(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewProvider(t)
	service := NewStandingsService(newLeagueRepo(t), provider, nil, time.Minute, nil)

	_, err := service.GetStandings(context.Background(), "england", "last year")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStandingsService_GetStandings_FailuresAreNotCached(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewProvider(t)
	provider.On("Name").Return("allsports").Maybe()
	provider.On("Resolve", mock.Anything, mock.Anything).Return("152", nil).Twice()
	provider.On("Fetch", mock.Anything, "152", "").Return(nil, fmt.Errorf("allsports status=403: %w", ErrAccessDenied)).Once()
	provider.On("Fetch", mock.Anything, "152", "").Return([]byte(`{}`), nil).Once()
	provider.On("Normalize", mock.Anything).Return(table(2), nil).Once()

	store := cache.NewStore[standings.Result]()
	service := NewStandingsService(newLeagueRepo(t), provider, store, time.Minute, nil)

	_, err := service.GetStandings(context.Background(), "england", "")
	if !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	require.Zero(t, store.Len())

	result, err := service.GetStandings(context.Background(), "england", "")
	require.NoError(t, err)
	require.Len(t, result.Standings, 2)
}

func TestStandingsService_GetStandings_RejectsEmptyAndInconsistentTables(t *testing.T) {
	t.Parallel()

	broken := table(1)
	broken.Standings[0].GoalDiff = 99

	cases := []struct {
		name   string
		result standings.Result
		want   error
	}{
		{"empty", standings.Result{League: "x"}, ErrEmptyStandings},
		{"goal diff mismatch", broken, ErrMalformedResponse},
	}
	for _, tc := range cases {
		provider := usecasemock.NewProvider(t)
		provider.On("Name").Return("allsports").Maybe()
		provider.On("Resolve", mock.Anything, mock.Anything).Return("152", nil).Once()
		provider.On("Fetch", mock.Anything, "152", "").Return([]byte(`{}`), nil).Once()
		provider.On("Normalize", mock.Anything).Return(tc.result, nil).Once()

		store := cache.NewStore[standings.Result]()
		service := NewStandingsService(newLeagueRepo(t), provider, store, time.Minute, nil)
		_, err := service.GetStandings(context.Background(), "england", "")
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		require.Zero(t, store.Len(), tc.name)
	}
}

func TestStandingsService_GetStandings_CoalescesConcurrentMisses(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	provider := usecasemock.NewProvider(t)
	provider.On("Name").Return("allsports").Maybe()
	provider.On("Resolve", mock.Anything, mock.Anything).Return("152", nil).Once()
	provider.On("Fetch", mock.Anything, "152", "").
		Run(func(mock.Arguments) { <-release }).
		Return([]byte(`{}`), nil).Once()
	provider.On("Normalize", mock.Anything).Return(table(20), nil).Once()

	service := NewStandingsService(newLeagueRepo(t), provider, nil, time.Minute, nil)

	const callers = 16
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := service.GetStandings(context.Background(), "england", "")
			if err == nil && len(result.Standings) != 20 {
				err = fmt.Errorf("unexpected rows %d", len(result.Standings))
			}
			errs <- err
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}

func TestStandingsService_Refresh_BypassesFreshEntry(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewProvider(t)
	provider.On("Name").Return("allsports").Maybe()
	provider.On("Resolve", mock.Anything, mock.Anything).Return("302", nil).Twice()
	provider.On("Fetch", mock.Anything, "302", "").Return([]byte(`{}`), nil).Twice()
	provider.On("Normalize", mock.Anything).Return(table(4), nil).Once()
	provider.On("Normalize", mock.Anything).Return(table(5), nil).Once()

	service := NewStandingsService(newLeagueRepo(t), provider, nil, time.Hour, nil)

	first, err := service.GetStandings(context.Background(), "spain", "")
	require.NoError(t, err)
	require.Len(t, first.Standings, 4)

	refreshed, err := service.Refresh(context.Background(), "spain", "")
	require.NoError(t, err)
	require.Len(t, refreshed.Standings, 5)

	cached, err := service.GetStandings(context.Background(), "spain", "")
	require.NoError(t, err)
	require.Len(t, cached.Standings, 5)
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "england:current", CacheKey(" England", ""))
	require.Equal(t, "spain:2024", CacheKey("spain", " 2024 "))
}
