package footballdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/league-standings/internal/domain/league"
	"github.com/riskibarqy/league-standings/internal/domain/standings"
	"github.com/riskibarqy/league-standings/internal/usecase"
	"github.com/stretchr/testify/require"
)

func row(position int, team string, gf, ga int) map[string]any {
	return map[string]any{
		"position":       position,
		"team":           map[string]any{"name": team},
		"playedGames":    4,
		"form":           "W,W,D,L",
		"won":            2,
		"draw":           1,
		"lost":           1,
		"points":         7,
		"goalsFor":       gf,
		"goalsAgainst":   ga,
		"goalDifference": gf - ga,
	}
}

func fixture(t *testing.T) []byte {
	t.Helper()
	raw, err := jsoniter.Marshal(map[string]any{
		"competition": map[string]any{"name": "Primera Division", "code": "PD"},
		"season":      map[string]any{"startDate": "2024-08-15"},
		"standings": []any{
			map[string]any{"type": "HOME", "table": []any{row(1, "Home Side", 3, 0)}},
			map[string]any{"type": "TOTAL", "table": []any{row(1, "FC Barcelona", 12, 4), row(2, "Real Madrid CF", 8, 3)}},
		},
	})
	require.NoError(t, err)
	return raw
}

func TestNormalize_SelectsTotalTable(t *testing.T) {
	t.Parallel()

	got, err := Normalize(fixture(t))
	require.NoError(t, err)

	want := standings.Result{
		League: "Primera Division",
		Season: "2024",
		Standings: []standings.Record{
			{Position: 1, Team: "FC Barcelona", Played: 4, Wins: 2, Draws: 1, Losses: 1, Points: 7, GoalDiff: 8, GoalsFor: standings.IntPtr(12), GoalsAgainst: standings.IntPtr(4), Form: "WWDL"},
			{Position: 2, Team: "Real Madrid CF", Played: 4, Wins: 2, Draws: 1, Losses: 1, Points: 7, GoalDiff: 5, GoalsFor: standings.IntPtr(8), GoalsAgainst: standings.IntPtr(3), Form: "WWDL"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}
}

func TestNormalize_Failures(t *testing.T) {
	t.Parallel()

	errorBody, _ := jsoniter.Marshal(map[string]any{"errorCode": 400, "message": "Wrong season"})
	_, err := Normalize(errorBody)
	require.True(t, crerr.Is(err, usecase.ErrMalformedResponse), "got %v", err)

	missing, _ := jsoniter.Marshal(map[string]any{"competition": map[string]any{"name": "Premier League"}})
	_, err = Normalize(missing)
	require.True(t, crerr.Is(err, usecase.ErrEmptyStandings), "got %v", err)

	emptyTable, _ := jsoniter.Marshal(map[string]any{"standings": []any{map[string]any{"type": "TOTAL", "table": []any{}}}})
	_, err = Normalize(emptyTable)
	require.True(t, crerr.Is(err, usecase.ErrEmptyStandings), "got %v", err)

	_, err = Normalize([]byte("not json"))
	require.True(t, crerr.Is(err, usecase.ErrMalformedResponse), "got %v", err)
}

func TestClient_FetchSendsTokenAndSeason(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/competitions/PL/standings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Auth-Token") != "fd-token" {
			t.Errorf("missing auth token header")
		}
		if r.URL.Query().Get("season") != "2023" {
			t.Errorf("expected season filter, got %q", r.URL.RawQuery)
		}
		_, _ = w.Write(fixture(t))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "fd-token", Timeout: 2 * time.Second})
	ref, err := client.Resolve(context.Background(), league.Descriptor{Key: "england", FootballDataCode: "pl"})
	require.NoError(t, err)
	require.Equal(t, "PL", ref)

	payload, err := client.Fetch(context.Background(), ref, "2023")
	require.NoError(t, err)

	result, err := client.Normalize(payload)
	require.NoError(t, err)
	require.Len(t, result.Standings, 2)

	_, err = client.Resolve(context.Background(), league.Descriptor{Key: "mars"})
	require.True(t, crerr.Is(err, usecase.ErrUnsupportedLeague))
}

func TestClient_FetchReducesSeasonSpanToStartYear(t *testing.T) {
	t.Parallel()

	var seasons []string
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seasons = append(seasons, r.URL.Query().Get("season"))
		mu.Unlock()
		_, _ = w.Write(fixture(t))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "fd-token", Timeout: 2 * time.Second})
	for _, season := range []string{"2024/2025", "2024-25"} {
		_, err := client.Fetch(context.Background(), "PL", season)
		require.NoError(t, err, season)
	}

	for _, season := range []string{"23614", "2024/2026"} {
		_, err := client.Fetch(context.Background(), "PL", season)
		require.True(t, crerr.Is(err, usecase.ErrInvalidInput), "season %s: got %v", season, err)
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"2024", "2024"}, seasons)
}
