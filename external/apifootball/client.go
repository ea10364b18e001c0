package apifootball

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-standings/external/upstream"
	"github.com/riskibarqy/league-standings/internal/domain/league"
	"github.com/riskibarqy/league-standings/internal/domain/standings"
	"github.com/riskibarqy/league-standings/internal/platform/logging"
	"github.com/riskibarqy/league-standings/internal/usecase"
)

const (
	ProviderName   = "apifootball"
	defaultBaseURL = "https://v3.football.api-sports.io"
	authHeader     = "x-apisports-key"
)

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *logging.Logger
	// Now overrides the clock used for the default season.
	Now func() time.Time
}

type Client struct {
	http    *upstream.Client
	baseURL string
	apiKey  string
	now     func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	apiKey := strings.TrimSpace(cfg.APIKey)

	return &Client{
		http: upstream.NewClient(upstream.Config{
			Provider: ProviderName,
			Timeout:  cfg.Timeout,
			Secrets:  []string{apiKey},
			Logger:   cfg.Logger,
		}),
		baseURL: baseURL,
		apiKey:  apiKey,
		now:     now,
	}
}

func (c *Client) Name() string {
	return ProviderName
}

func (c *Client) Resolve(_ context.Context, descriptor league.Descriptor) (string, error) {
	if descriptor.APIFootballID <= 0 {
		return "", fmt.Errorf("%w: %s has no %s id", usecase.ErrUnsupportedLeague, descriptor.Key, ProviderName)
	}
	return strconv.FormatInt(descriptor.APIFootballID, 10), nil
}

func (c *Client) Fetch(ctx context.Context, ref, season string) ([]byte, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("%w: league id is required", usecase.ErrInvalidInput)
	}
	year := CurrentSeason(c.now())
	if season = strings.TrimSpace(season); season != "" {
		var ok bool
		if year, ok = standings.SeasonStartYear(season); !ok {
			return nil, fmt.Errorf("%w: %s seasons are start years, got %q", usecase.ErrInvalidInput, ProviderName, season)
		}
	}
	season = strconv.Itoa(year)

	query := url.Values{}
	query.Set("league", ref)
	query.Set("season", season)

	payload, err := c.http.Get(ctx, upstream.BuildURL(c.baseURL, "/standings", query), map[string]string{
		authHeader: c.apiKey,
	})
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch api-football standings league=%s season=%s", ref, season)
	}
	return payload, nil
}

// CurrentSeason is the starting year of the season in play at t. Seasons start in July.
func CurrentSeason(t time.Time) int {
	if t.Month() >= time.July {
		return t.Year()
	}
	return t.Year() - 1
}
