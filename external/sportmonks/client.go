package sportmonks

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
	"github.com/riskibarqy/league-standings/internal/platform/logging"
	"github.com/riskibarqy/league-standings/internal/usecase"
)

const (
	ProviderName           = "sportmonks"
	defaultBaseURL         = "https://api.sportmonks.com/v3/football"
	defaultIncludeStanding = "participant;details.type;form"
)

type ClientConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Logger  *logging.Logger
}

type Client struct {
	http    *upstream.Client
	baseURL string
	token   string
	logger  *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	token := strings.TrimSpace(cfg.Token)

	return &Client{
		http: upstream.NewClient(upstream.Config{
			Provider: ProviderName,
			Timeout:  cfg.Timeout,
			Secrets:  []string{token},
			Logger:   logger,
		}),
		baseURL: baseURL,
		token:   token,
		logger:  logger,
	}
}

func (c *Client) Name() string {
	return ProviderName
}

func (c *Client) Resolve(_ context.Context, descriptor league.Descriptor) (string, error) {
	if descriptor.SportMonksLeagueID <= 0 {
		return "", fmt.Errorf("%w: %s has no %s league id", usecase.ErrUnsupportedLeague, descriptor.Key, ProviderName)
	}
	return strconv.FormatInt(descriptor.SportMonksLeagueID, 10), nil
}

// Fetch reads live standings for the league when season is empty. Otherwise season must be a
// Sportmonks season id.
func (c *Client) Fetch(ctx context.Context, ref, season string) ([]byte, error) {
	season = strings.TrimSpace(season)
	if season == "" {
		leagueRefID, err := strconv.ParseInt(strings.TrimSpace(ref), 10, 64)
		if err != nil || leagueRefID <= 0 {
			return nil, fmt.Errorf("%w: league reference id must be greater than zero", usecase.ErrInvalidInput)
		}
		return c.FetchLiveStandingsByLeague(ctx, leagueRefID)
	}

	seasonID, err := strconv.ParseInt(season, 10, 64)
	if err != nil || seasonID <= 0 {
		return nil, fmt.Errorf("%w: sportmonks season must be a numeric season id", usecase.ErrInvalidInput)
	}
	return c.FetchStandingsBySeason(ctx, seasonID)
}

func (c *Client) FetchStandingsBySeason(ctx context.Context, seasonID int64) ([]byte, error) {
	raw, err := c.doGet(ctx, fmt.Sprintf("/standings/seasons/%d", seasonID))
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch standings season_id=%d", seasonID)
	}
	return raw, nil
}

func (c *Client) FetchLiveStandingsByLeague(ctx context.Context, leagueRefID int64) ([]byte, error) {
	raw, err := c.doGet(ctx, fmt.Sprintf("/standings/live/leagues/%d", leagueRefID))
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch live standings league_ref_id=%d", leagueRefID)
	}
	return raw, nil
}

func (c *Client) doGet(ctx context.Context, path string) ([]byte, error) {
	values := url.Values{}
	values.Set("include", defaultIncludeStanding)
	values.Set("api_token", c.token)
	return c.http.Get(ctx, upstream.BuildURL(c.baseURL, path, values), nil)
}
