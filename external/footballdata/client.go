package footballdata

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
	ProviderName   = "footballdata"
	defaultBaseURL = "https://api.football-data.org/v4"
	authHeader     = "X-Auth-Token"
)

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  *logging.Logger
}

type Client struct {
	http    *upstream.Client
	baseURL string
	apiKey  string
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
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
	}
}

func (c *Client) Name() string {
	return ProviderName
}

func (c *Client) Resolve(_ context.Context, descriptor league.Descriptor) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(descriptor.FootballDataCode))
	if code == "" {
		return "", fmt.Errorf("%w: %s has no %s competition code", usecase.ErrUnsupportedLeague, descriptor.Key, ProviderName)
	}
	return code, nil
}

func (c *Client) Fetch(ctx context.Context, ref, season string) ([]byte, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("%w: competition code is required", usecase.ErrInvalidInput)
	}

	query := url.Values{}
	if season = strings.TrimSpace(season); season != "" {
		year, ok := standings.SeasonStartYear(season)
		if !ok {
			return nil, fmt.Errorf("%w: %s seasons are start years, got %q", usecase.ErrInvalidInput, ProviderName, season)
		}
		query.Set("season", strconv.Itoa(year))
	}

	path := "/competitions/" + url.PathEscape(ref) + "/standings"
	payload, err := c.http.Get(ctx, upstream.BuildURL(c.baseURL, path, query), map[string]string{
		authHeader: c.apiKey,
	})
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch football-data standings competition=%s", ref)
	}
	return payload, nil
}
