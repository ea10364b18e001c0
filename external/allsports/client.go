package allsports

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/riskibarqy/league-standings/external/upstream"
	"github.com/riskibarqy/league-standings/internal/domain/league"
	"github.com/riskibarqy/league-standings/internal/platform/logging"
	"github.com/riskibarqy/league-standings/internal/platform/resilience"
	"github.com/riskibarqy/league-standings/internal/usecase"
)

const (
	ProviderName     = "allsports"
	defaultBaseURL   = "https://allsportsapi.com/api/football"
	defaultLookupTTL = 24 * time.Hour
	lookupCacheSize  = 64
)

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// DynamicLookup resolves league ids by name through met=Leagues instead of the static table.
	DynamicLookup bool
	LookupTTL     time.Duration
	Logger        *logging.Logger
}

type Client struct {
	http          *upstream.Client
	baseURL       string
	apiKey        string
	dynamicLookup bool
	logger        *logging.Logger
	resolved      *expirable.LRU[string, string]
	lookups       resilience.SingleFlight[string]
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

	lookupTTL := cfg.LookupTTL
	if lookupTTL <= 0 {
		lookupTTL = defaultLookupTTL
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	return &Client{
		http: upstream.NewClient(upstream.Config{
			Provider: ProviderName,
			Timeout:  cfg.Timeout,
			Secrets:  []string{apiKey},
			Logger:   logger,
		}),
		baseURL:       baseURL,
		apiKey:        apiKey,
		dynamicLookup: cfg.DynamicLookup,
		logger:        logger,
		resolved:      expirable.NewLRU[string, string](lookupCacheSize, nil, lookupTTL),
	}
}

func (c *Client) Name() string {
	return ProviderName
}

func (c *Client) Resolve(ctx context.Context, descriptor league.Descriptor) (string, error) {
	if c.dynamicLookup && descriptor.AllSportsCountryID > 0 {
		return c.ResolveDynamic(ctx, descriptor.AllSportsCountryID, descriptor.Name)
	}
	if descriptor.AllSportsID <= 0 {
		return "", fmt.Errorf("%w: %s has no %s id", usecase.ErrUnsupportedLeague, descriptor.Key, ProviderName)
	}
	return strconv.FormatInt(descriptor.AllSportsID, 10), nil
}

// ResolveDynamic finds a league id by display name within a country. Hits are memoized.
func (c *Client) ResolveDynamic(ctx context.Context, countryID int64, displayName string) (string, error) {
	name := strings.TrimSpace(displayName)
	if countryID <= 0 || name == "" {
		return "", fmt.Errorf("%w: country id and league name are required", usecase.ErrInvalidInput)
	}

	key := fmt.Sprintf("%d:%s", countryID, strings.ToLower(name))
	if id, ok := c.resolved.Get(key); ok {
		return id, nil
	}

	id, err, _ := c.lookups.Do(key, func() (string, error) {
		if id, ok := c.resolved.Get(key); ok {
			return id, nil
		}
		query := url.Values{}
		query.Set("met", "Leagues")
		query.Set("countryId", strconv.FormatInt(countryID, 10))
		query.Set("APIkey", c.apiKey)

		payload, err := c.http.Get(ctx, upstream.BuildURL(c.baseURL, "/", query), nil)
		if err != nil {
			return "", err
		}
		id, err := matchLeague(payload, name)
		if err != nil {
			return "", err
		}
		c.resolved.Add(key, id)
		c.logger.InfoContext(ctx, "allsports league resolved", "country_id", countryID, "league", name, "league_id", id)
		return id, nil
	})
	return id, err
}

func (c *Client) Fetch(ctx context.Context, ref, season string) ([]byte, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("%w: league id is required", usecase.ErrInvalidInput)
	}

	query := url.Values{}
	query.Set("met", "Standings")
	query.Set("leagueId", ref)
	query.Set("APIkey", c.apiKey)
	if season = strings.TrimSpace(season); season != "" {
		c.logger.DebugContext(ctx, "allsports standings ignore season filter", "league_id", ref, "season", season)
	}

	payload, err := c.http.Get(ctx, upstream.BuildURL(c.baseURL, "/", query), nil)
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch allsports standings league_id=%s", ref)
	}
	return payload, nil
}

type leaguesEnvelope struct {
	Success upstream.FlexInt    `json:"success"`
	Error   upstream.FlexString `json:"error"`
	Result  []leagueItem        `json:"result"`
}

type leagueItem struct {
	Key  upstream.FlexString `json:"league_key"`
	Name upstream.FlexString `json:"league_name"`
}

func matchLeague(payload []byte, name string) (string, error) {
	var envelope leaguesEnvelope
	if err := upstream.Decode(ProviderName, payload, &envelope); err != nil {
		return "", err
	}
	if hasError(envelope.Success, envelope.Error) {
		return "", crerr.Wrapf(usecase.ErrMalformedResponse, "allsports leagues error=%s", envelope.Error)
	}
	for _, item := range envelope.Result {
		if strings.EqualFold(strings.TrimSpace(item.Name.String()), name) && item.Key.String() != "" {
			return item.Key.String(), nil
		}
	}
	return "", crerr.Wrapf(usecase.ErrLeagueNotFound, "allsports has no league named %q", name)
}

func hasError(success upstream.FlexInt, errField upstream.FlexString) bool {
	if e := errField.String(); e != "" && e != "0" {
		return true
	}
	return success.Set && success.Value != 1
}
