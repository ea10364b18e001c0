package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/league-standings/external/allsports"
	"github.com/riskibarqy/league-standings/external/apifootball"
	"github.com/riskibarqy/league-standings/external/browser"
	"github.com/riskibarqy/league-standings/external/footballdata"
	"github.com/riskibarqy/league-standings/external/sportmonks"
	"github.com/riskibarqy/league-standings/internal/config"
	"github.com/riskibarqy/league-standings/internal/domain/standings"
	"github.com/riskibarqy/league-standings/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-standings/internal/interfaces/httpapi"
	"github.com/riskibarqy/league-standings/internal/platform/cache"
	"github.com/riskibarqy/league-standings/internal/platform/logging"
	"github.com/riskibarqy/league-standings/internal/usecase"
)

// App holds the long-lived services shared by the HTTP server, the cache warmer and the CLI.
type App struct {
	Config    config.Config
	Logger    *logging.Logger
	Standings *usecase.StandingsService
	Scraper   *usecase.ScrapeService
	// Warmer is nil when CACHE_WARM_ENABLED=false.
	Warmer *usecase.Warmer
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	return NewWithRenderer(cfg, nil, logger)
}

// NewWithRenderer builds the app with a custom page renderer. A nil renderer uses headless Chromium.
func NewWithRenderer(cfg config.Config, renderer usecase.Renderer, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	leagueRepo, err := memory.NewLeagueRepository(memory.SeedLeagues())
	if err != nil {
		return nil, fmt.Errorf("build league repository: %w", err)
	}

	provider, err := NewProvider(cfg, logger)
	if err != nil {
		return nil, err
	}

	store := cache.NewStore[standings.Result]()
	standingsSvc := usecase.NewStandingsService(leagueRepo, provider, store, cfg.StandingsCacheTTL, logger.Named("standings"))

	if renderer == nil {
		renderer = browser.NewRenderer(browser.Config{
			ExecPath:          cfg.ScraperExecPath,
			UserAgent:         cfg.ScraperUserAgent,
			NavigationTimeout: cfg.ScraperNavigationTimeout,
			SettleWait:        cfg.ScraperSettleWait,
			ReadTimeout:       cfg.ScraperReadTimeout,
			Logger:            logger.Named("browser"),
		})
	}
	scrapeSvc, err := usecase.NewScrapeService(renderer, usecase.ScrapeConfig{
		MaxConcurrency: cfg.ScraperMaxConcurrency,
		MaxQueue:       cfg.ScraperMaxQueue,
	}, logger.Named("scrape"))
	if err != nil {
		return nil, fmt.Errorf("build scrape service: %w", err)
	}

	var warmer *usecase.Warmer
	if cfg.CacheWarmEnabled {
		warmer = usecase.NewWarmer(standingsSvc, usecase.WarmerConfig{
			Interval:    cfg.CacheWarmInterval,
			Concurrency: cfg.CacheWarmConcurrency,
		}, logger.Named("warmer"))
	}

	logger.Info("app initialized",
		"provider", provider.Name(),
		"cache_ttl", cfg.StandingsCacheTTL.String(),
		"scraper_workers", cfg.ScraperMaxConcurrency,
		"cache_warm", cfg.CacheWarmEnabled,
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Standings: standingsSvc,
		Scraper:   scrapeSvc,
		Warmer:    warmer,
	}, nil
}

// NewProvider builds the upstream client named by STANDINGS_PROVIDER.
func NewProvider(cfg config.Config, logger *logging.Logger) (usecase.Provider, error) {
	named := logger.Named(cfg.Provider)
	switch cfg.Provider {
	case config.ProviderAllSports:
		return allsports.NewClient(allsports.ClientConfig{
			BaseURL:       cfg.ProviderBaseURL,
			APIKey:        cfg.ProviderAPIKey,
			Timeout:       cfg.UpstreamTimeout,
			DynamicLookup: cfg.AllSportsDynamicLookup,
			LookupTTL:     cfg.AllSportsLookupTTL,
			Logger:        named,
		}), nil
	case config.ProviderFootballData:
		return footballdata.NewClient(footballdata.ClientConfig{
			BaseURL: cfg.ProviderBaseURL,
			APIKey:  cfg.ProviderAPIKey,
			Timeout: cfg.UpstreamTimeout,
			Logger:  named,
		}), nil
	case config.ProviderAPIFootball:
		return apifootball.NewClient(apifootball.ClientConfig{
			BaseURL: cfg.ProviderBaseURL,
			APIKey:  cfg.ProviderAPIKey,
			Timeout: cfg.UpstreamTimeout,
			Logger:  named,
		}), nil
	case config.ProviderSportMonks:
		return sportmonks.NewClient(sportmonks.ClientConfig{
			BaseURL: cfg.ProviderBaseURL,
			Token:   cfg.ProviderAPIKey,
			Timeout: cfg.UpstreamTimeout,
			Logger:  named,
		}), nil
	default:
		return nil, fmt.Errorf("unknown standings provider %q", cfg.Provider)
	}
}

func (a *App) NewHTTPServer() (*http.Server, error) {
	handler := httpapi.NewHandler(a.Standings, a.Scraper, httpapi.HandlerConfig{
		ServiceName:     a.Config.ServiceName,
		ExposeTraceback: a.Config.ExposeTraceback,
	}, a.Logger.Named("http"))
	router := httpapi.NewRouter(handler, a.Logger, a.Config.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// StartWarmer runs the cache warmer in the background until ctx ends. It is a no-op when disabled.
func (a *App) StartWarmer(ctx context.Context) {
	if a.Warmer == nil {
		return
	}
	go a.Warmer.Run(ctx)
}

func (a *App) Close() {
	a.Scraper.Close()
}
