package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/league-standings/internal/platform/logging"
)

const (
	ProviderAllSports    = "allsports"
	ProviderFootballData = "footballdata"
	ProviderAPIFootball  = "apifootball"
	ProviderSportMonks   = "sportmonks"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	HTTPAddr                   string
	ReadTimeout                time.Duration
	WriteTimeout               time.Duration
	CORSAllowedOrigins         []string
	ExposeTraceback            bool
	LogLevel                   logging.Level
	Provider                   string
	ProviderBaseURL            string
	ProviderAPIKey             string
	AllSportsDynamicLookup     bool
	AllSportsLookupTTL         time.Duration
	UpstreamTimeout            time.Duration
	StandingsCacheTTL          time.Duration
	ScraperMaxConcurrency      int
	ScraperMaxQueue            int
	ScraperNavigationTimeout   time.Duration
	ScraperSettleWait          time.Duration
	ScraperReadTimeout         time.Duration
	ScraperExecPath            string
	ScraperUserAgent           string
	CacheWarmEnabled           bool
	CacheWarmInterval          time.Duration
	CacheWarmConcurrency       int
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

var providerKeyEnv = map[string]string{
	ProviderAllSports:    "ALLSPORTS_API_KEY",
	ProviderFootballData: "FOOTBALL_DATA_API_KEY",
	ProviderAPIFootball:  "FOOTBALL_API_KEY",
	ProviderSportMonks:   "SPORTMONKS_TOKEN",
}

var providerBaseURLEnv = map[string]string{
	ProviderAllSports:    "ALLSPORTS_BASE_URL",
	ProviderFootballData: "FOOTBALL_DATA_BASE_URL",
	ProviderAPIFootball:  "FOOTBALL_API_BASE_URL",
	ProviderSportMonks:   "SPORTMONKS_BASE_URL",
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	tracebackDefault := "true"
	if appEnv == EnvProd {
		tracebackDefault = "false"
	}
	exposeTraceback, err := strconv.ParseBool(getEnv("APP_EXPOSE_TRACEBACK", tracebackDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_EXPOSE_TRACEBACK: %w", err)
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	// Scrapes hold the connection for navigation plus the settle wait.
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", "90s")
	if err != nil {
		return Config{}, err
	}

	provider, err := parseProvider(getEnv("STANDINGS_PROVIDER", ProviderAllSports))
	if err != nil {
		return Config{}, err
	}
	keyEnv := providerKeyEnv[provider]
	providerAPIKey := strings.TrimSpace(getEnv(keyEnv, ""))
	if providerAPIKey == "" {
		return Config{}, fmt.Errorf("%s is required when STANDINGS_PROVIDER=%s", keyEnv, provider)
	}

	allSportsDynamicLookup, err := strconv.ParseBool(getEnv("ALLSPORTS_DYNAMIC_LOOKUP", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ALLSPORTS_DYNAMIC_LOOKUP: %w", err)
	}
	allSportsLookupTTL, err := getEnvAsDuration("ALLSPORTS_LOOKUP_TTL", "24h")
	if err != nil {
		return Config{}, err
	}

	upstreamTimeout, err := getEnvAsDuration("UPSTREAM_TIMEOUT", "20s")
	if err != nil {
		return Config{}, err
	}
	standingsCacheTTL, err := getEnvAsDuration("STANDINGS_CACHE_TTL", "5m")
	if err != nil {
		return Config{}, err
	}

	scraperMaxConcurrency, err := getEnvAsInt("SCRAPER_MAX_CONCURRENCY", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_MAX_CONCURRENCY: %w", err)
	}
	if scraperMaxConcurrency < 1 {
		return Config{}, fmt.Errorf("SCRAPER_MAX_CONCURRENCY must be >= 1")
	}
	scraperMaxQueue, err := getEnvAsInt("SCRAPER_MAX_QUEUE", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_MAX_QUEUE: %w", err)
	}
	if scraperMaxQueue < 0 {
		return Config{}, fmt.Errorf("SCRAPER_MAX_QUEUE must be >= 0")
	}
	scraperNavigationTimeout, err := getEnvAsDuration("SCRAPER_NAVIGATION_TIMEOUT", "60s")
	if err != nil {
		return Config{}, err
	}
	scraperSettleWait, err := time.ParseDuration(getEnv("SCRAPER_SETTLE_WAIT", "8s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SCRAPER_SETTLE_WAIT: %w", err)
	}
	if scraperSettleWait < 0 {
		return Config{}, fmt.Errorf("SCRAPER_SETTLE_WAIT must be >= 0")
	}
	scraperReadTimeout, err := getEnvAsDuration("SCRAPER_READ_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}

	cacheWarmEnabled, err := strconv.ParseBool(getEnv("CACHE_WARM_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_WARM_ENABLED: %w", err)
	}
	cacheWarmInterval, err := getEnvAsDuration("CACHE_WARM_INTERVAL", standingsCacheTTL.String())
	if err != nil {
		return Config{}, err
	}
	cacheWarmConcurrency, err := getEnvAsInt("CACHE_WARM_CONCURRENCY", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_WARM_CONCURRENCY: %w", err)
	}
	if cacheWarmConcurrency < 1 {
		return Config{}, fmt.Errorf("CACHE_WARM_CONCURRENCY must be >= 1")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "league-standings-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:                readTimeout,
		WriteTimeout:               writeTimeout,
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ExposeTraceback:            exposeTraceback,
		LogLevel:                   logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
		Provider:                   provider,
		ProviderBaseURL:            strings.TrimSpace(getEnv(providerBaseURLEnv[provider], "")),
		ProviderAPIKey:             providerAPIKey,
		AllSportsDynamicLookup:     allSportsDynamicLookup,
		AllSportsLookupTTL:         allSportsLookupTTL,
		UpstreamTimeout:            upstreamTimeout,
		StandingsCacheTTL:          standingsCacheTTL,
		ScraperMaxConcurrency:      scraperMaxConcurrency,
		ScraperMaxQueue:            scraperMaxQueue,
		ScraperNavigationTimeout:   scraperNavigationTimeout,
		ScraperSettleWait:          scraperSettleWait,
		ScraperReadTimeout:         scraperReadTimeout,
		ScraperExecPath:            strings.TrimSpace(getEnv("SCRAPER_EXEC_PATH", "")),
		ScraperUserAgent:           strings.TrimSpace(getEnv("SCRAPER_USER_AGENT", "")),
		CacheWarmEnabled:           cacheWarmEnabled,
		CacheWarmInterval:          cacheWarmInterval,
		CacheWarmConcurrency:       cacheWarmConcurrency,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

// getEnvAsDuration parses a strictly positive duration.
func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseProvider(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	if _, ok := providerKeyEnv[value]; ok {
		return value, nil
	}
	return "", fmt.Errorf(
		"invalid STANDINGS_PROVIDER %q: valid values are %s, %s, %s, %s",
		v, ProviderAllSports, ProviderFootballData, ProviderAPIFootball, ProviderSportMonks,
	)
}
