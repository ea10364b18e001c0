package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"github.com/riskibarqy/league-standings/internal/domain/league"
	"github.com/riskibarqy/league-standings/internal/domain/standings"
	"github.com/riskibarqy/league-standings/internal/platform/logging"
	"github.com/riskibarqy/league-standings/internal/usecase"
)

type HandlerConfig struct {
	ServiceName string
	// ExposeTraceback adds the wrapped error stack to error bodies.
	ExposeTraceback bool
}

type Handler struct {
	standingsService *usecase.StandingsService
	scrapeService    *usecase.ScrapeService
	cfg              HandlerConfig
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	standingsService *usecase.StandingsService,
	scrapeService *usecase.ScrapeService,
	cfg HandlerConfig,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		standingsService: standingsService,
		scrapeService:    scrapeService,
		cfg:              cfg,
		logger:           logger,
		validator:        newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("season", func(fl validator.FieldLevel) bool {
		return standings.ValidSeason(fl.Field().String())
	})
	return v
}

type standingsQuery struct {
	League string `validate:"required,max=64"`
	Season string `validate:"omitempty,max=16,season"`
}

type scrapeQuery struct {
	URL string `validate:"required,url,max=2048"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type leagueDTO struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

type leaguesResponse struct {
	Provider string      `json:"provider"`
	Leagues  []leagueDTO `json:"leagues"`
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, healthResponse{Status: "ok", Message: h.cfg.ServiceName})
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	items, err := h.standingsService.ListLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err, h.cfg.ExposeTraceback)
		return
	}

	writeJSON(ctx, w, http.StatusOK, leaguesResponse{
		Provider: h.standingsService.ProviderName(),
		Leagues:  leagueDTOs(items),
	})
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings",
		attribute.String("standings.league", r.URL.Query().Get("league")),
		attribute.String("standings.season", r.URL.Query().Get("season")),
	)
	defer span.End()

	query := standingsQuery{
		League: strings.TrimSpace(r.URL.Query().Get("league")),
		Season: strings.TrimSpace(r.URL.Query().Get("season")),
	}
	if query.League == "" {
		writeBadRequest(ctx, w, msgMissingLeague)
		return
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err, h.cfg.ExposeTraceback)
		return
	}

	result, err := h.standingsService.GetStandings(ctx, query.League, query.Season)
	if err != nil {
		writeError(ctx, w, err, h.cfg.ExposeTraceback)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *Handler) Scrape(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Scrape",
		attribute.String("scrape.url", r.URL.Query().Get("url")),
	)
	defer span.End()

	query := scrapeQuery{URL: strings.TrimSpace(r.URL.Query().Get("url"))}
	if query.URL == "" {
		writeBadRequest(ctx, w, msgMissingURL)
		return
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err, h.cfg.ExposeTraceback)
		return
	}

	result, err := h.scrapeService.Scrape(ctx, query.URL)
	if err != nil {
		writeError(ctx, w, err, h.cfg.ExposeTraceback)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

func leagueDTOs(items []league.Descriptor) []leagueDTO {
	out := make([]leagueDTO, 0, len(items))
	for _, item := range items {
		out = append(out, leagueDTO{Key: item.Key, Name: item.Name, Country: item.Country})
	}
	return out
}
