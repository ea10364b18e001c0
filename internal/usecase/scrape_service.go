package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/league-standings/internal/domain/scrape"
	"github.com/riskibarqy/league-standings/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultScrapeConcurrency = 2
	DefaultScrapeQueue       = 8
	textSampleRunes          = 2000
)

// Renderer loads a page in a headless browser.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (scrape.Page, error)
}

type ScrapeConfig struct {
	MaxConcurrency int
	// MaxQueue is how many renders may wait for a free worker. Zero rejects as soon as all workers are busy.
	MaxQueue int
}

// ScrapeService renders pages on a bounded worker pool and extracts row-like text.
type ScrapeService struct {
	renderer Renderer
	pool     *ants.Pool
	logger   *logging.Logger
}

func NewScrapeService(renderer Renderer, cfg ScrapeConfig, logger *logging.Logger) (*ScrapeService, error) {
	if renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = DefaultScrapeConcurrency
	}
	if cfg.MaxQueue < 0 {
		cfg.MaxQueue = DefaultScrapeQueue
	}

	options := []ants.Option{ants.WithPanicHandler(func(p any) {
		logger.Error("scrape worker panic", "panic", p)
	})}
	if cfg.MaxQueue == 0 {
		options = append(options, ants.WithNonblocking(true))
	} else {
		options = append(options, ants.WithMaxBlockingTasks(cfg.MaxQueue))
	}

	pool, err := ants.NewPool(cfg.MaxConcurrency, options...)
	if err != nil {
		return nil, fmt.Errorf("create scrape worker pool: %w", err)
	}

	return &ScrapeService{
		renderer: renderer,
		pool:     pool,
		logger:   logger,
	}, nil
}

// Close stops accepting work and releases the pool.
func (s *ScrapeService) Close() {
	s.pool.Release()
}

// Busy reports running and waiting renders.
func (s *ScrapeService) Busy() (running, waiting int) {
	return s.pool.Running(), s.pool.Waiting()
}

func (s *ScrapeService) Scrape(ctx context.Context, rawURL string) (scrape.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScrapeService.Scrape", attribute.String("url", rawURL))
	result, err := s.scrape(ctx, rawURL)
	endUsecaseSpan(span, err)
	return result, err
}

func (s *ScrapeService) scrape(ctx context.Context, rawURL string) (scrape.Result, error) {
	pageURL, err := scrape.ValidateURL(rawURL)
	if err != nil {
		return scrape.Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	started := time.Now()
	page, err := s.render(ctx, pageURL)
	if err != nil {
		s.logger.WarnContext(ctx, "scrape failed", "url", pageURL, "reason", Reason(err), "error", err)
		return scrape.Result{}, err
	}

	rows, err := ExtractRows(page.HTML)
	if err != nil {
		return scrape.Result{}, fmt.Errorf("%w: parse rendered html: %v", ErrMalformedResponse, err)
	}

	s.logger.InfoContext(ctx, "scrape completed", "url", pageURL, "rows", len(rows), "elapsed", time.Since(started))
	return scrape.Result{
		Status:     scrape.StatusPageLoaded,
		URL:        pageURL,
		TextSample: truncateRunes(page.Text, textSampleRunes),
		Rows:       rows,
	}, nil
}

type renderOutcome struct {
	page scrape.Page
	err  error
}

// render queues one render on the pool. A caller whose context ends while queued returns at once
// and the queued job is skipped when a worker picks it up.
func (s *ScrapeService) render(ctx context.Context, pageURL string) (scrape.Page, error) {
	done := make(chan renderOutcome, 1)
	submitted := make(chan error, 1)

	task := func() {
		if err := ctx.Err(); err != nil {
			done <- renderOutcome{err: err}
			return
		}
		page, err := s.renderer.Render(ctx, pageURL)
		done <- renderOutcome{page: page, err: err}
	}

	go func() {
		submitted <- s.pool.Submit(task)
	}()

	for {
		select {
		case err := <-submitted:
			if err != nil {
				if errors.Is(err, ants.ErrPoolOverload) || errors.Is(err, ants.ErrPoolClosed) {
					return scrape.Page{}, fmt.Errorf("%w: %v", ErrScraperBusy, err)
				}
				return scrape.Page{}, fmt.Errorf("submit render: %w", err)
			}
			submitted = nil
		case out := <-done:
			return out.page, out.err
		case <-ctx.Done():
			return scrape.Page{}, ctx.Err()
		}
	}
}

func truncateRunes(text string, limit int) string {
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}
