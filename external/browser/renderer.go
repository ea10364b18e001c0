package browser

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-standings/internal/domain/scrape"
	"github.com/riskibarqy/league-standings/internal/platform/logging"
	"github.com/riskibarqy/league-standings/internal/usecase"
)

const (
	defaultUserAgent         = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
	defaultNavigationTimeout = 60 * time.Second
	defaultSettleWait        = 8 * time.Second
	defaultReadTimeout       = 15 * time.Second
	bodySelector             = "body"
	documentSelector         = "html"
)

type Config struct {
	// ExecPath points at a Chromium binary. Empty lets chromedp search the usual locations.
	ExecPath          string
	UserAgent         string
	NavigationTimeout time.Duration
	SettleWait        time.Duration
	// ReadTimeout bounds the body reads after the settle wait.
	ReadTimeout       time.Duration
	Logger            *logging.Logger
}

// Renderer loads pages in a fresh headless Chromium per call.
type Renderer struct {
	cfg    Config
	logger *logging.Logger
}

func NewRenderer(cfg Config) *Renderer {
	if strings.TrimSpace(cfg.UserAgent) == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = defaultNavigationTimeout
	}
	if cfg.SettleWait < 0 {
		cfg.SettleWait = 0
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Renderer{cfg: cfg, logger: logger}
}

func (r *Renderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Headless,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("single-process", true),
		chromedp.UserAgent(r.cfg.UserAgent),
	)
	if path := strings.TrimSpace(r.cfg.ExecPath); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}
	return opts
}

// Render navigates to pageURL, waits for client-side rendering to settle and reads the body.
// The browser process is shut down on every return path. Navigation, the settle wait and
// the reads each run under their own deadline.
func (r *Renderer) Render(ctx context.Context, pageURL string) (scrape.Page, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	started := time.Now()
	navCtx, cancelNav := context.WithTimeout(tabCtx, r.cfg.NavigationTimeout)
	err := chromedp.Run(navCtx, chromedp.Navigate(pageURL))
	cancelNav()
	if err != nil {
		return scrape.Page{}, crerr.Wrapf(usecase.ErrTransport, "navigate %s: %v", pageURL, err)
	}

	readCtx, cancelRead := context.WithTimeout(tabCtx, r.cfg.SettleWait+r.cfg.ReadTimeout)
	defer cancelRead()

	if r.cfg.SettleWait > 0 {
		if err := chromedp.Run(readCtx, chromedp.Sleep(r.cfg.SettleWait)); err != nil {
			return scrape.Page{}, crerr.Wrapf(usecase.ErrTransport, "wait for %s: %v", pageURL, err)
		}
	}

	var bodies []*cdp.Node
	if err := chromedp.Run(readCtx, chromedp.Nodes(bodySelector, &bodies, chromedp.ByQuery, chromedp.AtLeast(0))); err != nil {
		return scrape.Page{}, crerr.Wrapf(usecase.ErrTransport, "query body of %s: %v", pageURL, err)
	}
	if len(bodies) == 0 {
		return scrape.Page{}, crerr.Wrapf(usecase.ErrElementNotFound, "body not found on %s", pageURL)
	}

	page := scrape.Page{URL: pageURL}
	if err := chromedp.Run(readCtx,
		chromedp.Text(bodySelector, &page.Text, chromedp.ByQuery),
		chromedp.OuterHTML(documentSelector, &page.HTML, chromedp.ByQuery),
	); err != nil {
		return scrape.Page{}, crerr.Wrapf(usecase.ErrTransport, "read body of %s: %v", pageURL, err)
	}

	r.logger.InfoContext(ctx, "page rendered",
		"url", pageURL,
		"text_bytes", len(page.Text),
		"html_bytes", len(page.HTML),
		"elapsed", time.Since(started),
	)
	return page, nil
}
