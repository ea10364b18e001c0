package upstream

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-standings/internal/platform/logging"
	"github.com/riskibarqy/league-standings/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultTimeout     = 20 * time.Second
	defaultUserAgent   = "league-standings/1.0"
	maxResponseBody    = 6 << 20
	maxLoggedBodyBytes = 240
)

var secretParamRegex = regexp.MustCompile(`(?i)(api_?key|api_token|token)=[^&\s"']+`)

type Config struct {
	Provider  string
	Timeout   time.Duration
	UserAgent string
	// Secrets are redacted from every error message and log line.
	Secrets []string
	Logger  *logging.Logger
}

// Client performs single-attempt GET requests against a JSON provider and classifies failures
// into the usecase error taxonomy.
type Client struct {
	http      *fasthttp.Client
	provider  string
	timeout   time.Duration
	userAgent string
	secrets   []string
	logger    *logging.Logger
}

func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	provider := strings.TrimSpace(cfg.Provider)
	if provider == "" {
		provider = "upstream"
	}

	secrets := make([]string, 0, len(cfg.Secrets))
	for _, secret := range cfg.Secrets {
		if secret = strings.TrimSpace(secret); secret != "" {
			secrets = append(secrets, secret)
		}
	}

	return &Client{
		http: &fasthttp.Client{
			Name:                userAgent,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBody,
		},
		provider:  provider,
		timeout:   timeout,
		userAgent: userAgent,
		secrets:   secrets,
		logger:    logger,
	}
}

// Get issues one request. It never retries.
func (c *Client) Get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	safeURL := c.Redact(rawURL)
	if err := ctx.Err(); err != nil {
		return nil, crerr.Wrapf(crerr.Mark(err, usecase.ErrTransport), "%s request url=%s", c.provider, safeURL)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rawURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.SetUserAgent(c.userAgent)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	started := time.Now()
	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		cause := err
		if ctxErr := ctx.Err(); ctxErr != nil {
			cause = ctxErr
		}
		wrapped := crerr.Wrapf(usecase.ErrTransport, "%s request url=%s: %s", c.provider, safeURL, c.Redact(cause.Error()))
		c.logger.WarnContext(ctx, "upstream request failed",
			"provider", c.provider,
			"url", safeURL,
			"elapsed", time.Since(started),
			"error", wrapped,
		)
		return nil, wrapped
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)

	if status < 200 || status >= 300 {
		err := c.statusError(status, body)
		c.logger.WarnContext(ctx, "upstream responded with error status",
			"provider", c.provider,
			"url", safeURL,
			"status", status,
			"elapsed", time.Since(started),
		)
		return nil, err
	}

	c.logger.DebugContext(ctx, "upstream request completed",
		"provider", c.provider,
		"url", safeURL,
		"status", status,
		"bytes", len(body),
		"elapsed", time.Since(started),
	)
	return body, nil
}

func (c *Client) statusError(status int, body []byte) error {
	snippet := c.Redact(abbreviateBody(body))
	switch status {
	case fasthttp.StatusForbidden, fasthttp.StatusUnauthorized:
		return crerr.Wrapf(usecase.ErrAccessDenied, "%s rejected credentials status=%d body=%s", c.provider, status, snippet)
	default:
		return crerr.Wrapf(usecase.ErrUpstreamHTTP, "%s status=%d body=%s", c.provider, status, snippet)
	}
}

// Redact strips configured secrets and secret-looking query parameters from text.
func (c *Client) Redact(value string) string {
	for _, secret := range c.secrets {
		value = strings.ReplaceAll(value, secret, "REDACTED")
	}
	return secretParamRegex.ReplaceAllString(value, "${1}=REDACTED")
}

// BuildURL joins base, path and query into one URL string.
func BuildURL(base, path string, query url.Values) string {
	out := strings.TrimRight(strings.TrimSpace(base), "/") + path
	if encoded := query.Encode(); encoded != "" {
		out += "?" + encoded
	}
	return out
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= maxLoggedBodyBytes {
		return text
	}
	cut := maxLoggedBodyBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
