package scrape

import (
	"fmt"
	"net/url"
	"strings"
)

const StatusPageLoaded = "page_loaded"

// Page is what a renderer read from a loaded document.
type Page struct {
	URL  string
	Text string
	HTML string
}

// Result is the response of one scrape.
type Result struct {
	Status     string   `json:"status"`
	URL        string   `json:"url"`
	TextSample string   `json:"text_sample"`
	Rows       []string `json:"rows"`
}

// ValidateURL accepts absolute http(s) URLs only.
func ValidateURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", fmt.Errorf("url is required")
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("url scheme %q is not http or https", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("url has no host")
	}
	return candidate, nil
}
