// Package fetch performs capped HTTP downloads for the archiver.
//
// One GET per asset: a per-request timeout and a hard byte ceiling keep a
// single slow or oversized asset from sinking the whole page rip.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrTooLarge is returned when a response exceeds the configured byte cap,
// whether announced by Content-Length or discovered while streaming.
var ErrTooLarge = errors.New("fetch: response exceeds size limit")

// Config configures the fetcher.
type Config struct {
	// Timeout bounds each request. Default: 25s.
	Timeout time.Duration
	// MaxBytes is the hard cap per response body. Default: 50 MB.
	MaxBytes int64
	// UserAgent sent with requests.
	UserAgent string
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 25 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 50 << 20
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (compatible; pagerip/1.0)"
	}
}

// Result contains the outcome of a fetch.
type Result struct {
	Body        []byte
	StatusCode  int
	ContentType string // media type without parameters
	FinalURL    string // after redirects
}

// Fetcher performs HTTP GETs.
type Fetcher struct {
	client *http.Client
	config Config
}

// New creates a Fetcher with a redirect cap of 5.
func New(cfg Config) *Fetcher {
	cfg.defaults()
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (%d)", len(via))
				}
				return nil
			},
		},
		config: cfg,
	}
}

// Fetch retrieves a URL. Non-2xx statuses are errors; bodies above the byte
// cap return ErrTooLarge. The response body is always consumed or closed
// before returning.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: new request: %w", err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch: http %d", resp.StatusCode)
	}

	// Reject early when the server announces an oversized body.
	if resp.ContentLength > f.config.MaxBytes {
		return nil, ErrTooLarge
	}

	// Read one byte past the cap so silent overruns are detected too.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBytes {
		return nil, ErrTooLarge
	}

	ctype := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(ctype, ';'); i >= 0 {
		ctype = ctype[:i]
	}
	ctype = strings.ToLower(strings.TrimSpace(ctype))

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Result{
		Body:        body,
		StatusCode:  resp.StatusCode,
		ContentType: ctype,
		FinalURL:    finalURL,
	}, nil
}
