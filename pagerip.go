// Package pagerip archives a single web page for offline viewing.
//
// It fetches one HTML document, downloads the stylesheets, scripts, and
// images the page references (including assets reached through CSS url()
// and @import chains), and rewrites every reference so the page renders
// from local disk:
//
//	<dest>/
//	  index.html
//	  css/   stylesheets, plus inline_styles.css for extracted <style> blocks
//	  js/    scripts
//	  img/   images, icons, srcset candidates, CSS url() targets
//
// pagerip archives, it does not crawl: only the given page and the assets
// it references are fetched. Individual asset failures are skipped with a
// warning; only the root page and the destination tree are fatal.
package pagerip

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hazyhaar/pagerip/internal/assets"
	"github.com/hazyhaar/pagerip/internal/cssproc"
	"github.com/hazyhaar/pagerip/internal/fetch"
	"github.com/hazyhaar/pagerip/internal/htmlproc"
	"github.com/hazyhaar/pagerip/internal/urlres"
)

// Category identifies an asset class and its output subfolder.
// Re-exported from internal.
type Category = assets.Category

// Asset categories.
const (
	Stylesheet = assets.Stylesheet
	Script     = assets.Script
	Image      = assets.Image
)

// Stats summarizes one completed rip.
type Stats struct {
	PageURL string
	Dest    string
	Files   map[Category]int
	Bytes   map[Category]int64
	Skipped int
	Elapsed time.Duration
}

// Ripper archives one page per Rip call. Each call builds a fresh asset
// store, so runs never share download state.
type Ripper struct {
	cfg    *Config
	logger *slog.Logger
}

// New creates a Ripper from configuration.
func New(cfg *Config, logger *slog.Logger) *Ripper {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ripper{cfg: cfg, logger: logger}
}

// Rip fetches rawURL, localizes its assets under dest, and writes the
// rewritten document to <dest>/index.html. A missing scheme on rawURL
// defaults to https.
func (r *Ripper) Rip(ctx context.Context, rawURL, dest string) (*Stats, error) {
	start := time.Now()
	pageURL := urlres.Normalize(rawURL)

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDestination, err)
	}

	fetcher := fetch.New(fetch.Config{
		Timeout:   r.cfg.HTTP.Timeout,
		MaxBytes:  r.cfg.HTTP.MaxAssetSize,
		UserAgent: r.cfg.HTTP.UserAgent,
	})

	page, err := fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRootFetch, err)
	}
	r.logger.Info("pagerip: fetched root page",
		"url", page.FinalURL, "bytes", len(page.Body))

	// Subfolders only after the root fetch succeeds: a failed run leaves
	// nothing behind but the destination folder itself.
	store, err := assets.New(dest, fetcher, assets.WithLogger(r.logger))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDestination, err)
	}

	css := cssproc.New(store, fetcher, r.logger)
	proc := htmlproc.New(store, css, r.logger)

	rewritten, err := proc.Rewrite(ctx, string(page.Body), page.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("pagerip: rewrite: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dest, "index.html"), []byte(rewritten), 0o644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDestination, err)
	}

	st := store.Stats()
	stats := &Stats{
		PageURL: page.FinalURL,
		Dest:    dest,
		Files:   st.Files,
		Bytes:   st.Bytes,
		Skipped: st.Skipped,
		Elapsed: time.Since(start),
	}
	r.logger.Info("pagerip: done",
		"url", stats.PageURL, "dest", dest,
		"css", stats.Files[Stylesheet], "js", stats.Files[Script],
		"img", stats.Files[Image], "skipped", stats.Skipped,
		"elapsed", stats.Elapsed)
	return stats, nil
}
