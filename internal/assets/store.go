// CLAUDE:SUMMARY Asset store: downloads each remote URL once and maps it to a unique local path under css/, js/, img/.
// Package assets owns the remote-URL → local-path mapping for one rip.
//
// The Store is the single source of truth for deduplication: the same URL
// localized twice returns the same path with exactly one download. Nothing
// persists across runs; create a fresh Store per rip.
package assets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hazyhaar/pagerip/internal/fetch"
)

// Stats holds per-category totals for the run summary.
type Stats struct {
	Files   map[Category]int
	Bytes   map[Category]int64
	Skipped int
}

// Store downloads assets and assigns collision-free local filenames.
type Store struct {
	root    string
	fetcher *fetch.Fetcher
	logger  *slog.Logger

	paths   map[string]string            // absolute URL -> local relative path
	used    map[Category]map[string]bool // filenames taken per folder
	files   map[Category]int
	bytes   map[Category]int64
	skipped int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a Store rooted at dest and creates the category folders.
func New(dest string, fetcher *fetch.Fetcher, opts ...Option) (*Store, error) {
	s := &Store{
		root:    dest,
		fetcher: fetcher,
		logger:  slog.Default(),
		paths:   make(map[string]string),
		used:    make(map[Category]map[string]bool),
		files:   make(map[Category]int),
		bytes:   make(map[Category]int64),
	}
	for _, o := range opts {
		o(s)
	}
	for _, cat := range []Category{Stylesheet, Script, Image} {
		s.used[cat] = make(map[string]bool)
		if err := os.MkdirAll(filepath.Join(dest, cat.Dir()), 0o755); err != nil {
			return nil, fmt.Errorf("assets: create %s dir: %w", cat.Dir(), err)
		}
	}
	return s, nil
}

// PathFor reports the local path already assigned to url, if any.
func (s *Store) PathFor(url string) (string, bool) {
	rel, ok := s.paths[url]
	return rel, ok
}

// ClaimName marks name as taken in cat's folder so collision numbering never
// hands it to a remote asset. Used for fixed output names like
// css/inline_styles.css.
func (s *Store) ClaimName(cat Category, name string) {
	s.used[cat][name] = true
}

// Assign records a unique local path for url without writing anything yet.
// Callers follow up with WriteAsset, or Forget on failure.
func (s *Store) Assign(url string, cat Category, contentType string) string {
	name := s.uniqueName(cat, baseName(url, cat, contentType))
	rel := cat.Dir() + "/" + name
	if url != "" {
		s.paths[url] = rel
	}
	return rel
}

// Forget drops the mapping for url after a failed write so later references
// keep pointing at the remote URL.
func (s *Store) Forget(url string) {
	delete(s.paths, url)
}

func (s *Store) uniqueName(cat Category, name string) string {
	taken := s.used[cat]
	if !taken[name] {
		taken[name] = true
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		cand := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if !taken[cand] {
			taken[cand] = true
			return cand
		}
	}
}

// WriteAsset writes body at a previously assigned relative path and counts
// it toward the category totals.
func (s *Store) WriteAsset(rel string, body []byte) error {
	if err := os.WriteFile(filepath.Join(s.root, filepath.FromSlash(rel)), body, 0o644); err != nil {
		return fmt.Errorf("assets: write %s: %w", rel, err)
	}
	dir, _, _ := strings.Cut(rel, "/")
	cat := Category(dir)
	s.files[cat]++
	s.bytes[cat] += int64(len(body))
	return nil
}

// NoteSkip counts an asset skipped outside the store's own download path,
// so the run summary covers stylesheet failures too.
func (s *Store) NoteSkip() {
	s.skipped++
}

// WriteFixed writes body under an exact name in cat's folder, for outputs
// whose filename is part of the contract. Claim the name first via ClaimName
// if remote assets may race for it.
func (s *Store) WriteFixed(cat Category, name string, body []byte) (string, error) {
	s.used[cat][name] = true
	rel := cat.Dir() + "/" + name
	if err := s.WriteAsset(rel, body); err != nil {
		return "", err
	}
	return rel, nil
}

// Localize downloads url on first sight and returns its local relative path.
// Repeat calls for the same URL return the recorded path with no network.
// Any fetch or write failure is logged, counted, and returned so the caller
// leaves the original reference untouched.
func (s *Store) Localize(ctx context.Context, url string, cat Category) (string, error) {
	if rel, ok := s.paths[url]; ok {
		return rel, nil
	}

	res, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.skipped++
		s.logger.Warn("assets: skipping asset", "url", url, "error", err)
		return "", err
	}

	rel := s.Assign(url, cat, res.ContentType)
	if err := s.WriteAsset(rel, res.Body); err != nil {
		s.Forget(url)
		s.skipped++
		s.logger.Warn("assets: skipping asset", "url", url, "error", err)
		return "", err
	}

	s.logger.Debug("assets: localized", "url", url, "path", rel, "bytes", len(res.Body))
	return rel, nil
}

// Stats returns per-category totals for the run summary.
func (s *Store) Stats() Stats {
	st := Stats{
		Files:   make(map[Category]int, len(s.files)),
		Bytes:   make(map[Category]int64, len(s.bytes)),
		Skipped: s.skipped,
	}
	for k, v := range s.files {
		st.Files[k] = v
	}
	for k, v := range s.bytes {
		st.Bytes[k] = v
	}
	return st
}
