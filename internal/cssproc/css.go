// CLAUDE:SUMMARY Rewrites CSS url() and @import references to localized paths, recursing through imported stylesheets.
// Package cssproc rewrites stylesheet text so url() and @import references
// point at localized files.
//
// The token walk emits every construct it does not rewrite byte-for-byte,
// so malformed CSS passes through unmodified instead of failing the rip.
package cssproc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gorilla/css/scanner"

	"github.com/hazyhaar/pagerip/internal/assets"
	"github.com/hazyhaar/pagerip/internal/fetch"
	"github.com/hazyhaar/pagerip/internal/urlres"
)

// Processor rewrites CSS against an asset store. Imported stylesheets are
// fetched and rewritten recursively, each stored as its own css/ asset.
type Processor struct {
	store   *assets.Store
	fetcher *fetch.Fetcher
	logger  *slog.Logger
}

// New creates a Processor.
func New(store *assets.Store, fetcher *fetch.Fetcher, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{store: store, fetcher: fetcher, logger: logger}
}

// Rewrite processes the body of a stylesheet that will live in css/.
// Image references come out as ../img/<name> so they resolve from there.
func (p *Processor) Rewrite(ctx context.Context, cssText, baseURL string) string {
	return p.rewrite(ctx, cssText, baseURL, "css")
}

// RewriteInline processes a <style> body or style attribute fragment that is
// referenced from the document root, so local paths carry no ../ prefix.
func (p *Processor) RewriteInline(ctx context.Context, cssText, pageURL string) string {
	return p.rewrite(ctx, cssText, pageURL, "")
}

// ProcessExternal fetches a stylesheet, rewrites its body against its own
// (post-redirect) URL, and stores it as a top-level css/ asset.
//
// The store mapping is assigned before the recursive rewrite; that is what
// terminates circular @import chains: a sheet already in flight resolves to
// its assigned name instead of being fetched again.
func (p *Processor) ProcessExternal(ctx context.Context, absURL string) (string, error) {
	if rel, ok := p.store.PathFor(absURL); ok {
		return rel, nil
	}

	res, err := p.fetcher.Fetch(ctx, absURL)
	if err != nil {
		p.store.NoteSkip()
		p.logger.Warn("cssproc: stylesheet skipped", "url", absURL, "error", err)
		return "", err
	}

	rel := p.store.Assign(absURL, assets.Stylesheet, res.ContentType)
	body := p.Rewrite(ctx, string(res.Body), res.FinalURL)
	if err := p.store.WriteAsset(rel, []byte(body)); err != nil {
		p.store.Forget(absURL)
		p.store.NoteSkip()
		p.logger.Warn("cssproc: stylesheet skipped", "url", absURL, "error", err)
		return "", err
	}
	return rel, nil
}

// rewrite walks the token stream, replacing url() and @import references and
// passing everything else through. fromDir is the folder the rewritten text
// will live in ("" for the document root, "css" for a stylesheet).
func (p *Processor) rewrite(ctx context.Context, cssText, baseURL, fromDir string) string {
	sc := scanner.New(cssText)
	var out strings.Builder
	out.Grow(len(cssText))

	consumed := 0
	inImport := false
	for {
		tok := sc.Next()
		if tok.Type == scanner.TokenEOF {
			break
		}
		if tok.Type == scanner.TokenError {
			// Leave whatever the scanner choked on untouched.
			out.WriteString(cssText[consumed:])
			return out.String()
		}
		consumed += len(tok.Value)

		switch {
		case tok.Type == scanner.TokenAtKeyword:
			inImport = strings.EqualFold(tok.Value, "@import")
			out.WriteString(tok.Value)
		case tok.Type == scanner.TokenChar && (tok.Value == ";" || tok.Value == "{"):
			inImport = false
			out.WriteString(tok.Value)
		case tok.Type == scanner.TokenURI:
			out.WriteString(p.rewriteURI(ctx, tok.Value, baseURL, fromDir, inImport))
		case tok.Type == scanner.TokenString && inImport:
			out.WriteString(p.rewriteImportString(ctx, tok.Value, baseURL, fromDir))
		default:
			out.WriteString(tok.Value)
		}
	}
	return out.String()
}

// rewriteURI handles one url(...) token. Data URIs and anything that fails
// to resolve or download come back unchanged.
func (p *Processor) rewriteURI(ctx context.Context, tok, baseURL, fromDir string, isImport bool) string {
	inner := uriInner(tok)
	if inner == "" || strings.HasPrefix(inner, "data:") {
		return tok
	}

	var rel string
	var err error
	if isImport {
		rel, err = p.localizeImport(ctx, inner, baseURL)
	} else {
		rel, err = p.localizeImage(ctx, inner, baseURL)
	}
	if err != nil {
		return tok
	}
	return fmt.Sprintf("url(%q)", relFrom(fromDir, rel))
}

// rewriteImportString handles the bare-string form: @import "sub.css";
func (p *Processor) rewriteImportString(ctx context.Context, tok, baseURL, fromDir string) string {
	if len(tok) < 2 {
		return tok
	}
	quote := tok[0]
	inner := tok[1 : len(tok)-1]

	rel, err := p.localizeImport(ctx, inner, baseURL)
	if err != nil {
		return tok
	}
	return string(quote) + relFrom(fromDir, rel) + string(quote)
}

func (p *Processor) localizeImage(ctx context.Context, ref, baseURL string) (string, error) {
	abs, err := urlres.Resolve(ref, baseURL)
	if err != nil {
		return "", err
	}
	return p.store.Localize(ctx, abs, assets.Image)
}

func (p *Processor) localizeImport(ctx context.Context, ref, baseURL string) (string, error) {
	abs, err := urlres.Resolve(ref, baseURL)
	if err != nil {
		return "", err
	}
	return p.ProcessExternal(ctx, abs)
}

// uriInner pulls the reference out of a url(...) token.
func uriInner(tok string) string {
	body := tok
	if i := strings.IndexByte(body, '('); i >= 0 {
		body = body[i+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), ")")
	body = strings.TrimSpace(body)
	if len(body) >= 2 && (body[0] == '"' || body[0] == '\'') && body[len(body)-1] == body[0] {
		body = body[1 : len(body)-1]
	}
	return strings.TrimSpace(body)
}

// relFrom converts a root-relative asset path into a reference usable from
// fromDir. Output folders are one level deep, so the walk is a single "..".
func relFrom(fromDir, rel string) string {
	if fromDir == "" {
		return rel
	}
	if rest, ok := strings.CutPrefix(rel, fromDir+"/"); ok {
		return rest
	}
	return "../" + rel
}
