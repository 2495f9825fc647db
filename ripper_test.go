package pagerip

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	serve := func(path, ctype, body string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", ctype)
			w.Write([]byte(body))
		})
	}
	serve("/", "text/html", `<!DOCTYPE html>
<html>
<head>
<title>Test</title>
<link rel="stylesheet" href="/css/main.css">
<link rel="icon" href="/favicon.ico">
<style>h1 { color: red }</style>
</head>
<body>
<img src="/img/logo.png" alt="logo">
<script src="/js/app.js"></script>
</body>
</html>`)
	serve("/css/main.css", "text/css", `@import "fonts.css";`+"\n"+`body { background: url("../img/bg.png") }`)
	serve("/css/fonts.css", "text/css", `p { }`)
	serve("/img/bg.png", "image/png", "bg")
	serve("/img/logo.png", "image/png", "logo")
	serve("/favicon.ico", "image/x-icon", "ico")
	serve("/js/app.js", "application/javascript", ";")

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRip_EndToEnd(t *testing.T) {
	srv := testSite(t)
	dest := t.TempDir()

	stats, err := New(nil, nil).Rip(context.Background(), srv.URL, dest)
	if err != nil {
		t.Fatalf("rip: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "index.html"))
	if err != nil {
		t.Fatalf("index.html: %v", err)
	}
	page := string(data)

	for _, want := range []string{
		`href="css/main.css"`,
		`href="img/favicon.ico"`,
		`src="img/logo.png"`,
		`src="js/app.js"`,
		`href="css/inline_styles.css"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("index.html missing %s:\n%s", want, page)
		}
	}
	if strings.Contains(page, "<style>") {
		t.Errorf("style blocks not extracted:\n%s", page)
	}

	// The whole tree exists: stylesheets (with the @import localized),
	// the imported sheet, scripts, and images.
	for _, rel := range []string{
		"css/main.css", "css/fonts.css", "css/inline_styles.css",
		"js/app.js",
		"img/bg.png", "img/logo.png", "img/favicon.ico",
	} {
		if _, err := os.Stat(filepath.Join(dest, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}

	mainCSS, err := os.ReadFile(filepath.Join(dest, "css", "main.css"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(mainCSS), `@import "fonts.css";`) {
		t.Errorf("import not rewritten: %q", mainCSS)
	}
	if !strings.Contains(string(mainCSS), `url("../img/bg.png")`) {
		t.Errorf("css image not rewritten: %q", mainCSS)
	}

	if stats.Files[Stylesheet] != 3 {
		t.Errorf("css files: got %d, want 3", stats.Files[Stylesheet])
	}
	if stats.Files[Script] != 1 {
		t.Errorf("js files: got %d, want 1", stats.Files[Script])
	}
	if stats.Files[Image] != 3 {
		t.Errorf("img files: got %d, want 3", stats.Files[Image])
	}
	if stats.Skipped != 0 {
		t.Errorf("skipped: got %d, want 0", stats.Skipped)
	}
}

func TestRip_RootFetchFailureIsFatal(t *testing.T) {
	// WHAT: A failed root fetch errors without creating css/ js/ img/.
	// WHY: The run leaves only the destination folder behind when the page
	// itself is unreachable.
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	dest := t.TempDir()
	_, err := New(nil, nil).Rip(context.Background(), srv.URL, dest)
	if !errors.Is(err, ErrRootFetch) {
		t.Fatalf("got %v, want ErrRootFetch", err)
	}
	for _, sub := range []string{"css", "js", "img"} {
		if _, err := os.Stat(filepath.Join(dest, sub)); !os.IsNotExist(err) {
			t.Errorf("unexpected %s/ after failed root fetch (err=%v)", sub, err)
		}
	}
}

func TestRip_AssetFailureIsNotFatal(t *testing.T) {
	// WHAT: A page whose only asset 404s still rips successfully, with the
	// reference left pointing at the original URL.
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><img src="/gone.png"></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dest := t.TempDir()
	stats, err := New(nil, nil).Rip(context.Background(), srv.URL, dest)
	if err != nil {
		t.Fatalf("rip: %v", err)
	}
	if stats.Skipped != 1 {
		t.Errorf("skipped: got %d, want 1", stats.Skipped)
	}

	data, _ := os.ReadFile(filepath.Join(dest, "index.html"))
	if !strings.Contains(string(data), `src="/gone.png"`) {
		t.Errorf("failed asset reference changed:\n%s", data)
	}
}

func TestRip_SchemeDefaulted(t *testing.T) {
	// WHAT: Operator input without a scheme gets https:// prefixed, which
	// for an unreachable host fails as a root fetch, not a parse error.
	_, err := New(nil, nil).Rip(context.Background(), "nonexistent.invalid", t.TempDir())
	if !errors.Is(err, ErrRootFetch) {
		t.Fatalf("got %v, want ErrRootFetch", err)
	}
}
