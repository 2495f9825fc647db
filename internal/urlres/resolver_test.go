package urlres

import (
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		base string
		want string
	}{
		{"relative path collapse", "../img/a.png", "https://x.com/css/s.css", "https://x.com/img/a.png"},
		{"protocol relative", "//cdn.x.com/a.js", "https://x.com/", "https://cdn.x.com/a.js"},
		{"protocol relative keeps http", "//cdn.x.com/a.js", "http://x.com/", "http://cdn.x.com/a.js"},
		{"already absolute", "https://other.com/a.css", "https://x.com/", "https://other.com/a.css"},
		{"root relative", "/static/app.js", "https://x.com/deep/page.html", "https://x.com/static/app.js"},
		{"sibling relative", "logo.png", "https://x.com/blog/post.html", "https://x.com/blog/logo.png"},
		{"dot segment", "./a.png", "https://x.com/dir/", "https://x.com/dir/a.png"},
		{"query preserved", "a.png?v=3", "https://x.com/", "https://x.com/a.png?v=3"},
		{"fragment dropped", "a.png#top", "https://x.com/", "https://x.com/a.png"},
		{"whitespace trimmed", "  a.png  ", "https://x.com/", "https://x.com/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.raw, tt.base)
			if err != nil {
				t.Fatalf("Resolve(%q, %q): %v", tt.raw, tt.base, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q, %q) = %q, want %q", tt.raw, tt.base, got, tt.want)
			}
		})
	}
}

func TestResolve_Unsupported(t *testing.T) {
	// WHAT: non-fetchable references are classified, not resolved.
	// WHY: data/javascript/mailto URIs and fragments must be skipped silently.
	base := "https://x.com/"
	cases := []string{
		"",
		"   ",
		"#",
		"#section",
		"data:image/png;base64,AAAA",
		"javascript:void(0)",
		"JAVASCRIPT:alert(1)",
		"mailto:a@b.com",
		"tel:+123456",
		"about:blank",
		"http://[::1",
	}
	for _, raw := range cases {
		if got, err := Resolve(raw, base); !errors.Is(err, ErrUnsupported) {
			t.Errorf("Resolve(%q) = (%q, %v), want ErrUnsupported", raw, got, err)
		}
	}
}

func TestResolve_BadBase(t *testing.T) {
	if _, err := Resolve("a.png", "://not a url"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("bad base: got %v, want ErrUnsupported", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"example.com", "https://example.com"},
		{"  example.com/page  ", "https://example.com/page"},
		{`"example.com"`, "https://example.com"},
		{"http://example.com", "http://example.com"},
		{"https://example.com", "https://example.com"},
		{"HTTPS://example.com", "HTTPS://example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.raw); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
