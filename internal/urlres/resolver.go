// CLAUDE:SUMMARY Resolves raw asset references against a base URL and filters out non-fetchable schemes.
// Package urlres resolves the raw reference strings found in HTML and CSS
// against a base URL and classifies the ones that cannot be fetched.
package urlres

import (
	"errors"
	"net/url"
	"strings"
)

// ErrUnsupported marks references that can never be downloaded over http(s):
// data URIs, javascript/mailto schemes, fragment-only links, or text that
// does not parse as a URL at all. Callers skip these, they are never fatal.
var ErrUnsupported = errors.New("urlres: unsupported reference")

// skipSchemes lists reference schemes that are never downloadable assets.
var skipSchemes = map[string]bool{
	"data":       true,
	"javascript": true,
	"mailto":     true,
	"tel":        true,
	"sms":        true,
	"about":      true,
	"chrome":     true,
}

// Resolve turns a raw reference into an absolute http(s) URL against base.
// Protocol-relative references (//host/...) inherit the base scheme, and
// relative paths join with standard ../ collapsing. The fragment is dropped
// from the result; query strings survive.
func Resolve(raw, base string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return "", ErrUnsupported
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", ErrUnsupported
	}
	if ref.Scheme != "" && skipSchemes[strings.ToLower(ref.Scheme)] {
		return "", ErrUnsupported
	}

	b, err := url.Parse(base)
	if err != nil {
		return "", ErrUnsupported
	}

	abs := b.ResolveReference(ref)
	abs.Fragment = ""
	if (abs.Scheme != "http" && abs.Scheme != "https") || abs.Host == "" {
		return "", ErrUnsupported
	}
	return abs.String(), nil
}

// Normalize prepares operator input for use as the root page URL: trims
// whitespace and surrounding quotes and defaults the scheme to https.
func Normalize(raw string) string {
	raw = strings.Trim(strings.TrimSpace(raw), `"'`)
	if raw == "" {
		return raw
	}
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		raw = "https://" + raw
	}
	return raw
}
