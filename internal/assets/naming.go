package assets

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Category identifies an asset class and its output subfolder.
type Category string

// Asset categories. The value doubles as the subfolder name.
const (
	Stylesheet Category = "css"
	Script     Category = "js"
	Image      Category = "img"
)

// Dir returns the output subfolder for the category.
func (c Category) Dir() string { return string(c) }

// extOK reports whether ext is a plausible extension for the category.
func (c Category) extOK(ext string) bool {
	ext = strings.ToLower(ext)
	switch c {
	case Stylesheet:
		return ext == ".css"
	case Script:
		return ext == ".js" || ext == ".mjs"
	case Image:
		switch ext {
		case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".ico", ".avif", ".bmp", ".apng":
			return true
		}
	}
	return false
}

func (c Category) defaultExt() string {
	switch c {
	case Stylesheet:
		return ".css"
	case Script:
		return ".js"
	}
	return ""
}

// ctypeExt maps response media types to extensions, for URLs whose last
// path segment carries none (e.g. /avatar?size=64).
var ctypeExt = map[string]string{
	"text/css":                 ".css",
	"text/javascript":          ".js",
	"application/javascript":   ".js",
	"application/x-javascript": ".js",
	"image/png":                ".png",
	"image/jpeg":               ".jpg",
	"image/gif":                ".gif",
	"image/webp":               ".webp",
	"image/svg+xml":            ".svg",
	"image/x-icon":             ".ico",
	"image/vnd.microsoft.icon": ".ico",
	"image/avif":               ".avif",
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// safeName reduces a URL path segment to filesystem-safe characters.
// The character class excludes path separators, so the result can never
// escape its folder.
func safeName(name string) string {
	if dec, err := url.PathUnescape(name); err == nil {
		name = dec
	}
	name = unsafeChars.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "asset"
	}
	return name
}

// baseName derives a base filename for a remote URL. Query strings are
// dropped; a missing or category-inappropriate extension is synthesized from
// the content type, falling back to the category default.
func baseName(rawURL string, cat Category, contentType string) string {
	name := "asset"
	if u, err := url.Parse(rawURL); err == nil {
		if b := path.Base(u.Path); b != "" && b != "/" && b != "." {
			name = safeName(b)
		}
	}
	if !cat.extOK(path.Ext(name)) {
		if ext := ctypeExt[contentType]; ext != "" {
			name += ext
		} else if ext := cat.defaultExt(); ext != "" {
			name += ext
		}
	}
	return name
}
