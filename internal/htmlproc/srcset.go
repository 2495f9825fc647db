package htmlproc

import "strings"

// srcsetEntry is one "url descriptor" pair from a srcset attribute.
type srcsetEntry struct {
	URL        string
	Descriptor string // "1x", "480w", ... kept verbatim, may be empty
}

// parseSrcset splits a comma-separated srcset list. Entries that are only
// whitespace are dropped.
func parseSrcset(raw string) []srcsetEntry {
	var entries []srcsetEntry
	for _, part := range strings.Split(raw, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		entries = append(entries, srcsetEntry{
			URL:        fields[0],
			Descriptor: strings.Join(fields[1:], " "),
		})
	}
	return entries
}

// formatSrcset serializes entries back to attribute form.
func formatSrcset(entries []srcsetEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Descriptor != "" {
			parts = append(parts, e.URL+" "+e.Descriptor)
		} else {
			parts = append(parts, e.URL)
		}
	}
	return strings.Join(parts, ", ")
}
