package htmlproc

import (
	"reflect"
	"testing"
)

func TestParseSrcset(t *testing.T) {
	tests := []struct {
		raw  string
		want []srcsetEntry
	}{
		{
			"a.jpg 1x, b.jpg 2x",
			[]srcsetEntry{{"a.jpg", "1x"}, {"b.jpg", "2x"}},
		},
		{
			"hero-480.jpg 480w,hero-800.jpg 800w",
			[]srcsetEntry{{"hero-480.jpg", "480w"}, {"hero-800.jpg", "800w"}},
		},
		{
			"solo.png",
			[]srcsetEntry{{"solo.png", ""}},
		},
		{
			"  spaced.png   2x  ,  ",
			[]srcsetEntry{{"spaced.png", "2x"}},
		},
		{"", nil},
	}
	for _, tt := range tests {
		if got := parseSrcset(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseSrcset(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestFormatSrcset_RoundTrip(t *testing.T) {
	entries := []srcsetEntry{{"img/a.jpg", "1x"}, {"img/b.jpg", "2x"}, {"img/c.jpg", ""}}
	want := "img/a.jpg 1x, img/b.jpg 2x, img/c.jpg"
	if got := formatSrcset(entries); got != want {
		t.Errorf("formatSrcset = %q, want %q", got, want)
	}
}
