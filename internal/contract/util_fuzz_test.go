package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncatePath fuzzes the truncation helper with random paths and widths.
func FuzzTruncatePath(f *testing.F) {
	seeds := []struct {
		path  string
		width int
	}{
		{"main.jpg", 10},
		{"photos/2024/summer/beach/IMG_0001.jpg", 20},
		{"", 0},
		{"短い/パス/写真.jpg", 8},
		{"x", -5},
	}
	for _, seed := range seeds {
		f.Add(seed.path, seed.width)
	}

	f.Fuzz(func(t *testing.T, path string, width int) {
		got := TruncatePath(path, width)

		// Output is always valid UTF-8 when the input was.
		if utf8.ValidString(path) && !utf8.ValidString(got) {
			t.Errorf("TruncatePath(%q, %d) produced invalid UTF-8", path, width)
		}

		// Truncation never exceeds the requested width.
		if width > 3 && len([]rune(got)) > len([]rune(path)) {
			t.Errorf("TruncatePath(%q, %d) grew the path to %q", path, width, got)
		}
	})
}

// FuzzParseBoolString fuzzes the boolean parser; it must never panic and
// only succeed on the documented spellings.
func FuzzParseBoolString(f *testing.F) {
	for _, seed := range []string{"yes", "no", "true", "false", "1", "0", "", "YES ", "2"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, s string) {
		got, err := ParseBoolString(s)
		if err != nil && got {
			t.Errorf("ParseBoolString(%q) returned true alongside an error", s)
		}
	})
}
