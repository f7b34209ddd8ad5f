package meta

import (
	"strconv"
	"strings"
)

// Tag candidates per normalized key, in preference order. The external
// decoder emits group-prefixed names; the bare names cover doubles and
// older decoder versions.
var (
	apertureTags = []string{"Composite:Aperture", "EXIF:FNumber", "Aperture", "FNumber"}
	shutterTags  = []string{"Composite:ShutterSpeed", "EXIF:ExposureTime", "ShutterSpeed", "ExposureTime"}
	isoTags      = []string{"Composite:ISO", "EXIF:ISO", "ISO"}
	focalTags    = []string{"Composite:FocalLength", "EXIF:FocalLength", "FocalLength"}
	lensTags     = []string{"Composite:LensID", "EXIF:LensModel", "MakerNotes:LensType", "LensID", "LensModel", "LensType"}
)

// lookupNumber finds the first candidate tag that parses as a number.
func lookupNumber(tags map[string]any, candidates []string) (float64, bool) {
	for _, name := range candidates {
		raw, ok := tags[name]
		if !ok {
			continue
		}
		if v, ok := parseNumber(raw); ok {
			return v, true
		}
	}
	return 0, false
}

// lookupString finds the first candidate tag with a non-empty string value.
func lookupString(tags map[string]any, candidates []string) (string, bool) {
	for _, name := range candidates {
		raw, ok := tags[name]
		if !ok {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s != "" {
			return s, true
		}
	}
	return "", false
}

// parseNumber coerces a raw decoder value into a float. Strings arrive in
// human form: "1/320" fractions, "50.0 mm" unit suffixes, plain numbers.
// Multi-valued tags yield their first entry.
func parseNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return parseNumberString(v)
	case []any:
		if len(v) == 0 {
			return 0, false
		}
		return parseNumber(v[0])
	default:
		return 0, false
	}
}

func parseNumberString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	if numStr, denStr, found := strings.Cut(s, "/"); found {
		num, errN := strconv.ParseFloat(numStr, 64)
		den, errD := strconv.ParseFloat(denStr, 64)
		if errN != nil || errD != nil || den == 0 {
			return 0, false
		}
		return num / den, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
