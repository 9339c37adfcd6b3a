// Package rowconv provides the defensive value-coercion helpers shared
// by the row normalisers. Numeric and date coercion never fails:
// unparseable values fall back to a default instead of propagating.
package rowconv

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ISOFormat is the canonical timestamp layout for emitted fields.
const ISOFormat = "2006-01-02T15:04:05Z"

// Int coerces a value to an integer, defaulting to def on failure.
func Int(val any, def int) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return def
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		// Some sources format counts as floats ("12.0").
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
	}
	return def
}

// Float coerces a value to a float pointer, nil on failure.
func Float(val any) *float64 {
	switch v := val.(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}

// Coordinate rounds a latitude/longitude to 10 decimal places. An
// exact-zero result is normalised to nil because the sources use zero
// as a missing-value sentinel.
func Coordinate(val any) *float64 {
	f := Float(val)
	if f == nil {
		return nil
	}
	rounded := math.Round(*f*1e10) / 1e10
	if rounded == 0.0 {
		return nil
	}
	return &rounded
}

// String coerces a value to a trimmed string; "" when absent.
func String(val any) string {
	s, _ := val.(string)
	return strings.TrimSpace(s)
}

// CamelToSnake converts camelCase or PascalCase to snake_case.
func CamelToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && !unicode.IsUpper(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseTime tries each layout in order, interpreting naive values as
// UTC. ok is false when no layout matches.
func ParseTime(val string, layouts ...string) (time.Time, bool) {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, val, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatISO renders a time in the canonical UTC layout.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOFormat)
}

// DateOf truncates an ISO timestamp to its date part.
func DateOf(iso string) string {
	if len(iso) < 10 {
		return iso
	}
	return iso[:10]
}
