package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the explicitly supported date/datetime string forms,
// constructed in local time (not UTC). Longer layouts come first so that a
// trailing time component is never silently dropped.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// fallbackDateLayouts handle generic date strings when none of the primary
// layouts parse.
var fallbackDateLayouts = []string{
	time.RFC3339,
	time.RFC1123,
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
}

// parseNumber coerces a value to a finite float64. It returns ok=false
// (never NaN, never a silent zero) for anything unparsable, so numeric
// comparisons cannot accidentally succeed.
func parseNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return finite(float64(n))
	case float64:
		return finite(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseDate coerces a value to a millisecond timestamp. time.Time values are
// taken as-is; strings matching YYYY-MM-DD with an optional time component
// are constructed as local time, then generic layouts are tried.
func parseDate(v any) (int64, bool) {
	switch d := v.(type) {
	case time.Time:
		return d.UnixMilli(), true
	case *time.Time:
		if d == nil {
			return 0, false
		}
		return d.UnixMilli(), true
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return 0, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return t.UnixMilli(), true
			}
		}
		for _, layout := range fallbackDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UnixMilli(), true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// parseTime coerces a value to fractional minutes since midnight. The date
// part of a time.Time is discarded: two values on different days but the
// same clock time compare equal.
func parseTime(v any) (float64, bool) {
	switch t := v.(type) {
	case time.Time:
		return float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60, true
	case *time.Time:
		if t == nil {
			return 0, false
		}
		return parseTime(*t)
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range []string{"15:04:05", "15:04"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				return float64(parsed.Hour()*60+parsed.Minute()) + float64(parsed.Second())/60, true
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// normalizeMulti converts a value to a list of trimmed strings. Arrays map
// element-wise; strings split on "||" when present, else on ",". Empty or
// absent input yields an empty list.
func normalizeMulti(v any) []string {
	switch m := v.(type) {
	case nil:
		return nil
	case []string:
		out := make([]string, 0, len(m))
		for _, item := range m {
			out = append(out, strings.TrimSpace(item))
		}
		return out
	case []any:
		out := make([]string, 0, len(m))
		for _, item := range m {
			out = append(out, strings.TrimSpace(stringify(item)))
		}
		return out
	case string:
		if m == "" {
			return nil
		}
		sep := ","
		if strings.Contains(m, "||") {
			sep = "||"
		}
		parts := strings.Split(m, sep)
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			out = append(out, strings.TrimSpace(part))
		}
		return out
	default:
		return []string{strings.TrimSpace(stringify(v))}
	}
}

// normalizeText stringifies a value and lower-cases it for case-insensitive
// equality and substring checks. Nil maps to the empty string; slices join
// with commas so a multiselect answer has a stable whole-string form.
func normalizeText(v any) string {
	if v == nil {
		return ""
	}
	switch s := v.(type) {
	case []string, []any:
		return strings.ToLower(strings.Join(normalizeMulti(s), ","))
	default:
		return strings.ToLower(stringify(v))
	}
}

func stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprint(v)
	}
}

// isEmpty reports whether a current value counts as "no answer yet". An
// empty value matches only the always condition; every other condition is
// non-matching against it.
func isEmpty(v any) bool {
	switch e := v.(type) {
	case nil:
		return true
	case string:
		return e == ""
	case []string:
		return len(e) == 0
	case []any:
		return len(e) == 0
	default:
		return false
	}
}
