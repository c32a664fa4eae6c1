package parser

import (
	"encoding/json"
	"strings"
	"time"
)

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	"2006-01-02T15:04:05.999999Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses a provider timestamp. Strings must match one of the
// fixed layouts; numbers are Unix seconds. Anything else is reported as
// absent rather than as an error.
func ParseDate(v any) *time.Time {
	switch d := v.(type) {
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				t = t.UTC()
				return &t
			}
		}
	case json.Number:
		if n, err := d.Int64(); err == nil && n > 0 {
			return unix(n)
		}
	case float64:
		if d > 0 {
			return unix(int64(d))
		}
	case int:
		if d > 0 {
			return unix(int64(d))
		}
	case int64:
		if d > 0 {
			return unix(d)
		}
	}
	return nil
}

func unix(sec int64) *time.Time {
	t := time.Unix(sec, 0).UTC()
	return &t
}
