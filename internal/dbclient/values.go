package dbclient

import (
	"strconv"
	"time"

	"prism/internal/domain"
)

// timeLayouts covers the text forms SQLite (and CSV-loaded tables) commonly
// store timestamps in.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// coerceValue aligns a normalized driver value with the field's declared
// semantic type. NULLs stay nil. A value that cannot be aligned is passed
// through unchanged rather than dropped.
func coerceValue(t domain.FieldType, v any) any {
	if v == nil {
		return nil
	}
	switch t {
	case domain.FieldInt:
		switch n := v.(type) {
		case int64:
			return n
		case int32:
			return int64(n)
		case int:
			return int64(n)
		case uint64:
			return int64(n)
		case float64:
			return int64(n)
		case string:
			if i, err := strconv.ParseInt(n, 10, 64); err == nil {
				return i
			}
		}
	case domain.FieldFloat:
		switch n := v.(type) {
		case float64:
			return n
		case float32:
			return float64(n)
		case int64:
			return float64(n)
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f
			}
		}
	case domain.FieldBool:
		switch n := v.(type) {
		case bool:
			return n
		case int64:
			return n != 0
		case string:
			if b, err := strconv.ParseBool(n); err == nil {
				return b
			}
		}
	case domain.FieldString:
		if s, ok := v.(string); ok {
			return s
		}
	case domain.FieldTime:
		switch n := v.(type) {
		case time.Time:
			return n
		case string:
			for _, layout := range timeLayouts {
				if ts, err := time.Parse(layout, n); err == nil {
					return ts
				}
			}
		}
	}
	return v
}
