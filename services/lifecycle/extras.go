package lifecycle

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted for request dates.
const DateLayout = "2006-01-02"

type extraKind int

const (
	extraText extraKind = iota
	extraRequiredText
	extraNullableText
	extraCount
	extraDate
)

// editableColumns are the request columns a dashboard edit may write.
var editableColumns = map[string]extraKind{
	"book_title":      extraRequiredText,
	"client_name":     extraRequiredText,
	"notes":           extraText,
	"email":           extraNullableText,
	"cover_image_url": extraNullableText,
	"word_count":      extraCount,
	"start_date":      extraDate,
	"end_date":        extraDate,
}

// sanitizeExtras checks free-form column updates against editableColumns and
// converts JSON values into column values.
func sanitizeExtras(in map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(in))
	for key, raw := range in {
		if key == "status" {
			return nil, fmt.Errorf("%w: status cannot be set through extra updates", ErrValidation)
		}
		kind, ok := editableColumns[key]
		if !ok {
			return nil, fmt.Errorf("%w: column %q cannot be updated", ErrValidation, key)
		}
		v, err := convertExtra(kind, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrValidation, key, err)
		}
		out[key] = v
	}
	if s, ok := out["start_date"].(time.Time); ok {
		if e, ok := out["end_date"].(time.Time); ok && e.Before(s) {
			return nil, fmt.Errorf("%w: end date is before start date", ErrValidation)
		}
	}
	return out, nil
}

func convertExtra(kind extraKind, raw interface{}) (interface{}, error) {
	switch kind {
	case extraText, extraRequiredText:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string")
		}
		s = strings.TrimSpace(s)
		if kind == extraRequiredText && s == "" {
			return nil, fmt.Errorf("cannot be empty")
		}
		return s, nil
	case extraNullableText:
		if raw == nil {
			return nil, nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string or null")
		}
		if s = strings.TrimSpace(s); s == "" {
			return nil, nil
		}
		return s, nil
	case extraCount:
		n, err := toInt(raw)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("cannot be negative")
		}
		return n, nil
	case extraDate:
		if raw == nil {
			return nil, nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected a date string")
		}
		return ParseDate(s)
	}
	return nil, fmt.Errorf("unsupported column")
}

func toInt(raw interface{}) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected a whole number")
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected a whole number")
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected a number")
	}
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 timestamps.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
