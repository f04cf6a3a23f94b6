package fields

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
)

// CoercionError reports a value that could not be converted to its
// field's declared type. It names the field and carries the raw value
// so a skipped hit can be diagnosed from the log line alone.
type CoercionError struct {
	Field string
	Value any
	Want  Type
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("field %q: cannot coerce %v (%T) to %s", e.Field, e.Value, e.Value, e.Want)
}

func (e *CoercionError) Unwrap() error { return domain.ErrInvalidInput }

// Normalize reconciles one raw index hit with the schema: one-element
// sequences unwrap to their element, empty or missing values take the
// field default, scalars pass through, and every value is coerced to
// the declared type. Fields outside the schema are dropped. A missing
// required field or an uncoercible value fails the whole record.
func Normalize(raw map[string]any, schema Schema) (map[string]any, error) {
	out := make(map[string]any, len(schema))

	for name, spec := range schema {
		value, present := unwrap(raw[name])
		if !present {
			if spec.Required {
				return nil, fmt.Errorf("%w: missing required field %q", domain.ErrInvalidInput, name)
			}
			if spec.Default != nil {
				out[name] = spec.Default
			}
			continue
		}

		coerced, err := coerce(name, value, spec.Type)
		if err != nil {
			return nil, err
		}
		out[name] = coerced
	}

	return out, nil
}

// unwrap collapses the index's sequence wrapping: a one-element slice
// yields its element, an empty slice or nil counts as absent, and a
// multi-element slice keeps its first element. Scalars pass through.
func unwrap(v any) (any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []any:
		if len(s) == 0 {
			return nil, false
		}
		return s[0], true
	case []string:
		if len(s) == 0 {
			return nil, false
		}
		return s[0], true
	default:
		return v, true
	}
}

func coerce(field string, v any, want Type) (any, error) {
	switch want {
	case String:
		return coerceString(field, v)
	case Integer:
		return coerceInteger(field, v)
	case Float:
		return coerceFloat(field, v)
	case Timestamp:
		return coerceTimestamp(field, v)
	default:
		return nil, &CoercionError{Field: field, Value: v, Want: want}
	}
}

func coerceString(field string, v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	}
	return "", &CoercionError{Field: field, Value: v, Want: String}
}

func coerceInteger(field string, v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int64(n), nil
		}
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, nil
		}
	}
	return 0, &CoercionError{Field: field, Value: v, Want: Integer}
}

func coerceFloat(field string, v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, nil
		}
	}
	return 0, &CoercionError{Field: field, Value: v, Want: Float}
}

func coerceTimestamp(field string, v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}
	}
	return time.Time{}, &CoercionError{Field: field, Value: v, Want: Timestamp}
}

// Record assembles a typed index record from a normalized field map.
func Record(fields map[string]any) domain.IndexRecord {
	rec := domain.IndexRecord{}
	if v, ok := fields["id"].(string); ok {
		rec.ID = v
	}
	if v, ok := fields["document_id"].(int64); ok {
		rec.DocumentID = v
	}
	if v, ok := fields["title"].(string); ok {
		rec.Title = v
	}
	if v, ok := fields["source"].(string); ok {
		rec.Source = v
	}
	if v, ok := fields["date"].(time.Time); ok {
		rec.Date = v
	}
	if v, ok := fields["document_type"].(string); ok {
		rec.DocumentType = v
	}
	if v, ok := fields["chunk_index"].(int64); ok {
		rec.ChunkIndex = int(v)
	}
	if v, ok := fields["token_count"].(int64); ok {
		rec.TokenCount = int(v)
	}
	if v, ok := fields["content"].(string); ok {
		rec.Content = v
	}
	if v, ok := fields["score"].(float64); ok {
		rec.Score = v
	}
	return rec
}
