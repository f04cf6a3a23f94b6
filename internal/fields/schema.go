// Package fields reconciles the index's multi-valued storage
// representation with the single-valued records the rest of the
// system works in. Every stored field comes back wrapped in a
// sequence; the normalizer unwraps, defaults and coerces per a
// declared schema.
package fields

import "time"

// Type is the coercion target for a schema field.
type Type int

const (
	String Type = iota
	Integer
	Float
	Timestamp
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Timestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Spec declares how one field is normalized. Required fields with no
// value fail the whole record; optional fields fall back to Default,
// or are omitted when Default is nil.
type Spec struct {
	Type     Type
	Required bool
	Default  any
}

// Schema maps field names to their specs. Fields absent from the
// schema are dropped during normalization.
type Schema map[string]Spec

// DefaultSchema is the index record schema. Score has no default: a
// hit without one stays scoreless rather than pretending relevance 0.
func DefaultSchema() Schema {
	return Schema{
		"id":            {Type: String, Required: true},
		"document_id":   {Type: Integer, Required: true},
		"title":         {Type: String, Default: ""},
		"source":        {Type: String, Default: ""},
		"date":          {Type: Timestamp, Required: true},
		"document_type": {Type: String, Default: ""},
		"chunk_index":   {Type: Integer, Default: int64(0)},
		"token_count":   {Type: Integer, Default: int64(0)},
		"content":       {Type: String, Default: ""},
		"score":         {Type: Float},
	}
}

// timestampLayouts are tried in order when a timestamp arrives as a
// string. The index stores RFC 3339; the other layouts cover legacy
// rows imported from the old pipeline.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}
