package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for candidate documents.
// It is generated using content-based hashing or assigned by the backing store.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// EntityKind names a class of searchable documents. Each kind has its own
// field schema, default ranking formula, and backend capability set.
type EntityKind string

// Built-in entity kinds.
const (
	KindUser    EntityKind = "user"
	KindProfile EntityKind = "profile"
	KindRepo    EntityKind = "repo"
)

// Document is a search candidate: an entity kind plus its attribute map.
// Attribute values are scalars (string, uint64, float64, bool, time.Time)
// or ordered sequences ([]string, []uint64). The Vector field carries an
// optional embedding used by vector-capable backends; the engine itself
// never interprets it.
//
// Documents live for the duration of one query execution and are never
// persisted by the engine.
type Document struct {
	Id     ID
	Kind   EntityKind
	Attrs  map[string]any
	Vector []float32
}

// Number returns the named attribute coerced to float64.
// Absent or non-numeric attributes report ok=false.
func (d *Document) Number(name string) (float64, bool) {
	if d.Attrs == nil {
		return 0, false
	}
	switch v := d.Attrs[name].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case uint:
		return float64(v), true
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case time.Time:
		return float64(v.UnixMicro()), true
	default:
		return 0, false
	}
}

// Strings returns the named attribute's textual content: a single-element
// slice for string attributes, the elements themselves for string arrays,
// and nil for everything else.
func (d *Document) Strings(name string) []string {
	if d.Attrs == nil {
		return nil
	}
	switch v := d.Attrs[name].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Time returns the named attribute as a timestamp. String attributes are
// accepted in RFC 3339 form.
func (d *Document) Time(name string) (time.Time, bool) {
	if d.Attrs == nil {
		return time.Time{}, false
	}
	switch v := d.Attrs[name].(type) {
	case time.Time:
		return v, true
	case string:
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	default:
		return time.Time{}, false
	}
}

// SearchResult is a scored candidate. NativeScore is the partial score the
// backend computed during pushdown (0 when nothing was pushed down); Score
// is the final combined score used for ordering.
type SearchResult struct {
	Document    *Document
	NativeScore float64
	Score       float64
}
