package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/relevance/core"
)

// FieldKind describes the value type of a document field.
type FieldKind int

const (
	// String is a single case-folded text value.
	String FieldKind = iota + 1
	// Uint is an unsigned integer value.
	Uint
	// Bool is a boolean value.
	Bool
	// StringArray is an ordered sequence of text values.
	StringArray
	// UintArray is an ordered sequence of unsigned integers.
	UintArray
	// Timestamp is a point in time.
	Timestamp
)

// String returns the kind name for diagnostics.
func (k FieldKind) String() string {
	switch k {
	case String:
		return "string"
	case Uint:
		return "uint"
	case Bool:
		return "bool"
	case StringArray:
		return "string[]"
	case UintArray:
		return "uint[]"
	case Timestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// Ordered reports whether the kind supports ordering comparisons (Gt, Gte, Lt, Lte).
func (k FieldKind) Ordered() bool {
	return k == Uint || k == Timestamp
}

// Array reports whether the kind is a sequence type.
func (k FieldKind) Array() bool {
	return k == StringArray || k == UintArray
}

// Textual reports whether the kind carries text content.
func (k FieldKind) Textual() bool {
	return k == String || k == StringArray
}

// FieldDescriptor is static, per-entity-kind field metadata. Every filter
// and expression field reference must resolve against a descriptor for the
// active entity kind; unknown fields are a validation error.
type FieldDescriptor struct {
	Name               string
	Kind               FieldKind
	Filterable         bool
	FullTextSearchable bool
}

// Schema is the descriptor set for one entity kind. Immutable after
// construction and safe for concurrent use.
type Schema struct {
	kind   core.EntityKind
	fields map[string]FieldDescriptor
	names  []string
}

// New builds a Schema for an entity kind from its field descriptors.
func New(kind core.EntityKind, descriptors ...FieldDescriptor) (*Schema, error) {
	if kind == "" {
		return nil, ErrEmptyKind
	}

	fields := make(map[string]FieldDescriptor, len(descriptors))
	names := make([]string, 0, len(descriptors))
	for _, fd := range descriptors {
		if fd.Name == "" {
			return nil, fmt.Errorf("%w: kind %q", ErrEmptyFieldName, kind)
		}
		if _, exists := fields[fd.Name]; exists {
			return nil, fmt.Errorf("%w: %q on kind %q", ErrDuplicateField, fd.Name, kind)
		}
		fields[fd.Name] = fd
		names = append(names, fd.Name)
	}

	return &Schema{kind: kind, fields: fields, names: names}, nil
}

// EntityKind returns the kind this schema describes.
func (s *Schema) EntityKind() core.EntityKind {
	return s.kind
}

// Field resolves a field name against the schema.
func (s *Schema) Field(name string) (FieldDescriptor, bool) {
	fd, ok := s.fields[name]
	return fd, ok
}

// FieldNames returns the field names in declaration order.
func (s *Schema) FieldNames() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// DocumentText renders a document's full-text searchable content as one
// string, in field declaration order. Kinds without full-text fields fall
// back to every textual field. Used to derive embedding input.
func (s *Schema) DocumentText(doc *core.Document) string {
	var parts []string
	collect := func(match func(FieldDescriptor) bool) {
		for _, name := range s.names {
			fd := s.fields[name]
			if match(fd) {
				parts = append(parts, doc.Strings(name)...)
			}
		}
	}

	collect(func(fd FieldDescriptor) bool { return fd.FullTextSearchable })
	if len(parts) == 0 {
		collect(func(fd FieldDescriptor) bool { return fd.Kind.Textual() })
	}
	return strings.Join(parts, " ")
}

// Registry holds the schemas for all known entity kinds. It is read-only
// after construction and intended to be shared process-wide.
type Registry struct {
	schemas map[core.EntityKind]*Schema
}

// NewRegistry builds a registry from schemas.
func NewRegistry(schemas ...*Schema) (*Registry, error) {
	byKind := make(map[core.EntityKind]*Schema, len(schemas))
	for _, s := range schemas {
		if _, exists := byKind[s.kind]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKind, s.kind)
		}
		byKind[s.kind] = s
	}
	return &Registry{schemas: byKind}, nil
}

// Schema resolves an entity kind.
func (r *Registry) Schema(kind core.EntityKind) (*Schema, bool) {
	s, ok := r.schemas[kind]
	return s, ok
}

// Kinds returns the registered entity kinds in sorted order.
func (r *Registry) Kinds() []core.EntityKind {
	out := make([]core.EntityKind, 0, len(r.schemas))
	for kind := range r.schemas {
		out = append(out, kind)
	}
	slices.Sort(out)
	return out
}
