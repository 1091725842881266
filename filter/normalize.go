package filter

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/poiesic/relevance/schema"
)

// Normalize validates a filter against the entity kind's schema and returns
// a canonicalized copy. Canonicalization lower-cases every string leaf of
// the equality, array and tokenized families (never field names or
// operators) and parses timestamp literals; it is idempotent. Pattern
// values (Glob, IGlob, Regex) are preserved verbatim, since case-folding a
// pattern would corrupt escapes and character classes.
//
// Failures are *ValidationError values identifying the offending node.
func Normalize(node *Node, s *schema.Schema) (*Node, error) {
	return normalizeNode(node, s, "$")
}

func normalizeNode(n *Node, s *schema.Schema, at string) (*Node, error) {
	if n == nil {
		return nil, &ValidationError{Path: at, Err: fmt.Errorf("%w: nil node", ErrMalformedValue)}
	}

	if n.IsComposite() {
		if n.Combinator != CombinatorAnd && n.Combinator != CombinatorOr {
			return nil, &ValidationError{Path: at, Err: fmt.Errorf("%w: %q", ErrUnknownCombinator, n.Combinator)}
		}
		if len(n.Children) == 0 {
			return nil, &ValidationError{Path: at, Err: ErrEmptyComposite}
		}

		children := make([]*Node, len(n.Children))
		for i, child := range n.Children {
			normalized, err := normalizeNode(child, s, fmt.Sprintf("%s.%s[%d]", at, n.Combinator, i))
			if err != nil {
				return nil, err
			}
			children[i] = normalized
		}
		return &Node{Combinator: n.Combinator, Children: children}, nil
	}

	return normalizeField(n, s, at+"."+n.Field)
}

func normalizeField(n *Node, s *schema.Schema, at string) (*Node, error) {
	fail := func(err error) (*Node, error) {
		return nil, &ValidationError{Path: at, Err: err}
	}

	fd, ok := s.Field(n.Field)
	if !ok {
		return fail(fmt.Errorf("%w: %q on kind %q", ErrUnknownField, n.Field, s.EntityKind()))
	}

	// ContainsAllTokens rides the full-text index; everything else needs the
	// filterable flag.
	if n.Op == ContainsAllTokens {
		if !fd.FullTextSearchable || !fd.Kind.Textual() {
			return fail(fmt.Errorf("%w: %q", ErrNotFullTextSearchable, n.Field))
		}
	} else if !fd.Filterable {
		return fail(fmt.Errorf("%w: %q", ErrFieldNotFilterable, n.Field))
	}

	value, err := normalizeValue(n.Op, fd, n.Value)
	if err != nil {
		return fail(err)
	}

	return &Node{Field: n.Field, Op: n.Op, Value: value}, nil
}

func normalizeValue(op Operator, fd schema.FieldDescriptor, value any) (any, error) {
	switch op {
	case Eq, NotEq:
		if fd.Kind.Array() {
			return nil, fmt.Errorf("%w: %s on %s field (use Contains)", ErrOperatorTypeMismatch, op, fd.Kind)
		}
		return normalizeScalar(fd.Kind, value)

	case In, NotIn:
		if fd.Kind.Array() {
			return nil, fmt.Errorf("%w: %s on %s field", ErrOperatorTypeMismatch, op, fd.Kind)
		}
		return normalizeScalarList(fd.Kind, value)

	case Gt, Gte, Lt, Lte:
		if !fd.Kind.Ordered() {
			return nil, fmt.Errorf("%w: %s on %s field", ErrOperatorTypeMismatch, op, fd.Kind)
		}
		return normalizeScalar(fd.Kind, value)

	case Contains, NotContains:
		if !fd.Kind.Array() {
			return nil, fmt.Errorf("%w: %s on %s field", ErrOperatorTypeMismatch, op, fd.Kind)
		}
		return normalizeScalar(elementKind(fd.Kind), value)

	case ContainsAny, NotContainsAny:
		if !fd.Kind.Array() {
			return nil, fmt.Errorf("%w: %s on %s field", ErrOperatorTypeMismatch, op, fd.Kind)
		}
		return normalizeScalarList(elementKind(fd.Kind), value)

	case ContainsAllTokens:
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("%w: %s requires a non-empty string", ErrMalformedValue, op)
		}
		return strings.ToLower(s), nil

	case Glob, IGlob:
		pattern, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s requires a string pattern", ErrMalformedValue, op)
		}
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("%w: bad glob %q", ErrMalformedValue, pattern)
		}
		return pattern, nil

	case Regex:
		pattern, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s requires a string pattern", ErrMalformedValue, op)
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return nil, fmt.Errorf("%w: bad regexp %q: %v", ErrMalformedValue, pattern, err)
		}
		return pattern, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperator, op)
	}
}

func elementKind(k schema.FieldKind) schema.FieldKind {
	switch k {
	case schema.StringArray:
		return schema.String
	case schema.UintArray:
		return schema.Uint
	default:
		return k
	}
}

func normalizeScalar(kind schema.FieldKind, value any) (any, error) {
	switch kind {
	case schema.String:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected string, got %T", ErrMalformedValue, value)
		}
		return strings.ToLower(s), nil

	case schema.Uint:
		n, ok := asNumber(value)
		if !ok {
			return nil, fmt.Errorf("%w: expected number, got %T", ErrMalformedValue, value)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: negative value for unsigned field", ErrMalformedValue)
		}
		return n, nil

	case schema.Bool:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: expected bool, got %T", ErrMalformedValue, value)
		}
		return b, nil

	case schema.Timestamp:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case string:
			ts, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return nil, fmt.Errorf("%w: bad timestamp %q", ErrMalformedValue, v)
			}
			return ts, nil
		default:
			return nil, fmt.Errorf("%w: expected RFC 3339 timestamp, got %T", ErrMalformedValue, value)
		}

	default:
		return nil, fmt.Errorf("%w: no scalar form for %s", ErrOperatorTypeMismatch, kind)
	}
}

func normalizeScalarList(kind schema.FieldKind, value any) (any, error) {
	var elems []any
	switch v := value.(type) {
	case []any:
		elems = v
	case []string:
		elems = make([]any, len(v))
		for i, s := range v {
			elems[i] = s
		}
	default:
		return nil, fmt.Errorf("%w: expected array, got %T", ErrMalformedValue, value)
	}

	if len(elems) == 0 {
		return nil, fmt.Errorf("%w: empty array", ErrMalformedValue)
	}

	out := make([]any, len(elems))
	for i, e := range elems {
		normalized, err := normalizeScalar(kind, e)
		if err != nil {
			return nil, err
		}
		out[i] = normalized
	}
	return out, nil
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
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
	default:
		return 0, false
	}
}
