package rank

import (
	"fmt"
	"math"
	"strings"

	"github.com/poiesic/relevance/schema"
)

// Validate checks an expression against the entity kind's schema. It runs
// before any backend round trip, so malformed trees never cost a network
// call. Failures are *ValidationError values identifying the offending node.
func Validate(e *Expr, s *schema.Schema) error {
	return validateNode(e, s, "$")
}

func validateNode(e *Expr, s *schema.Schema, at string) error {
	if e == nil {
		return &ValidationError{Path: at, Err: fmt.Errorf("%w: nil node", ErrBadArity)}
	}
	at = at + "." + e.Type.String()
	fail := func(err error) error {
		return &ValidationError{Path: at, Err: err}
	}

	switch e.Type {
	case TypeBM25:
		fd, ok := s.Field(e.Field)
		if !ok {
			return fail(fmt.Errorf("%w: %q on kind %q", ErrUnknownField, e.Field, s.EntityKind()))
		}
		if !fd.FullTextSearchable || !fd.Kind.Textual() {
			return fail(fmt.Errorf("%w: %q", ErrFieldNotSearchable, e.Field))
		}
		if strings.TrimSpace(e.Query) == "" {
			return fail(ErrEmptyQuery)
		}
		return nil

	case TypeAttr:
		if e.Name == AttrSimilarity {
			return nil
		}
		fd, ok := s.Field(e.Name)
		if !ok {
			return fail(fmt.Errorf("%w: %q on kind %q", ErrUnknownAttr, e.Name, s.EntityKind()))
		}
		switch fd.Kind {
		case schema.Uint, schema.Bool, schema.Timestamp:
			return nil
		default:
			return fail(fmt.Errorf("%w: %q is not numeric", ErrUnknownAttr, e.Name))
		}

	case TypeConst:
		if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
			return fail(ErrNonNumericConst)
		}
		return nil

	case TypeSum, TypeMult, TypeMax, TypeMin:
		if len(e.Exprs) == 0 {
			return fail(fmt.Errorf("%w: %s requires at least one child", ErrBadArity, e.Type))
		}
		return validateChildren(e, s, at)

	case TypeDiv:
		if len(e.Exprs) != 2 {
			return fail(fmt.Errorf("%w: Div requires numerator and denominator, got %d", ErrBadArity, len(e.Exprs)))
		}
		return validateChildren(e, s, at)

	case TypeLog:
		if len(e.Exprs) != 1 {
			return fail(fmt.Errorf("%w: Log requires exactly one operand", ErrBadArity))
		}
		if e.Base <= 0 || e.Base == 1 {
			return fail(ErrBadLogBase)
		}
		return validateChildren(e, s, at)

	case TypeSaturate:
		if len(e.Exprs) != 1 {
			return fail(fmt.Errorf("%w: Saturate requires exactly one operand", ErrBadArity))
		}
		if e.Midpoint <= 0 {
			return fail(ErrBadMidpoint)
		}
		return validateChildren(e, s, at)

	default:
		return fail(fmt.Errorf("%w: %v", ErrUnknownExprType, e.Type))
	}
}

func validateChildren(e *Expr, s *schema.Schema, at string) error {
	for i, child := range e.Exprs {
		if err := validateNode(child, s, fmt.Sprintf("%s[%d]", at, i)); err != nil {
			return err
		}
	}
	return nil
}
