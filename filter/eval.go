package filter

import (
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/poiesic/relevance/core"
	"github.com/poiesic/relevance/token"
)

// Eval evaluates a normalized filter against a document. It exists for
// post-filtering: some backends treat filters as advisory hints (secondary
// vector search in particular) and return candidates broader than the
// predicate, which the engine then re-checks locally before ranking.
//
// Eval is deterministic and has no hidden state; the same node and document
// always yield the same answer. Absent fields never match positive
// operators, so their negations match.
func Eval(n *Node, doc *core.Document) bool {
	if n == nil {
		return true
	}

	if n.IsComposite() {
		switch n.Combinator {
		case CombinatorAnd:
			for _, child := range n.Children {
				if !Eval(child, doc) {
					return false
				}
			}
			return true
		case CombinatorOr:
			for _, child := range n.Children {
				if Eval(child, doc) {
					return true
				}
			}
			return false
		default:
			return false
		}
	}

	return evalField(n, doc)
}

func evalField(n *Node, doc *core.Document) bool {
	switch n.Op {
	case Eq:
		return scalarEqual(doc, n.Field, n.Value)
	case NotEq:
		return !scalarEqual(doc, n.Field, n.Value)
	case In:
		return anyEqual(doc, n.Field, n.Value)
	case NotIn:
		return !anyEqual(doc, n.Field, n.Value)

	case Gt, Gte, Lt, Lte:
		return ordered(doc, n.Field, n.Op, n.Value)

	case Contains:
		return elementEqual(doc, n.Field, n.Value)
	case NotContains:
		return !elementEqual(doc, n.Field, n.Value)
	case ContainsAny:
		return anyElementEqual(doc, n.Field, n.Value)
	case NotContainsAny:
		return !anyElementEqual(doc, n.Field, n.Value)

	case ContainsAllTokens:
		query, ok := n.Value.(string)
		if !ok {
			return false
		}
		return token.ContainsAll(doc.Strings(n.Field), query)

	case Glob:
		return matchGlob(doc, n.Field, n.Value, false)
	case IGlob:
		return matchGlob(doc, n.Field, n.Value, true)
	case Regex:
		return matchRegex(doc, n.Field, n.Value)

	default:
		return false
	}
}

// scalarEqual compares a document scalar against a normalized filter value.
// String comparison folds the document side; the filter side was folded by
// the normalizer.
func scalarEqual(doc *core.Document, field string, value any) bool {
	switch v := value.(type) {
	case string:
		for _, s := range doc.Strings(field) {
			if strings.ToLower(s) == v {
				return true
			}
		}
		return false
	case float64:
		n, ok := doc.Number(field)
		return ok && n == v
	case bool:
		n, ok := doc.Number(field)
		if !ok {
			return false
		}
		return (n != 0) == v
	case time.Time:
		ts, ok := doc.Time(field)
		return ok && ts.Equal(v)
	default:
		return false
	}
}

func anyEqual(doc *core.Document, field string, value any) bool {
	elems, ok := value.([]any)
	if !ok {
		return false
	}
	for _, e := range elems {
		if scalarEqual(doc, field, e) {
			return true
		}
	}
	return false
}

// elementEqual is scalarEqual over array fields: Strings and Number already
// surface array elements, so exact membership reuses the scalar comparison.
func elementEqual(doc *core.Document, field string, value any) bool {
	switch v := value.(type) {
	case string:
		for _, s := range doc.Strings(field) {
			if strings.ToLower(s) == v {
				return true
			}
		}
		return false
	case float64:
		for _, n := range numbersOf(doc, field) {
			if n == v {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func anyElementEqual(doc *core.Document, field string, value any) bool {
	elems, ok := value.([]any)
	if !ok {
		return false
	}
	for _, e := range elems {
		if elementEqual(doc, field, e) {
			return true
		}
	}
	return false
}

func ordered(doc *core.Document, field string, op Operator, value any) bool {
	var want, have float64
	switch v := value.(type) {
	case float64:
		n, ok := doc.Number(field)
		if !ok {
			return false
		}
		have, want = n, v
	case time.Time:
		ts, ok := doc.Time(field)
		if !ok {
			return false
		}
		have, want = float64(ts.UnixMicro()), float64(v.UnixMicro())
	default:
		return false
	}

	switch op {
	case Gt:
		return have > want
	case Gte:
		return have >= want
	case Lt:
		return have < want
	case Lte:
		return have <= want
	default:
		return false
	}
}

func numbersOf(doc *core.Document, field string) []float64 {
	if doc.Attrs == nil {
		return nil
	}
	switch v := doc.Attrs[field].(type) {
	case []uint64:
		out := make([]float64, len(v))
		for i, n := range v {
			out[i] = float64(n)
		}
		return out
	case []float64:
		return v
	case []int:
		out := make([]float64, len(v))
		for i, n := range v {
			out[i] = float64(n)
		}
		return out
	case []any:
		out := make([]float64, 0, len(v))
		for _, e := range v {
			if n, ok := asNumber(e); ok {
				out = append(out, n)
			}
		}
		return out
	default:
		return nil
	}
}

func matchGlob(doc *core.Document, field string, value any, fold bool) bool {
	pattern, ok := value.(string)
	if !ok {
		return false
	}
	if fold {
		pattern = strings.ToLower(pattern)
	}
	for _, s := range doc.Strings(field) {
		if fold {
			s = strings.ToLower(s)
		}
		if matched, err := path.Match(pattern, s); err == nil && matched {
			return true
		}
	}
	return false
}

func matchRegex(doc *core.Document, field string, value any) bool {
	pattern, ok := value.(string)
	if !ok {
		return false
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	for _, s := range doc.Strings(field) {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
