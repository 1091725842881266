package rank

import (
	"math"

	"github.com/poiesic/relevance/core"
	"github.com/poiesic/relevance/token"
)

// Okapi BM25 parameters.
const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// logEpsilon is the clamp applied to non-positive Log operands so the
// logarithm stays in its domain.
const logEpsilon = 1e-9

// Scorer is the client-side evaluator: a tree-walking interpreter that
// computes any expression over a concrete document. It carries no mutable
// state beyond the corpus statistics it was built with, so the same node
// and document always yield the same value.
type Scorer struct {
	stats *Stats
}

// NewScorer creates a scorer over the given corpus statistics. Pass the
// statistics returned by the backend when available; otherwise derive them
// from the candidate set with StatsFromDocuments.
func NewScorer(stats *Stats) *Scorer {
	if stats == nil {
		stats = NewStats()
	}
	return &Scorer{stats: stats}
}

// Score evaluates an expression against a document. Degenerate numerics
// produce finite sentinels rather than errors: division by zero is 0 and
// non-positive Log operands are clamped, so ranking is always well-defined
// for any valid tree.
func (s *Scorer) Score(e *Expr, doc *core.Document) float64 {
	if e == nil {
		return 0
	}

	switch e.Type {
	case TypeBM25:
		return s.bm25(e.Field, e.Query, doc)

	case TypeAttr:
		n, ok := doc.Number(e.Name)
		if !ok {
			return 0
		}
		return n

	case TypeConst:
		return e.Value

	case TypeSum:
		var sum float64
		for _, child := range e.Exprs {
			sum += s.Score(child, doc)
		}
		return sum

	case TypeMult:
		product := 1.0
		for _, child := range e.Exprs {
			product *= s.Score(child, doc)
		}
		return product

	case TypeDiv:
		if len(e.Exprs) != 2 {
			return 0
		}
		denominator := s.Score(e.Exprs[1], doc)
		if denominator == 0 {
			return 0
		}
		return s.Score(e.Exprs[0], doc) / denominator

	case TypeMax:
		best := math.Inf(-1)
		for _, child := range e.Exprs {
			if v := s.Score(child, doc); v > best {
				best = v
			}
		}
		if math.IsInf(best, -1) {
			return 0
		}
		return best

	case TypeMin:
		best := math.Inf(1)
		for _, child := range e.Exprs {
			if v := s.Score(child, doc); v < best {
				best = v
			}
		}
		if math.IsInf(best, 1) {
			return 0
		}
		return best

	case TypeLog:
		if len(e.Exprs) != 1 {
			return 0
		}
		operand := s.Score(e.Exprs[0], doc)
		if operand <= 0 {
			operand = logEpsilon
		}
		return math.Log(operand) / math.Log(e.Base)

	case TypeSaturate:
		if len(e.Exprs) != 1 {
			return 0
		}
		x := s.Score(e.Exprs[0], doc)
		if x <= 0 {
			return 0
		}
		return x / (x + e.Midpoint)

	default:
		return 0
	}
}

// bm25 computes the Okapi BM25 score of the query against one document
// field, using the scorer's corpus statistics for inverse document
// frequency and length normalization. The nonnegative idf variant
// log(1+(N-df+0.5)/(df+0.5)) keeps scores >= 0.
func (s *Scorer) bm25(field, query string, doc *core.Document) float64 {
	queryTokens := token.Tokenize(query)
	if len(queryTokens) == 0 {
		return 0
	}

	tf := make(map[string]float64)
	var fieldLen float64
	for _, content := range doc.Strings(field) {
		for _, tok := range token.Tokenize(content) {
			tf[tok]++
			fieldLen++
		}
	}
	if fieldLen == 0 {
		return 0
	}

	totalDocs := float64(s.stats.DocCount)
	if totalDocs == 0 {
		totalDocs = 1
	}
	avgLen := s.stats.AvgLen(field)

	var score float64
	for _, tok := range queryTokens {
		freq := tf[tok]
		if freq == 0 {
			continue
		}
		df := float64(s.stats.DF(field, tok))
		if df == 0 {
			df = 1
		}
		idf := math.Log(1 + (totalDocs-df+0.5)/(df+0.5))
		score += idf * (freq * (bm25K1 + 1)) / (freq + bm25K1*(1-bm25B+bm25B*fieldLen/avgLen))
	}
	return score
}
