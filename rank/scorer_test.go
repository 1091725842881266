package rank

import (
	"math"
	"testing"

	"github.com/poiesic/relevance/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numericDoc(attrs map[string]any) *core.Document {
	return &core.Document{Id: 1, Kind: core.KindRepo, Attrs: attrs}
}

func TestScorer_Arithmetic(t *testing.T) {
	scorer := NewScorer(nil)
	doc := numericDoc(map[string]any{"stars": uint64(9)})

	tests := []struct {
		name string
		expr *Expr
		want float64
	}{
		{name: "const", expr: Const(2.5), want: 2.5},
		{name: "attr", expr: Attr("stars"), want: 9},
		{name: "absent attr yields 0", expr: Attr("missing"), want: 0},
		{name: "sum", expr: Sum(Const(1), Const(2), Const(3)), want: 6},
		{name: "mult", expr: Mult(Const(2), Const(3), Const(4)), want: 24},
		{name: "div", expr: Div(Const(10), Const(4)), want: 2.5},
		{name: "max", expr: Max(Const(1), Const(7), Const(3)), want: 7},
		{name: "min", expr: Min(Const(1), Const(7), Const(3)), want: 1},
		{name: "nested", expr: Sum(Mult(Const(3), Attr("stars")), Const(0.5)), want: 27.5},
		{name: "log base 10", expr: Log(10, Const(1000)), want: 3},
		{name: "log base 2", expr: Log(2, Const(8)), want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, scorer.Score(tt.expr, doc), 1e-9)
		})
	}
}

func TestScorer_DivisionByZero(t *testing.T) {
	scorer := NewScorer(nil)
	doc := numericDoc(nil)

	tests := []struct {
		name string
		expr *Expr
	}{
		{name: "zero const denominator", expr: Div(Const(5), Const(0))},
		{name: "absent attr denominator", expr: Div(Const(5), Attr("missing"))},
		{name: "nested zero denominator", expr: Sum(Const(1), Div(Const(5), Const(0)))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(tt.expr, doc)
			assert.False(t, math.IsNaN(got), "must not be NaN")
			assert.False(t, math.IsInf(got, 0), "must not be Inf")
		})
	}

	assert.Equal(t, 0.0, scorer.Score(Div(Const(5), Const(0)), doc))
}

func TestScorer_LogClamping(t *testing.T) {
	scorer := NewScorer(nil)
	doc := numericDoc(nil)

	for _, operand := range []float64{0, -1, -1000} {
		got := scorer.Score(Log(10, Const(operand)), doc)
		assert.False(t, math.IsNaN(got), "log of %v must not be NaN", operand)
		assert.False(t, math.IsInf(got, 0), "log of %v must not be Inf", operand)
		assert.Negative(t, got, "clamped log of %v should be very negative", operand)
	}
}

func TestScorer_Saturate(t *testing.T) {
	scorer := NewScorer(nil)
	doc := numericDoc(nil)
	const midpoint = 50.0

	sat := func(x float64) float64 {
		return scorer.Score(Saturate(Const(x), midpoint), doc)
	}

	assert.Equal(t, 0.0, sat(0), "output at 0 is 0")
	assert.InDelta(t, 0.5, sat(midpoint), 1e-9, "output at midpoint is 0.5")

	// Strictly increasing.
	prev := sat(0)
	for _, x := range []float64{1, 10, 50, 100, 1000, 1e6} {
		cur := sat(x)
		assert.Greater(t, cur, prev, "saturate must be strictly increasing at %v", x)
		prev = cur
	}

	// Approaches 1 from below.
	assert.Less(t, sat(1e12), 1.0)
	assert.InDelta(t, 1.0, sat(1e12), 1e-6)

	// Negative operands clamp to the bottom of the domain.
	assert.Equal(t, 0.0, sat(-5))
}

func bioDoc(id core.ID, bio, location string) *core.Document {
	return &core.Document{
		Id:   id,
		Kind: core.KindUser,
		Attrs: map[string]any{
			"bio":      bio,
			"location": location,
		},
	}
}

func TestScorer_WeightedBM25Ranking(t *testing.T) {
	// One document matches both terms, the other only the bio term. The
	// double match must rank strictly higher.
	both := bioDoc(1, "senior rust engineer building compilers", "Berlin, Germany")
	bioOnly := bioDoc(2, "rust engineer who loves trains", "Lisbon, Portugal")

	stats := StatsFromDocuments([]*core.Document{both, bioOnly})
	scorer := NewScorer(stats)

	expr := Sum(
		Mult(Const(3), BM25("bio", "rust engineer")),
		Mult(Const(2), BM25("location", "berlin")),
	)

	scoreBoth := scorer.Score(expr, both)
	scoreBio := scorer.Score(expr, bioOnly)

	require.Positive(t, scoreBoth)
	require.Positive(t, scoreBio)
	assert.Greater(t, scoreBoth, scoreBio)
}

func TestScorer_BM25(t *testing.T) {
	docs := []*core.Document{
		bioDoc(1, "rust engineer", ""),
		bioDoc(2, "go engineer", ""),
		bioDoc(3, "gardener", ""),
	}
	stats := StatsFromDocuments(docs)
	scorer := NewScorer(stats)

	t.Run("score is nonnegative", func(t *testing.T) {
		for _, doc := range docs {
			assert.GreaterOrEqual(t, scorer.Score(BM25("bio", "rust engineer"), doc), 0.0)
		}
	})

	t.Run("no overlap scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.Score(BM25("bio", "astronomy"), docs[0]))
	})

	t.Run("rarer term scores higher", func(t *testing.T) {
		// "rust" appears in one document, "engineer" in two.
		rust := scorer.Score(BM25("bio", "rust"), docs[0])
		engineer := scorer.Score(BM25("bio", "engineer"), docs[0])
		assert.Greater(t, rust, engineer)
	})

	t.Run("case folded against the query", func(t *testing.T) {
		lower := scorer.Score(BM25("bio", "rust"), docs[0])
		upper := scorer.Score(BM25("bio", "RUST"), docs[0])
		assert.Equal(t, lower, upper)
	})

	t.Run("empty query scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.Score(BM25("bio", ""), docs[0]))
	})

	t.Run("array fields score across elements", func(t *testing.T) {
		doc := &core.Document{
			Id:    4,
			Kind:  core.KindProfile,
			Attrs: map[string]any{"education": []string{"Stanford University", "Foothill College"}},
		}
		st := StatsFromDocuments([]*core.Document{doc})
		s := NewScorer(st)
		assert.Positive(t, s.Score(BM25("education", "stanford"), doc))
	})
}

func TestScorer_Deterministic(t *testing.T) {
	doc := bioDoc(1, "rust engineer in berlin", "Berlin")
	stats := StatsFromDocuments([]*core.Document{doc})
	scorer := NewScorer(stats)

	expr := Sum(
		Mult(Const(3), BM25("bio", "rust berlin")),
		Saturate(Attr("followers"), 100),
		Log(10, Sum(Attr("followers"), Const(1))),
	)

	first := scorer.Score(expr, doc)
	for range 10 {
		assert.Equal(t, first, scorer.Score(expr, doc))
	}
}
