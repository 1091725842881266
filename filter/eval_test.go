package filter

import (
	"testing"
	"time"

	"github.com/poiesic/relevance/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileDoc() *core.Document {
	return &core.Document{
		Id:   1,
		Kind: core.KindProfile,
		Attrs: map[string]any{
			"title":       "Staff Engineer",
			"education":   []string{"Stanford University School of Engineering", "Foothill College"},
			"skills":      []string{"rust", "distributed systems"},
			"connections": uint64(850),
			"updatedAt":   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestEval_ContainsAllTokensVsContains(t *testing.T) {
	doc := profileDoc()

	// "stanford" appears as a token of an element, so ContainsAllTokens
	// matches while exact element membership does not.
	tokens := Field("education", ContainsAllTokens, "stanford")
	assert.True(t, Eval(tokens, doc))

	contains := Field("education", Contains, "stanford")
	assert.False(t, Eval(contains, doc))
}

func TestEval_ContainsAllTokens(t *testing.T) {
	doc := profileDoc()

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{name: "tokens across one element", query: "stanford engineering", want: true},
		{name: "tokens across elements", query: "stanford foothill", want: true},
		{name: "any order", query: "engineering university stanford", want: true},
		{name: "missing token", query: "stanford berkeley", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Field("education", ContainsAllTokens, tt.query)
			assert.Equal(t, tt.want, Eval(n, doc))
		})
	}
}

func TestEval_Operators(t *testing.T) {
	doc := profileDoc()

	tests := []struct {
		name string
		node *Node
		want bool
	}{
		{name: "Eq folds document case", node: Field("title", Eq, "staff engineer"), want: true},
		{name: "Eq mismatch", node: Field("title", Eq, "intern"), want: false},
		{name: "NotEq", node: Field("title", NotEq, "intern"), want: true},
		{name: "In", node: Field("title", In, []any{"intern", "staff engineer"}), want: true},
		{name: "NotIn", node: Field("title", NotIn, []any{"intern"}), want: true},
		{name: "Gt", node: Field("connections", Gt, float64(500)), want: true},
		{name: "Gte boundary", node: Field("connections", Gte, float64(850)), want: true},
		{name: "Lt fails", node: Field("connections", Lt, float64(500)), want: false},
		{name: "Lte boundary", node: Field("connections", Lte, float64(850)), want: true},
		{name: "timestamp ordering", node: Field("updatedAt", Gte, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), want: true},
		{name: "Contains exact element", node: Field("skills", Contains, "rust"), want: true},
		{name: "ContainsAny", node: Field("skills", ContainsAny, []any{"go", "rust"}), want: true},
		{name: "NotContains", node: Field("skills", NotContains, "cobol"), want: true},
		{name: "NotContainsAny fails on hit", node: Field("skills", NotContainsAny, []any{"rust"}), want: false},
		{name: "Glob is case sensitive", node: Field("title", Glob, "staff*"), want: false},
		{name: "Glob matches raw value", node: Field("title", Glob, "Staff*"), want: true},
		{name: "IGlob folds case", node: Field("title", IGlob, "staff*"), want: true},
		{name: "Regex", node: Field("title", Regex, "^Staff .*$"), want: true},
		{name: "Regex non-match", node: Field("title", Regex, "^Principal"), want: false},
		{name: "absent field never matches", node: Field("ghost", Eq, "x"), want: false},
		{name: "absent field negation matches", node: Field("ghost", NotEq, "x"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eval(tt.node, doc))
		})
	}
}

func TestEval_Composite(t *testing.T) {
	doc := profileDoc()

	both := And(
		Field("skills", Contains, "rust"),
		Field("connections", Gte, float64(500)),
	)
	assert.True(t, Eval(both, doc))

	oneFails := And(
		Field("skills", Contains, "rust"),
		Field("connections", Gte, float64(10000)),
	)
	assert.False(t, Eval(oneFails, doc))

	either := Or(
		Field("skills", Contains, "cobol"),
		Field("connections", Gte, float64(500)),
	)
	assert.True(t, Eval(either, doc))

	neither := Or(
		Field("skills", Contains, "cobol"),
		Field("connections", Gte, float64(10000)),
	)
	assert.False(t, Eval(neither, doc))

	assert.True(t, Eval(nil, doc), "nil filter matches everything")
}

func TestEval_Deterministic(t *testing.T) {
	doc := profileDoc()
	n := And(
		Field("education", ContainsAllTokens, "stanford"),
		Field("connections", Gte, float64(100)),
	)

	first := Eval(n, doc)
	for range 10 {
		assert.Equal(t, first, Eval(n, doc))
	}
}

func TestParse_RoundTrip(t *testing.T) {
	raw := `{"op":"And","filters":[
		{"field":"language","op":"Eq","value":"Rust"},
		{"field":"stargazerCount","op":"Gte","value":1000}
	]}`

	n, err := Parse([]byte(raw))
	require.NoError(t, err)
	require.True(t, n.IsComposite())
	require.Len(t, n.Children, 2)

	assert.Equal(t, CombinatorAnd, n.Combinator)
	assert.Equal(t, "language", n.Children[0].Field)
	assert.Equal(t, Eq, n.Children[0].Op)
	assert.Equal(t, "Rust", n.Children[0].Value)
	assert.Equal(t, float64(1000), n.Children[1].Value)

	encoded, err := n.MarshalJSON()
	require.NoError(t, err)
	reparsed, err := Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, n, reparsed)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing op", raw: `{"field":"language","value":"go"}`},
		{name: "comparison without field", raw: `{"op":"Eq","value":"go"}`},
		{name: "composite with field", raw: `{"op":"And","field":"language","filters":[]}`},
		{name: "not json", raw: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}
