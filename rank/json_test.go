package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	raw := `{"type":"Sum","exprs":[
		{"type":"Mult","exprs":[{"type":"Const","value":3},{"type":"BM25","field":"bio","query":"rust engineer"}]},
		{"type":"Saturate","expr":{"type":"Attr","name":"followers"},"midpoint":100},
		{"type":"Log","base":10,"expr":{"type":"Sum","exprs":[{"type":"Attr","name":"followers"},{"type":"Const","value":1}]}},
		{"type":"Div","exprs":[{"type":"Const","value":1},{"type":"Const","value":2}]}
	]}`

	expr, err := Parse([]byte(raw))
	require.NoError(t, err)
	require.Equal(t, TypeSum, expr.Type)
	require.Len(t, expr.Exprs, 4)

	mult := expr.Exprs[0]
	assert.Equal(t, TypeMult, mult.Type)
	assert.Equal(t, 3.0, mult.Exprs[0].Value)
	assert.Equal(t, "bio", mult.Exprs[1].Field)
	assert.Equal(t, "rust engineer", mult.Exprs[1].Query)

	sat := expr.Exprs[1]
	assert.Equal(t, TypeSaturate, sat.Type)
	assert.Equal(t, 100.0, sat.Midpoint)
	assert.Equal(t, "followers", sat.Exprs[0].Name)

	log := expr.Exprs[2]
	assert.Equal(t, TypeLog, log.Type)
	assert.Equal(t, 10.0, log.Base)
	assert.Equal(t, TypeSum, log.Exprs[0].Type)

	div := expr.Exprs[3]
	assert.Equal(t, TypeDiv, div.Type)
	assert.Len(t, div.Exprs, 2)
}

func TestParse_RoundTrip(t *testing.T) {
	original := Sum(
		Mult(Const(3), BM25("bio", "rust")),
		Saturate(Attr("followers"), 50),
		Log(2, Sum(Attr("followers"), Const(1))),
		Div(Const(1), Const(3)),
		Max(Const(0), Min(Const(1), Const(2))),
	)

	encoded, err := original.MarshalJSON()
	require.NoError(t, err)

	reparsed, err := Parse(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, reparsed)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "unknown type", raw: `{"type":"Cosine"}`},
		{name: "missing type", raw: `{"field":"bio"}`},
		{name: "const without value", raw: `{"type":"Const"}`},
		{name: "log without base", raw: `{"type":"Log","expr":{"type":"Const","value":1}}`},
		{name: "log without operand", raw: `{"type":"Log","base":10}`},
		{name: "saturate without midpoint", raw: `{"type":"Saturate","expr":{"type":"Const","value":1}}`},
		{name: "not json", raw: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}
