package filter

import (
	"testing"
	"time"

	"github.com/poiesic/relevance/core"
	"github.com/poiesic/relevance/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repoSchema(t *testing.T) *schema.Schema {
	t.Helper()
	registry := schema.Builtin()
	s, ok := registry.Schema(core.KindRepo)
	require.True(t, ok)
	return s
}

func userSchema(t *testing.T) *schema.Schema {
	t.Helper()
	registry := schema.Builtin()
	s, ok := registry.Schema(core.KindUser)
	require.True(t, ok)
	return s
}

func TestNormalize_Canonicalization(t *testing.T) {
	s := repoSchema(t)

	t.Run("lowercases string leaves", func(t *testing.T) {
		n, err := Normalize(Field("language", Eq, "Rust"), s)
		require.NoError(t, err)
		assert.Equal(t, "rust", n.Value)
	})

	t.Run("lowercases array elements", func(t *testing.T) {
		n, err := Normalize(Field("topics", ContainsAny, []any{"WebAssembly", "Compilers"}), s)
		require.NoError(t, err)
		assert.Equal(t, []any{"webassembly", "compilers"}, n.Value)
	})

	t.Run("parses timestamp literals", func(t *testing.T) {
		n, err := Normalize(Field("pushedAt", Gte, "2024-01-01T00:00:00Z"), s)
		require.NoError(t, err)
		ts, ok := n.Value.(time.Time)
		require.True(t, ok)
		assert.Equal(t, 2024, ts.Year())
	})

	t.Run("preserves pattern values verbatim", func(t *testing.T) {
		n, err := Normalize(Field("name", Glob, "Lib*"), s)
		require.NoError(t, err)
		assert.Equal(t, "Lib*", n.Value)
	})

	t.Run("does not alter field names or operators", func(t *testing.T) {
		n, err := Normalize(Field("language", Eq, "Go"), s)
		require.NoError(t, err)
		assert.Equal(t, "language", n.Field)
		assert.Equal(t, Eq, n.Op)
	})
}

func TestNormalize_Idempotent(t *testing.T) {
	s := repoSchema(t)

	original := And(
		Field("language", Eq, "Rust"),
		Field("topics", ContainsAny, []any{"WASM", "CLI"}),
		Field("stargazerCount", Gte, float64(1000)),
		Field("pushedAt", Gte, "2024-01-01T00:00:00Z"),
		Or(
			Field("archived", Eq, false),
			Field("name", IGlob, "Lib*"),
		),
	)

	once, err := Normalize(original, s)
	require.NoError(t, err)
	twice, err := Normalize(once, s)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestNormalize_Errors(t *testing.T) {
	s := repoSchema(t)

	tests := []struct {
		name    string
		node    *Node
		wantErr error
	}{
		{
			name:    "unknown field",
			node:    Field("starCount", Gte, float64(10)),
			wantErr: ErrUnknownField,
		},
		{
			name:    "ordering on string field",
			node:    Field("language", Gt, "go"),
			wantErr: ErrOperatorTypeMismatch,
		},
		{
			name:    "equality on array field",
			node:    Field("topics", Eq, "wasm"),
			wantErr: ErrOperatorTypeMismatch,
		},
		{
			name:    "array operator on scalar field",
			node:    Field("language", Contains, "go"),
			wantErr: ErrOperatorTypeMismatch,
		},
		{
			name:    "tokenized text on non-FTS field",
			node:    Field("language", ContainsAllTokens, "rust"),
			wantErr: ErrNotFullTextSearchable,
		},
		{
			name:    "filter on non-filterable field",
			node:    Field("description", Eq, "x"),
			wantErr: ErrFieldNotFilterable,
		},
		{
			name:    "wrong scalar type",
			node:    Field("stargazerCount", Gte, "many"),
			wantErr: ErrMalformedValue,
		},
		{
			name:    "negative value for unsigned field",
			node:    Field("stargazerCount", Gte, float64(-1)),
			wantErr: ErrMalformedValue,
		},
		{
			name:    "In requires an array",
			node:    Field("language", In, "go"),
			wantErr: ErrMalformedValue,
		},
		{
			name:    "empty In array",
			node:    Field("language", In, []any{}),
			wantErr: ErrMalformedValue,
		},
		{
			name:    "bad timestamp literal",
			node:    Field("pushedAt", Gte, "yesterday"),
			wantErr: ErrMalformedValue,
		},
		{
			name:    "bad regexp",
			node:    Field("name", Regex, "("),
			wantErr: ErrMalformedValue,
		},
		{
			name:    "empty composite",
			node:    And(),
			wantErr: ErrEmptyComposite,
		},
		{
			name:    "unknown combinator",
			node:    &Node{Combinator: "Xor", Children: []*Node{Field("language", Eq, "go")}},
			wantErr: ErrUnknownCombinator,
		},
		{
			name:    "unknown operator",
			node:    Field("language", "Like", "go"),
			wantErr: ErrUnknownOperator,
		},
		{
			name:    "error inside composite names the child",
			node:    And(Field("language", Eq, "go"), Field("bogus", Eq, "x")),
			wantErr: ErrUnknownField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.node, s)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Path)
		})
	}
}

func TestNormalize_ValidationErrorPath(t *testing.T) {
	s := repoSchema(t)

	_, err := Normalize(And(Field("language", Eq, "go"), Field("bogus", Eq, "x")), s)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "$.And[1].bogus", verr.Path)
}

func TestNormalize_EmptySchemaRejectsEverything(t *testing.T) {
	empty, err := schema.New("barren")
	require.NoError(t, err)

	for _, node := range []*Node{
		Field("anything", Eq, "x"),
		Field("count", Gte, float64(1)),
		And(Field("a", Eq, "b")),
	} {
		_, err := Normalize(node, empty)
		assert.ErrorIs(t, err, ErrUnknownField)
	}
}

func TestNormalize_FullTextOnUserEmails(t *testing.T) {
	s := userSchema(t)

	n, err := Normalize(Field("emails", ContainsAllTokens, "Stanford EDU"), s)
	require.NoError(t, err)
	assert.Equal(t, "stanford edu", n.Value)
}
