package schema

import (
	"testing"

	"github.com/poiesic/relevance/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("valid schema", func(t *testing.T) {
		s, err := New(core.KindRepo,
			FieldDescriptor{Name: "language", Kind: String, Filterable: true},
			FieldDescriptor{Name: "stargazerCount", Kind: Uint, Filterable: true},
		)
		require.NoError(t, err)

		fd, ok := s.Field("language")
		assert.True(t, ok)
		assert.Equal(t, String, fd.Kind)

		_, ok = s.Field("missing")
		assert.False(t, ok)

		assert.Equal(t, []string{"language", "stargazerCount"}, s.FieldNames())
	})

	t.Run("empty kind", func(t *testing.T) {
		_, err := New("")
		assert.ErrorIs(t, err, ErrEmptyKind)
	})

	t.Run("empty field name", func(t *testing.T) {
		_, err := New(core.KindRepo, FieldDescriptor{Kind: String})
		assert.ErrorIs(t, err, ErrEmptyFieldName)
	})

	t.Run("duplicate field", func(t *testing.T) {
		_, err := New(core.KindRepo,
			FieldDescriptor{Name: "language", Kind: String},
			FieldDescriptor{Name: "language", Kind: String},
		)
		assert.ErrorIs(t, err, ErrDuplicateField)
	})

	t.Run("zero descriptors is a valid schema", func(t *testing.T) {
		s, err := New("empty")
		require.NoError(t, err)
		assert.Empty(t, s.FieldNames())
	})
}

func TestDocumentText(t *testing.T) {
	t.Run("full-text fields in declaration order", func(t *testing.T) {
		repo, ok := Builtin().Schema(core.KindRepo)
		require.True(t, ok)

		doc := &core.Document{Kind: core.KindRepo, Attrs: map[string]any{
			"name":        "oxidize",
			"description": "compiler framework",
			"topics":      []string{"compiler", "rust"},
			"language":    "rust",
		}}
		assert.Equal(t, "oxidize compiler framework compiler rust", repo.DocumentText(doc))
	})

	t.Run("falls back to textual fields", func(t *testing.T) {
		s, err := New("note",
			FieldDescriptor{Name: "body", Kind: String, Filterable: true},
			FieldDescriptor{Name: "count", Kind: Uint, Filterable: true},
		)
		require.NoError(t, err)

		doc := &core.Document{Kind: "note", Attrs: map[string]any{
			"body":  "plain text",
			"count": uint64(3),
		}}
		assert.Equal(t, "plain text", s.DocumentText(doc))
	})

	t.Run("empty document", func(t *testing.T) {
		user, ok := Builtin().Schema(core.KindUser)
		require.True(t, ok)
		assert.Equal(t, "", user.DocumentText(&core.Document{Kind: core.KindUser}))
	})
}

func TestNewRegistry_DuplicateKind(t *testing.T) {
	a, err := New(core.KindUser)
	require.NoError(t, err)
	b, err := New(core.KindUser)
	require.NoError(t, err)

	_, err = NewRegistry(a, b)
	assert.ErrorIs(t, err, ErrDuplicateKind)
}

func TestFieldKind(t *testing.T) {
	tests := []struct {
		kind    FieldKind
		ordered bool
		array   bool
		textual bool
	}{
		{kind: String, textual: true},
		{kind: Uint, ordered: true},
		{kind: Bool},
		{kind: StringArray, array: true, textual: true},
		{kind: UintArray, array: true},
		{kind: Timestamp, ordered: true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.ordered, tt.kind.Ordered())
			assert.Equal(t, tt.array, tt.kind.Array())
			assert.Equal(t, tt.textual, tt.kind.Textual())
		})
	}
}

func TestBuiltin(t *testing.T) {
	registry := Builtin()

	for _, kind := range []core.EntityKind{core.KindUser, core.KindProfile, core.KindRepo} {
		s, ok := registry.Schema(kind)
		require.True(t, ok, "missing builtin schema for %q", kind)
		assert.NotEmpty(t, s.FieldNames())
	}

	repo, _ := registry.Schema(core.KindRepo)
	stars, ok := repo.Field("stargazerCount")
	require.True(t, ok)
	assert.Equal(t, Uint, stars.Kind)
	assert.True(t, stars.Filterable)

	lang, ok := repo.Field("language")
	require.True(t, ok)
	assert.False(t, lang.FullTextSearchable)

	_, ok = registry.Schema("unknown")
	assert.False(t, ok)
}
