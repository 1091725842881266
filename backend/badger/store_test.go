package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/relevance/backend"
	"github.com/poiesic/relevance/compile"
	"github.com/poiesic/relevance/core"
	"github.com/poiesic/relevance/filter"
	"github.com/poiesic/relevance/rank"
	"github.com/poiesic/relevance/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_InMemory(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	assert.False(t, store.IsClosed())
}

func TestOpen_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := Open(tmpDir, false, schema.Builtin())
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	assert.False(t, store.IsClosed())
}

func TestOpen_NilRegistry(t *testing.T) {
	_, err := Open("", true, nil)
	require.Error(t, err)
}

func TestStoreClose(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)

	require.NoError(t, store.Close())
	assert.True(t, store.IsClosed())
}

func TestCapabilities_Defaults(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	caps := store.Capabilities(core.KindUser)
	assert.True(t, caps.Supports(rank.TypeBM25))
	assert.False(t, caps.Supports(rank.TypeLog))

	assert.False(t, store.Capabilities("ghost").Supports(rank.TypeConst))
}

func TestCapabilities_Override(t *testing.T) {
	store, err := NewMemoryStore(WithCapabilities(core.KindRepo, compile.Vector()))
	require.NoError(t, err)
	defer store.Close()

	caps := store.Capabilities(core.KindRepo)
	assert.False(t, caps.Supports(rank.TypeBM25))
	assert.True(t, caps.Supports(rank.TypeSaturate))
}

func TestAddDocuments_AssignsContentID(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	doc := &core.Document{
		Kind:  core.KindUser,
		Attrs: map[string]any{"login": "octocat", "bio": "rust and go"},
	}
	require.NoError(t, store.AddDocuments(ctx, doc))
	assert.NotZero(t, doc.Id)

	// Same content yields the same ID, so the second insert is a duplicate.
	clone := &core.Document{
		Kind:  core.KindUser,
		Attrs: map[string]any{"login": "octocat", "bio": "rust and go"},
	}
	err = store.AddDocuments(ctx, clone)
	require.ErrorIs(t, err, ErrDuplicateDocument)
	assert.Equal(t, doc.Id, clone.Id)
}

func TestAddDocuments_UnknownKind(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	err = store.AddDocuments(context.Background(), &core.Document{
		Id:    1,
		Kind:  "ghost",
		Attrs: map[string]any{"name": "boo"},
	})
	require.ErrorIs(t, err, ErrUnknownKind)
}

func seedUsers(t *testing.T, store *Store) {
	t.Helper()
	err := store.AddDocuments(context.Background(),
		&core.Document{
			Id:   1,
			Kind: core.KindUser,
			Attrs: map[string]any{
				"login":     "ferris",
				"bio":       "rust compiler hacker",
				"location":  "berlin",
				"followers": uint64(1500),
				"createdAt": time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		&core.Document{
			Id:   2,
			Kind: core.KindUser,
			Attrs: map[string]any{
				"login":     "gopher",
				"bio":       "distributed systems in go",
				"location":  "portland",
				"followers": uint64(90),
				"createdAt": time.Date(2019, 7, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		&core.Document{
			Id:   3,
			Kind: core.KindUser,
			Attrs: map[string]any{
				"login":     "crab",
				"bio":       "rust rust rust",
				"location":  "berlin",
				"followers": uint64(10),
			},
		},
	)
	require.NoError(t, err)
}

func TestSearch_FilterApplied(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	seedUsers(t, store)

	sch, _ := schema.Builtin().Schema(core.KindUser)
	node, err := filter.Normalize(filter.Field("location", filter.Eq, "berlin"), sch)
	require.NoError(t, err)

	result, err := store.Search(context.Background(), &backend.Query{
		Kind:   core.KindUser,
		Filter: node,
	})
	require.NoError(t, err)
	assert.False(t, result.FilterAdvisory)
	require.Len(t, result.Docs, 2)

	// No native ranking, so documents arrive in ascending ID order.
	assert.Equal(t, core.ID(1), result.Docs[0].Id)
	assert.Equal(t, core.ID(3), result.Docs[1].Id)
	assert.Nil(t, result.NativeScores)
}

func TestSearch_NativeScoreOrdering(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	seedUsers(t, store)

	result, err := store.Search(context.Background(), &backend.Query{
		Kind:   core.KindUser,
		RankBy: rank.BM25("bio", "rust"),
	})
	require.NoError(t, err)
	require.Len(t, result.Docs, 3)
	require.NotNil(t, result.Stats)
	assert.Equal(t, 3, result.Stats.DocCount)
	assert.Equal(t, 2, result.Stats.DF("bio", "rust"))

	// The repeated-term bio wins on term frequency; the go bio scores zero.
	assert.Equal(t, core.ID(3), result.Docs[0].Id)
	assert.Equal(t, core.ID(1), result.Docs[1].Id)
	assert.Equal(t, core.ID(2), result.Docs[2].Id)
	assert.Greater(t, result.NativeScores[3], result.NativeScores[1])
	assert.Zero(t, result.NativeScores[2])
}

func TestSearch_Limit(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	seedUsers(t, store)

	result, err := store.Search(context.Background(), &backend.Query{
		Kind:  core.KindUser,
		Limit: 2,
	})
	require.NoError(t, err)
	assert.Len(t, result.Docs, 2)
}

func TestSearch_VectorAdvisoryFilter(t *testing.T) {
	store, err := NewMemoryStore(WithCapabilities(core.KindRepo, compile.Vector()))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	err = store.AddDocuments(ctx,
		&core.Document{
			Id:     10,
			Kind:   core.KindRepo,
			Attrs:  map[string]any{"name": "servo", "language": "rust", "stargazerCount": uint64(25000)},
			Vector: []float32{1, 0},
		},
		&core.Document{
			Id:     11,
			Kind:   core.KindRepo,
			Attrs:  map[string]any{"name": "kubernetes", "language": "go", "stargazerCount": uint64(100000)},
			Vector: []float32{0, 1},
		},
	)
	require.NoError(t, err)

	sch, _ := schema.Builtin().Schema(core.KindRepo)
	node, err := filter.Normalize(filter.Field("language", filter.Eq, "rust"), sch)
	require.NoError(t, err)

	result, err := store.Search(ctx, &backend.Query{
		Kind:   core.KindRepo,
		Filter: node,
		RankBy: rank.Attr(rank.AttrSimilarity),
		Vector: []float32{0.9, 0.1},
	})
	require.NoError(t, err)

	// The filter is advisory on vector searches: the go repo comes back too
	// and the caller is told to post-filter.
	assert.True(t, result.FilterAdvisory)
	require.Len(t, result.Docs, 2)

	// Similarity ordering puts the aligned vector first.
	assert.Equal(t, core.ID(10), result.Docs[0].Id)
	assert.InDelta(t, 0.9, result.NativeScores[10], 1e-6)
	assert.InDelta(t, 0.1, result.NativeScores[11], 1e-6)

	sim, ok := result.Docs[0].Number(rank.AttrSimilarity)
	require.True(t, ok)
	assert.InDelta(t, 0.9, sim, 1e-6)
}

func TestSearch_DeadlineExceeded(t *testing.T) {
	store, err := NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	seedUsers(t, store)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err = store.Search(ctx, &backend.Query{Kind: core.KindUser})
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrBackendTimeout)
	assert.True(t, backend.IsRetryable(err))
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := &core.Document{
		Id:   42,
		Kind: core.KindRepo,
		Attrs: map[string]any{
			"name":           "ripgrep",
			"topics":         []string{"search", "cli"},
			"stargazerCount": uint64(40000),
			"archived":       false,
			"pushedAt":       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		Vector: []float32{0.25, -0.5, 1},
	}

	got, err := UnmarshalDocument(MarshalDocument(doc))
	require.NoError(t, err)

	assert.Equal(t, doc.Id, got.Id)
	assert.Equal(t, doc.Kind, got.Kind)
	assert.Equal(t, doc.Vector, got.Vector)

	// The JSON envelope widens value types but keeps them observable
	// through the document accessors.
	assert.Equal(t, []string{"ripgrep"}, got.Strings("name"))
	assert.Equal(t, []string{"search", "cli"}, got.Strings("topics"))
	stars, ok := got.Number("stargazerCount")
	require.True(t, ok)
	assert.Equal(t, float64(40000), stars)
	ts, ok := got.Time("pushedAt")
	require.True(t, ok)
	assert.True(t, ts.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
}
