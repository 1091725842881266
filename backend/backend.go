package backend

import (
	"context"

	"github.com/poiesic/relevance/compile"
	"github.com/poiesic/relevance/core"
	"github.com/poiesic/relevance/filter"
	"github.com/poiesic/relevance/rank"
)

// Query is the compiled request handed to a remote store: the full
// normalized filter (always natively expressible), the pushdown portion of
// the ranking expression, and an optional query embedding for
// vector-searched kinds.
type Query struct {
	Kind core.EntityKind

	// Filter is the normalized predicate; nil matches everything.
	Filter *filter.Node

	// RankBy is the native portion of the compiled expression; nil means
	// the backend contributes no score.
	RankBy *rank.Expr

	// Vector is the query embedding for similarity search. Backends that
	// use it inject the similarity under rank.AttrSimilarity on each
	// returned document.
	Vector []float32

	// Limit bounds the candidate set the backend returns. The final result
	// cap is applied by the engine after residual scoring, never here.
	Limit int
}

// Result is the backend's candidate set with whatever it computed natively.
type Result struct {
	Docs []*core.Document

	// NativeScores holds the per-document value of Query.RankBy, keyed by
	// document ID. Absent entries contribute 0.
	NativeScores map[core.ID]float64

	// Stats are the corpus statistics behind the backend's native BM25, so
	// client-side BM25 over the residual stays comparable. Nil when the
	// backend has none; the engine then derives statistics from the
	// candidates.
	Stats *rank.Stats

	// FilterAdvisory reports that the filter was treated as a hint rather
	// than a hard constraint (secondary vector search does this) and the
	// caller must post-filter the candidates.
	FilterAdvisory bool
}

// Backend is a remote store executing compiled queries. Implementations
// must be safe for concurrent use and honor ctx cancellation; the engine
// classifies a deadline hit as a retryable timeout and returns no partial
// results.
type Backend interface {
	// Capabilities returns the expression node types the store evaluates
	// natively for an entity kind.
	Capabilities(kind core.EntityKind) compile.Capabilities

	// Search executes a compiled query and returns candidates.
	Search(ctx context.Context, q *Query) (*Result, error)
}
