package ai

import (
	"context"

	"github.com/poiesic/relevance/core"
)

// Embedder generates vector embeddings from text for similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// QueryGenerator translates a natural-language request into a structured
// query: a filter, an optional ranking expression, and the free-text
// remainder. Implementations must be thread-safe for concurrent use.
type QueryGenerator interface {
	// GenerateQuery analyzes the request against the entity kind's field
	// schema. Any part may come back empty: a request with no constraints
	// yields no filter, and most requests leave ranking to the kind's
	// default formula. The result is not yet normalized or validated;
	// callers hand it to the search pipeline, which is.
	GenerateQuery(ctx context.Context, kind core.EntityKind, text string) (*GeneratedQuery, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// QueryGenerator instances, ensuring they share configuration and
// resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// QueryGenerator returns the query generation service.
	// The returned QueryGenerator is safe for concurrent use.
	QueryGenerator() QueryGenerator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
