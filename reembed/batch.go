package reembed

import (
	"context"
	"fmt"
	"time"

	"github.com/poiesic/relevance/ai"
	"github.com/poiesic/relevance/core"
	"github.com/poiesic/relevance/schema"
)

// VectorStore is the slice of a backend store the reembedder touches:
// reading documents and replacing their vectors in place.
type VectorStore interface {
	Documents(ctx context.Context, kind core.EntityKind) ([]*core.Document, error)
	SetVectors(ctx context.Context, kind core.EntityKind, vectors map[core.ID][]float32) error
}

// BatchProcessor regenerates embeddings for batches of documents.
type BatchProcessor struct {
	store          VectorStore
	sch            *schema.Schema
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of retry attempts for embedding calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(store VectorStore, sch *schema.Schema, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		store:          store,
		sch:            sch,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds the searchable text of a batch of documents and stores
// the resulting vectors. Vectors are unit-normalized so dot-product
// similarity behaves as cosine.
func (bp *BatchProcessor) Process(ctx context.Context, docs []*core.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = bp.sch.DocumentText(doc)
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(docs) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(docs), len(embeddings))
	}

	vectors := make(map[core.ID][]float32, len(docs))
	for i, doc := range docs {
		vectors[doc.Id] = core.NormalizeVector(embeddings[i])
	}

	if err := bp.store.SetVectors(ctx, bp.sch.EntityKind(), vectors); err != nil {
		return fmt.Errorf("failed to update vectors: %w", err)
	}

	return nil
}
