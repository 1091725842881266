package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/relevance/ai"
	"github.com/poiesic/relevance/compile"
	"github.com/poiesic/relevance/core"
	"github.com/poiesic/relevance/rank"
	"github.com/poiesic/relevance/schema"
)

// DefaultBatchSize is the number of documents embedded per call to the
// embedding service.
const DefaultBatchSize = 32

// DocumentStore is the slice of a backend store the pipeline writes to.
type DocumentStore interface {
	Capabilities(kind core.EntityKind) compile.Capabilities
	AddDocuments(ctx context.Context, docs ...*core.Document) error
}

// Pipeline prepares and stores documents, generating embeddings for the
// kinds whose backend scores by vector similarity.
type Pipeline struct {
	store     DocumentStore
	registry  *schema.Registry
	embedder  ai.Embedder
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets the number of documents per embedding call.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		p.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingest pipeline over a store and an embedder.
func NewPipeline(store DocumentStore, registry *schema.Registry, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:     store,
		registry:  registry,
		embedder:  embedder,
		pool:      pool,
		batchSize: DefaultBatchSize,
		logger:    slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest embeds and stores documents. Documents of vector-scored kinds
// that arrive without a vector get one derived from their searchable
// text; everything else is stored as-is. The call fails as a whole if
// any embedding batch or the store write fails.
func (p *Pipeline) Ingest(ctx context.Context, docs ...*core.Document) error {
	if len(docs) == 0 {
		return nil
	}

	var pending []*core.Document
	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			return err
		}
		if doc.Vector != nil || !p.needsVector(doc.Kind) {
			continue
		}
		pending = append(pending, doc)
	}

	if len(pending) > 0 {
		if err := p.embedDocuments(ctx, pending); err != nil {
			return err
		}
	}

	if err := p.store.AddDocuments(ctx, docs...); err != nil {
		return err
	}

	p.logger.Info("ingested documents", "count", len(docs), "embedded", len(pending))
	return nil
}

// needsVector reports whether the kind's backend scores by similarity
// rather than lexically.
func (p *Pipeline) needsVector(kind core.EntityKind) bool {
	return !p.store.Capabilities(kind).Supports(rank.TypeBM25)
}

// embedDocuments fans embedding batches out on the worker pool and
// assigns unit-normalized vectors back to the documents.
func (p *Pipeline) embedDocuments(ctx context.Context, docs []*core.Document) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for start := 0; start < len(docs); start += p.batchSize {
		end := start + p.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := p.embedBatch(ctx, batch); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}
		if err := p.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	return firstErr
}

func (p *Pipeline) embedBatch(ctx context.Context, batch []*core.Document) error {
	texts := make([]string, len(batch))
	for i, doc := range batch {
		sch, ok := p.registry.Schema(doc.Kind)
		if !ok {
			return fmt.Errorf("no schema for kind %q", doc.Kind)
		}
		texts[i] = sch.DocumentText(doc)
	}

	vectors, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(batch) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(batch), len(vectors))
	}

	for i, doc := range batch {
		doc.Vector = core.NormalizeVector(vectors[i])
	}
	return nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
