// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/relevance/ai"
	"github.com/poiesic/relevance/core"
	"github.com/poiesic/relevance/schema"
)

// Config holds configuration for a reembedding run.
type Config struct {
	// BatchSize is the number of documents to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed embedding calls
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates the vectors of every document of one entity
// kind in a store.
type Reembedder struct {
	store     VectorStore
	embedder  ai.Embedder
	kind      core.EntityKind
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *DocumentIterator
}

// NewReembedder creates a reembedder for one entity kind.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(store VectorStore, registry *schema.Registry, embedder ai.Embedder, kind core.EntityKind, config *Config, progress io.Writer) (*Reembedder, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	sch, ok := registry.Schema(kind)
	if !ok {
		return nil, fmt.Errorf("no schema for kind %q", kind)
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		store:     store,
		embedder:  embedder,
		kind:      kind,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(store, sch, embedder, config.MaxRetries, config.RetryDelay),
		iterator:  NewDocumentIterator(store, kind, config.BatchSize),
	}, nil
}

// Run executes the reembedding run. Every stored document of the kind
// gets a fresh vector from the configured embedder. Progress is
// reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	docs, err := r.store.Documents(ctx, r.kind)
	if err != nil {
		return fmt.Errorf("failed to query documents: %w", err)
	}

	total := len(docs)
	if total == 0 {
		fmt.Fprintf(r.progress, "No %s documents found (0 documents)\n", r.kind)
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d %s documents (batch size: %d)\n",
		total, r.kind, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = r.iterator.ForEach(ctx, func(batch []*core.Document) error {
		if err := r.processor.Process(ctx, batch); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}

		processed += len(batch)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d documents in %v (%.1f documents/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
