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

	"github.com/poiesic/relevance/core"
)

const (
	// DefaultBatchSize is the default number of documents in each batch
	DefaultBatchSize = 100
)

// DocumentIterator iterates over all stored documents of one entity
// kind in batches.
type DocumentIterator struct {
	store     VectorStore
	kind      core.EntityKind
	batchSize int
}

// NewDocumentIterator creates a new document iterator.
// batchSize: number of documents in each batch (must be > 0)
func NewDocumentIterator(store VectorStore, kind core.EntityKind, batchSize int) *DocumentIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &DocumentIterator{
		store:     store,
		kind:      kind,
		batchSize: batchSize,
	}
}

// ForEach iterates over all documents of the kind, calling fn for each
// batch. Iteration stops on the first error from fn. Context
// cancellation is checked between batches.
func (it *DocumentIterator) ForEach(ctx context.Context, fn func([]*core.Document) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	docs, err := it.store.Documents(ctx, it.kind)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	for i := 0; i < len(docs); i += it.batchSize {
		end := i + it.batchSize
		if end > len(docs) {
			end = len(docs)
		}

		if err := fn(docs[i:end]); err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}
