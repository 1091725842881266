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


package relevance

import (
	"context"
	"log/slog"

	"github.com/poiesic/relevance/ai"
	"github.com/poiesic/relevance/ai/openai"
	"github.com/poiesic/relevance/backend/badger"
	"github.com/poiesic/relevance/core"
	"github.com/poiesic/relevance/rank"
	"github.com/poiesic/relevance/schema"
	"github.com/poiesic/relevance/search"
)

// Engine bundles a local store, the schema registry, a searcher, and the
// AI services into one handle. It is the top-level entry point for
// embedding the search engine in an application.
type Engine struct {
	store    *badger.Store
	registry *schema.Registry
	searcher *search.Searcher
	provider ai.AIProvider
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig   *ai.Config
	provider   ai.AIProvider
	registry   *schema.Registry
	inMemory   bool
	storeOpts  []badger.Option
	searchOpts []search.Option
}

// WithAIConfig sets the configuration for the OpenAI-compatible AI
// services. Ignored when WithAIProvider supplies a provider directly.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = cfg
	}
}

// WithAIProvider injects an AI provider, bypassing the OpenAI-compatible
// default. Useful for tests and custom deployments.
func WithAIProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithRegistry replaces the built-in entity kinds with a custom registry.
func WithRegistry(registry *schema.Registry) EngineOption {
	return func(o *engineOptions) {
		o.registry = registry
	}
}

// WithInMemory opens a transient store, useful for tests and scratch work.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithStoreOptions forwards options to the underlying store, such as
// per-kind capability overrides.
func WithStoreOptions(opts ...badger.Option) EngineOption {
	return func(o *engineOptions) {
		o.storeOpts = append(o.storeOpts, opts...)
	}
}

// WithSearchOptions forwards options to the searcher.
func WithSearchOptions(opts ...search.Option) EngineOption {
	return func(o *engineOptions) {
		o.searchOpts = append(o.searchOpts, opts...)
	}
}

// Open creates an engine over a BadgerDB store at filePath.
func Open(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
		registry: schema.Builtin(),
	}
	for _, opt := range opts {
		opt(options)
	}

	store, err := badger.Open(filePath, options.inMemory, options.registry, options.storeOpts...)
	if err != nil {
		return nil, err
	}

	searcher, err := search.NewSearcher(store, options.registry, options.searchOpts...)
	if err != nil {
		store.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig, options.registry)
		if err != nil {
			searcher.Release()
			store.Close()
			return nil, err
		}
	}

	return &Engine{
		store:    store,
		registry: options.registry,
		searcher: searcher,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	e.searcher.Release()

	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing store", "err", err)
		return err
	}
	return nil
}

// Store returns the underlying document store.
func (e *Engine) Store() *badger.Store {
	return e.store
}

// Registry returns the schema registry.
func (e *Engine) Registry() *schema.Registry {
	return e.registry
}

// Searcher returns the query executor.
func (e *Engine) Searcher() *search.Searcher {
	return e.searcher
}

// Embedder returns the configured embedding service.
func (e *Engine) Embedder() ai.Embedder {
	return e.provider.Embedder()
}

// AddDocuments stores documents in the local store.
func (e *Engine) AddDocuments(ctx context.Context, docs ...*core.Document) error {
	return e.store.AddDocuments(ctx, docs...)
}

// Search executes a structured search request.
func (e *Engine) Search(ctx context.Context, req *search.Request) ([]*core.SearchResult, error) {
	return e.searcher.Search(ctx, req)
}

// Ask answers a natural-language request: the query generator lifts out
// filter constraints and an optional explicit ordering, and the free-text
// remainder is embedded when the kind's store scores by similarity rather
// than by text.
func (e *Engine) Ask(ctx context.Context, kind core.EntityKind, text string, limit int) ([]*core.SearchResult, error) {
	gen, err := e.provider.QueryGenerator().GenerateQuery(ctx, kind, text)
	if err != nil {
		e.logger.Error("query generation failed", "kind", kind, "err", err)
		return nil, err
	}

	req := &search.Request{
		Kind:   kind,
		Query:  gen.Query,
		Filter: gen.Filter,
		RankBy: gen.RankBy,
		Limit:  limit,
	}

	if gen.Query != "" && !e.store.Capabilities(kind).Supports(rank.TypeBM25) {
		vector, err := e.provider.Embedder().EmbedText(ctx, gen.Query)
		if err != nil {
			e.logger.Error("query embedding failed", "kind", kind, "err", err)
			return nil, err
		}
		req.Vector = vector
	}

	return e.searcher.Search(ctx, req)
}
