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


// Package ai provides abstractions for the AI services the search engine
// uses: text embeddings for vector search and natural-language query
// generation.
//
// The package defines interfaces only, so the engine depends on
// abstractions rather than concrete services:
//
//   - Embedder: generates vector embeddings from text
//   - QueryGenerator: turns a natural-language request into a structured
//     filter, an optional ranking expression, and free-text remainder
//   - AIProvider: aggregates both for convenient initialization
//
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external services
//
// Public constructors in ai/openai return interface types to enforce
// abstraction; the mock constructors return concrete types so tests can
// inject behavior and make assertions.
//
// Generated queries come back unvalidated. The search pipeline normalizes
// the filter and validates the expression against the kind's schema, so a
// hallucinated field name is rejected there with a precise error path
// rather than silently matching nothing.
package ai
