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


// Package filter models boolean predicates over document fields as a small
// closed AST: field comparisons (equality, ordering, array membership,
// tokenized text, patterns) combined with And/Or.
//
// A filter goes through three stages:
//   - Parse: decode the external JSON representation.
//   - Normalize: validate against the entity kind's schema and
//     canonicalize values (case-folding, timestamp parsing). Idempotent.
//   - Eval: evaluate against a concrete document, used when a backend
//     treats filters as advisory and candidates need post-filtering.
//
// The whole filter grammar is natively expressible by supported backends,
// so unlike ranking expressions a filter never leaves a residual behind.
package filter
