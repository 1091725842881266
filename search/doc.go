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


// Package search executes ranked, filtered queries against a backend.
//
// The Searcher type implements a multi-stage execution pipeline:
//   - Filter normalization and validation against the kind's schema
//   - Expression compilation against the backend's native capabilities
//   - Native execution on the backend, client-side evaluation of the rest
//   - Additive recombination, final ordering, and the result cap
//
// Filters never lose matches to partial pushdown: they execute natively in
// full, and when a backend treats them as advisory the searcher re-checks
// every candidate before scoring.
package search
