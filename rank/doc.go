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


// Package rank models scoring formulas as a closed expression AST: lexical
// relevance (BM25), document attributes, constants, and arithmetic and
// normalization combinators. The same tree evaluates identically whether a
// backend computes it natively or the Scorer interprets it locally against
// returned candidates; degenerate numerics (division by zero, non-positive
// logarithms) yield finite sentinel values so a ranking is always defined.
//
// DefaultExpression supplies the built-in per-entity-kind formula when the
// caller provides none. Backend vector similarity enters expressions as the
// reserved attribute AttrSimilarity, never as a special case downstream.
package rank
