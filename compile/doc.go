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


// Package compile splits ranking expressions between a backend's native
// scorer and the client-side evaluator, driven by per-backend capability
// sets. Filters never need splitting: the whole filter grammar is natively
// expressible by supported backends, so only expressions produce residuals.
//
// The correctness contract: the native portion plus the residual portion,
// combined by CompiledQuery.Combine, always equals evaluating the original
// unsplit tree.
package compile
