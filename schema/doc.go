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


// Package schema defines per-entity-kind field descriptors: each field's
// value kind plus its filterable and full-text-searchable flags.
//
// Schemas are static data supplied at startup and shared read-only across
// query executions. The filter normalizer and expression validator resolve
// every field reference against the active kind's schema; unknown fields
// are validation errors, never silent no-ops.
package schema
