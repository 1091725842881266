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


// Package badger provides the BadgerDB reference implementation of
// backend.Backend. Documents are stored per entity kind together with the
// corpus statistics native BM25 scoring uses, and those statistics travel
// back on every result so client-side scoring stays comparable. Capability
// sets are per-kind configuration, which makes the store useful both as a
// local search index and as a stand-in for remote stores with narrower
// native support.
package badger
