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


package search

import "errors"

var (
	// ErrBackendRequired is returned when a backend is not provided.
	ErrBackendRequired = errors.New("backend required")

	// ErrRegistryRequired is returned when a schema registry is not provided.
	ErrRegistryRequired = errors.New("schema registry required")

	// ErrNilRequest is returned when a nil request is submitted.
	ErrNilRequest = errors.New("request is nil")

	// ErrUnknownKind is returned when the requested entity kind has no
	// registered schema.
	ErrUnknownKind = errors.New("unknown entity kind")
)
