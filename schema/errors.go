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


package schema

import "errors"

var (
	// ErrEmptyKind is returned when a schema is built without an entity kind.
	ErrEmptyKind = errors.New("entity kind required")

	// ErrEmptyFieldName is returned when a field descriptor has no name.
	ErrEmptyFieldName = errors.New("field name required")

	// ErrDuplicateField is returned when two descriptors share a name.
	ErrDuplicateField = errors.New("duplicate field")

	// ErrDuplicateKind is returned when a registry receives two schemas for one kind.
	ErrDuplicateKind = errors.New("duplicate entity kind")
)
