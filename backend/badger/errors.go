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


package badger

import "errors"

var (
	// ErrUnknownKind indicates the entity kind has no registered schema.
	ErrUnknownKind = errors.New("unknown entity kind")

	// ErrDuplicateDocument indicates a document with the same ID already
	// exists for the kind. Overwrites would corrupt corpus statistics, so
	// they are rejected.
	ErrDuplicateDocument = errors.New("duplicate document")

	// ErrDocumentNotFound indicates a vector update referenced an ID with
	// no stored document.
	ErrDocumentNotFound = errors.New("document not found")
)
