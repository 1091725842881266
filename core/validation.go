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


package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Document must not be nil
//   - Kind must not be empty
//
// NOT validated (schema-dependent, checked by the normalizer):
//   - Attribute names and value kinds
//   - Vector (can be empty for text-only kinds)
//   - ID (0 is valid until assigned by a store)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrNilDocument)
	}

	if doc.Kind == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyKind)
	}

	return nil
}
