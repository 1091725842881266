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


package filter

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField indicates a filter references a field absent from the schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrFieldNotFilterable indicates the field exists but is not filterable.
	ErrFieldNotFilterable = errors.New("field is not filterable")

	// ErrNotFullTextSearchable indicates ContainsAllTokens targets a field
	// without full-text search support.
	ErrNotFullTextSearchable = errors.New("field is not full-text searchable")

	// ErrOperatorTypeMismatch indicates the operator does not apply to the
	// field's value kind.
	ErrOperatorTypeMismatch = errors.New("operator does not apply to field type")

	// ErrMalformedValue indicates the filter value has the wrong arity or shape.
	ErrMalformedValue = errors.New("malformed filter value")

	// ErrEmptyComposite indicates an And/Or node with no children, whose
	// boolean result would be ambiguous.
	ErrEmptyComposite = errors.New("composite filter requires at least one child")

	// ErrUnknownOperator indicates an operator name outside the filter grammar.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrUnknownCombinator indicates a combinator other than And/Or.
	ErrUnknownCombinator = errors.New("unknown combinator")
)

// ValidationError identifies the offending node when a filter fails
// normalization. Path addresses the node from the root, e.g. "And[1].language".
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid filter at %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
