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


package rank

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownExprType indicates an expression node outside the grammar.
	ErrUnknownExprType = errors.New("unknown expression type")

	// ErrUnknownAttr indicates an Attr references a name that is neither a
	// numeric schema field nor a reserved attribute.
	ErrUnknownAttr = errors.New("unknown attribute")

	// ErrUnknownField indicates a BM25 node references a field absent from
	// the schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrFieldNotSearchable indicates a BM25 node targets a field without
	// full-text search support.
	ErrFieldNotSearchable = errors.New("field is not full-text searchable")

	// ErrBadArity indicates a node has the wrong number of children.
	ErrBadArity = errors.New("wrong arity")

	// ErrNonNumericConst indicates a Const holds NaN or an infinity.
	ErrNonNumericConst = errors.New("constant must be a finite number")

	// ErrBadLogBase indicates a Log base outside (0, 1) and (1, inf).
	ErrBadLogBase = errors.New("log base must be positive and not 1")

	// ErrBadMidpoint indicates a non-positive Saturate midpoint.
	ErrBadMidpoint = errors.New("saturation midpoint must be positive")

	// ErrEmptyQuery indicates a BM25 node with no query text.
	ErrEmptyQuery = errors.New("BM25 query text required")
)

// ValidationError identifies the offending expression node. Path addresses
// the node from the root, e.g. "$.Sum[1].Log".
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid expression at %s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
