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


package backend

import (
	"context"
	"errors"
)

var (
	// ErrBackendTimeout indicates the store did not answer within the
	// request deadline. Retryable.
	ErrBackendTimeout = errors.New("backend timeout")

	// ErrBackendUnavailable indicates the store could not be reached or
	// refused the request.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Classify maps a transport error to the backend error taxonomy. Context
// deadline hits become ErrBackendTimeout so callers can retry; everything
// else passes through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(ErrBackendTimeout, err)
	}
	return err
}

// IsRetryable reports whether err is worth retrying against the same store.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBackendTimeout)
}
