// Copyright 2026 Blink Labs Software
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

package cell

import (
	"errors"
	"fmt"
)

var (
	// ErrBounds is matched by every BoundsError
	ErrBounds = errors.New("cell bounds exceeded")
	// ErrCapacity is matched by every CapacityError
	ErrCapacity = errors.New("cell capacity exceeded")
	// ErrSchemaMismatch is matched by every SchemaMismatchError
	ErrSchemaMismatch = errors.New("cell layout does not match schema")
	// ErrValueOverflow indicates a value that does not fit into the requested width
	ErrValueOverflow = errors.New("value does not fit into bit width")
	// ErrBuilderFinalized is returned when a builder is used after EndCell
	ErrBuilderFinalized = errors.New("builder already finalized")
)

// BoundsError indicates a read past the end of a slice's bits or refs
type BoundsError struct {
	Op        string
	Refs      bool
	Requested int
	Remaining int
}

func (e BoundsError) Error() string {
	unit := "bits"
	if e.Refs {
		unit = "refs"
	}
	return fmt.Sprintf(
		"%s: requested %d %s, only %d remaining",
		e.Op,
		e.Requested,
		unit,
		e.Remaining,
	)
}

func (BoundsError) Is(target error) bool {
	return target == ErrBounds
}

// CapacityError indicates a write past a cell's bit or ref budget
type CapacityError struct {
	Op        string
	Refs      bool
	Requested int
	Available int
}

func (e CapacityError) Error() string {
	unit := "bits"
	if e.Refs {
		unit = "refs"
	}
	return fmt.Sprintf(
		"%s: need %d %s, only %d available",
		e.Op,
		e.Requested,
		unit,
		e.Available,
	)
}

func (CapacityError) Is(target error) bool {
	return target == ErrCapacity
}

// SchemaMismatchError indicates well-formed cell data that does not follow the expected layout
type SchemaMismatchError struct {
	Field  string
	Reason string
}

func (e SchemaMismatchError) Error() string {
	return fmt.Sprintf("unexpected layout for %s: %s", e.Field, e.Reason)
}

func (SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}
