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

package boc

import (
	"errors"
	"fmt"
)

// ErrFormat is matched by every FormatError
var ErrFormat = errors.New("malformed bag of cells")

// FormatError indicates an envelope that cannot be parsed
type FormatError struct {
	Reason string
	Err    error
}

func (e FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed bag of cells: %s: %v", e.Reason, e.Err)
	}
	return "malformed bag of cells: " + e.Reason
}

func (e FormatError) Unwrap() error { return e.Err }

func (FormatError) Is(target error) bool {
	return target == ErrFormat
}

func formatErrorf(format string, args ...any) FormatError {
	return FormatError{Reason: fmt.Sprintf(format, args...)}
}
