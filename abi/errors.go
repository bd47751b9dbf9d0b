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

package abi

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is on a DecodeError
var (
	ErrUnderrun            = errors.New("unexpected end of data")
	ErrNegativeLength      = errors.New("negative length")
	ErrInvalidUTF8         = errors.New("invalid UTF-8")
	ErrInvalidBool         = errors.New("invalid boolean")
	ErrUnknownDiscriminant = errors.New("unknown discriminant")
	ErrUnknownShortname    = errors.New("unknown action shortname")
	ErrTrailingBytes       = errors.New("trailing bytes")
	ErrInvalidSchema       = errors.New("invalid schema")
)

// DecodeError is returned for malformed input. Retrying will not help, since the
// bytes will not change
type DecodeError struct {
	Reason string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("abi: decode error at byte %d: %s", e.Offset, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError is returned when a value does not match its schema
type EncodeError struct {
	Path   string
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("abi: cannot encode %s: %s", e.Path, e.Reason)
}
