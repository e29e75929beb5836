// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pklib

import (
	"errors"
	"io"
)

// ErrorCode is a result code of the PKWARE library. The codes are kept so
// that callers porting code written against the C library can map errors
// returned by this package back to the values they expect.
type ErrorCode int

const (
	// CodeOK indicates success.
	CodeOK ErrorCode = iota

	// CodeInvalidDictSize indicates an unsupported dictionary size.
	CodeInvalidDictSize

	// CodeInvalidMode indicates an unsupported compression type.
	CodeInvalidMode

	// CodeBadData indicates corrupt or truncated compressed data.
	CodeBadData

	// CodeAbort indicates that reading input or writing output failed.
	CodeAbort
)

var (
	// ErrInvalidDictSize indicates an unsupported dictionary size.
	ErrInvalidDictSize = errors.New("pklib: invalid dictionary size")

	// ErrInvalidMode indicates an unsupported compression type.
	ErrInvalidMode = errors.New("pklib: invalid compression type")

	// ErrBadData indicates corrupt compressed data.
	ErrBadData = errors.New("pklib: bad compressed data")

	// ErrAbort indicates that the destination of the (de)compressed data
	// failed. The error returned by the destination is wrapped alongside it.
	ErrAbort = errors.New("pklib: aborted")

	errClosed       = errors.New("pklib: write called on closed writer")
	errInvalidLevel = errors.New("pklib: invalid compression level")
)

// String implements [fmt.Stringer].
func (c ErrorCode) String() string {
	switch c {
	case CodeOK:
		return "CMP_NO_ERROR"
	case CodeInvalidDictSize:
		return "CMP_INVALID_DICTSIZE"
	case CodeInvalidMode:
		return "CMP_INVALID_MODE"
	case CodeBadData:
		return "CMP_BAD_DATA"
	case CodeAbort:
		return "CMP_ABORT"
	default:
		return "CMP_UNKNOWN"
	}
}

// Err returns the sentinel error for the code. It returns nil for [CodeOK]
// and for unknown codes.
func (c ErrorCode) Err() error {
	switch c {
	case CodeInvalidDictSize:
		return ErrInvalidDictSize
	case CodeInvalidMode:
		return ErrInvalidMode
	case CodeBadData:
		return ErrBadData
	case CodeAbort:
		return ErrAbort
	default:
		return nil
	}
}

// CodeOf returns the [ErrorCode] matching err. Truncated input is reported as
// [CodeBadData] and errors not produced by this package as [CodeAbort].
func CodeOf(err error) ErrorCode {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrInvalidDictSize):
		return CodeInvalidDictSize
	case errors.Is(err, ErrInvalidMode):
		return CodeInvalidMode
	case errors.Is(err, ErrBadData), errors.Is(err, io.ErrUnexpectedEOF):
		return CodeBadData
	default:
		return CodeAbort
	}
}

// noEOF converts io.EOF into io.ErrUnexpectedEOF.
func noEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
