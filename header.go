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
	"fmt"
	"io"
	"math/bits"
)

// CompressionType selects how literal bytes are coded.
type CompressionType byte

const (
	// Binary streams store literals as raw 8-bit values.
	Binary CompressionType = 0

	// ASCII streams code literals with a fixed Huffman table tuned for
	// English text.
	ASCII CompressionType = 1
)

// String implements [fmt.Stringer].
func (t CompressionType) String() string {
	switch t {
	case Binary:
		return "binary"
	case ASCII:
		return "ascii"
	default:
		return fmt.Sprintf("CompressionType(%d)", byte(t))
	}
}

// Valid reports whether t is a known compression type.
func (t CompressionType) Valid() bool {
	return t == Binary || t == ASCII
}

// Dictionary sizes supported by the format.
const (
	DictSize1K = 1024
	DictSize2K = 2048
	DictSize4K = 4096

	// DefaultDictSize is the dictionary size used by [NewWriter] callers that
	// have no better choice. Larger dictionaries compress better.
	DefaultDictSize = DictSize4K
)

const (
	// HeaderSize is the size of the stream header in bytes.
	HeaderSize = 2

	minDictSizeLog = 4
	maxDictSizeLog = 6

	// minDictSize is the smallest size DictSizeIntoLog accepts.
	minDictSize = 128
)

// Stream header
//nolint:godot // diagram
/*
+------+------+
| TYPE | DICT |
+------+------+
*/

// Header is the implode stream header.
type Header struct {
	// Type is the compression type (TYPE).
	Type CompressionType

	// DictSize is the dictionary size in bytes. It is stored as a log in the
	// DICT byte.
	DictSize int
}

// DecodeHeader parses the header at the start of compressed.
func DecodeHeader(compressed []byte) (Header, error) {
	if len(compressed) < HeaderSize {
		return Header{}, fmt.Errorf("%w: reading header: %w", ErrBadData, io.ErrUnexpectedEOF)
	}

	h := Header{
		Type: CompressionType(compressed[0]),
	}
	if !h.Type.Valid() {
		return Header{}, fmt.Errorf("%w: TYPE: %#x", ErrInvalidMode, compressed[0])
	}

	log := int(compressed[1])
	if log < minDictSizeLog || log > maxDictSizeLog {
		return Header{}, fmt.Errorf("%w: DICT: %#x", ErrInvalidDictSize, compressed[1])
	}
	h.DictSize = LogIntoSize(log)

	return h, nil
}

// Validate checks that the header describes a stream this package can
// produce and consume.
func (h Header) Validate() error {
	if !h.Type.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidMode, h.Type)
	}
	switch h.DictSize {
	case DictSize1K, DictSize2K, DictSize4K:
	default:
		return fmt.Errorf("%w: %d", ErrInvalidDictSize, h.DictSize)
	}
	return nil
}

// DictSizeLog returns the value of the DICT header byte. It is also the
// number of low distance bits stored verbatim for repetitions longer than
// two bytes.
func (h Header) DictSizeLog() int {
	// NOTE: Validate guarantees DictSize >= 128.
	log, _ := DictSizeIntoLog(h.DictSize)
	return log
}

// AppendBinary appends the encoded header to dst.
func (h Header) AppendBinary(dst []byte) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return dst, err
	}
	//nolint:gosec // DictSizeLog is in [4, 6] after Validate.
	return append(dst, byte(h.Type), byte(h.DictSizeLog())), nil
}

// LogIntoSize converts a DICT header value to a dictionary size.
func LogIntoSize(log int) int {
	return 1 << (log + 6)
}

// MaskIntoSize converts a distance low-bit mask to a dictionary size.
func MaskIntoSize(mask int) int {
	return LogIntoSize(bits.Len(uint(mask)))
}

// DictSizeIntoLog converts a dictionary size to its DICT header value.
// Sizes between powers of two round down.
func DictSizeIntoLog(dictSize int) (int, error) {
	if dictSize < minDictSize {
		return 0, fmt.Errorf("%w: dictionary sizes less than %d are unsupported: %d", ErrInvalidDictSize, minDictSize, dictSize)
	}
	return bits.Len(uint(dictSize)) - 7, nil
}

// LogIntoMask converts a DICT header value to the mask of the verbatim low
// distance bits.
func LogIntoMask(log int) int {
	return (1 << log) - 1
}

// DictSizeIntoMask converts a dictionary size to the mask of the verbatim
// low distance bits.
func DictSizeIntoMask(dictSize int) (int, error) {
	log, err := DictSizeIntoLog(dictSize)
	if err != nil {
		return 0, err
	}
	return LogIntoMask(log), nil
}
