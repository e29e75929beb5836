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
	"fmt"
)

var errSizeConstants = errors.New("pklib: inconsistent size constants")

// CommonSizeConstants are the buffer and table sizes shared by the implode
// and explode codecs.
type CommonSizeConstants struct {
	// DistSizes is the number of distance codes.
	DistSizes int

	// OutBuffSize is the size of the output buffer. Compressed output is
	// flushed to the destination writer once this many bytes are pending.
	OutBuffSize int
}

// ImplodeSizeConstants are the sizes used by [Writer].
type ImplodeSizeConstants struct {
	Common CommonSizeConstants

	// WorkBuffSize is the capacity of the input window holding the
	// dictionary and the data waiting to be compressed.
	WorkBuffSize int

	// HashTableSize is the number of byte-pair hash chain heads.
	HashTableSize int
}

// ExplodeSizeConstants are the sizes used by [Reader].
type ExplodeSizeConstants struct {
	Common CommonSizeConstants

	// InBuffSize is the size of the buffer compressed input is read into.
	InBuffSize int

	// WorkBuffSize is the capacity of the output window holding the
	// dictionary and the decompressed data not yet returned to the caller.
	WorkBuffSize int
}

// DefaultCommonSizeConstants returns the sizes used by the PKWARE library.
func DefaultCommonSizeConstants() CommonSizeConstants {
	return CommonSizeConstants{
		DistSizes:   64,
		OutBuffSize: 2050,
	}
}

// ImplodeSizes returns the sizes used by [Writer].
func ImplodeSizes() ImplodeSizeConstants {
	return ImplodeSizeConstants{
		Common:        DefaultCommonSizeConstants(),
		WorkBuffSize:  0x2204,
		HashTableSize: 0x900,
	}
}

// ExplodeSizes returns the sizes used by [Reader].
func ExplodeSizes() ExplodeSizeConstants {
	return ExplodeSizeConstants{
		Common:       DefaultCommonSizeConstants(),
		InBuffSize:   0x800,
		WorkBuffSize: 0x2204,
	}
}

// Validate checks the sizes against the codec tables.
func (c CommonSizeConstants) Validate() error {
	if c.DistSizes != len(distHuffman.codes) {
		return fmt.Errorf("%w: DistSizes: got %d, want %d", errSizeConstants, c.DistSizes, len(distHuffman.codes))
	}
	if c.OutBuffSize <= 0 {
		return fmt.Errorf("%w: OutBuffSize: %d", errSizeConstants, c.OutBuffSize)
	}
	return nil
}

// Validate checks the sizes against the codec tables and the largest
// dictionary.
func (c ImplodeSizeConstants) Validate() error {
	if err := c.Common.Validate(); err != nil {
		return err
	}
	// The window must hold a full dictionary, the longest repetition being
	// compressed and a full repetition of lookahead.
	if minSize := DictSize4K + 2*MaxRepLength; c.WorkBuffSize < minSize {
		return fmt.Errorf("%w: WorkBuffSize: got %d, want >= %d", errSizeConstants, c.WorkBuffSize, minSize)
	}
	// Every byte pair must hash to a chain head.
	if maxHash := pairHash(0xff, 0xff); c.HashTableSize <= maxHash {
		return fmt.Errorf("%w: HashTableSize: got %d, want > %d", errSizeConstants, c.HashTableSize, maxHash)
	}
	return nil
}

// Validate checks the sizes against the codec tables and the largest
// dictionary.
func (c ExplodeSizeConstants) Validate() error {
	if err := c.Common.Validate(); err != nil {
		return err
	}
	if c.InBuffSize <= 0 {
		return fmt.Errorf("%w: InBuffSize: %d", errSizeConstants, c.InBuffSize)
	}
	if minSize := DictSize4K + endOfStream; c.WorkBuffSize < minSize {
		return fmt.Errorf("%w: WorkBuffSize: got %d, want >= %d", errSizeConstants, c.WorkBuffSize, minSize)
	}
	return nil
}
