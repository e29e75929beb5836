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
)

// bitReader reads bits least significant bit first.
type bitReader struct {
	r io.ByteReader

	// acc holds n unread bits.
	acc uint32
	n   uint
}

func (b *bitReader) reset(r io.ByteReader) {
	b.r = r
	b.acc = 0
	b.n = 0
}

// readBits reads n <= 16 bits.
func (b *bitReader) readBits(n uint) (uint32, error) {
	for b.n < n {
		c, err := b.r.ReadByte()
		if err != nil {
			return 0, noEOF(err)
		}
		b.acc |= uint32(c) << b.n
		b.n += 8
	}
	v := b.acc & (1<<n - 1)
	b.acc >>= n
	b.n -= n
	return v, nil
}

// bitWriter accumulates bits least significant bit first in an output
// buffer.
type bitWriter struct {
	out []byte

	// acc holds n bits not yet appended to out.
	acc uint32
	n   uint
}

// writeBits writes the low n <= 16 bits of v.
func (b *bitWriter) writeBits(v uint32, n uint) {
	b.acc |= (v & (1<<n - 1)) << b.n
	b.n += n
	for b.n >= 8 {
		b.out = append(b.out, byte(b.acc))
		b.acc >>= 8
		b.n -= 8
	}
}

func (b *bitWriter) writeCode(c code) {
	b.writeBits(c.bits, c.len)
}

// pad completes the last partial byte with zero bits.
func (b *bitWriter) pad() {
	if b.n > 0 {
		b.out = append(b.out, byte(b.acc))
		b.acc = 0
		b.n = 0
	}
}

// flushTo writes the complete bytes in the buffer to w.
func (b *bitWriter) flushTo(w io.Writer) error {
	if len(b.out) == 0 {
		return nil
	}
	_, err := w.Write(b.out)
	b.out = b.out[:0]
	if err != nil {
		return fmt.Errorf("%w: writing output: %w", ErrAbort, err)
	}
	return nil
}
