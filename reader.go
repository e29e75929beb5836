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
	"bufio"
	"fmt"
	"io"
)

// Reader implements [io.Reader]. It explodes a compressed stream.
type Reader struct {
	// Header is the stream header and is valid after [NewReader] or
	// [Reader.Reset].
	Header

	br bitReader

	// buf buffers compressed input that does not implement io.ByteReader.
	buf *bufio.Reader

	// win holds the dictionary followed by decompressed data not yet returned
	// by Read. Data from rpos onwards is unread.
	win  []byte
	rpos int

	// distBits is the number of verbatim low distance bits.
	distBits uint

	// size is the number of bytes decompressed.
	size int64

	digest digest

	// err is the sticky error returned once win is drained. It is io.EOF
	// after the end of stream marker.
	err error
}

// NewReader returns a new [Reader] exploding data read from r. The header is
// read and validated before NewReader returns.
//
// If r does not also implement [io.ByteReader], the Reader may read more
// data than necessary from r. It does not assume control of r; closing r
// remains the responsibility of the caller.
func NewReader(r io.Reader) (*Reader, error) {
	sizes := ExplodeSizes()
	z := &Reader{
		buf:    bufio.NewReaderSize(nil, sizes.InBuffSize),
		win:    make([]byte, 0, sizes.WorkBuffSize),
		digest: newDigest(),
	}
	if err := z.Reset(r); err != nil {
		return nil, err
	}
	return z, nil
}

// Reset discards the reader's state and resets it to the initial state as
// returned by NewReader but reading from r instead.
func (z *Reader) Reset(r io.Reader) error {
	if br, ok := r.(io.ByteReader); ok {
		z.br.reset(br)
	} else {
		z.buf.Reset(r)
		z.br.reset(z.buf)
	}
	z.win = z.win[:0]
	z.rpos = 0
	z.size = 0
	z.digest.reset()
	z.err = nil

	var head [HeaderSize]byte
	for i := range head {
		b, err := z.br.readBits(8)
		if err != nil {
			return fmt.Errorf("reading header: %w", err)
		}
		head[i] = byte(b)
	}

	h, err := DecodeHeader(head[:])
	if err != nil {
		return err
	}
	z.Header = h
	z.distBits = uint(h.DictSizeLog())

	return nil
}

// Close closes the reader. It does not close the underlying io.Reader.
func (z *Reader) Close() error {
	return nil
}

// Read implements [io.Reader].
func (z *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for z.rpos == len(z.win) {
		if z.err != nil {
			return 0, z.err
		}
		z.fill()
	}
	n := copy(p, z.win[z.rpos:])
	z.rpos += n
	return n, nil
}

// CRC32 returns the [CRC32] of the data decompressed so far. Once Read has
// returned io.EOF it is the checksum of the whole stream.
func (z *Reader) CRC32() uint32 {
	return z.digest.sum()
}

// Size returns the number of bytes decompressed so far.
func (z *Reader) Size() int64 {
	return z.size
}

// fill decompresses into win until it is full or an error occurs. It must
// only be called once all of win has been read.
func (z *Reader) fill() {
	// Keep one dictionary of history.
	if drop := len(z.win) - z.DictSize; drop > 0 {
		n := copy(z.win, z.win[drop:])
		z.win = z.win[:n]
		z.rpos = n
	}

	start := len(z.win)
	for len(z.win)+MaxRepLength <= cap(z.win) {
		if err := z.step(); err != nil {
			z.err = err
			break
		}
	}

	z.digest.write(z.win[start:])
	z.size += int64(len(z.win) - start)
}

// step decodes a single literal or repetition into win. It returns io.EOF
// at the end of stream marker.
func (z *Reader) step() error {
	flag, err := z.br.readBits(1)
	if err != nil {
		return err
	}

	if flag == 0 {
		var lit int
		if z.Type == ASCII {
			lit, err = litHuffman.decode(&z.br)
		} else {
			var b uint32
			b, err = z.br.readBits(8)
			lit = int(b)
		}
		if err != nil {
			return err
		}
		z.win = append(z.win, byte(lit))
		return nil
	}

	sym, err := lenHuffman.decode(&z.br)
	if err != nil {
		return err
	}
	extra, err := z.br.readBits(lenExtra[sym])
	if err != nil {
		return err
	}
	length := lenBase[sym] + int(extra)
	if length == endOfStream {
		return io.EOF
	}

	shift := z.distBits
	if length == MinRepLength {
		shift = shortDistBits
	}
	hi, err := distHuffman.decode(&z.br)
	if err != nil {
		return err
	}
	lo, err := z.br.readBits(shift)
	if err != nil {
		return err
	}
	dist := (hi<<shift | int(lo)) + 1

	if dist > len(z.win) {
		return fmt.Errorf("%w: distance %d before start of output", ErrBadData, dist)
	}

	// NOTE: the source and destination may overlap so copy byte by byte.
	from := len(z.win) - dist
	for i := 0; i < length; i++ {
		z.win = append(z.win, z.win[from+i])
	}

	return nil
}
