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

const (
	// NoCompression writes every byte as a literal.
	NoCompression = 0

	// BestSpeed provides the lowest level of compression but the fastest
	// performance.
	BestSpeed = 1

	// BestCompression provides the highest level of compression but the slowest
	// performance.
	BestCompression = 9

	// DefaultCompression is the default compression level. It provides a
	// balance between compression and performance.
	DefaultCompression = -1
)

// maxChain is the number of hash chain entries searched for a repetition at
// each compression level.
var maxChain = [BestCompression + 1]int{0, 4, 8, 16, 32, 64, 128, 256, 1024, 4096}

// Writer implements [io.WriteCloser]. It implodes data written to it.
//
// [Writer.Close] must be called in order to write the end of stream marker.
type Writer struct {
	// Header is written with the first compressed output.
	Header

	// w is the destination of the compressed stream.
	w io.Writer

	bw bitWriter

	// outBuffSize is the size at which bw is flushed to w.
	outBuffSize int

	// win holds the dictionary followed by data not yet compressed, starting
	// at pos. winBase is the stream offset of win[0].
	win     []byte
	pos     int
	winBase int64

	// head holds the most recent stream offset of each byte-pair hash and
	// prev links each offset to the previous one with the same hash. Both
	// hold -1 when there is no such offset.
	head []int64
	prev []int64

	distBits uint
	maxChain int

	// size is the number of bytes written.
	size int64

	digest digest

	// err is sticky.
	err error

	closed bool
}

// NewWriter returns a new [Writer] with the default compression level.
func NewWriter(w io.Writer, typ CompressionType, dictSize int) (*Writer, error) {
	return NewWriterLevel(w, typ, dictSize, DefaultCompression)
}

// NewWriterLevel returns a new [Writer] with the given compression type,
// dictionary size and compression level. The dictionary size must be one of
// [DictSize1K], [DictSize2K] or [DictSize4K].
//
// It does not assume control of w; closing w remains the responsibility of
// the caller.
func NewWriterLevel(w io.Writer, typ CompressionType, dictSize, level int) (*Writer, error) {
	if level == DefaultCompression {
		level = 6
	}
	if level < NoCompression || level > BestCompression {
		return nil, fmt.Errorf("%w: %d", errInvalidLevel, level)
	}

	h := Header{
		Type:     typ,
		DictSize: dictSize,
	}
	sizes := ImplodeSizes()
	out, err := h.AppendBinary(make([]byte, 0, sizes.Common.OutBuffSize))
	if err != nil {
		return nil, err
	}

	z := &Writer{
		Header:      h,
		w:           w,
		bw:          bitWriter{out: out},
		outBuffSize: sizes.Common.OutBuffSize,
		win:         make([]byte, 0, sizes.WorkBuffSize),
		head:        make([]int64, sizes.HashTableSize),
		prev:        make([]int64, dictSize),
		distBits:    uint(h.DictSizeLog()),
		maxChain:    maxChain[level],
		digest:      newDigest(),
	}
	for i := range z.head {
		z.head[i] = -1
	}
	for i := range z.prev {
		z.prev[i] = -1
	}

	return z, nil
}

// Write implements [io.Writer].
func (z *Writer) Write(p []byte) (int, error) {
	if z.closed {
		return 0, errClosed
	}
	if z.err != nil {
		return 0, z.err
	}

	var n int
	for len(p) > 0 {
		if len(z.win) == cap(z.win) {
			if err := z.compress(false); err != nil {
				return n, err
			}
			z.slide()
		}

		k := copy(z.win[len(z.win):cap(z.win)], p)
		z.win = z.win[:len(z.win)+k]
		z.digest.write(p[:k])
		z.size += int64(k)
		n += k
		p = p[k:]
	}

	return n, nil
}

// Close compresses any pending data and writes the end of stream marker. It
// does not close the underlying io.Writer.
func (z *Writer) Close() error {
	if z.closed {
		return z.err
	}
	z.closed = true
	if z.err != nil {
		return z.err
	}

	if err := z.compress(true); err != nil {
		return err
	}

	z.writeLength(endOfStream)
	z.bw.pad()
	if err := z.bw.flushTo(z.w); err != nil {
		z.err = err
		return err
	}

	return nil
}

// CRC32 returns the [CRC32] of the data written so far.
func (z *Writer) CRC32() uint32 {
	return z.digest.sum()
}

// Size returns the number of uncompressed bytes written so far.
func (z *Writer) Size() int64 {
	return z.size
}

// compress codes the pending data in win. Unless final is set, the last
// MaxRepLength bytes are kept back as lookahead for the next call.
func (z *Writer) compress(final bool) error {
	for z.pos < len(z.win) && (final || len(z.win)-z.pos > MaxRepLength) {
		length, dist := z.findMatch()
		if length >= MinRepLength {
			z.writeMatch(length, dist)
		} else {
			length = 1
			z.writeLiteral(z.win[z.pos])
		}
		for i := 0; i < length; i++ {
			z.insert(z.pos + i)
		}
		z.pos += length

		if len(z.bw.out) >= z.outBuffSize {
			if err := z.bw.flushTo(z.w); err != nil {
				z.err = err
				return err
			}
		}
	}
	return nil
}

// slide drops data from the front of win that is further back than one
// dictionary.
func (z *Writer) slide() {
	drop := z.pos - z.DictSize
	if drop <= 0 {
		return
	}
	n := copy(z.win, z.win[drop:])
	z.win = z.win[:n]
	z.pos -= drop
	z.winBase += int64(drop)
}

// pairHash hashes the byte pair starting a repetition.
func pairHash(b0, b1 byte) int {
	return int(b0)*4 + int(b1)*5
}

// insert adds the byte pair at win[i] to the hash chains.
func (z *Writer) insert(i int) {
	if i+1 >= len(z.win) {
		return
	}
	h := pairHash(z.win[i], z.win[i+1])
	off := z.winBase + int64(i)
	z.prev[off&int64(z.DictSize-1)] = z.head[h]
	z.head[h] = off
}

// findMatch returns the longest repetition of the data at pos within the
// dictionary. It returns a length of zero if there is none.
func (z *Writer) findMatch() (int, int) {
	if z.maxChain == 0 || z.pos+1 >= len(z.win) {
		return 0, 0
	}

	maxLen := min(MaxRepLength, len(z.win)-z.pos)
	off := z.winBase + int64(z.pos)
	cur := z.win[z.pos:]

	var bestLen, bestDist int
	cand := z.head[pairHash(cur[0], cur[1])]
	for chain := 0; cand >= 0 && chain < z.maxChain; chain++ {
		dist := int(off - cand)
		if dist > z.DictSize {
			break
		}
		start := int(cand - z.winBase)
		if start < 0 {
			break
		}

		var l int
		for l < maxLen && z.win[start+l] == cur[l] {
			l++
		}
		if l == MinRepLength && dist > maxShortDist {
			l = 0
		}
		if l > bestLen {
			bestLen, bestDist = l, dist
			if l == maxLen {
				break
			}
		}

		next := z.prev[cand&int64(z.DictSize-1)]
		if next >= cand {
			break
		}
		cand = next
	}

	if bestLen < MinRepLength {
		return 0, 0
	}
	return bestLen, bestDist
}

func (z *Writer) writeLiteral(b byte) {
	z.bw.writeBits(0, 1)
	if z.Type == ASCII {
		z.bw.writeCode(litHuffman.codes[b])
		return
	}
	z.bw.writeBits(uint32(b), 8)
}

// writeLength writes a repetition flag and length.
func (z *Writer) writeLength(length int) {
	z.bw.writeBits(1, 1)
	sym := lenSymbol[length]
	z.bw.writeCode(lenHuffman.codes[sym])
	//nolint:gosec // length >= lenBase[sym]
	z.bw.writeBits(uint32(length-lenBase[sym]), lenExtra[sym])
}

func (z *Writer) writeMatch(length, dist int) {
	z.writeLength(length)

	shift := z.distBits
	if length == MinRepLength {
		shift = shortDistBits
	}
	d := dist - 1
	z.bw.writeCode(distHuffman.codes[d>>shift])
	//nolint:gosec // d >= 0
	z.bw.writeBits(uint32(d), shift)
}
