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
	"math/bits"
)

const (
	// MinRepLength is the shortest repetition the format can code.
	MinRepLength = 2

	// MaxRepLength is the longest repetition the format can code.
	MaxRepLength = 518

	// endOfStream is the repetition length marking the end of the stream.
	endOfStream = MaxRepLength + 1

	// maxCodeBits is the longest code in any of the Huffman tables.
	maxCodeBits = 13

	// maxShortDist is the furthest a two byte repetition may reach.
	maxShortDist = 256

	// shortDistBits is the number of verbatim low distance bits of a two
	// byte repetition.
	shortDistBits = 2
)

// Bit lengths of the Huffman codes. Each byte holds a bit length in its low
// nibble and a repeat count minus one in its high nibble.
var (
	// literal codes 0..255, ASCII streams only.
	litLengths = []byte{
		11, 124, 8, 7, 28, 7, 188, 13, 76, 4, 10, 8, 12, 10, 12, 10, 8, 23, 8,
		9, 7, 6, 7, 8, 7, 6, 55, 8, 23, 24, 12, 11, 7, 9, 11, 12, 6, 7, 22, 5,
		7, 24, 6, 11, 9, 6, 7, 22, 7, 11, 38, 7, 9, 8, 25, 11, 8, 11, 9, 12,
		8, 12, 5, 38, 5, 38, 5, 11, 7, 5, 6, 21, 6, 10, 53, 8, 7, 24, 10, 27,
		44, 253, 253, 253, 252, 252, 252, 13, 12, 45, 12, 45, 12, 61, 12, 45,
		44, 173,
	}

	// length codes 0..15.
	lenLengths = []byte{2, 35, 36, 53, 38, 23}

	// distance codes 0..63.
	distLengths = []byte{2, 20, 53, 230, 247, 151, 248}
)

var (
	// lenBase is the shortest repetition length of each length code.
	lenBase = [16]int{3, 2, 4, 5, 6, 7, 8, 9, 10, 12, 16, 24, 40, 72, 136, 264}

	// lenExtra is the number of verbatim bits following each length code.
	lenExtra = [16]uint{0, 0, 0, 0, 0, 0, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8}
)

var (
	litHuffman  = newHuffman(litLengths)
	lenHuffman  = newHuffman(lenLengths)
	distHuffman = newHuffman(distLengths)

	// lenSymbol maps a repetition length to its length code.
	lenSymbol = newLenSymbols()
)

// code is a Huffman code ready to be written by a bitWriter: the bits are
// inverted and reversed so that the most significant bit is written first.
type code struct {
	bits uint32
	len  uint
}

// huffman is a canonical Huffman code.
type huffman struct {
	// count is the number of codes of each bit length.
	count [maxCodeBits + 1]int

	// symbol lists the symbols ordered by code.
	symbol []int

	// codes is indexed by symbol.
	codes []code
}

// newHuffman builds the canonical code described by the compact bit length
// table. The tables are constant so a malformed one panics at init.
func newHuffman(compact []byte) *huffman {
	var lengths []int
	for _, b := range compact {
		for n := int(b>>4) + 1; n > 0; n-- {
			lengths = append(lengths, int(b&0xf))
		}
	}

	h := &huffman{
		symbol: make([]int, 0, len(lengths)),
		codes:  make([]code, len(lengths)),
	}
	for _, l := range lengths {
		if l == 0 || l > maxCodeBits {
			panic("pklib: invalid code length")
		}
		h.count[l]++
	}

	// Order symbols by code length then symbol value.
	for l := 1; l <= maxCodeBits; l++ {
		for sym, symLen := range lengths {
			if symLen == l {
				h.symbol = append(h.symbol, sym)
			}
		}
	}

	var c uint32
	var i int
	for l := 1; l <= maxCodeBits; l++ {
		for n := 0; n < h.count[l]; n++ {
			inverted := c ^ (1<<l - 1)
			h.codes[h.symbol[i]] = code{
				bits: bits.Reverse32(inverted) >> (32 - l),
				len:  uint(l),
			}
			c++
			i++
		}
		c <<= 1
	}

	return h
}

// decode reads one symbol. Codes are read a bit at a time with each bit
// inverted, most significant bit first.
func (h *huffman) decode(br *bitReader) (int, error) {
	var c, first, index int
	for l := 1; l <= maxCodeBits; l++ {
		bit, err := br.readBits(1)
		if err != nil {
			return 0, err
		}
		c |= int(bit ^ 1)
		count := h.count[l]
		if c-first < count {
			return h.symbol[index+c-first], nil
		}
		index += count
		first += count
		first <<= 1
		c <<= 1
	}
	// NOTE: unreachable with complete codes.
	return 0, ErrBadData
}

func newLenSymbols() []uint8 {
	syms := make([]uint8, endOfStream+1)
	for sym, base := range lenBase {
		for l := base; l < base+1<<lenExtra[sym] && l < len(syms); l++ {
			//nolint:gosec // sym < 16
			syms[l] = uint8(sym)
		}
	}
	return syms
}
