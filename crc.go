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
	"hash"
	"hash/crc32"
)

// CRC32 returns the PKWARE library CRC of data. The library does not apply
// the final complement of the IEEE CRC-32, so the result is the bitwise
// complement of [crc32.Update] seeded with value.
//
// CRC32(data, 0) is the checksum of data on its own.
func CRC32(data []byte, value uint32) uint32 {
	return ^crc32.Update(value, crc32.IEEETable, data)
}

// digest tracks the PKWARE library CRC of a stream written in pieces.
type digest struct {
	h hash.Hash32
}

func newDigest() digest {
	return digest{h: crc32.NewIEEE()}
}

func (d digest) write(p []byte) {
	// NOTE: hash.Hash.Write never returns an error.
	_, _ = d.h.Write(p)
}

func (d digest) reset() {
	d.h.Reset()
}

// sum returns CRC32 of everything written so far.
func (d digest) sum() uint32 {
	return ^d.h.Sum32()
}
