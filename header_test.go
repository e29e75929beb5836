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
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDecodeHeader(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		compressed []byte
		want       Header
		err        error
	}{
		{
			name:       "binary 1k",
			compressed: []byte{0x00, 0x04, 0x82, 0x24},
			want:       Header{Type: Binary, DictSize: DictSize1K},
		},
		{
			name:       "ascii 2k",
			compressed: []byte{0x01, 0x05},
			want:       Header{Type: ASCII, DictSize: DictSize2K},
		},
		{
			name:       "binary 4k",
			compressed: []byte{0x00, 0x06, 0x01, 0xff},
			want:       Header{Type: Binary, DictSize: DictSize4K},
		},
		{
			name:       "empty",
			compressed: nil,
			err:        io.ErrUnexpectedEOF,
		},
		{
			name:       "short",
			compressed: []byte{0x00},
			err:        ErrBadData,
		},
		{
			name:       "unknown type",
			compressed: []byte{0x02, 0x06},
			err:        ErrInvalidMode,
		},
		{
			name:       "dict too small",
			compressed: []byte{0x00, 0x03},
			err:        ErrInvalidDictSize,
		},
		{
			name:       "dict too large",
			compressed: []byte{0x01, 0x07},
			err:        ErrInvalidDictSize,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := DecodeHeader(tc.compressed)
			if diff := cmp.Diff(tc.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("DecodeHeader (-want, +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("DecodeHeader (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestHeader_AppendBinary(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		header Header
		want   []byte
		err    error
	}{
		{
			name:   "binary 1k",
			header: Header{Type: Binary, DictSize: DictSize1K},
			want:   []byte{0x00, 0x04},
		},
		{
			name:   "ascii 4k",
			header: Header{Type: ASCII, DictSize: DictSize4K},
			want:   []byte{0x01, 0x06},
		},
		{
			name:   "invalid type",
			header: Header{Type: 3, DictSize: DictSize4K},
			err:    ErrInvalidMode,
		},
		{
			name:   "invalid dict size",
			header: Header{Type: ASCII, DictSize: 3000},
			err:    ErrInvalidDictSize,
		},
		{
			name:   "dict size 8k",
			header: Header{Type: ASCII, DictSize: 8192},
			err:    ErrInvalidDictSize,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.header.AppendBinary(nil)
			if diff := cmp.Diff(tc.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Fatalf("AppendBinary (-want, +got):\n%s", diff)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("AppendBinary (-want, +got):\n%s", diff)
			}

			// The encoded header must decode to the same values.
			decoded, err := DecodeHeader(got)
			if err != nil {
				t.Fatalf("DecodeHeader: %v", err)
			}
			if diff := cmp.Diff(tc.header, decoded); diff != "" {
				t.Errorf("DecodeHeader (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestDictSizeConversions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		dictSize int
		log      int
		mask     int
	}{
		{dictSize: 128, log: 1, mask: 0x1},
		{dictSize: 256, log: 2, mask: 0x3},
		{dictSize: DictSize1K, log: 4, mask: 0xf},
		{dictSize: DictSize2K, log: 5, mask: 0x1f},
		{dictSize: DictSize4K, log: 6, mask: 0x3f},
	}

	for _, tc := range testCases {
		log, err := DictSizeIntoLog(tc.dictSize)
		if err != nil {
			t.Fatalf("DictSizeIntoLog(%d): %v", tc.dictSize, err)
		}
		if diff := cmp.Diff(tc.log, log); diff != "" {
			t.Errorf("DictSizeIntoLog(%d) (-want, +got):\n%s", tc.dictSize, diff)
		}

		mask, err := DictSizeIntoMask(tc.dictSize)
		if err != nil {
			t.Fatalf("DictSizeIntoMask(%d): %v", tc.dictSize, err)
		}
		if diff := cmp.Diff(tc.mask, mask); diff != "" {
			t.Errorf("DictSizeIntoMask(%d) (-want, +got):\n%s", tc.dictSize, diff)
		}

		if diff := cmp.Diff(tc.mask, LogIntoMask(tc.log)); diff != "" {
			t.Errorf("LogIntoMask(%d) (-want, +got):\n%s", tc.log, diff)
		}
		if diff := cmp.Diff(tc.dictSize, LogIntoSize(tc.log)); diff != "" {
			t.Errorf("LogIntoSize(%d) (-want, +got):\n%s", tc.log, diff)
		}
		if diff := cmp.Diff(tc.dictSize, MaskIntoSize(tc.mask)); diff != "" {
			t.Errorf("MaskIntoSize(%#x) (-want, +got):\n%s", tc.mask, diff)
		}
	}
}

func TestDictSizeIntoLog_roundDown(t *testing.T) {
	t.Parallel()

	log, err := DictSizeIntoLog(3000)
	if err != nil {
		t.Fatalf("DictSizeIntoLog: %v", err)
	}
	if diff := cmp.Diff(5, log); diff != "" {
		t.Errorf("DictSizeIntoLog (-want, +got):\n%s", diff)
	}
}

func TestDictSizeIntoLog_tooSmall(t *testing.T) {
	t.Parallel()

	_, err := DictSizeIntoLog(127)
	if diff := cmp.Diff(ErrInvalidDictSize, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("DictSizeIntoLog (-want, +got):\n%s", diff)
	}

	_, err = DictSizeIntoMask(0)
	if diff := cmp.Diff(ErrInvalidDictSize, err, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("DictSizeIntoMask (-want, +got):\n%s", diff)
	}
}

func TestCompressionType_String(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff("binary", Binary.String()); diff != "" {
		t.Errorf("Binary.String (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff("ascii", ASCII.String()); diff != "" {
		t.Errorf("ASCII.String (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff("CompressionType(7)", CompressionType(7).String()); diff != "" {
		t.Errorf("String (-want, +got):\n%s", diff)
	}
}

func TestCRC32(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		data  []byte
		value uint32
		want  uint32
	}{
		{
			name: "empty",
			want: 0xffffffff,
		},
		{
			name: "AIAIAIAIAIAIA",
			data: []byte("AIAIAIAIAIAIA"),
			want: 0xaf94796f,
		},
		{
			// The check value of CRC-32/ISO-HDLC is 0xcbf43926.
			name: "check",
			data: []byte("123456789"),
			want: ^uint32(0xcbf43926),
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tc.want, CRC32(tc.data, tc.value)); diff != "" {
				t.Errorf("CRC32 (-want, +got):\n%s", diff)
			}

			d := newDigest()
			for i := range tc.data {
				d.write(tc.data[i : i+1])
			}
			if diff := cmp.Diff(tc.want, d.sum()); diff != "" {
				t.Errorf("digest.sum (-want, +got):\n%s", diff)
			}
		})
	}
}
