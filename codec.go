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
	"bytes"
	"fmt"
	"io"
)

// Implode compresses everything read from src to dst. It returns the number
// of uncompressed bytes read.
func Implode(dst io.Writer, src io.Reader, typ CompressionType, dictSize int) (int64, error) {
	z, err := NewWriter(dst, typ, dictSize)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(z, src)
	if err != nil {
		return n, fmt.Errorf("imploding: %w", err)
	}

	if err := z.Close(); err != nil {
		return n, err
	}
	return n, nil
}

// Explode decompresses the stream read from src to dst. It returns the
// number of decompressed bytes written.
func Explode(dst io.Writer, src io.Reader) (int64, error) {
	z, err := NewReader(src)
	if err != nil {
		return 0, err
	}
	defer z.Close()

	n, err := io.Copy(dst, z)
	if err != nil {
		return n, fmt.Errorf("exploding: %w", err)
	}
	return n, nil
}

// Compress returns data imploded with the given compression type and
// dictionary size.
func Compress(data []byte, typ CompressionType, dictSize int) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Implode(&buf, bytes.NewReader(data), typ, dictSize); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress returns the exploded contents of compressed.
func Decompress(compressed []byte) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Explode(&buf, bytes.NewReader(compressed)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
