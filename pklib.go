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


// Package pklib implements the PKWARE Data Compression Library (DCL)
// "implode" format and its decompressor, "explode".
//
// A stream starts with a two byte header giving the compression type
// ([Binary] or [ASCII]) and the dictionary size (1024, 2048 or 4096 bytes),
// followed by a least-significant-bit first stream of literals and
// repetitions coded with fixed Huffman tables. The format is used by many
// legacy archive and game data formats.
// See: https://github.com/madler/zlib/blob/master/contrib/blast/blast.c
//
// The [Writer] type implodes data and the [Reader] type explodes it. The
// helpers in header.go are shared by both and may be used on their own to
// inspect compressed data.
//
// Unless otherwise informed clients should not assume implementations in this
// package are safe for parallel execution.
package pklib
