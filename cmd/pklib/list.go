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


package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rodaine/table"
	"go.uber.org/zap"

	"github.com/implode-compression-impls/go-pklib"
)

type list struct {
	paths []string
	w     io.Writer
	log   *zap.Logger
}

// entry is a listed compressed file.
type entry struct {
	header       pklib.Header
	compressed   int64
	uncompressed int64
	crc          uint32
}

func (l *list) Run() error {
	tbl := table.New("type", "dict", "compressed", "uncompressed", "ratio", "crc32", "name")
	tbl.WithWriter(l.w)

	for _, path := range l.paths {
		e, err := l.read(path)
		if err != nil {
			return err
		}

		ratio := 0.0
		if e.uncompressed > 0 {
			ratio = (1 - float64(e.compressed)/float64(e.uncompressed)) * 100
		}
		tbl.AddRow(
			e.header.Type,
			e.header.DictSize,
			fmt.Sprintf("%d", e.compressed),
			fmt.Sprintf("%d", e.uncompressed),
			fmt.Sprintf("%.1f%%", ratio),
			fmt.Sprintf("%08x", e.crc),
			path,
		)
	}
	tbl.Print()

	return nil
}

func (l *list) read(path string) (entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return entry{}, fmt.Errorf("%w: opening file: %w", ErrPklib, err)
	}
	defer f.Close()

	z, err := pklib.NewReader(f)
	if err != nil {
		return entry{}, fmt.Errorf("%w: reading %q: %w", ErrPklib, path, err)
	}
	defer z.Close()

	fInfo, err := f.Stat()
	if err != nil {
		return entry{}, fmt.Errorf("%w: stat: %w", ErrPklib, err)
	}

	uncompressed, err := io.Copy(io.Discard, z)
	if err != nil {
		return entry{}, fmt.Errorf("%w: reading %q: %w", ErrPklib, path, err)
	}

	l.log.Debug("listed", zap.String("path", path), zap.Int64("size", uncompressed))

	return entry{
		header:       z.Header,
		compressed:   fInfo.Size(),
		uncompressed: uncompressed,
		crc:          z.CRC32(),
	}, nil
}
