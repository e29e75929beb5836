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
	"strings"

	"go.uber.org/zap"

	"github.com/implode-compression-impls/go-pklib"
)

type decompress struct {
	path   string
	force  bool
	keep   bool
	stdout bool

	// out is where data is written with --stdout.
	out io.Writer
	log *zap.Logger
}

var errTruncate = fmt.Errorf("%w: cannot truncate filename", ErrPklib)

func (d *decompress) Run() error {
	newPath := strings.TrimSuffix(d.path, suffix)
	if newPath == d.path || newPath == "" {
		return fmt.Errorf("%w: %q", errTruncate, d.path)
	}

	from, err := os.Open(d.path)
	if err != nil {
		return fmt.Errorf("%w: opening file: %w", ErrPklib, err)
	}
	defer from.Close()

	flags := os.O_CREATE | os.O_WRONLY
	if !d.force {
		// Do not overwrite existing files unless --force is specified.
		flags |= os.O_EXCL
	} else {
		flags |= os.O_TRUNC
	}

	var dst io.Writer
	var dstFile *os.File

	if d.stdout {
		dst = d.out
	} else {
		dstFile, err = os.OpenFile(newPath, flags, 0o644)
		if err != nil {
			return fmt.Errorf("%w: opening target file: %w", ErrPklib, err)
		}
		defer dstFile.Close()
		dst = dstFile
	}

	z, err := d.decompress(dst, from)
	if err != nil {
		return err
	}

	if dstFile != nil {
		if err := dstFile.Close(); err != nil {
			return fmt.Errorf("%w: closing target file: %w", ErrPklib, err)
		}
	}

	d.log.Debug("decompressed",
		zap.String("path", d.path),
		zap.String("target", newPath),
		zap.Stringer("type", z.Type),
		zap.Int("dictSize", z.DictSize),
		zap.Int64("size", z.Size()),
		zap.String("crc32", fmt.Sprintf("%08x", z.CRC32())),
	)

	if !d.keep && !d.stdout {
		err = os.Remove(d.path)
		if err != nil {
			return fmt.Errorf("%w: removing file: %w", ErrPklib, err)
		}
	}

	return nil
}

func (d *decompress) decompress(dst io.Writer, src *os.File) (z *pklib.Reader, err error) {
	z, err = pklib.NewReader(src)
	if err != nil {
		err = fmt.Errorf("%w: reading %q: %w", ErrPklib, src.Name(), err)
		return
	}
	defer func() {
		// NOTE: this sets the returned error in the deferred func.
		clsErr := z.Close()
		if err == nil {
			err = clsErr
		}
	}()

	_, err = io.Copy(dst, z)
	if err != nil {
		err = fmt.Errorf("%w: decompressing file %q: %w", ErrPklib, src.Name(), err)
		return
	}

	return
}
