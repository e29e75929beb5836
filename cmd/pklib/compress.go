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

	"go.uber.org/zap"

	"github.com/implode-compression-impls/go-pklib"
)

type compress struct {
	path   string
	header pklib.Header
	level  int
	force  bool
	keep   bool
	log    *zap.Logger
}

func (c *compress) Run() error {
	newPath := c.path + suffix

	from, err := os.Open(c.path)
	if err != nil {
		return fmt.Errorf("%w: opening file: %w", ErrPklib, err)
	}
	defer from.Close()

	flags := os.O_CREATE | os.O_WRONLY
	if !c.force {
		// Do not overwrite existing files unless --force is specified.
		flags |= os.O_EXCL
	} else {
		flags |= os.O_TRUNC
	}

	dst, err := os.OpenFile(newPath, flags, 0o644)
	if err != nil {
		return fmt.Errorf("%w: opening target file: %w", ErrPklib, err)
	}
	defer dst.Close()

	z, err := pklib.NewWriterLevel(dst, c.header.Type, c.header.DictSize, c.level)
	if err != nil {
		return fmt.Errorf("%w: creating writer: %w", ErrPklib, err)
	}

	_, err = io.Copy(z, from)
	if err != nil {
		return fmt.Errorf("%w: compressing file %q: %w", ErrPklib, from.Name(), err)
	}

	if err := z.Close(); err != nil {
		return fmt.Errorf("%w: compressing file %q: %w", ErrPklib, from.Name(), err)
	}

	if err := dst.Close(); err != nil {
		return fmt.Errorf("%w: closing target file: %w", ErrPklib, err)
	}

	c.log.Debug("compressed",
		zap.String("path", c.path),
		zap.String("target", newPath),
		zap.Stringer("type", c.header.Type),
		zap.Int("dictSize", c.header.DictSize),
		zap.Int64("size", z.Size()),
		zap.String("crc32", fmt.Sprintf("%08x", z.CRC32())),
	)

	if !c.keep {
		err = os.Remove(c.path)
		if err != nil {
			return fmt.Errorf("%w: removing file: %w", ErrPklib, err)
		}
	}

	return nil
}
