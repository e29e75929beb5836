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

// test checks that a compressed file explodes without error.
type test struct {
	path string
	log  *zap.Logger
}

func (t *test) Run() error {
	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("%w: opening file: %w", ErrPklib, err)
	}
	defer f.Close()

	z, err := pklib.NewReader(f)
	if err != nil {
		return fmt.Errorf("%w: reading %q: %w", ErrPklib, t.path, err)
	}
	defer z.Close()

	if _, err := io.Copy(io.Discard, z); err != nil {
		t.log.Warn("integrity check failed",
			zap.String("path", t.path),
			zap.Stringer("code", pklib.CodeOf(err)),
			zap.Error(err),
		)
		return fmt.Errorf("%w: testing %q: %w", ErrPklib, t.path, err)
	}

	t.log.Info("ok",
		zap.String("path", t.path),
		zap.Int64("size", z.Size()),
		zap.String("crc32", fmt.Sprintf("%08x", z.CRC32())),
	)
	return nil
}
