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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/urfave/cli/v2"

	"github.com/implode-compression-impls/go-pklib"
)

// runApp runs the app with args and returns its standard output and error.
func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := newPklibApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	// NOTE: the default handler exits the process.
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.Run(append([]string{"pklib"}, args...))
	return stdout.String(), stderr.String(), err
}

func writeTestFile(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.txt")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestApp_compressDecompress(t *testing.T) {
	t.Parallel()

	data := []byte(strings.Repeat("Lorem ipsum dolor sit amet. ", 100))
	path := writeTestFile(t, data)

	if _, _, err := runApp(t, "--ascii", "--dict-size", "2048", path); err != nil {
		t.Fatalf("compress: %v", err)
	}

	// The original file is removed without --keep.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Stat(%q): got %v, want not exist", path, err)
	}

	compressed, err := os.ReadFile(path + suffix)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	h, err := pklib.DecodeHeader(compressed)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if diff := cmp.Diff(pklib.Header{Type: pklib.ASCII, DictSize: pklib.DictSize2K}, h); diff != "" {
		t.Errorf("DecodeHeader (-want, +got):\n%s", diff)
	}

	if _, _, err := runApp(t, "-d", path+suffix); err != nil {
		t.Fatalf("decompress: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if diff := cmp.Diff(data, got); diff != "" {
		t.Errorf("decompressed (-want, +got):\n%s", diff)
	}
	if _, err := os.Stat(path + suffix); !os.IsNotExist(err) {
		t.Errorf("Stat(%q): got %v, want not exist", path+suffix, err)
	}
}

func TestApp_stdout(t *testing.T) {
	t.Parallel()

	data := []byte("hello hello hello\n")
	path := writeTestFile(t, data)

	if _, _, err := runApp(t, "--level", "9", path); err != nil {
		t.Fatalf("compress: %v", err)
	}

	stdout, _, err := runApp(t, "-d", "-c", path+suffix)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if diff := cmp.Diff(string(data), stdout); diff != "" {
		t.Errorf("stdout (-want, +got):\n%s", diff)
	}

	// The compressed file is kept with --stdout.
	if _, err := os.Stat(path + suffix); err != nil {
		t.Errorf("Stat: %v", err)
	}
}

func TestApp_listAndTest(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, bytes.Repeat([]byte("0123456789"), 50))

	if _, _, err := runApp(t, "-k", "-s", "1024", path); err != nil {
		t.Fatalf("compress: %v", err)
	}

	stdout, _, err := runApp(t, "-l", path+suffix)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"binary", "1024", "500", "crc32", path + suffix} {
		if !strings.Contains(stdout, want) {
			t.Errorf("list output %q does not contain %q", stdout, want)
		}
	}

	_, stderr, err := runApp(t, "-t", "-v", path+suffix)
	if err != nil {
		t.Fatalf("test: %v", err)
	}
	if !strings.Contains(stderr, "ok") {
		t.Errorf("test output %q does not contain %q", stderr, "ok")
	}
}

func TestApp_errors(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, []byte("data"))

	testCases := []struct {
		name string
		args []string
		err  error
	}{
		{
			name: "invalid dict size",
			args: []string{"--dict-size", "512", path},
			err:  ErrFlagParse,
		},
		{
			name: "invalid level",
			args: []string{"--level", "12", path},
			err:  ErrFlagParse,
		},
		{
			name: "decompress without suffix",
			args: []string{"-d", path},
			err:  errTruncate,
		},
		{
			name: "test not compressed",
			args: []string{"-t", path},
			err:  pklib.ErrInvalidMode,
		},
	}

	for _, tc := range testCases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := runApp(t, tc.args...)
			if diff := cmp.Diff(tc.err, err, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("Run (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestApp_version(t *testing.T) {
	t.Parallel()

	stdout, _, err := runApp(t, "-V")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(stdout, "PKWARE DCL implode") {
		t.Errorf("version output %q does not contain %q", stdout, "PKWARE DCL implode")
	}

	stdout, _, err = runApp(t, "-L")
	if err != nil {
		t.Fatalf("license: %v", err)
	}
	if !strings.Contains(stdout, "Apache License") {
		t.Errorf("license output %q does not contain %q", stdout, "Apache License")
	}
}
