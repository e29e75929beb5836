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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/implode-compression-impls/go-pklib"
)

const (
	// ExitCodeSuccess is successful error code.
	ExitCodeSuccess int = iota

	// ExitCodeFlagParseError is the exit code for a flag parsing error.
	ExitCodeFlagParseError

	// ExitCodeUnknownError is the exit code for an unknown error.
	ExitCodeUnknownError
)

// ErrPklib is a parent error for all pklib command errors.
var ErrPklib = errors.New("pklib")

// ErrFlagParse is a flag parsing error.
var ErrFlagParse = fmt.Errorf("%w: parsing flags", ErrPklib)

// suffix is the file name suffix of compressed files.
const suffix = ".pk"

//nolint:gochecknoinits // init needed needed for global variable.
func init() {
	// Set the HelpFlag to a random name so that it isn't used. `cli` handles
	// the flag with the root command such that it takes a command name argument
	// but we don't use commands.
	//
	// This is done because `pklib --help foo` will display a
	// "command foo not found" error instead of the help.
	//
	// This flag is hidden by the help output.
	// See: github.com/urfave/cli/issues/1809
	cli.HelpFlag = &cli.BoolFlag{
		// NOTE: Use a random name no one would guess.
		Name:               "d41d8cd98f00b204e980",
		DisableDefaultText: true,
	}
}

// check checks the error and panics if not nil.
func check(err error) {
	if err != nil {
		panic(err)
	}
}

// must checks the error and panics if not nil.
func must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// newLogger returns a console logger writing to the app's error writer. It
// discards everything below warnings unless verbose is set.
func newLogger(c *cli.Context) *zap.Logger {
	level := zapcore.WarnLevel
	if c.Bool("verbose") {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(c.App.ErrWriter),
		level,
	)
	return zap.New(core).Named(c.App.Name)
}

// compressionType parses the --ascii flag.
func compressionType(c *cli.Context) pklib.CompressionType {
	if c.Bool("ascii") {
		return pklib.ASCII
	}
	return pklib.Binary
}

func newPklibApp() *cli.App {
	return &cli.App{
		Name:  filepath.Base(os.Args[0]),
		Usage: "Compress files with PKWARE DCL implode.",
		Description: strings.Join([]string{
			"Implode and explode files in the PKWARE Data Compression Library format.",
			"http://github.com/implode-compression-impls/go-pklib",
		}, "\n"),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:               "decompress",
				Usage:              "decompress (explode) a file",
				Aliases:            []string{"d"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "ascii",
				Usage:              "code literals with the ASCII table (compression only)",
				Aliases:            []string{"a"},
				DisableDefaultText: true,
			},
			&cli.IntFlag{
				Name:    "dict-size",
				Usage:   "dictionary size: 1024, 2048 or 4096 (compression only)",
				Aliases: []string{"s"},
				Value:   pklib.DefaultDictSize,
			},
			&cli.IntFlag{
				Name:  "level",
				Usage: "compression level from 0 (none) to 9 (best)",
				Value: 6,
			},
			&cli.BoolFlag{
				Name:               "force",
				Usage:              "force overwrite of output file",
				Aliases:            []string{"f"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "keep",
				Usage:              "do not delete original file",
				Aliases:            []string{"k"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "list",
				Usage:              "list compressed file contents",
				Aliases:            []string{"l"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "license",
				Usage:              "display software license",
				Aliases:            []string{"L"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "stdout",
				Usage:              "write to stdout (decompression only)",
				Aliases:            []string{"c"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "test",
				Usage:              "test compressed file integrity",
				Aliases:            []string{"t"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "verbose",
				Usage:              "verbose mode",
				Aliases:            []string{"v"},
				DisableDefaultText: true,
			},

			// Special flags are shown at the end.
			&cli.BoolFlag{
				Name:               "help",
				Usage:              "print this help text and exit",
				Aliases:            []string{"h"},
				DisableDefaultText: true,
			},
			&cli.BoolFlag{
				Name:               "version",
				Usage:              "print version information and exit",
				Aliases:            []string{"V"},
				DisableDefaultText: true,
			},
		},
		ArgsUsage:       "[PATH]...",
		Copyright:       "Google LLC",
		HideHelp:        true,
		HideHelpCommand: true,
		Action: func(c *cli.Context) error {
			if c.Bool("help") {
				check(cli.ShowAppHelp(c))
				return nil
			}

			if c.Bool("version") {
				return printVersion(c)
			}

			if c.Bool("license") {
				return printLicense(c)
			}

			log := newLogger(c)
			defer func() {
				// NOTE: Sync fails on some terminals; nothing is buffered.
				_ = log.Sync()
			}()

			// list
			if c.Bool("list") {
				l := list{
					paths: c.Args().Slice(),
					w:     c.App.Writer,
					log:   log,
				}
				return l.Run()
			}

			// test
			if c.Bool("test") {
				for _, path := range c.Args().Slice() {
					tst := test{
						path: path,
						log:  log,
					}
					if err := tst.Run(); err != nil {
						return err
					}
				}
				return nil
			}

			// decompress
			if c.Bool("decompress") {
				for _, path := range c.Args().Slice() {
					d := decompress{
						path:   path,
						force:  c.Bool("force"),
						keep:   c.Bool("keep"),
						stdout: c.Bool("stdout"),
						out:    c.App.Writer,
						log:    log,
					}
					if err := d.Run(); err != nil {
						return err
					}
				}
				return nil
			}

			// compress
			level := c.Int("level")
			if level < pklib.NoCompression || level > pklib.BestCompression {
				return fmt.Errorf("%w: --level must be between %d and %d: %d",
					ErrFlagParse, pklib.NoCompression, pklib.BestCompression, level)
			}
			header := pklib.Header{
				Type:     compressionType(c),
				DictSize: c.Int("dict-size"),
			}
			if err := header.Validate(); err != nil {
				return fmt.Errorf("%w: %w", ErrFlagParse, err)
			}

			for _, path := range c.Args().Slice() {
				comp := compress{
					path:   path,
					header: header,
					level:  level,
					force:  c.Bool("force"),
					keep:   c.Bool("keep"),
					log:    log,
				}
				if err := comp.Run(); err != nil {
					return err
				}
			}
			return nil
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}

			// ExitCode return an exit code for the given error.
			_ = must(fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", c.App.Name, err))
			if errors.Is(err, ErrFlagParse) {
				cli.OsExiter(ExitCodeFlagParseError)
				return
			}

			cli.OsExiter(ExitCodeUnknownError)
		},
	}
}
