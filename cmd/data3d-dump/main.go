// The data3d-dump command displays the sections of a data3d buffer file in a
// human-readable format.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/data3d-io/data3d"
	"github.com/data3d-io/data3d/d3dbuffer"
	"github.com/data3d-io/data3d/internal/lz4x"
)

const usage = `usage: data3d-dump [INPUT] [OUTPUT]

Reads a data3d buffer file from INPUT, and writes to OUTPUT its header, its
structure, and the location of each mesh array within its payload. INPUT may be
framed with LZ4.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.
`

func main() {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()
	args := flag.Args()
	if len(args) >= 1 && args[0] != "-" {
		in, err := os.Open(args[0])
		if err != nil {
			log.Error("open input", slog.Any("err", err))
			os.Exit(1)
		}
		input = in
		defer in.Close()
	}
	if len(args) >= 2 && args[1] != "-" {
		out, err := os.Create(args[1])
		if err != nil {
			log.Error("create output", slog.Any("err", err))
			os.Exit(1)
		}
		defer out.Close()
		defer func() {
			if err := out.Sync(); err != nil {
				log.Error("sync output", slog.Any("err", err))
			}
		}()
		output = out
	}

	b, err := io.ReadAll(input)
	if err != nil {
		log.Error("read input", slog.Any("err", err))
		return
	}
	if lz4x.IsFramed(b) {
		if b, err = lz4x.Decompress(b); err != nil {
			log.Error("decompress input", slog.Any("err", err))
			return
		}
	}

	warn, err := d3dbuffer.Decoder{Options: data3d.Options{Logger: log}}.Dump(output, bytes.NewReader(b))
	if warn != nil {
		log.Warn("decode warning", slog.Any("warning", warn))
	}
	if err != nil {
		log.Error("decode error", slog.Any("err", err))
	}
}
