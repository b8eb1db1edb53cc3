// The data3d-convert command converts data3d files between the JSON and
// buffer formats.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/data3d-io/data3d/internal/config"
	"github.com/data3d-io/data3d/internal/convert"
)

const usage = `usage: data3d-convert [FLAGS] INPUT...

Reads each INPUT data3d file, in either the JSON or the buffer format, and
writes it in the other format next to the input, or in the directory given by
-o. Inputs framed with LZ4 are decompressed. Outputs are framed with LZ4 when
-compress is set.

Settings are read from the configuration file, and overridden by flags.
Warnings and errors are written to stderr.

Flags:
`

func main() {
	os.Exit(run())
}

func run() int {
	var (
		flags       config.Config
		configPath  string
		outDir      string
		keepGoing   bool
		verbose     bool
		quiet       bool
		printConfig bool
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.StringVar(&configPath, "config", config.DefaultPath, "configuration file")
	flag.StringVar(&outDir, "o", "", "output directory")
	flag.StringVar(&flags.Format, "f", "", "output format: json or buffer")
	flag.IntVar(&flags.Indent, "indent", 0, "JSON indentation")
	flag.StringVar(&flags.Exporter, "exporter", "", "exporter written to documents without one")
	flag.IntVar(&flags.Workers, "workers", 0, "number of files converted at once")
	flag.BoolVar(&flags.Compress, "compress", false, "frame outputs with LZ4")
	flag.BoolVar(&keepGoing, "k", false, "keep going after a failed conversion")
	flag.BoolVar(&verbose, "v", false, "log debug messages")
	flag.BoolVar(&quiet, "q", false, "log errors only")
	flag.BoolVar(&printConfig, "print-config", false, "print the effective configuration and exit")
	flag.Parse()

	switch {
	case verbose:
		flags.LogLevel = "debug"
	case quiet:
		flags.LogLevel = "error"
	}

	cfg, err := config.Load(configPath)
	if err == nil {
		err = cfg.Merge(flags)
	}
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("config: %w", err))
		return 2
	}
	if printConfig {
		if err := cfg.Encode(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	level, _ := cfg.Level()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	inputs := flag.Args()
	if len(inputs) == 0 {
		flag.Usage()
		return 2
	}
	jobs := make([]convert.Job, len(inputs))
	for i, input := range inputs {
		jobs[i] = convert.Job{Input: input}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runner := convert.Runner{Config: cfg, Logger: log, OutDir: outDir, KeepGoing: keepGoing}
	if err := runner.Run(ctx, jobs); err != nil {
		log.Error("conversion failed", slog.Any("err", err))
		return 1
	}
	return 0
}
