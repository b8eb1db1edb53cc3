// Package convert converts data3d files between the JSON and buffer formats.
// It holds the logic of the command line tools.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/data3d-io/data3d"
	"github.com/data3d-io/data3d/d3dbuffer"
	"github.com/data3d-io/data3d/d3djson"
	"github.com/data3d-io/data3d/errors"
	"github.com/data3d-io/data3d/internal/config"
	"github.com/data3d-io/data3d/internal/fsutil"
	"github.com/data3d-io/data3d/internal/lz4x"
	"golang.org/x/sync/errgroup"
)

// File extensions.
const (
	ExtJSON   = ".data3d.json"
	ExtBuffer = ".data3d.buffer"
	ExtLZ4    = ".lz4"
)

// Sniff returns the format of the file b: buffer when it begins with the
// buffer magic number, and json otherwise. Frames are not looked into.
func Sniff(b []byte) string {
	if len(b) >= 4 && bytes.Equal(b[:4], []byte("D3DA")) {
		return config.FormatBuffer
	}
	return config.FormatJSON
}

// Decode decodes the file b in either format, decompressing it first when it
// is an LZ4 frame. It returns the detected format.
func Decode(b []byte, opts data3d.Options) (doc *data3d.Document, format string, warn, err error) {
	if lz4x.IsFramed(b) {
		if b, err = lz4x.Decompress(b); err != nil {
			return nil, "", nil, err
		}
	}
	format = Sniff(b)
	switch format {
	case config.FormatBuffer:
		doc, warn, err = d3dbuffer.Decoder{Options: opts}.Unmarshal(b)
	default:
		doc, warn, err = d3djson.Decoder{Options: opts}.Unmarshal(b)
	}
	return doc, format, warn, err
}

// Encode encodes doc in the given format. JSON is indented by cfg.Indent
// spaces; buffer structures are compact. The result is framed when
// cfg.Compress is set.
func Encode(doc *data3d.Document, format string, cfg config.Config, opts data3d.Options) (b []byte, err error) {
	switch format {
	case config.FormatBuffer:
		b, err = d3dbuffer.Encoder{Options: opts}.Marshal(doc)
	case config.FormatJSON:
		b, err = d3djson.Encoder{Options: opts, Indent: cfg.Indent}.Marshal(doc)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err != nil || !cfg.Compress {
		return b, err
	}
	return lz4x.Compress(b)
}

// Other returns the format a file of the given format converts to.
func Other(format string) string {
	if format == config.FormatBuffer {
		return config.FormatJSON
	}
	return config.FormatBuffer
}

// Ext returns the file extension of a format.
func Ext(format string, compress bool) string {
	ext := ExtJSON
	if format == config.FormatBuffer {
		ext = ExtBuffer
	}
	if compress {
		ext += ExtLZ4
	}
	return ext
}

// OutputPath returns the path of the converted input in dir, or next to the
// input when dir is empty. The data3d and compression extensions of input
// are replaced with those of format.
func OutputPath(input, dir, format string, compress bool) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, ExtLZ4)
	switch {
	case strings.HasSuffix(base, ExtJSON):
		base = strings.TrimSuffix(base, ExtJSON)
	case strings.HasSuffix(base, ExtBuffer):
		base = strings.TrimSuffix(base, ExtBuffer)
	default:
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+Ext(format, compress))
}

// Job is the conversion of one file.
type Job struct {
	Input string
	// Output is the path of the converted file. Empty derives it from Input
	// with OutputPath.
	Output string
	// Format is the output format. Empty uses Config.Format, or else the
	// format the input is not in.
	Format string
}

// Runner converts files concurrently.
type Runner struct {
	Config config.Config
	Logger *slog.Logger
	// OutDir is the directory of outputs of jobs without an output path.
	// Empty writes each output next to its input.
	OutDir string
	// KeepGoing continues with the remaining jobs after a failure.
	// Otherwise the first failure cancels the jobs not yet started.
	KeepGoing bool
}

// Run converts the files of jobs, running at most Config.WorkerCount jobs at
// once. Warnings are logged. It returns the failures of the jobs.
func (r Runner) Run(ctx context.Context, jobs []Job) error {
	log := r.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Config.WorkerCount())

	var mu sync.Mutex
	var failed errors.Errors
	for _, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := r.convert(log.With(slog.String("input", job.Input)), job)
			if err == nil {
				return nil
			}
			err = fmt.Errorf("%s: %w", job.Input, err)
			if !r.KeepGoing {
				return err
			}
			log.Error("conversion failed", slog.Any("err", err))
			mu.Lock()
			failed = failed.Append(err)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return failed.Return()
}

func (r Runner) convert(log *slog.Logger, job Job) error {
	opts := data3d.Options{Logger: log, InheritMaterials: true}
	b, err := fsutil.ReadFile(job.Input)
	if err != nil {
		return err
	}
	doc, format, warn, err := Decode(b, opts)
	if warn != nil {
		logWarnings(log, warn)
	}
	if err != nil {
		return err
	}
	if doc.Meta.Exporter == "" {
		doc.Meta.Exporter = r.Config.Exporter
	}
	out := job.Format
	if out == "" {
		out = r.Config.Format
	}
	if out == "" {
		out = Other(format)
	}
	b, err = Encode(doc, out, r.Config, opts)
	if err != nil {
		return err
	}
	output := job.Output
	if output == "" {
		output = OutputPath(job.Input, r.OutDir, out, r.Config.Compress)
	}
	if err := fsutil.WriteFile(output, b, 0o644); err != nil {
		return err
	}
	log.Info("converted",
		slog.String("output", output),
		slog.String("format", out),
		slog.Int("nodes", doc.Len()),
		slog.Int("bytes", len(b)),
	)
	return nil
}

func logWarnings(log *slog.Logger, warn error) {
	if errs, ok := warn.(errors.Errors); ok {
		for _, w := range errs {
			log.Warn("decode warning", slog.Any("warning", w))
		}
		return
	}
	log.Warn("decode warning", slog.Any("warning", warn))
}
