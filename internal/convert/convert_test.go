package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/data3d-io/data3d"
	"github.com/data3d-io/data3d/d3djson"
	. "github.com/data3d-io/data3d/declare"
	"github.com/data3d-io/data3d/internal/config"
	"github.com/data3d-io/data3d/internal/lz4x"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() *data3d.Document {
	return Document(
		Meta("version", "1"),
		Node("root",
			Material("m", Attr("colorDiffuse", 0.5, 0.5, 0.5)),
			Node("child",
				Mesh("tri", "m",
					Attr("positions", 0, 0, 0, 1, 0, 0, 0, 1, 0),
					Attr("normals", 0, 0, 1, 0, 0, 1, 0, 0, 1),
				),
			),
		),
	).Declare()
}

func writeJSON(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, d3djson.Encoder{Options: data3d.Options{InheritMaterials: true}}.EncodeFile(path, testDocument()))
}

func TestOutputPath(t *testing.T) {
	for _, tt := range []struct {
		input, dir, format string
		compress           bool
		want               string
	}{
		{"a/room.data3d.json", "", config.FormatBuffer, false, "a/room.data3d.buffer"},
		{"a/room.data3d.buffer", "", config.FormatJSON, false, "a/room.data3d.json"},
		{"a/room.data3d.buffer.lz4", "out", config.FormatJSON, false, "out/room.data3d.json"},
		{"room.json", "", config.FormatBuffer, true, "room.data3d.buffer.lz4"},
	} {
		assert.Equal(t, filepath.FromSlash(tt.want), OutputPath(filepath.FromSlash(tt.input), tt.dir, tt.format, tt.compress), tt.input)
	}
}

func TestSniff(t *testing.T) {
	assert.Equal(t, config.FormatBuffer, Sniff([]byte("D3DA\x01\x00\x00\x00")))
	assert.Equal(t, config.FormatJSON, Sniff([]byte("{}")))
	assert.Equal(t, config.FormatJSON, Sniff(nil))
	assert.Equal(t, config.FormatJSON, Other(config.FormatBuffer))
	assert.Equal(t, config.FormatBuffer, Other(config.FormatJSON))
}

func TestEncodeDecode(t *testing.T) {
	cfg := config.Default()
	opts := data3d.Options{InheritMaterials: true}
	for _, compress := range []bool{false, true} {
		cfg.Compress = compress
		for _, format := range []string{config.FormatJSON, config.FormatBuffer} {
			b, err := Encode(testDocument(), format, cfg, opts)
			require.NoError(t, err)
			assert.Equal(t, compress, lz4x.IsFramed(b))

			doc, got, warn, err := Decode(b, opts)
			require.NoError(t, err)
			require.NoError(t, warn)
			assert.Equal(t, format, got)
			assert.Equal(t, 2, doc.Len())
		}
	}
	_, err := Encode(testDocument(), "xml", cfg, opts)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	var jobs []Job
	for _, name := range []string{"a", "b", "c"} {
		path := filepath.Join(dir, name+ExtJSON)
		writeJSON(t, path)
		jobs = append(jobs, Job{Input: path})
	}
	cfg := config.Default()
	cfg.Workers = 2
	require.NoError(t, Runner{Config: cfg}.Run(context.Background(), jobs))

	for _, name := range []string{"a", "b", "c"} {
		b, err := os.ReadFile(filepath.Join(dir, name+ExtBuffer))
		require.NoError(t, err)
		doc, format, warn, err := Decode(b, data3d.Options{})
		require.NoError(t, err)
		require.NoError(t, warn)
		assert.Equal(t, config.FormatBuffer, format)
		assert.Equal(t, "data3d", doc.Meta.Exporter)
	}

	// Back to JSON, compressed, in an explicit output file.
	cfg.Compress = true
	out := filepath.Join(dir, "back.data3d.json.lz4")
	require.NoError(t, Runner{Config: cfg}.Run(context.Background(), []Job{{Input: filepath.Join(dir, "a"+ExtBuffer), Output: out}}))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, lz4x.IsFramed(b))
	_, format, _, err := Decode(b, data3d.Options{})
	require.NoError(t, err)
	assert.Equal(t, config.FormatJSON, format)
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good"+ExtJSON)
	writeJSON(t, good)
	bad := filepath.Join(dir, "bad"+ExtJSON)
	require.NoError(t, os.WriteFile(bad, []byte("[1, 2]"), 0o644))
	missing := filepath.Join(dir, "missing"+ExtJSON)

	jobs := []Job{{Input: bad}, {Input: missing}, {Input: good}}
	err := Runner{Config: config.Config{Workers: 1}, KeepGoing: true}.Run(context.Background(), jobs)
	require.Error(t, err)
	assert.ErrorIs(t, err, d3djson.ErrDocumentType)
	var notFound *data3d.FileNotFoundError
	assert.ErrorAs(t, err, &notFound)
	_, statErr := os.Stat(filepath.Join(dir, "good"+ExtBuffer))
	assert.NoError(t, statErr, "other jobs still run")

	err = Runner{Config: config.Config{Workers: 1}}.Run(context.Background(), jobs[:1])
	assert.ErrorIs(t, err, d3djson.ErrDocumentType)
}

func TestRunOutDir(t *testing.T) {
	dir, out := t.TempDir(), t.TempDir()
	input := filepath.Join(dir, "room"+ExtJSON)
	writeJSON(t, input)

	cfg := config.Default()
	cfg.Format = config.FormatJSON
	require.NoError(t, Runner{Config: cfg, OutDir: out}.Run(context.Background(), []Job{{Input: input}}))
	_, err := os.Stat(filepath.Join(out, "room"+ExtJSON))
	assert.NoError(t, err, "configured format wins over toggling")
}
