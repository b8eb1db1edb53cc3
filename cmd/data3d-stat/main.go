// The data3d-stat command displays stats for a data3d file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/data3d-io/data3d"
	"github.com/data3d-io/data3d/d3dbuffer"
	"github.com/data3d-io/data3d/internal/config"
	"github.com/data3d-io/data3d/internal/convert"
	"github.com/data3d-io/data3d/internal/lz4x"
	"github.com/data3d-io/data3d/material"
	"github.com/data3d-io/data3d/mesh"
)

const usage = `usage: data3d-stat [INPUT] [OUTPUT]

Reads a data3d file, in either the JSON or the buffer format, from INPUT, and
writes to OUTPUT statistics for the file. INPUT may be framed with LZ4.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.
`

type MeshLen struct {
	Path  string
	Mesh  string
	Faces int
}

func (m MeshLen) String() string {
	return fmt.Sprintf("%s/%s(%d)", m.Path, m.Mesh, m.Faces)
}

type MeshLenList []MeshLen

func (l MeshLenList) MarshalJSON() ([]byte, error) {
	list := append([]MeshLen{}, l...)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Faces > list[j].Faces
	})
	if len(list) > 20 {
		list = list[:20]
	}
	return json.Marshal(list)
}

type Bounds struct {
	Min [3]float32
	Max [3]float32
}

type Stats struct {
	// File format data.
	Format     string
	Compressed bool
	Header     *d3dbuffer.Header `json:",omitempty"`

	Version  string
	Exporter string `json:",omitempty"`

	// Number of items overall.
	NodeCount     int
	MeshCount     int
	MaterialCount int
	FaceCount     int
	VertexCount   int

	// Depth of the deepest node; the root is at depth 0.
	MaxDepth int

	// Union of the mesh bounds, in the space of each mesh.
	Bounds *Bounds `json:",omitempty"`

	// Number of meshes carrying each array.
	ArrayCount map[string]int

	// Number of materials per shading kind and per baking type.
	MaterialKinds map[string]int
	BakeTypes     map[string]int

	LargestMeshes MeshLenList `json:",omitempty"`
}

const Okay = 0
const (
	Exit = 1 << iota
	SkipMeshes
	SkipChildren
)

func walk(doc *data3d.Document, ref data3d.Ref, depth int, cb func(ref data3d.Ref, depth int, m *data3d.Mesh) int) (ok bool) {
	status := cb(ref, depth, nil)
	if status&Exit != 0 {
		return false
	}
	if status&SkipMeshes == 0 {
		node := doc.Node(ref)
		for i := range node.Meshes {
			status := cb(ref, depth, &node.Meshes[i])
			if status&Exit != 0 {
				return false
			}
			if status&SkipMeshes != 0 {
				break
			}
		}
	}
	if status&SkipChildren == 0 {
		for _, child := range doc.Children(ref) {
			if ok := walk(doc, child, depth+1, cb); !ok {
				return false
			}
		}
	}
	return true
}

func (s *Stats) Fill(doc *data3d.Document) {
	if doc == nil {
		return
	}
	s.Version = doc.Meta.Version
	s.Exporter = doc.Meta.Exporter

	s.NodeCount = 0
	s.MaterialCount = 0
	s.MaterialKinds = map[string]int{}
	s.BakeTypes = map[string]int{}
	walk(doc, doc.Root(), 0, func(ref data3d.Ref, depth int, m *data3d.Mesh) int {
		s.NodeCount++
		s.MaxDepth = max(s.MaxDepth, depth)
		for _, mat := range doc.Node(ref).Materials {
			s.MaterialCount++
			s.MaterialKinds[material.Classify(mat).String()]++
			s.BakeTypes[material.BakeOf(mat).Type.String()]++
		}
		return SkipMeshes
	})

	s.MeshCount = 0
	s.FaceCount = 0
	s.VertexCount = 0
	s.ArrayCount = map[string]int{}
	s.LargestMeshes = MeshLenList{}
	walk(doc, doc.Root(), 0, func(ref data3d.Ref, depth int, m *data3d.Mesh) int {
		if m == nil {
			return Okay
		}
		s.MeshCount++
		s.FaceCount += m.FaceCount()
		s.VertexCount += m.VertexCount()
		for _, key := range []string{data3d.KeyPositions, data3d.KeyNormals, data3d.KeyUVs, data3d.KeyUVsLightmap} {
			if m.Array(key) != nil {
				s.ArrayCount[key]++
			}
		}
		s.LargestMeshes = append(s.LargestMeshes, MeshLen{Path: doc.Path(ref), Mesh: m.Name, Faces: m.FaceCount()})
		return Okay
	})

	s.Bounds = nil
	walk(doc, doc.Root(), 0, func(ref data3d.Ref, depth int, m *data3d.Mesh) int {
		if m == nil || m.VertexCount() == 0 {
			return Okay
		}
		lo, hi := mesh.Bounds(m)
		if s.Bounds == nil {
			s.Bounds = &Bounds{Min: lo, Max: hi}
			return Okay
		}
		for i := 0; i < 3; i++ {
			s.Bounds.Min[i] = min(s.Bounds.Min[i], lo[i])
			s.Bounds.Max[i] = max(s.Bounds.Max[i], hi[i])
		}
		return Okay
	})
}

// decode reads the file b into s and returns its document.
func (s *Stats) decode(b []byte, log *slog.Logger) (*data3d.Document, error) {
	if s.Compressed = lz4x.IsFramed(b); s.Compressed {
		var err error
		if b, err = lz4x.Decompress(b); err != nil {
			return nil, err
		}
	}
	if convert.Sniff(b) == config.FormatBuffer {
		if h, err := d3dbuffer.DecodeHeader(b); err == nil {
			s.Header = &h
		}
	}
	doc, format, warn, err := convert.Decode(b, data3d.Options{Logger: log, InheritMaterials: true})
	s.Format = format
	if warn != nil {
		log.Warn("decode warning", slog.Any("warning", warn))
	}
	return doc, err
}

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
			return
		}
		input = in
		defer in.Close()
	}
	if len(args) >= 2 && args[1] != "-" {
		out, err := os.Create(args[1])
		if err != nil {
			log.Error("create output", slog.Any("err", err))
			return
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

	var stats Stats
	doc, err := stats.decode(b, log)
	if err != nil {
		log.Error("decode error", slog.Any("err", err))
	}

	stats.Fill(doc)

	je := json.NewEncoder(output)
	je.SetEscapeHTML(false)
	je.SetIndent("", "\t")
	if err := je.Encode(stats); err != nil {
		log.Error("write error", slog.Any("err", err))
	}
}
