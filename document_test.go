package data3d

import (
	"strings"
	"testing"
)

func buildTree() (doc *Document, a, b, c Ref) {
	doc = NewDocument()
	a = doc.AddNode(doc.Root())
	b = doc.AddNode(doc.Root())
	c = doc.AddNode(a)
	doc.Node(doc.Root()).ID = "ROOT"
	doc.Node(a).ID = "A"
	doc.Node(b).ID = "B"
	doc.Node(c).ID = "C"
	return doc, a, b, c
}

func TestDocumentWalk(t *testing.T) {
	doc, _, _, _ := buildTree()
	var got []string
	doc.Walk(func(ref Ref, depth int) bool {
		got = append(got, strings.Repeat("-", depth)+doc.Node(ref).ID)
		return true
	})
	if s, want := strings.Join(got, " "), "ROOT -A --C -B"; s != want {
		t.Errorf("unexpected walk order (expected %q, got %q)", want, s)
	}

	got = got[:0]
	doc.Walk(func(ref Ref, depth int) bool {
		got = append(got, doc.Node(ref).ID)
		return doc.Node(ref).ID != "A"
	})
	if s, want := strings.Join(got, " "), "ROOT A B"; s != want {
		t.Errorf("unexpected walk with skipped subtree (expected %q, got %q)", want, s)
	}

	if n := len(doc.Nodes()); n != 4 {
		t.Errorf("unexpected number of nodes (expected 4, got %d)", n)
	}
}

func TestDocumentParent(t *testing.T) {
	doc, a, b, c := buildTree()
	if p := doc.Parent(c); p != a {
		t.Errorf("unexpected parent (expected %d, got %d)", a, p)
	}
	if p := doc.Parent(doc.Root()); p != NoRef {
		t.Errorf("root has parent %d", p)
	}
	if !doc.IsAncestorOf(doc.Root(), c) || doc.IsAncestorOf(b, c) || doc.IsAncestorOf(c, c) {
		t.Errorf("unexpected ancestry")
	}

	if err := doc.SetParent(a, c); err == nil {
		t.Errorf("expected error when moving node into its own subtree")
	}
	if err := doc.SetParent(doc.Root(), a); err == nil {
		t.Errorf("expected error when moving root")
	}
	if err := doc.SetParent(c, b); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if n := len(doc.Children(a)); n != 0 {
		t.Errorf("old parent still has %d children", n)
	}
	if ch := doc.Children(b); len(ch) != 1 || ch[0] != c {
		t.Errorf("unexpected children of new parent: %v", ch)
	}
	if path := doc.Path(c); path != "data3d/children/1/children/0" {
		t.Errorf("unexpected path %q", path)
	}
}

func TestDocumentFindNode(t *testing.T) {
	doc, _, _, c := buildTree()
	if r := doc.FindNode("C"); r != c {
		t.Errorf("unexpected node (expected %d, got %d)", c, r)
	}
	if r := doc.FindNode("missing"); r != NoRef {
		t.Errorf("expected NoRef, got %d", r)
	}
}

func TestDocumentCopy(t *testing.T) {
	doc, a, _, _ := buildTree()
	node := doc.Node(a)
	node.SetMesh(Mesh{Name: "m", Positions: make([]float32, 9), Normals: make([]float32, 9)})
	node.SetMaterial(NewMaterial("mat", KeyOpacity, 0.5))

	cp := doc.Copy()
	node.Meshes[0].Positions[0] = 1
	node.Materials[0].Set(KeyOpacity, 1.0)
	doc.AddNode(a)

	cnode := cp.Node(a)
	if cnode.Meshes[0].Positions[0] != 0 {
		t.Errorf("mesh array shared between copies")
	}
	if f, _ := cnode.Materials[0].Float(KeyOpacity); f != 0.5 {
		t.Errorf("material attributes shared between copies")
	}
	if n := len(cp.Children(a)); n != 1 {
		t.Errorf("children shared between copies (expected 1, got %d)", n)
	}
}

func TestNodeMeshes(t *testing.T) {
	var node Node
	node.SetMesh(Mesh{Name: "b"})
	node.SetMesh(Mesh{Name: "a"})
	node.SetMesh(Mesh{Name: "b", Material: "x"})
	if names := strings.Join(node.MeshNames(), ","); names != "b,a" {
		t.Errorf("unexpected mesh order %q", names)
	}
	if m := node.Mesh("b"); m == nil || m.Material != "x" {
		t.Errorf("mesh was not replaced")
	}
	if node.Mesh("c") != nil {
		t.Errorf("unexpected mesh")
	}
}

func TestResolveMaterial(t *testing.T) {
	doc, a, _, c := buildTree()
	doc.Node(doc.Root()).SetMaterial(NewMaterial("default"))
	doc.Node(a).SetMaterial(NewMaterial("wood"))

	if m, r := doc.ResolveMaterial(c, "wood", true); m == nil || r != a {
		t.Errorf("expected inherited material from parent")
	}
	if m, _ := doc.ResolveMaterial(c, "default", false); m != nil {
		t.Errorf("unexpected inherited material")
	}
	if m, r := doc.ResolveMaterial(c, "default", true); m == nil || r != doc.Root() {
		t.Errorf("expected inherited material from root")
	}
}

func TestGenerateNodeID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateNodeID()
		if len(id) != NodeIDLength {
			t.Fatalf("unexpected length (expected %d, got %d)", NodeIDLength, len(id))
		}
		for _, r := range id {
			if !strings.ContainsRune(idAlphabet, r) {
				t.Fatalf("unexpected character %q in %q", r, id)
			}
		}
		seen[id] = true
	}
	if len(seen) < 100 {
		t.Errorf("generated duplicate IDs")
	}
}

func TestUniqueIDs(t *testing.T) {
	doc, a, b, _ := buildTree()
	doc.Node(b).ID = "A"
	doc.Node(doc.Root()).ID = ""
	if n := doc.UniqueIDs(); n != 2 {
		t.Errorf("unexpected number of changed IDs (expected 2, got %d)", n)
	}
	if doc.Node(a).ID != "A" {
		t.Errorf("first node with an ID should keep it")
	}
	if id := doc.Node(b).ID; id == "A" || len(id) != NodeIDLength {
		t.Errorf("duplicate ID was not replaced: %q", id)
	}
}

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name string
		mesh Mesh
		ok   bool
	}{
		{"empty", Mesh{}, true},
		{"triangle", Mesh{Positions: make([]float32, 9), Normals: make([]float32, 9)}, true},
		{"uvs", Mesh{Positions: make([]float32, 9), Normals: make([]float32, 9), UVs: make([]float32, 6), UVsLightmap: make([]float32, 6)}, true},
		{"partial triangle", Mesh{Positions: make([]float32, 6), Normals: make([]float32, 6)}, false},
		{"normals", Mesh{Positions: make([]float32, 9), Normals: make([]float32, 3)}, false},
		{"uvs length", Mesh{Positions: make([]float32, 9), Normals: make([]float32, 9), UVs: make([]float32, 4)}, false},
		{"lightmap length", Mesh{Positions: make([]float32, 9), Normals: make([]float32, 9), UVsLightmap: make([]float32, 9)}, false},
	}
	for _, test := range tests {
		if err := test.mesh.Validate(); (err == nil) != test.ok {
			t.Errorf("%s: unexpected result %v", test.name, err)
		}
	}
}

func TestCheckVersion(t *testing.T) {
	for _, v := range []string{"", "1", "1.0", "1.2.3"} {
		if err := CheckVersion(v); err != nil {
			t.Errorf("version %q: unexpected error %s", v, err)
		}
	}
	for _, v := range []string{"0.9", "2", "abc"} {
		if err := CheckVersion(v); err == nil {
			t.Errorf("version %q: expected error", v)
		}
	}
}
