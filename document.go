// Package data3d handles the decoding, encoding, and manipulation of data3d
// scene documents.
//
// A Document holds a tree of nodes. Each node carries a transform, a set of
// meshes, a set of materials, and child nodes. Nodes are stored in an arena
// owned by the document and are referred to by Ref indices, so that a node
// can refer to its parent without owning it.
//
// Documents are converted to and from the generic structure tree of the
// numjson package with Marshal and Unmarshal. The d3djson and d3dbuffer
// sub-packages use these to read and write the JSON and buffer file formats.
// Documents can also be created manually, most easily with the declare
// sub-package.
package data3d

import (
	"errors"
	"fmt"

	"github.com/data3d-io/data3d/numjson"
)

////////////////////////////////////////////////////////////////

// Meta holds the document metadata.
type Meta struct {
	Version   string
	Exporter  string
	Timestamp string

	// Extra holds unrecognized meta keys.
	Extra *numjson.Object
}

// Document is the root of a data3d scene. The zero value is not usable; use
// NewDocument.
type Document struct {
	Meta Meta

	nodes []Node
}

// NewDocument returns a document that contains only an empty root node.
func NewDocument() *Document {
	doc := &Document{}
	doc.nodes = append(doc.nodes, Node{parent: NoRef})
	return doc
}

// Ref refers to a node within a Document.
type Ref int32

// NoRef is the Ref of no node, such as the parent of the root.
const NoRef Ref = -1

// Len returns the number of nodes in the document.
func (doc *Document) Len() int {
	return len(doc.nodes)
}

// Root returns the root node.
func (doc *Document) Root() Ref {
	return 0
}

// Valid returns whether ref refers to a node of the document.
func (doc *Document) Valid(ref Ref) bool {
	return ref >= 0 && int(ref) < len(doc.nodes)
}

// Node returns the node referred to by ref, or nil if ref is not valid. The
// pointer is invalidated by the next call to AddNode.
func (doc *Document) Node(ref Ref) *Node {
	if !doc.Valid(ref) {
		return nil
	}
	return &doc.nodes[ref]
}

// AddNode appends a new empty node to the children of parent, and returns
// its Ref.
func (doc *Document) AddNode(parent Ref) Ref {
	if !doc.Valid(parent) {
		panic(fmt.Sprintf("data3d: invalid parent %d", parent))
	}
	ref := Ref(len(doc.nodes))
	doc.nodes = append(doc.nodes, Node{parent: parent})
	doc.nodes[parent].children = append(doc.nodes[parent].children, ref)
	return ref
}

// Parent returns the parent of ref, or NoRef for the root.
func (doc *Document) Parent(ref Ref) Ref {
	if !doc.Valid(ref) {
		return NoRef
	}
	return doc.nodes[ref].parent
}

// Children returns a copy of the children of ref, in order.
func (doc *Document) Children(ref Ref) []Ref {
	if !doc.Valid(ref) {
		return nil
	}
	children := make([]Ref, len(doc.nodes[ref].children))
	copy(children, doc.nodes[ref].children)
	return children
}

// IsAncestorOf returns whether ancestor is an ancestor of ref. A node is not
// an ancestor of itself.
func (doc *Document) IsAncestorOf(ancestor, ref Ref) bool {
	for p := doc.Parent(ref); p != NoRef; p = doc.Parent(p) {
		if p == ancestor {
			return true
		}
	}
	return false
}

// SetParent moves ref to the end of the children of parent. The root cannot
// be moved, and a node cannot be moved into its own subtree.
func (doc *Document) SetParent(ref, parent Ref) error {
	switch {
	case !doc.Valid(ref) || !doc.Valid(parent):
		return errors.New("invalid node")
	case ref == doc.Root():
		return errors.New("attempt to move the root node")
	case ref == parent || doc.IsAncestorOf(ref, parent):
		return errors.New("attempt to set parent would result in circular reference")
	}
	old := &doc.nodes[doc.nodes[ref].parent]
	for i, c := range old.children {
		if c == ref {
			old.children = append(old.children[:i], old.children[i+1:]...)
			break
		}
	}
	doc.nodes[ref].parent = parent
	doc.nodes[parent].children = append(doc.nodes[parent].children, ref)
	return nil
}

// Walk calls fn for each node in pre-order, parents before children and
// children in order. depth is 0 for the root. If fn returns false, the
// descendants of the node are skipped.
func (doc *Document) Walk(fn func(ref Ref, depth int) bool) {
	if len(doc.nodes) == 0 {
		return
	}
	doc.walk(doc.Root(), 0, fn)
}

func (doc *Document) walk(ref Ref, depth int, fn func(Ref, int) bool) {
	if !fn(ref, depth) {
		return
	}
	for _, c := range doc.nodes[ref].children {
		doc.walk(c, depth+1, fn)
	}
}

// Nodes returns the Refs of all nodes in pre-order.
func (doc *Document) Nodes() []Ref {
	refs := make([]Ref, 0, len(doc.nodes))
	doc.Walk(func(ref Ref, _ int) bool {
		refs = append(refs, ref)
		return true
	})
	return refs
}

// FindNode returns the first node in pre-order with the given ID, or NoRef.
func (doc *Document) FindNode(id string) Ref {
	found := NoRef
	doc.Walk(func(ref Ref, _ int) bool {
		if found != NoRef {
			return false
		}
		if doc.nodes[ref].ID == id {
			found = ref
		}
		return found == NoRef
	})
	return found
}

// ResolveMaterial looks up a material by name on the node ref. If inherit is
// true, the ancestors of ref are searched as well, nearest first. Returns the
// material and the node it was found on, or nil and NoRef.
func (doc *Document) ResolveMaterial(ref Ref, name string, inherit bool) (*Material, Ref) {
	for r := ref; doc.Valid(r); r = doc.nodes[r].parent {
		if m := doc.nodes[r].Material(name); m != nil {
			return m, r
		}
		if !inherit {
			break
		}
	}
	return nil, NoRef
}

// Path returns a slash-separated location of ref within the structure tree,
// used in error messages.
func (doc *Document) Path(ref Ref) string {
	if !doc.Valid(ref) {
		return ""
	}
	p := doc.nodes[ref].parent
	if p == NoRef {
		return KeyData3d
	}
	for i, c := range doc.nodes[p].children {
		if c == ref {
			return fmt.Sprintf("%s/%s/%d", doc.Path(p), KeyChildren, i)
		}
	}
	return ""
}

// UniqueIDs gives every node a non-empty ID that is unique within the
// document. Nodes are visited in pre-order, so a later duplicate is the one
// that gets a new ID. Returns the number of IDs that were changed.
func (doc *Document) UniqueIDs() int {
	ids := IDs{}
	n := 0
	doc.Walk(func(ref Ref, _ int) bool {
		node := &doc.nodes[ref]
		if id := ids.Claim(node.ID, ref); id != node.ID {
			node.ID = id
			n++
		}
		return true
	})
	return n
}

// Copy returns a deep copy of the document.
func (doc *Document) Copy() *Document {
	c := &Document{
		Meta:  doc.Meta,
		nodes: make([]Node, len(doc.nodes)),
	}
	c.Meta.Extra = doc.Meta.Extra.Clone()
	for i := range doc.nodes {
		c.nodes[i] = doc.nodes[i].copy()
	}
	return c
}
