package data3d

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/data3d-io/data3d/errors"
	"github.com/data3d-io/data3d/numjson"
)

// Unmarshal builds a document from a structure tree, which is a top-level
// object holding the meta and data3d keys.
//
// Problems that do not prevent the tree from being read are returned as
// warnings, and the affected values are replaced by defaults. A missing
// required key, or a mesh array outside of the payload, is returned as err,
// in which case no document is returned.
//
// Null values are treated as absent, and are removed from tree.
func Unmarshal(tree *numjson.Object, opts Options) (doc *Document, warn, err error) {
	numjson.DropNulls(tree)
	meta, ok := getObject(tree, KeyMeta)
	if !ok {
		return nil, nil, &MissingKeyError{Key: KeyMeta}
	}
	root, ok := getObject(tree, KeyData3d)
	if !ok {
		return nil, nil, &MissingKeyError{Key: KeyData3d}
	}

	d := &decoder{
		opts: opts,
		log:  opts.Log(),
		doc:  NewDocument(),
		ids:  IDs{},
	}
	d.meta(meta)
	if err := d.node(root, d.doc.Root(), KeyData3d); err != nil {
		return nil, d.warn.Return(), err
	}
	d.references()
	d.log.Debug("unmarshaled structure",
		slog.Int("nodes", d.doc.Len()),
		slog.Int("warnings", len(d.warn)),
	)
	return d.doc, d.warn.Return(), nil
}

func getObject(obj *numjson.Object, key string) (*numjson.Object, bool) {
	v, ok := obj.Get(key)
	if !ok {
		return nil, false
	}
	o, ok := v.(*numjson.Object)
	return o, ok
}

type decoder struct {
	opts Options
	log  *slog.Logger
	doc  *Document
	ids  IDs
	warn errors.Errors
}

func (d *decoder) warnf(err error) {
	d.log.Debug("structure warning", slog.Any("err", err))
	d.warn = d.warn.Append(err)
}

func (d *decoder) meta(obj *numjson.Object) {
	meta := &d.doc.Meta
	obj.Range(func(key string, v any) bool {
		switch key {
		case KeyVersion:
			switch v := v.(type) {
			case string:
				meta.Version = v
				return true
			default:
				if f, ok := numjson.Float(v); ok {
					meta.Version = strconv.FormatFloat(f, 'f', -1, 64)
					return true
				}
			}
		case KeyExporter:
			if s, ok := v.(string); ok {
				meta.Exporter = s
				return true
			}
		case KeyTimestamp:
			if s, ok := v.(string); ok {
				meta.Timestamp = s
				return true
			}
		}
		if meta.Extra == nil {
			meta.Extra = numjson.NewObject()
		}
		meta.Extra.Set(key, numjson.Clone(v))
		return true
	})
	if err := CheckVersion(meta.Version); err != nil {
		d.warnf(err)
	}
}

func (d *decoder) vec3(obj *numjson.Object, path, key string) (vec [3]float64, ok bool) {
	v, ok := obj.Get(key)
	if !ok {
		return vec, false
	}
	f, ok := numjson.Floats64(v)
	if !ok || len(f) != 3 {
		d.warnf(&ValueError{Path: path, Key: key, Want: "a list of 3 numbers"})
		return vec, false
	}
	return [3]float64{f[0], f[1], f[2]}, true
}

// rotation reads the rotation of obj in degrees. rotDeg is preferred over
// rotRad when both are present.
func (d *decoder) rotation(obj *numjson.Object, path string) (rot [3]float64, unit Unit, ok bool) {
	if r, ok := d.vec3(obj, path, KeyRotDeg); ok {
		return r, Degrees, true
	}
	if r, ok := d.vec3(obj, path, KeyRotRad); ok {
		return Radians.fromUnit(r), Radians, true
	}
	return rot, Degrees, false
}

// extra collects the keys of obj that are not known.
func extra(obj *numjson.Object, known func(key string) bool) *numjson.Object {
	var x *numjson.Object
	obj.Range(func(key string, v any) bool {
		if known(key) {
			return true
		}
		if x == nil {
			x = numjson.NewObject()
		}
		x.Set(key, numjson.Clone(v))
		return true
	})
	return x
}

func (d *decoder) node(obj *numjson.Object, ref Ref, path string) error {
	node := d.doc.Node(ref)

	switch v, ok := obj.Get(KeyNodeID); {
	case !ok:
		node.ID = d.ids.Claim("", ref)
		d.log.Debug("generated node ID", slog.String("path", path), slog.String("id", node.ID))
	default:
		id, ok := v.(string)
		if !ok || id == "" {
			d.warnf(&ValueError{Path: path, Key: KeyNodeID, Want: "a non-empty string"})
			node.ID = d.ids.Claim("", ref)
			break
		}
		if _, dup := d.ids[id]; dup {
			d.warnf(&DuplicateIDError{Path: path, ID: id})
			node.ID = d.ids.Claim("", ref)
			break
		}
		d.ids[id] = ref
		node.ID = id
	}

	node.Position, _ = d.vec3(obj, path, KeyPosition)
	node.Rotation, node.RotationUnit, _ = d.rotation(obj, path)
	hasRotDeg := obj.Has(KeyRotDeg)

	if v, ok := obj.Get(KeyMaterials); ok {
		mats, ok := v.(*numjson.Object)
		if !ok {
			d.warnf(&ValueError{Path: path, Key: KeyMaterials, Want: "an object"})
		}
		mats.Range(func(name string, v any) bool {
			attrs, ok := v.(*numjson.Object)
			if !ok {
				d.warnf(&ValueError{Path: path + "/" + KeyMaterials, Key: name, Want: "an object"})
				return true
			}
			node.SetMaterial(Material{Name: name, Attributes: attrs.Clone()})
			return true
		})
	}

	if v, ok := obj.Get(KeyMeshes); ok {
		meshes, ok := v.(*numjson.Object)
		if !ok {
			d.warnf(&ValueError{Path: path, Key: KeyMeshes, Want: "an object"})
		}
		var err error
		meshes.Range(func(name string, v any) bool {
			mpath := path + "/" + KeyMeshes + "/" + name
			mobj, ok := v.(*numjson.Object)
			if !ok {
				d.warnf(&ValueError{Path: path + "/" + KeyMeshes, Key: name, Want: "an object"})
				return true
			}
			var m Mesh
			if m, err = d.mesh(mobj, mpath, name); err != nil {
				return false
			}
			node.SetMesh(m)
			return true
		})
		if err != nil {
			return err
		}
	}

	for _, list := range [...]struct {
		key, kind string
		has       func(string) bool
	}{
		{KeyMeshKeys, "mesh", func(name string) bool { return node.Mesh(name) != nil }},
		{KeyMaterialKeys, "material", func(name string) bool { return node.Material(name) != nil }},
	} {
		v, ok := obj.Get(list.key)
		if !ok {
			continue
		}
		node.ListKeys = true
		names, ok := numjson.Strings(v)
		if !ok {
			d.warnf(&ValueError{Path: path, Key: list.key, Want: "a list of strings"})
			continue
		}
		for _, name := range names {
			if !list.has(name) {
				d.warnf(&ReferenceError{Path: path, Kind: list.kind, Name: name})
			}
		}
	}

	node.Extra = extra(obj, func(key string) bool {
		switch key {
		case KeyNodeID, KeyPosition, KeyRotDeg,
			KeyMeshes, KeyMeshKeys, KeyMaterials, KeyMaterialKeys, KeyChildren:
			return true
		case KeyRotRad:
			return !hasRotDeg
		}
		return false
	})

	v, ok := obj.Get(KeyChildren)
	if !ok {
		return nil
	}
	children, ok := v.([]any)
	if !ok {
		d.warnf(&ValueError{Path: path, Key: KeyChildren, Want: "a list"})
		return nil
	}
	// node is invalidated by AddNode from here on.
	for i, c := range children {
		cpath := path + "/" + KeyChildren + "/" + strconv.Itoa(i)
		cobj, ok := c.(*numjson.Object)
		if !ok {
			d.warnf(&ValueError{Path: cpath, Key: KeyChildren, Want: "an object"})
			continue
		}
		if err := d.node(cobj, d.doc.AddNode(ref), cpath); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) mesh(obj *numjson.Object, path, name string) (m Mesh, err error) {
	m.Name = name
	if v, ok := obj.Get(KeyMaterial); ok {
		if s, ok := v.(string); ok {
			m.Material = s
		} else {
			d.warnf(&ValueError{Path: path, Key: KeyMaterial, Want: "a string"})
		}
	}

	for _, key := range MeshArrayKeys {
		a, err := d.array(obj, path, key)
		if err != nil {
			return m, err
		}
		m.SetArray(key, a)
	}

	var hasPos, hasRot bool
	m.Position, hasPos = d.vec3(obj, path, KeyPosition)
	m.Rotation, m.RotationUnit, hasRot = d.rotation(obj, path)
	m.HasTransform = hasPos || hasRot
	hasRotDeg := obj.Has(KeyRotDeg)

	m.Extra = extra(obj, func(key string) bool {
		switch key {
		case KeyMaterial, KeyPosition, KeyRotDeg:
			return true
		case KeyRotRad:
			return !hasRotDeg
		}
		for _, k := range MeshArrayKeys {
			if key == k {
				return true
			}
			if d.opts.Payload != nil && (key == OffsetKey(k) || key == LengthKey(k)) {
				return true
			}
		}
		return false
	})

	if err := m.Validate(); err != nil {
		d.warnf(&MeshError{Path: path, Mesh: name, Cause: err})
	}
	return m, nil
}

// array reads a mesh array, either from the payload or inline. Positions are
// required. Other arrays that are malformed are dropped with a warning.
func (d *decoder) array(obj *numjson.Object, path, key string) ([]float32, error) {
	if d.opts.Payload != nil {
		ov, hasOff := obj.Get(OffsetKey(key))
		lv, hasLen := obj.Get(LengthKey(key))
		if hasOff || hasLen {
			off, okOff := numjson.Int(ov)
			n, okLen := numjson.Int(lv)
			if !hasOff || !okOff {
				return nil, &MissingKeyError{Path: path, Key: OffsetKey(key)}
			}
			if !hasLen || !okLen {
				return nil, &MissingKeyError{Path: path, Key: LengthKey(key)}
			}
			a, ok := d.opts.Payload.Slice(off, n)
			if !ok {
				return nil, &PayloadRangeError{Path: path, Key: key, Offset: off, Length: n, Size: d.opts.Payload.Len()}
			}
			return a, nil
		}
	}

	v, ok := obj.Get(key)
	if ok {
		if a, ok := numjson.Floats32(v); ok {
			if _, same := v.([]float32); same {
				a = cloneFloats(a)
			}
			return a, nil
		}
	}
	if key == KeyPositions {
		if d.opts.Payload != nil && !ok {
			key = KeyPositionsOffset
		}
		return nil, &MissingKeyError{Path: path, Key: key}
	}
	if ok {
		d.warnf(&ValueError{Path: path, Key: key, Want: "a list of numbers"})
	}
	return nil, nil
}

// references reports meshes that refer to materials that do not exist.
func (d *decoder) references() {
	d.doc.Walk(func(ref Ref, _ int) bool {
		node := d.doc.Node(ref)
		for _, m := range node.Meshes {
			if m.Material == "" {
				continue
			}
			if mat, _ := d.doc.ResolveMaterial(ref, m.Material, d.opts.InheritMaterials); mat == nil {
				d.warnf(&ReferenceError{
					Path: d.doc.Path(ref),
					Kind: "material",
					Name: m.Material,
					Mesh: m.Name,
				})
			}
		}
		return true
	})
}

////////////////////////////////////////////////////////////////

// Marshal builds a new structure tree from doc. doc is not modified, and the
// tree shares no memory with it.
//
// If opts.Payload is set, mesh arrays are appended to it and replaced by
// offset and length keys. Meshes that refer to a missing material, or that
// have inconsistent arrays, cause an error, in which case nothing is appended
// to the payload.
func Marshal(doc *Document, opts Options) (*numjson.Object, error) {
	if doc == nil || doc.Len() == 0 {
		return nil, fmt.Errorf("empty document")
	}
	e := &encoder{doc: doc, opts: opts, log: opts.Log()}
	if err := e.check(); err != nil {
		return nil, err
	}
	tree := numjson.NewObject(
		KeyMeta, e.meta(),
		KeyData3d, e.node(doc.Root()),
	)
	if opts.Payload != nil {
		e.log.Debug("marshaled structure",
			slog.Int("nodes", doc.Len()),
			slog.Int("payload", opts.Payload.Len()),
		)
	}
	return tree, nil
}

type encoder struct {
	doc  *Document
	opts Options
	log  *slog.Logger
}

func (e *encoder) check() (err error) {
	e.doc.Walk(func(ref Ref, _ int) bool {
		if err != nil {
			return false
		}
		node := e.doc.Node(ref)
		for i := range node.Meshes {
			m := &node.Meshes[i]
			if verr := m.Validate(); verr != nil {
				err = &MeshError{Path: e.doc.Path(ref), Mesh: m.Name, Cause: verr}
				return false
			}
			if m.Material == "" {
				continue
			}
			if mat, _ := e.doc.ResolveMaterial(ref, m.Material, e.opts.InheritMaterials); mat == nil {
				err = &ReferenceError{Path: e.doc.Path(ref), Kind: "material", Name: m.Material, Mesh: m.Name}
				return false
			}
		}
		return true
	})
	return err
}

func vec3(v [3]float64) []float64 {
	return []float64{v[0], v[1], v[2]}
}

func setExtra(obj, extra *numjson.Object) {
	extra.Range(func(key string, v any) bool {
		if !obj.Has(key) {
			obj.Set(key, numjson.Clone(v))
		}
		return true
	})
}

func (e *encoder) meta() *numjson.Object {
	meta := e.doc.Meta
	obj := numjson.NewObject()
	if meta.Version != "" {
		obj.Set(KeyVersion, meta.Version)
	}
	if meta.Exporter != "" {
		obj.Set(KeyExporter, meta.Exporter)
	}
	if meta.Timestamp != "" {
		obj.Set(KeyTimestamp, meta.Timestamp)
	}
	setExtra(obj, meta.Extra)
	return obj
}

func (e *encoder) node(ref Ref) *numjson.Object {
	node := e.doc.Node(ref)
	obj := numjson.NewObject()
	if node.ID != "" {
		obj.Set(KeyNodeID, node.ID)
	}
	obj.Set(KeyPosition, vec3(node.Position))
	obj.Set(node.RotationUnit.Key(), vec3(node.RotationUnit.toUnit(node.Rotation)))

	if len(node.Meshes) > 0 {
		meshes := numjson.NewObject()
		for i := range node.Meshes {
			meshes.Set(node.Meshes[i].Name, e.mesh(&node.Meshes[i]))
		}
		obj.Set(KeyMeshes, meshes)
	}
	if node.ListKeys {
		obj.Set(KeyMeshKeys, node.MeshNames())
	}
	if len(node.Materials) > 0 {
		mats := numjson.NewObject()
		for _, m := range node.Materials {
			attrs := m.Attributes.Clone()
			if attrs == nil {
				attrs = numjson.NewObject()
			}
			mats.Set(m.Name, attrs)
		}
		obj.Set(KeyMaterials, mats)
	}
	if node.ListKeys {
		obj.Set(KeyMaterialKeys, node.MaterialNames())
	}
	if len(node.children) > 0 {
		children := make([]any, len(node.children))
		for i, c := range node.children {
			children[i] = e.node(c)
		}
		obj.Set(KeyChildren, children)
	}
	setExtra(obj, node.Extra)
	return obj
}

func (e *encoder) mesh(m *Mesh) *numjson.Object {
	obj := numjson.NewObject()
	if m.Material != "" {
		obj.Set(KeyMaterial, m.Material)
	}
	for _, key := range MeshArrayKeys {
		a := m.Array(key)
		if a == nil && (key == KeyUVs || key == KeyUVsLightmap) {
			continue
		}
		if e.opts.Payload != nil {
			off, n := e.opts.Payload.Append(a)
			obj.Set(OffsetKey(key), off)
			obj.Set(LengthKey(key), n)
			continue
		}
		obj.Set(key, cloneFloats(a))
	}
	if m.HasTransform || m.Position != [3]float64{} || m.Rotation != [3]float64{} {
		obj.Set(KeyPosition, vec3(m.Position))
		obj.Set(m.RotationUnit.Key(), vec3(m.RotationUnit.toUnit(m.Rotation)))
	}
	setExtra(obj, m.Extra)
	return obj
}
