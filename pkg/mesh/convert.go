package mesh

import (
	"github.com/gouthamsk98/go-dae/pkg/formats"
)

// vertexKey identifies a unique attribute-index combination. Source
// pointers are part of the key because primitive groups may index into
// different sources within the same mesh.
type vertexKey struct {
	posSrc  *formats.Source
	normSrc *formats.Source
	uvSrc   *formats.Source
	pos     int32
	norm    int32
	uv      int32
}

// group is a validated primitive group ready for emission.
type group struct {
	prim    *formats.Primitive
	stride  int
	posOff  int
	normOff int
	uvOff   int
	posSrc  *formats.Source
	normSrc *formats.Source
	uvSrc   *formats.Source
	tris    [][3]int // tuple offsets for each triangle corner
}

// Convert converts the mesh at meshIndex in doc into a triangle mesh.
// It returns nil when the index is out of range or the mesh contains no
// convertible triangle geometry. Primitive groups with inconsistent
// index data are skipped; the remaining groups still convert.
//
// Collada indexes positions, normals, and texture coordinates
// independently per vertex. The converter collapses those into a single
// shared index sequence, emitting one output vertex per unique
// attribute-index combination. Normals and texture coordinates appear in
// the output only when every converted group supplies them, so attribute
// arrays are always either empty or fully parallel to the positions.
func Convert(doc *formats.Document, meshIndex int, opts Options) *TriangleMesh {
	if doc == nil || meshIndex < 0 || meshIndex >= len(doc.Geometries) {
		return nil
	}
	m := &doc.Geometries[meshIndex].Mesh

	var groups []group
	for i := range m.Primitives {
		if g, ok := prepareGroup(m, &m.Primitives[i], opts); ok {
			groups = append(groups, g)
		}
	}
	if len(groups) == 0 {
		return nil
	}

	useNormals, useUVs := true, true
	for i := range groups {
		useNormals = useNormals && groups[i].normSrc != nil
		useUVs = useUVs && groups[i].uvSrc != nil
	}

	b := builder{lookup: make(map[vertexKey]uint32)}
	for i := range groups {
		b.addGroup(&groups[i], useNormals, useUVs, opts.FlipWinding)
	}
	if len(b.indices) == 0 {
		return nil
	}

	out := &TriangleMesh{
		Positions: b.positions,
		Indices:   b.indices,
	}
	if useNormals {
		out.Normals = b.normals
	}
	if useUVs {
		out.TexCoords = b.uvs
	}

	if opts.GenerateNormals && !out.HasNormals() {
		out.Normals = generateNormals(out)
	}
	if opts.GenerateTangents && out.HasNormals() && out.HasTexCoords() {
		out.Tangents = generateTangents(out)
	}

	return out
}

// prepareGroup validates a primitive group and computes its triangle
// corner offsets. Returns false for groups that cannot be converted:
// non-triangulatable topology, missing or undersized sources, index
// streams inconsistent with the input stride or vertex counts, and
// out-of-bounds attribute indices.
func prepareGroup(m *formats.Mesh, prim *formats.Primitive, opts Options) (group, bool) {
	g := group{prim: prim, normOff: -1, uvOff: -1}

	switch prim.Kind {
	case formats.PrimitiveTriangles:
	case formats.PrimitivePolylist, formats.PrimitivePolygons:
		if !opts.TriangulatePolygons {
			return g, false
		}
	default:
		// Lines and line strips carry no triangulatable surface.
		return g, false
	}

	g.stride = prim.IndexStride()
	if g.stride == 0 || len(prim.Indices) == 0 || len(prim.Indices)%g.stride != 0 {
		return g, false
	}

	vin, ok := prim.Input(formats.SemanticVertex)
	if !ok {
		vin, ok = prim.Input(formats.SemanticPosition)
	}
	if !ok {
		return g, false
	}
	g.posOff = vin.Offset
	g.posSrc = m.ResolveInput(vin)
	if g.posSrc == nil || g.posSrc.Stride < 3 || g.posOff < 0 || g.posOff >= g.stride {
		return g, false
	}

	if nin, ok := prim.Input(formats.SemanticNormal); ok && nin.Offset >= 0 && nin.Offset < g.stride {
		if src := m.ResolveInput(nin); src != nil && src.Stride >= 3 {
			g.normOff = nin.Offset
			g.normSrc = src
		}
	}
	// Only the first texcoord set is carried over.
	if tin, ok := prim.Input(formats.SemanticTexCoord); ok && tin.Offset >= 0 && tin.Offset < g.stride {
		if src := m.ResolveInput(tin); src != nil && src.Stride >= 2 {
			g.uvOff = tin.Offset
			g.uvSrc = src
		}
	}

	tupleCount := len(prim.Indices) / g.stride

	switch prim.Kind {
	case formats.PrimitiveTriangles:
		if tupleCount%3 != 0 {
			return g, false
		}
		for t := 0; t < tupleCount; t += 3 {
			g.tris = append(g.tris, [3]int{t, t + 1, t + 2})
		}
	default:
		// Fan triangulation from each polygon's first vertex. Polygons
		// with fewer than three vertices are dropped individually.
		sum := 0
		for _, vc := range prim.VCounts {
			if vc < 0 {
				return g, false
			}
			sum += vc
		}
		if sum != tupleCount {
			return g, false
		}
		base := 0
		for _, vc := range prim.VCounts {
			for k := 1; k+1 < vc; k++ {
				g.tris = append(g.tris, [3]int{base, base + k, base + k + 1})
			}
			base += vc
		}
	}
	if len(g.tris) == 0 {
		return g, false
	}

	for t := 0; t < tupleCount; t++ {
		off := t * g.stride
		if !indexOK(g.posSrc, prim.Indices[off+g.posOff]) {
			return g, false
		}
		if g.normSrc != nil && !indexOK(g.normSrc, prim.Indices[off+g.normOff]) {
			return g, false
		}
		if g.uvSrc != nil && !indexOK(g.uvSrc, prim.Indices[off+g.uvOff]) {
			return g, false
		}
	}

	return g, true
}

func indexOK(src *formats.Source, idx int) bool {
	return idx >= 0 && idx < src.ElementCount()
}

// builder accumulates output arrays, deduplicating vertices by
// attribute-index combination across all groups of the mesh.
type builder struct {
	lookup    map[vertexKey]uint32
	positions [][3]float32
	normals   [][3]float32
	uvs       [][2]float32
	indices   []uint32
}

func (b *builder) addGroup(g *group, useNormals, useUVs, flip bool) {
	for _, tri := range g.tris {
		i0 := b.vertex(g, tri[0], useNormals, useUVs)
		i1 := b.vertex(g, tri[1], useNormals, useUVs)
		i2 := b.vertex(g, tri[2], useNormals, useUVs)
		if flip {
			b.indices = append(b.indices, i0, i2, i1)
		} else {
			b.indices = append(b.indices, i0, i1, i2)
		}
	}
}

func (b *builder) vertex(g *group, tuple int, useNormals, useUVs bool) uint32 {
	off := tuple * g.stride
	key := vertexKey{
		posSrc: g.posSrc,
		pos:    int32(g.prim.Indices[off+g.posOff]),
		norm:   -1,
		uv:     -1,
	}
	if useNormals {
		key.normSrc = g.normSrc
		key.norm = int32(g.prim.Indices[off+g.normOff])
	}
	if useUVs {
		key.uvSrc = g.uvSrc
		key.uv = int32(g.prim.Indices[off+g.uvOff])
	}

	if idx, ok := b.lookup[key]; ok {
		return idx
	}

	idx := uint32(len(b.positions))
	b.positions = append(b.positions, read3(g.posSrc, int(key.pos)))
	if useNormals {
		b.normals = append(b.normals, read3(g.normSrc, int(key.norm)))
	}
	if useUVs {
		b.uvs = append(b.uvs, read2(g.uvSrc, int(key.uv)))
	}
	b.lookup[key] = idx
	return idx
}

func read3(src *formats.Source, i int) [3]float32 {
	off := i * src.Stride
	return [3]float32{src.Data[off], src.Data[off+1], src.Data[off+2]}
}

func read2(src *formats.Source, i int) [2]float32 {
	off := i * src.Stride
	return [2]float32{src.Data[off], src.Data[off+1]}
}
