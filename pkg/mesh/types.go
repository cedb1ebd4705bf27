// Package mesh converts parsed Collada documents into renderer-ready
// triangle meshes with a single shared index sequence.
package mesh

// TriangleMesh is a flat triangle-list mesh. All attribute arrays are
// addressed by the same index sequence; Normals, TexCoords, and Tangents
// are either empty or parallel to Positions.
type TriangleMesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	TexCoords [][2]float32
	Tangents  [][4]float32 // xyz tangent, w handedness
	Indices   []uint32
}

// VertexCount returns the number of output vertices.
func (m *TriangleMesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *TriangleMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// HasNormals reports whether the mesh carries per-vertex normals.
func (m *TriangleMesh) HasNormals() bool {
	return len(m.Normals) > 0
}

// HasTexCoords reports whether the mesh carries texture coordinates.
func (m *TriangleMesh) HasTexCoords() bool {
	return len(m.TexCoords) > 0
}

// Options contains options for mesh conversion.
type Options struct {
	// TriangulatePolygons fan-triangulates polylist and polygons groups.
	// When false, those groups are skipped and only <triangles> convert.
	TriangulatePolygons bool
	// FlipWinding reverses triangle winding order.
	FlipWinding bool
	// GenerateNormals computes smooth per-vertex normals when the
	// document supplies none.
	GenerateNormals bool
	// GenerateTangents computes per-vertex tangents when normals and
	// texture coordinates are both present on the output.
	GenerateTangents bool
}

// DefaultOptions returns the default conversion options.
func DefaultOptions() Options {
	return Options{TriangulatePolygons: true}
}
