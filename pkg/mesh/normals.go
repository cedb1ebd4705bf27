package mesh

import (
	gmath "github.com/gouthamsk98/go-dae/pkg/math"
)

// generateNormals computes smooth per-vertex normals from face geometry.
// Face normals are accumulated per quantized position, so co-located
// vertices (split along texture seams) still share a normal. Accumulating
// the unnormalized cross product weights each face by its area.
func generateNormals(m *TriangleMesh) [][3]float32 {
	const epsilon float32 = 0.001

	quantize := func(p [3]float32) [3]int32 {
		return [3]int32{
			int32(p[0] / epsilon),
			int32(p[1] / epsilon),
			int32(p[2] / epsilon),
		}
	}

	acc := make(map[[3]int32]gmath.Vec3)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		p0 := gmath.Vec3FromArray(m.Positions[m.Indices[i]])
		p1 := gmath.Vec3FromArray(m.Positions[m.Indices[i+1]])
		p2 := gmath.Vec3FromArray(m.Positions[m.Indices[i+2]])

		n := p1.Sub(p0).Cross(p2.Sub(p0))

		for j := 0; j < 3; j++ {
			key := quantize(m.Positions[m.Indices[i+j]])
			acc[key] = acc[key].Add(n)
		}
	}

	normals := make([][3]float32, len(m.Positions))
	for i := range m.Positions {
		n := acc[quantize(m.Positions[i])].Normalize()
		if n == (gmath.Vec3{}) {
			// Isolated vertex or fully degenerate faces.
			n = gmath.Vec3{Y: 1}
		}
		normals[i] = n.Array()
	}
	return normals
}
