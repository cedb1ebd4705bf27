package mesh

import (
	gmath "github.com/gouthamsk98/go-dae/pkg/math"
)

// generateTangents computes per-vertex tangents from triangle UV
// gradients. The w component stores the bitangent handedness (+1 or -1)
// so the bitangent can be reconstructed as cross(normal, tangent) * w.
// Requires normals and texture coordinates on the mesh.
func generateTangents(m *TriangleMesh) [][4]float32 {
	tan := make([]gmath.Vec3, len(m.Positions))
	bitan := make([]gmath.Vec3, len(m.Positions))

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]

		p0 := gmath.Vec3FromArray(m.Positions[i0])
		p1 := gmath.Vec3FromArray(m.Positions[i1])
		p2 := gmath.Vec3FromArray(m.Positions[i2])

		uv0 := gmath.Vec2{X: m.TexCoords[i0][0], Y: m.TexCoords[i0][1]}
		uv1 := gmath.Vec2{X: m.TexCoords[i1][0], Y: m.TexCoords[i1][1]}
		uv2 := gmath.Vec2{X: m.TexCoords[i2][0], Y: m.TexCoords[i2][1]}

		e1 := p1.Sub(p0)
		e2 := p2.Sub(p0)
		d1 := uv1.Sub(uv0)
		d2 := uv2.Sub(uv0)

		det := d1.X*d2.Y - d2.X*d1.Y
		if det == 0 {
			// Degenerate UV mapping contributes nothing.
			continue
		}
		r := 1 / det

		t := e1.Scale(d2.Y).Sub(e2.Scale(d1.Y)).Scale(r)
		bt := e2.Scale(d1.X).Sub(e1.Scale(d2.X)).Scale(r)

		for _, idx := range []uint32{i0, i1, i2} {
			tan[idx] = tan[idx].Add(t)
			bitan[idx] = bitan[idx].Add(bt)
		}
	}

	out := make([][4]float32, len(m.Positions))
	for i := range out {
		n := gmath.Vec3FromArray(m.Normals[i])

		// Gram-Schmidt orthogonalize against the normal.
		t := tan[i].Sub(n.Scale(n.Dot(tan[i]))).Normalize()
		if t == (gmath.Vec3{}) {
			t = perpendicular(n)
		}

		w := float32(1)
		if n.Cross(t).Dot(bitan[i]) < 0 {
			w = -1
		}
		out[i] = [4]float32{t.X, t.Y, t.Z, w}
	}
	return out
}

// perpendicular returns an arbitrary unit vector orthogonal to n.
func perpendicular(n gmath.Vec3) gmath.Vec3 {
	axis := gmath.Vec3{X: 1}
	if n.X > 0.9 || n.X < -0.9 {
		axis = gmath.Vec3{Y: 1}
	}
	return n.Cross(axis).Normalize()
}
