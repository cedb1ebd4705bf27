package mesh

// WireframeIndices returns a line-list index sequence covering every
// unique triangle edge exactly once, in first-seen order. The indices
// address the same attribute arrays as the triangle indices.
func (m *TriangleMesh) WireframeIndices() []uint32 {
	type edge struct {
		a, b uint32
	}

	seen := make(map[edge]struct{})
	var out []uint32

	for i := 0; i+2 < len(m.Indices); i += 3 {
		tri := [3]uint32{m.Indices[i], m.Indices[i+1], m.Indices[i+2]}
		for j := 0; j < 3; j++ {
			a, b := tri[j], tri[(j+1)%3]
			if a > b {
				a, b = b, a
			}
			key := edge{a, b}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, a, b)
		}
	}
	return out
}
