package mesh

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOBJ writes the mesh in Wavefront OBJ format. The object name is
// omitted when name is empty.
func (m *TriangleMesh) WriteOBJ(w io.Writer, name string) error {
	bw := bufio.NewWriter(w)

	if name != "" {
		fmt.Fprintf(bw, "o %s\n", name)
	}

	for _, p := range m.Positions {
		fmt.Fprintf(bw, "v %g %g %g\n", p[0], p[1], p[2])
	}
	for _, t := range m.TexCoords {
		fmt.Fprintf(bw, "vt %g %g\n", t[0], t[1])
	}
	for _, n := range m.Normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n[0], n[1], n[2])
	}

	hasUV := m.HasTexCoords()
	hasN := m.HasNormals()
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1
		switch {
		case hasUV && hasN:
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		case hasUV:
			fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c)
		case hasN:
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		default:
			fmt.Fprintf(bw, "f %d %d %d\n", a, b, c)
		}
	}

	return bw.Flush()
}
