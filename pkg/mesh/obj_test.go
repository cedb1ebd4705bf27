package mesh

import (
	"strings"
	"testing"
)

func TestWriteOBJ(t *testing.T) {
	m := &TriangleMesh{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Indices:   []uint32{0, 1, 2},
	}

	var sb strings.Builder
	if err := m.WriteOBJ(&sb, "tri"); err != nil {
		t.Fatalf("WriteOBJ failed: %v", err)
	}

	got := sb.String()
	want := `o tri
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
vn 0 0 1
vn 0 0 1
f 1//1 2//2 3//3
`
	if got != want {
		t.Errorf("unexpected OBJ output:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteOBJ_PositionsOnly(t *testing.T) {
	m := &TriangleMesh{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Indices:   []uint32{0, 1, 2},
	}

	var sb strings.Builder
	if err := m.WriteOBJ(&sb, ""); err != nil {
		t.Fatalf("WriteOBJ failed: %v", err)
	}

	if !strings.Contains(sb.String(), "f 1 2 3\n") {
		t.Errorf("expected plain face line, got:\n%s", sb.String())
	}
	if strings.Contains(sb.String(), "o ") {
		t.Error("expected no object name line")
	}
}
