package formats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// minimalDAE wraps geometry library XML in a valid COLLADA envelope.
func minimalDAE(version, geometries string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<COLLADA xmlns="http://www.collada.org/2005/11/COLLADASchema" version="` + version + `">
  <asset><up_axis>Z_UP</up_axis></asset>
  <library_geometries>` + geometries + `</library_geometries>
</COLLADA>`
}

// quadGeometry is a unit quad in the XY plane: 4 positions, 4 normals,
// one triangles group with independently indexed attributes.
const quadGeometry = `
<geometry id="Quad-mesh" name="Quad">
  <mesh>
    <source id="Quad-mesh-positions">
      <float_array id="Quad-mesh-positions-array" count="12">0 0 0 1 0 0 1 1 0 0 1 0</float_array>
      <technique_common><accessor source="#Quad-mesh-positions-array" count="4" stride="3"/></technique_common>
    </source>
    <source id="Quad-mesh-normals">
      <float_array id="Quad-mesh-normals-array" count="3">0 0 1</float_array>
      <technique_common><accessor source="#Quad-mesh-normals-array" count="1" stride="3"/></technique_common>
    </source>
    <vertices id="Quad-mesh-vertices">
      <input semantic="POSITION" source="#Quad-mesh-positions"/>
    </vertices>
    <triangles material="default" count="2">
      <input semantic="VERTEX" source="#Quad-mesh-vertices" offset="0"/>
      <input semantic="NORMAL" source="#Quad-mesh-normals" offset="1"/>
      <p>0 0 1 0 2 0 0 0 2 0 3 0</p>
    </triangles>
  </mesh>
</geometry>`

func TestParse_RootValidation(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name:    "valid document",
			data:    minimalDAE("1.4.1", quadGeometry),
			wantErr: nil,
		},
		{
			name:    "wrong root element",
			data:    `<?xml version="1.0"?><scene version="1.4.1"></scene>`,
			wantErr: ErrNotCollada,
		},
		{
			name:    "unsupported version",
			data:    minimalDAE("2.0.0", ""),
			wantErr: ErrUnsupportedDAEVersion,
		},
		{
			name:    "old version",
			data:    minimalDAE("1.3.1", ""),
			wantErr: ErrUnsupportedDAEVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParse_MalformedXML(t *testing.T) {
	_, err := Parse([]byte("<COLLADA version=\"1.4.1\"><unclosed"))
	if err == nil {
		t.Fatal("expected error for malformed XML")
	}
}

func TestParse_BadFloatPayload(t *testing.T) {
	geo := `
<geometry id="g"><mesh>
  <source id="s">
    <float_array count="3">1.0 nope 3.0</float_array>
    <technique_common><accessor count="1" stride="3"/></technique_common>
  </source>
  <vertices id="v"><input semantic="POSITION" source="#s"/></vertices>
</mesh></geometry>`
	_, err := Parse([]byte(minimalDAE("1.4.1", geo)))
	if err == nil {
		t.Fatal("expected error for non-numeric float array")
	}
}

func TestParse_QuadDocument(t *testing.T) {
	doc, err := Parse([]byte(minimalDAE("1.4.1", quadGeometry)))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Version.Major != 1 || doc.Version.Minor != 4 {
		t.Errorf("expected version 1.4, got %s", doc.Version)
	}
	if doc.UpAxis != UpAxisZ {
		t.Errorf("expected Z_UP, got %s", doc.UpAxis)
	}
	if doc.MeshCount() != 1 {
		t.Fatalf("expected 1 mesh, got %d", doc.MeshCount())
	}

	geo := doc.Geometry("Quad-mesh")
	if geo == nil {
		t.Fatal("geometry Quad-mesh not found")
	}
	if geo.Name != "Quad" {
		t.Errorf("expected name Quad, got %q", geo.Name)
	}

	mesh := &geo.Mesh
	pos := mesh.PositionSource()
	if pos == nil {
		t.Fatal("position source not resolved")
	}
	if pos.Stride != 3 {
		t.Errorf("expected position stride 3, got %d", pos.Stride)
	}
	if pos.ElementCount() != 4 {
		t.Errorf("expected 4 positions, got %d", pos.ElementCount())
	}

	if len(mesh.Primitives) != 1 {
		t.Fatalf("expected 1 primitive group, got %d", len(mesh.Primitives))
	}
	prim := &mesh.Primitives[0]
	if prim.Kind != PrimitiveTriangles {
		t.Errorf("expected triangles, got %s", prim.Kind)
	}
	if prim.Count != 2 {
		t.Errorf("expected count 2, got %d", prim.Count)
	}
	if prim.IndexStride() != 2 {
		t.Errorf("expected index stride 2, got %d", prim.IndexStride())
	}
	if len(prim.Indices) != 12 {
		t.Errorf("expected 12 index values, got %d", len(prim.Indices))
	}

	// VERTEX input must resolve through <vertices> to the position source.
	in, ok := prim.Input(SemanticVertex)
	if !ok {
		t.Fatal("VERTEX input not found")
	}
	if src := mesh.ResolveInput(in); src != pos {
		t.Error("VERTEX input did not resolve to the position source")
	}

	if doc.TotalVertexCount() != 4 {
		t.Errorf("expected total vertex count 4, got %d", doc.TotalVertexCount())
	}
	if doc.TotalPrimitiveCount() != 1 {
		t.Errorf("expected total primitive count 1, got %d", doc.TotalPrimitiveCount())
	}
}

func TestParse_Polylist(t *testing.T) {
	geo := `
<geometry id="g"><mesh>
  <source id="s">
    <float_array count="12">0 0 0 1 0 0 1 1 0 0 1 0</float_array>
    <technique_common><accessor count="4" stride="3"/></technique_common>
  </source>
  <vertices id="v"><input semantic="POSITION" source="#s"/></vertices>
  <polylist count="1">
    <input semantic="VERTEX" source="#v" offset="0"/>
    <vcount>4</vcount>
    <p>0 1 2 3</p>
  </polylist>
</mesh></geometry>`

	doc, err := Parse([]byte(minimalDAE("1.4.1", geo)))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	prim := &doc.Geometries[0].Mesh.Primitives[0]
	if prim.Kind != PrimitivePolylist {
		t.Fatalf("expected polylist, got %s", prim.Kind)
	}
	if len(prim.VCounts) != 1 || prim.VCounts[0] != 4 {
		t.Errorf("expected vcounts [4], got %v", prim.VCounts)
	}
	if len(prim.Indices) != 4 {
		t.Errorf("expected 4 indices, got %d", len(prim.Indices))
	}
}

func TestParse_PolygonsMultipleP(t *testing.T) {
	geo := `
<geometry id="g"><mesh>
  <source id="s">
    <float_array count="18">0 0 0 1 0 0 1 1 0 0 1 0 2 0 0 2 1 0</float_array>
    <technique_common><accessor count="6" stride="3"/></technique_common>
  </source>
  <vertices id="v"><input semantic="POSITION" source="#s"/></vertices>
  <polygons count="2">
    <input semantic="VERTEX" source="#v" offset="0"/>
    <p>0 1 2 3</p>
    <p>1 4 5 2</p>
  </polygons>
</mesh></geometry>`

	doc, err := Parse([]byte(minimalDAE("1.4.1", geo)))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	prim := &doc.Geometries[0].Mesh.Primitives[0]
	if prim.Kind != PrimitivePolygons {
		t.Fatalf("expected polygons, got %s", prim.Kind)
	}
	if len(prim.VCounts) != 2 || prim.VCounts[0] != 4 || prim.VCounts[1] != 4 {
		t.Errorf("expected vcounts [4 4], got %v", prim.VCounts)
	}
	if len(prim.Indices) != 8 {
		t.Errorf("expected 8 indices, got %d", len(prim.Indices))
	}
}

func TestParseFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "quad.dae")
	if err := os.WriteFile(path, []byte(minimalDAE("1.5.0", quadGeometry)), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.MeshCount() != 1 {
		t.Errorf("expected 1 mesh, got %d", doc.MeshCount())
	}

	if _, err := ParseFile(filepath.Join(tmpDir, "missing.dae")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDAEVersion_AtLeast(t *testing.T) {
	tests := []struct {
		version DAEVersion
		major   int
		minor   int
		want    bool
	}{
		{DAEVersion{1, 4}, 1, 4, true},
		{DAEVersion{1, 5}, 1, 4, true},
		{DAEVersion{1, 4}, 1, 5, false},
		{DAEVersion{2, 0}, 1, 5, true},
		{DAEVersion{1, 4}, 2, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.version.String(), func(t *testing.T) {
			if got := tt.version.AtLeast(tt.major, tt.minor); got != tt.want {
				t.Errorf("AtLeast(%d, %d) = %v, want %v", tt.major, tt.minor, got, tt.want)
			}
		})
	}
}

func TestPrimitiveKind_String(t *testing.T) {
	tests := []struct {
		kind PrimitiveKind
		want string
	}{
		{PrimitiveTriangles, "triangles"},
		{PrimitivePolylist, "polylist"},
		{PrimitivePolygons, "polygons"},
		{PrimitiveLines, "lines"},
		{PrimitiveLineStrips, "linestrips"},
		{PrimitiveKind(99), "unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
