// Package formats provides parsers for 3D model file formats.
// DAE (Collada) format parser for 3D models.
package formats

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DAE format errors.
var (
	ErrNotCollada            = errors.New("not a COLLADA document: missing COLLADA root element")
	ErrUnsupportedDAEVersion = errors.New("unsupported COLLADA version")
)

// Input semantics used by mesh primitive groups.
const (
	SemanticVertex   = "VERTEX"
	SemanticPosition = "POSITION"
	SemanticNormal   = "NORMAL"
	SemanticTexCoord = "TEXCOORD"
)

// DAEVersion represents the COLLADA schema version.
type DAEVersion struct {
	Major int
	Minor int
}

// String returns the version as "Major.Minor".
func (v DAEVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast returns true if version is >= major.minor.
func (v DAEVersion) AtLeast(major, minor int) bool {
	if v.Major > major {
		return true
	}
	if v.Major == major && v.Minor >= minor {
		return true
	}
	return false
}

// UpAxis is the document's up-axis declaration.
type UpAxis int

const (
	UpAxisY UpAxis = 0 // Y_UP (COLLADA default)
	UpAxisX UpAxis = 1 // X_UP
	UpAxisZ UpAxis = 2 // Z_UP
)

// String returns a human-readable up-axis name.
func (a UpAxis) String() string {
	switch a {
	case UpAxisX:
		return "X_UP"
	case UpAxisY:
		return "Y_UP"
	case UpAxisZ:
		return "Z_UP"
	default:
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
}

// PrimitiveKind identifies the topology of a primitive group.
type PrimitiveKind int

const (
	PrimitiveTriangles  PrimitiveKind = 0 // <triangles>
	PrimitivePolylist   PrimitiveKind = 1 // <polylist>
	PrimitivePolygons   PrimitiveKind = 2 // <polygons>
	PrimitiveLines      PrimitiveKind = 3 // <lines>
	PrimitiveLineStrips PrimitiveKind = 4 // <linestrips>
)

// String returns a human-readable primitive kind name.
func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveTriangles:
		return "triangles"
	case PrimitivePolylist:
		return "polylist"
	case PrimitivePolygons:
		return "polygons"
	case PrimitiveLines:
		return "lines"
	case PrimitiveLineStrips:
		return "linestrips"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Source is a flat data array addressed through an accessor stride.
type Source struct {
	ID     string    // Source id (referenced by inputs, without '#')
	Data   []float32 // Flat float array
	Stride int       // Floats per element
	Count  int       // Declared element count
}

// ElementCount returns the number of complete elements actually present
// in the data, which may be smaller than the declared Count for malformed
// documents.
func (s *Source) ElementCount() int {
	if s.Stride <= 0 {
		return 0
	}
	return len(s.Data) / s.Stride
}

// Input binds a primitive group's index stream slot to a source.
type Input struct {
	Semantic string // VERTEX, NORMAL, TEXCOORD, ...
	SourceID string // Referenced source id (without '#')
	Offset   int    // Slot within each index tuple
	Set      int    // Input set (texcoord sets)
}

// Primitive is one primitive group of a mesh: an index stream over the
// mesh's sources with a fixed topology.
type Primitive struct {
	Kind     PrimitiveKind // Topology
	Material string        // Material symbol (unresolved)
	Count    int           // Declared primitive count
	Inputs   []Input       // Index stream layout
	Indices  []int         // Flat index stream (concatenated <p> values)
	VCounts  []int         // Vertices per polygon (polylist/polygons/linestrips)
}

// Input returns the first input with the given semantic.
func (p *Primitive) Input(semantic string) (Input, bool) {
	for _, in := range p.Inputs {
		if in.Semantic == semantic {
			return in, true
		}
	}
	return Input{}, false
}

// IndexStride returns the number of index values per vertex
// (max input offset + 1).
func (p *Primitive) IndexStride() int {
	stride := 0
	for _, in := range p.Inputs {
		if in.Offset+1 > stride {
			stride = in.Offset + 1
		}
	}
	return stride
}

// Mesh holds the geometry data of a single Collada mesh: attribute
// sources and the primitive groups indexing into them.
type Mesh struct {
	Sources          []Source    // All data sources
	VerticesID       string      // Id of the <vertices> element
	PositionSourceID string      // Source behind the POSITION input of <vertices>
	Primitives       []Primitive // Primitive groups
}

// Source returns the source with the given id (with or without a
// leading '#'), or nil if not found.
func (m *Mesh) Source(id string) *Source {
	id = strings.TrimPrefix(id, "#")
	for i := range m.Sources {
		if m.Sources[i].ID == id {
			return &m.Sources[i]
		}
	}
	return nil
}

// PositionSource returns the source holding vertex positions, or nil.
func (m *Mesh) PositionSource() *Source {
	return m.Source(m.PositionSourceID)
}

// ResolveInput returns the source an input refers to, following the
// <vertices> indirection for VERTEX inputs. Returns nil if unresolvable.
func (m *Mesh) ResolveInput(in Input) *Source {
	id := strings.TrimPrefix(in.SourceID, "#")
	if id == m.VerticesID {
		return m.PositionSource()
	}
	return m.Source(id)
}

// Geometry is a named geometry entry holding one mesh.
type Geometry struct {
	ID   string
	Name string
	Mesh Mesh
}

// Document represents a parsed Collada document.
type Document struct {
	Version    DAEVersion // Schema version
	UpAxis     UpAxis     // Asset up-axis
	Geometries []Geometry // Geometry library in document order
}

// MeshCount returns the number of meshes in the document.
func (d *Document) MeshCount() int {
	return len(d.Geometries)
}

// Geometry returns a geometry by id (with or without '#'), or nil.
func (d *Document) Geometry(id string) *Geometry {
	id = strings.TrimPrefix(id, "#")
	for i := range d.Geometries {
		if d.Geometries[i].ID == id {
			return &d.Geometries[i]
		}
	}
	return nil
}

// TotalVertexCount returns the total number of position elements across
// all meshes.
func (d *Document) TotalVertexCount() int {
	total := 0
	for i := range d.Geometries {
		if src := d.Geometries[i].Mesh.PositionSource(); src != nil {
			total += src.ElementCount()
		}
	}
	return total
}

// TotalPrimitiveCount returns the total number of primitive groups
// across all meshes.
func (d *Document) TotalPrimitiveCount() int {
	total := 0
	for i := range d.Geometries {
		total += len(d.Geometries[i].Mesh.Primitives)
	}
	return total
}

// XML document layout. The public model is built from these in Parse.

type xCollada struct {
	XMLName    xml.Name
	Version    string      `xml:"version,attr"`
	UpAxis     string      `xml:"asset>up_axis"`
	Geometries []xGeometry `xml:"library_geometries>geometry"`
}

type xGeometry struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	Mesh xMesh  `xml:"mesh"`
}

type xMesh struct {
	Sources    []xSource    `xml:"source"`
	Vertices   xVertices    `xml:"vertices"`
	Triangles  []xTriangles `xml:"triangles"`
	Polylists  []xPolylist  `xml:"polylist"`
	Polygons   []xPolygons  `xml:"polygons"`
	Lines      []xTriangles `xml:"lines"`
	LineStrips []xPolygons  `xml:"linestrips"`
}

type xSource struct {
	ID         string    `xml:"id,attr"`
	FloatArray string    `xml:"float_array"`
	Accessor   xAccessor `xml:"technique_common>accessor"`
}

type xAccessor struct {
	Count  int `xml:"count,attr"`
	Stride int `xml:"stride,attr"`
}

type xVertices struct {
	ID     string   `xml:"id,attr"`
	Inputs []xInput `xml:"input"`
}

type xInput struct {
	Semantic string `xml:"semantic,attr"`
	Source   string `xml:"source,attr"`
	Offset   int    `xml:"offset,attr"`
	Set      int    `xml:"set,attr"`
}

type xTriangles struct {
	Count    int      `xml:"count,attr"`
	Material string   `xml:"material,attr"`
	Inputs   []xInput `xml:"input"`
	P        string   `xml:"p"`
}

type xPolylist struct {
	Count    int      `xml:"count,attr"`
	Material string   `xml:"material,attr"`
	Inputs   []xInput `xml:"input"`
	VCount   string   `xml:"vcount"`
	P        string   `xml:"p"`
}

type xPolygons struct {
	Count    int      `xml:"count,attr"`
	Material string   `xml:"material,attr"`
	Inputs   []xInput `xml:"input"`
	P        []string `xml:"p"`
}

// Parse parses a Collada document from a byte slice.
func Parse(data []byte) (*Document, error) {
	var raw xCollada
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding COLLADA XML: %w", err)
	}
	if raw.XMLName.Local != "COLLADA" {
		return nil, ErrNotCollada
	}

	doc := &Document{
		Version: parseDAEVersion(raw.Version),
		UpAxis:  parseUpAxis(raw.UpAxis),
	}

	// Supported schema versions are 1.4 and 1.5.
	if doc.Version.Major != 1 || doc.Version.Minor < 4 || doc.Version.Minor > 5 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDAEVersion, doc.Version)
	}

	doc.Geometries = make([]Geometry, 0, len(raw.Geometries))
	for _, g := range raw.Geometries {
		mesh, err := buildMesh(&g.Mesh)
		if err != nil {
			return nil, fmt.Errorf("geometry %q: %w", g.ID, err)
		}
		doc.Geometries = append(doc.Geometries, Geometry{
			ID:   g.ID,
			Name: g.Name,
			Mesh: *mesh,
		})
	}

	return doc, nil
}

// ParseFile parses a Collada document from disk.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading DAE file: %w", err)
	}
	return Parse(data)
}

// buildMesh converts a decoded mesh element into the public model.
func buildMesh(raw *xMesh) (*Mesh, error) {
	mesh := &Mesh{
		VerticesID: raw.Vertices.ID,
	}

	for _, s := range raw.Sources {
		data, err := parseFloats(s.FloatArray)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", s.ID, err)
		}
		stride := s.Accessor.Stride
		if stride <= 0 {
			stride = 1 // COLLADA accessor default
		}
		mesh.Sources = append(mesh.Sources, Source{
			ID:     s.ID,
			Data:   data,
			Stride: stride,
			Count:  s.Accessor.Count,
		})
	}

	for _, in := range raw.Vertices.Inputs {
		if in.Semantic == SemanticPosition {
			mesh.PositionSourceID = strings.TrimPrefix(in.Source, "#")
			break
		}
	}

	for _, t := range raw.Triangles {
		prim, err := buildPrimitive(PrimitiveTriangles, t.Count, t.Material, t.Inputs, []string{t.P}, "")
		if err != nil {
			return nil, err
		}
		mesh.Primitives = append(mesh.Primitives, *prim)
	}
	for _, pl := range raw.Polylists {
		prim, err := buildPrimitive(PrimitivePolylist, pl.Count, pl.Material, pl.Inputs, []string{pl.P}, pl.VCount)
		if err != nil {
			return nil, err
		}
		mesh.Primitives = append(mesh.Primitives, *prim)
	}
	for _, pg := range raw.Polygons {
		prim, err := buildPrimitive(PrimitivePolygons, pg.Count, pg.Material, pg.Inputs, pg.P, "")
		if err != nil {
			return nil, err
		}
		mesh.Primitives = append(mesh.Primitives, *prim)
	}
	for _, l := range raw.Lines {
		prim, err := buildPrimitive(PrimitiveLines, l.Count, l.Material, l.Inputs, []string{l.P}, "")
		if err != nil {
			return nil, err
		}
		mesh.Primitives = append(mesh.Primitives, *prim)
	}
	for _, ls := range raw.LineStrips {
		prim, err := buildPrimitive(PrimitiveLineStrips, ls.Count, ls.Material, ls.Inputs, ls.P, "")
		if err != nil {
			return nil, err
		}
		mesh.Primitives = append(mesh.Primitives, *prim)
	}

	return mesh, nil
}

// buildPrimitive assembles one primitive group from its index payloads.
// Each entry of ps is one <p> element; groups with multiple <p> elements
// (polygons, linestrips) record the per-element vertex counts in VCounts.
func buildPrimitive(kind PrimitiveKind, count int, material string, inputs []xInput, ps []string, vcount string) (*Primitive, error) {
	prim := &Primitive{
		Kind:     kind,
		Material: material,
		Count:    count,
	}

	for _, in := range inputs {
		prim.Inputs = append(prim.Inputs, Input{
			Semantic: in.Semantic,
			SourceID: strings.TrimPrefix(in.Source, "#"),
			Offset:   in.Offset,
			Set:      in.Set,
		})
	}

	if vcount != "" {
		vc, err := parseInts(vcount)
		if err != nil {
			return nil, fmt.Errorf("%s vcount: %w", kind, err)
		}
		prim.VCounts = vc
	}

	stride := prim.IndexStride()
	multiP := len(ps) > 1 || kind == PrimitivePolygons || kind == PrimitiveLineStrips
	for _, p := range ps {
		idx, err := parseInts(p)
		if err != nil {
			return nil, fmt.Errorf("%s indices: %w", kind, err)
		}
		if multiP && stride > 0 {
			prim.VCounts = append(prim.VCounts, len(idx)/stride)
		}
		prim.Indices = append(prim.Indices, idx...)
	}

	return prim, nil
}

func parseDAEVersion(s string) DAEVersion {
	parts := strings.Split(s, ".")
	var v DAEVersion
	if len(parts) > 0 {
		v.Major, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		v.Minor, _ = strconv.Atoi(parts[1])
	}
	return v
}

func parseUpAxis(s string) UpAxis {
	switch strings.TrimSpace(s) {
	case "X_UP":
		return UpAxisX
	case "Z_UP":
		return UpAxisZ
	default:
		return UpAxisY
	}
}

// parseFloats parses a whitespace-separated float list.
func parseFloats(s string) ([]float32, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, fmt.Errorf("float value %q: %w", f, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

// parseInts parses a whitespace-separated int list.
func parseInts(s string) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, nil
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("index value %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}
