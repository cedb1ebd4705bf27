// daetool is a CLI utility for inspecting and converting Collada DAE files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/gouthamsk98/go-dae/internal/assets"
	"github.com/gouthamsk98/go-dae/internal/config"
	"github.com/gouthamsk98/go-dae/internal/logger"
	"github.com/gouthamsk98/go-dae/pkg/formats"
	"github.com/gouthamsk98/go-dae/pkg/mesh"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "meshes", "ls":
		cmdMeshes(args)
	case "convert":
		cmdConvert(args)
	case "batch":
		cmdBatch(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`daetool - Collada DAE inspection and conversion utility

Usage:
  daetool <command> [options]

Commands:
  info <file.dae>                  Show document information
  meshes <file.dae>                List meshes and their primitive groups
  convert <file.dae> [output.obj]  Convert a mesh to Wavefront OBJ
  batch <dir>                      Convert every DAE file under a directory

Examples:
  daetool info model.dae
  daetool meshes model.dae
  daetool convert -mesh 0 -normals model.dae model.obj
  daetool batch -config daetool.yaml -out ./converted ./models`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: daetool info <file.dae>")
		os.Exit(1)
	}

	doc, err := formats.ParseFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:       %s\n", args[0])
	fmt.Printf("Version:    %s\n", doc.Version)
	fmt.Printf("Up axis:    %s\n", doc.UpAxis)
	fmt.Printf("Meshes:     %d\n", doc.MeshCount())
	fmt.Printf("Vertices:   %d\n", doc.TotalVertexCount())
	fmt.Printf("Primitives: %d\n", doc.TotalPrimitiveCount())
}

func cmdMeshes(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: daetool meshes <file.dae>")
		os.Exit(1)
	}

	doc, err := formats.ParseFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for i := range doc.Geometries {
		geo := &doc.Geometries[i]
		name := geo.Name
		if name == "" {
			name = geo.ID
		}
		fmt.Printf("[%d] %s\n", i, name)

		if src := geo.Mesh.PositionSource(); src != nil {
			fmt.Printf("    positions: %d\n", src.ElementCount())
		}
		for j := range geo.Mesh.Primitives {
			prim := &geo.Mesh.Primitives[j]
			fmt.Printf("    group %d: %s (count=%d, inputs=%d)\n", j, prim.Kind, prim.Count, len(prim.Inputs))
		}

		if converted := mesh.Convert(doc, i, mesh.DefaultOptions()); converted != nil {
			fmt.Printf("    converts to: %d triangles, %d vertices\n",
				converted.TriangleCount(), converted.VertexCount())
		} else {
			fmt.Println("    converts to: no renderable geometry")
		}
	}
}

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	meshIndex := fs.Int("mesh", 0, "Mesh index to convert")
	noFan := fs.Bool("no-triangulate", false, "Skip polygon groups instead of fan-triangulating")
	flip := fs.Bool("flip-winding", false, "Reverse triangle winding order")
	genNormals := fs.Bool("normals", false, "Generate normals when the document has none")
	genTangents := fs.Bool("tangents", false, "Generate tangents when normals and UVs are present")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: daetool convert [options] <file.dae> [output.obj]")
		os.Exit(1)
	}

	input := fs.Arg(0)
	output := strings.TrimSuffix(input, filepath.Ext(input)) + ".obj"
	if fs.NArg() > 1 {
		output = fs.Arg(1)
	}

	doc, err := formats.ParseFile(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := mesh.Options{
		TriangulatePolygons: !*noFan,
		FlipWinding:         *flip,
		GenerateNormals:     *genNormals,
		GenerateTangents:    *genTangents,
	}

	converted := mesh.Convert(doc, *meshIndex, opts)
	if converted == nil {
		fmt.Fprintf(os.Stderr, "No renderable geometry at mesh index %d\n", *meshIndex)
		os.Exit(1)
	}

	f, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	name := doc.Geometries[*meshIndex].Name
	if err := converted.WriteOBJ(f, name); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing OBJ: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Converted: %s (%d triangles, %d vertices)\n",
		output, converted.TriangleCount(), converted.VertexCount())
}

func cmdBatch(args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	outDir := fs.String("out", ".", "Output directory for OBJ files")
	overrides := config.RegisterFlags(fs)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: daetool batch [options] <dir>")
		os.Exit(1)
	}
	root := fs.Arg(0)

	cfg, err := config.Load(overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	mgr := assets.NewManager(cfg.Convert.Options())
	for _, dir := range cfg.Data.SearchPaths {
		mgr.AddSearchPath(dir)
	}

	converted, failed := 0, 0
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".dae") {
			return nil
		}

		meshes, err := mgr.LoadAllMeshes(path)
		if err != nil {
			if errors.Is(err, assets.ErrNoGeometry) {
				logger.Warn("no renderable geometry", zap.String("file", path))
			} else {
				logger.Error("load failed", zap.String("file", path), zap.Error(err))
			}
			failed++
			return nil
		}

		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		for i, m := range meshes {
			outPath := filepath.Join(*outDir, fmt.Sprintf("%s_%d.obj", base, i))
			if err := writeOBJFile(outPath, m, base); err != nil {
				logger.Error("write failed", zap.String("file", outPath), zap.Error(err))
				failed++
				continue
			}
			logger.Info("converted",
				zap.String("input", path),
				zap.String("output", outPath),
				zap.Int("triangles", m.TriangleCount()),
				zap.Int("vertices", m.VertexCount()))
			converted++
		}
		return nil
	})
	if err != nil {
		logger.Error("walk failed", zap.String("dir", root), zap.Error(err))
		os.Exit(1)
	}

	logger.Info("batch complete", zap.Int("converted", converted), zap.Int("failed", failed))
	if failed > 0 && converted == 0 {
		os.Exit(1)
	}
}

func writeOBJFile(path string, m *mesh.TriangleMesh, name string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.WriteOBJ(f, name)
}
