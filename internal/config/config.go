// Package config handles loader configuration loading and management.
package config

import "github.com/gouthamsk98/go-dae/pkg/mesh"

// Config holds all loader settings.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Convert ConvertConfig `yaml:"convert"`
	Logging LoggingConfig `yaml:"logging"`
}

// DataConfig holds asset lookup paths.
type DataConfig struct {
	SearchPaths []string `yaml:"search_paths"` // Directories searched for DAE files
}

// ConvertConfig holds mesh conversion settings.
type ConvertConfig struct {
	TriangulatePolygons bool `yaml:"triangulate_polygons"`
	FlipWinding         bool `yaml:"flip_winding"`
	GenerateNormals     bool `yaml:"generate_normals"`
	GenerateTangents    bool `yaml:"generate_tangents"`
}

// Options returns the conversion options this config describes.
func (c ConvertConfig) Options() mesh.Options {
	return mesh.Options{
		TriangulatePolygons: c.TriangulatePolygons,
		FlipWinding:         c.FlipWinding,
		GenerateNormals:     c.GenerateNormals,
		GenerateTangents:    c.GenerateTangents,
	}
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			SearchPaths: []string{"."},
		},
		Convert: ConvertConfig{
			TriangulatePolygons: true,
			FlipWinding:         false,
			GenerateNormals:     false,
			GenerateTangents:    false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
