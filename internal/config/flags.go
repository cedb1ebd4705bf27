package config

import "flag"

// FlagOverrides holds parsed CLI flag values. They take priority over
// both defaults and the config file.
type FlagOverrides struct {
	config      *string
	debug       *bool
	noFan       *bool
	flipWinding *bool
	genNormals  *bool
	genTangents *bool
}

// RegisterFlags registers the config override flags on a flag set.
// Pass the result to Load after the set has been parsed.
func RegisterFlags(fs *flag.FlagSet) *FlagOverrides {
	return &FlagOverrides{
		config:      fs.String("config", "", "Path to config file"),
		debug:       fs.Bool("debug", false, "Enable debug logging"),
		noFan:       fs.Bool("no-triangulate", false, "Skip polygon groups instead of fan-triangulating"),
		flipWinding: fs.Bool("flip-winding", false, "Reverse triangle winding order"),
		genNormals:  fs.Bool("gen-normals", false, "Generate normals when the document has none"),
		genTangents: fs.Bool("gen-tangents", false, "Generate tangents when normals and UVs are present"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *FlagOverrides) ConfigPath() string {
	return *f.config
}

// apply applies the flag values to the config.
func (f *FlagOverrides) apply(cfg *Config) {
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.noFan {
		cfg.Convert.TriangulatePolygons = false
	}
	if *f.flipWinding {
		cfg.Convert.FlipWinding = true
	}
	if *f.genNormals {
		cfg.Convert.GenerateNormals = true
	}
	if *f.genTangents {
		cfg.Convert.GenerateTangents = true
	}
}
