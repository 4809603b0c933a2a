// Package config loads optional file-based defaults for ParseOptions. It is
// a convenience for hosts that want YAML-configured runs (a watch-mode CLI,
// a batch asset pipeline); the core Open API never requires it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"xflscene/pkg/build"
)

// fileOptions mirrors build.ParseOptions' exported fields with yaml tags;
// kept separate so the zero-value-means-"unset" defaulting pass below
// doesn't leak into the field semantics build.ParseOptions itself carries.
type fileOptions struct {
	SkipBitmaps                      bool `yaml:"skipBitmaps"`
	EnableImplicitMoveAfterClose     bool `yaml:"enableImplicitMoveAfterClose"`
	EnableEdgeSplittingOnStyleChange bool `yaml:"enableEdgeSplittingOnStyleChange"`
	Debug                            bool `yaml:"debug"`
	SuspendEvery                     int  `yaml:"suspendEvery"`
}

// LoadOptions reads a YAML file of ParseOptions defaults. A missing
// suspendEvery defaults to 50 (§5's "every N≈50ms of tight parsing").
func LoadOptions(path string) (*build.ParseOptions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %v: %w", path, err)
	}
	return ParseOptionsYAML(data)
}

// ParseOptionsYAML parses YAML-encoded ParseOptions defaults from data.
func ParseOptionsYAML(data []byte) (*build.ParseOptions, error) {
	var f fileOptions
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("could not unmarshal options: %w", err)
	}

	if f.SuspendEvery == 0 {
		f.SuspendEvery = 50
	}

	return &build.ParseOptions{
		SkipBitmaps:                      f.SkipBitmaps,
		EnableImplicitMoveAfterClose:     f.EnableImplicitMoveAfterClose,
		EnableEdgeSplittingOnStyleChange: f.EnableEdgeSplittingOnStyleChange,
		Debug:                            f.Debug,
		SuspendEveryMillis:               f.SuspendEvery,
	}, nil
}
