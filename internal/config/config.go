// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.15
//

// Package config loads run settings for the gosbas command from a YAML file
// and GOSBAS_* environment variables. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/mkhts/gosbas"
)

// EnvPrefix is the prefix of all environment variables read by Load
const EnvPrefix = "GOSBAS"

// Config represents the complete run configuration
type Config struct {
	IgramDir   string       `yaml:"igram_dir" envconfig:"IGRAM_DIR"`
	Files      FilesConfig  `yaml:"files" envconfig:"FILES"`
	Ref        PixelConfig  `yaml:"ref" envconfig:"REF"`
	Wavelength float64      `yaml:"wavelength" envconfig:"WAVELENGTH"`
	Workers    int          `yaml:"workers" envconfig:"WORKERS"`
	Parser     string       `yaml:"parser" envconfig:"PARSER"`
	Output     OutputConfig `yaml:"output" envconfig:"OUTPUT"`
	Debug      int          `yaml:"debug" envconfig:"DEBUG"`
}

// FilesConfig names the inputs inside the igram directory
type FilesConfig struct {
	Geolist string `yaml:"geolist" envconfig:"GEOLIST"`
	Intlist string `yaml:"intlist" envconfig:"INTLIST"`
	Rsc     string `yaml:"rsc" envconfig:"RSC"`
	UnwExt  string `yaml:"unw_ext" envconfig:"UNW_EXT"`
}

// PixelConfig is a (row, col) image location
type PixelConfig struct {
	Row int `yaml:"row" envconfig:"ROW"`
	Col int `yaml:"col" envconfig:"COL"`
}

// OutputConfig contains the output destinations
type OutputConfig struct {
	Report      string      `yaml:"report" envconfig:"REPORT"`             // Text report, "" for stdout
	Pixel       PixelConfig `yaml:"pixel" envconfig:"PIXEL"`               // Pixel whose time series is reported
	Plot        string      `yaml:"plot" envconfig:"PLOT"`                 // Time series PNG, "" to skip
	VelocityMap string      `yaml:"velocity_map" envconfig:"VELOCITY_MAP"` // Mean velocity PNG, "" to skip
	NoHeader    bool        `yaml:"no_header" envconfig:"NO_HEADER"`
}

// Default returns the configuration used when nothing else is given
func Default() *Config {
	opt := gosbas.NewRunOpt()
	return &Config{
		Files: FilesConfig{
			Geolist: opt.GeolistName,
			Intlist: opt.IntlistName,
			Rsc:     opt.RscName,
			UnwExt:  opt.UnwExt,
		},
		Ref:        PixelConfig{Row: opt.Ref.Row, Col: opt.Ref.Col},
		Wavelength: opt.Wavelength,
		Workers:    opt.Workers,
		Parser:     "sentinel",
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Only variables that are set override; there are no default tags
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// Validate checks the configuration for values the run cannot use
func (c *Config) Validate() error {
	if c.Wavelength <= 0 {
		return fmt.Errorf("wavelength must be positive, got %g", c.Wavelength)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Ref.Row < 0 || c.Ref.Col < 0 {
		return fmt.Errorf("reference pixel must not be negative, got (%d, %d)", c.Ref.Row, c.Ref.Col)
	}
	if _, err := c.DateParser(); err != nil {
		return err
	}
	if c.Files.Geolist == "" || c.Files.Intlist == "" || c.Files.Rsc == "" || c.Files.UnwExt == "" {
		return fmt.Errorf("input file names must not be empty")
	}
	return nil
}

// DateParser returns the acquisition name parser selected by Parser
func (c *Config) DateParser() (gosbas.DateParser, error) {
	switch strings.ToLower(c.Parser) {
	case "sentinel", "":
		return gosbas.SentinelDate, nil
	case "uavsar":
		return gosbas.UavsarDate, nil
	default:
		return nil, fmt.Errorf("unknown parser %q (sentinel or uavsar)", c.Parser)
	}
}

// RunOpt converts the configuration into inversion options
func (c *Config) RunOpt() (*gosbas.RunOpt, error) {
	parse, err := c.DateParser()
	if err != nil {
		return nil, err
	}
	opt := gosbas.NewRunOpt()
	opt.Ref = gosbas.RefPixel{Row: c.Ref.Row, Col: c.Ref.Col}
	opt.Wavelength = c.Wavelength
	opt.Workers = c.Workers
	opt.Parser = parse
	opt.GeolistName = c.Files.Geolist
	opt.IntlistName = c.Files.Intlist
	opt.RscName = c.Files.Rsc
	opt.UnwExt = c.Files.UnwExt
	return opt, nil
}
