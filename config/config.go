// Package config reads the optional pal.yaml project file.
//
// The file is found by walking up from the source file's directory.
// Command line flags override every value it sets.
package config

import (
	"errors"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Santi-I-Guess/final-project/translate"
)

var f = translate.From

var (
	ErrColor = errors.New(f("color must be auto, always or never"))
)

// Names of the project file, in search order.
var fileNames = []string{"pal.yaml", "pal.yml"}

// Color modes.
const (
	COLOR_AUTO   = "auto"
	COLOR_ALWAYS = "always"
	COLOR_NEVER  = "never"
)

// Config is the contents of a pal.yaml file.
type Config struct {
	Optimize  bool   `yaml:"optimize"`   // Run the peephole optimizer.
	Verbose   bool   `yaml:"verbose"`    // Trace assembler, optimizer and cpu.
	Seed      int64  `yaml:"seed"`       // Seed of the RAND instruction.
	Color     string `yaml:"color"`      // auto, always or never.
	SaveTemps bool   `yaml:"save_temps"` // Keep tokens and labels as YAML.
}

// Default returns the configuration used when there is no file.
func Default() *Config {
	return &Config{Color: COLOR_AUTO}
}

// LoadConfig reads and parses a project file.
func LoadConfig(path string) (cfg *Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		err = pkgerrors.Wrap(err, "LoadConfig")
		return
	}
	return ParseConfig(data, path)
}

// ParseConfig parses project file content. The path is only used in
// error messages.
func ParseConfig(data []byte, path string) (cfg *Config, err error) {
	cfg = Default()
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = nil
		err = pkgerrors.Wrapf(err, "parsing %v", path)
		return
	}

	switch cfg.Color {
	case "":
		cfg.Color = COLOR_AUTO
	case COLOR_AUTO, COLOR_ALWAYS, COLOR_NEVER:
	default:
		err = pkgerrors.Wrapf(ErrColor, "%v: %q", path, cfg.Color)
		cfg = nil
	}
	return
}

// FindConfig searches dir and its parents for a project file. An empty
// path, and no error, is returned if there is none.
func FindConfig(dir string) (path string, err error) {
	dir, err = filepath.Abs(dir)
	if err != nil {
		err = pkgerrors.Wrap(err, "FindConfig")
		return
	}

	for {
		for _, name := range fileNames {
			candidate := filepath.Join(dir, name)
			if _, serr := os.Stat(candidate); serr == nil {
				path = candidate
				return
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// Find loads the project file governing source, or returns the default
// configuration if there is none.
func Find(source string) (cfg *Config, path string, err error) {
	path, err = FindConfig(filepath.Dir(source))
	if err != nil {
		return
	}
	if path == "" {
		cfg = Default()
		return
	}

	cfg, err = LoadConfig(path)
	return
}
