package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseConfig(t *testing.T) {
	assert := assert.New(t)

	cfg, err := ParseConfig([]byte("optimize: true\nseed: 42\nsave_temps: true\n"), "pal.yaml")
	assert.NoError(err)
	assert.Equal(&Config{
		Optimize:  true,
		Seed:      42,
		Color:     COLOR_AUTO,
		SaveTemps: true,
	}, cfg)

	cfg, err = ParseConfig([]byte(""), "pal.yaml")
	assert.NoError(err)
	assert.Equal(Default(), cfg)

	cfg, err = ParseConfig([]byte("color: never\nverbose: true\n"), "pal.yaml")
	assert.NoError(err)
	assert.Equal(COLOR_NEVER, cfg.Color)
	assert.True(cfg.Verbose)
}

func TestParseConfigErrors(t *testing.T) {
	assert := assert.New(t)

	cfg, err := ParseConfig([]byte("color: sometimes\n"), "pal.yaml")
	assert.Nil(cfg)
	assert.True(errors.Is(err, ErrColor))
	assert.Contains(err.Error(), "sometimes")

	cfg, err = ParseConfig([]byte("seed: [1, 2]\n"), "bad.yaml")
	assert.Nil(cfg)
	assert.Error(err)
	assert.Contains(err.Error(), "bad.yaml")
}

func TestFindConfig(t *testing.T) {
	assert := assert.New(t)

	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	assert.NoError(os.MkdirAll(nested, 0o755))

	path, err := FindConfig(nested)
	assert.NoError(err)
	if path != "" {
		// Some ancestor of the temporary directory has a project file.
		t.Skipf("found %v outside the test tree", path)
	}

	yml := filepath.Join(root, "pal.yml")
	assert.NoError(os.WriteFile(yml, []byte("seed: 7\n"), 0o644))

	path, err = FindConfig(nested)
	assert.NoError(err)
	assert.Equal(yml, path)

	yaml := filepath.Join(root, "a", "pal.yaml")
	assert.NoError(os.WriteFile(yaml, []byte("optimize: true\n"), 0o644))

	cfg, path, err := Find(filepath.Join(nested, "prog.pal"))
	assert.NoError(err)
	assert.Equal(yaml, path)
	assert.True(cfg.Optimize)
	assert.Equal(int64(0), cfg.Seed)

	cfg, path, err = Find(filepath.Join(root, "prog.pal"))
	assert.NoError(err)
	assert.Equal(yml, path)
	assert.Equal(int64(7), cfg.Seed)
}

func TestLoadConfigMissing(t *testing.T) {
	assert := assert.New(t)

	_, err := LoadConfig(filepath.Join(t.TempDir(), "pal.yaml"))
	assert.True(errors.Is(err, os.ErrNotExist))
}
