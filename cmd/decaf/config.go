package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const configFileName = "decaf.toml"

// projectConfig mirrors decaf.toml. Pointer fields distinguish unset keys
// from zero values; command-line flags override every key that is set.
type projectConfig struct {
	Check checkConfig `toml:"check"`
	Cache cacheConfig `toml:"cache"`
}

type checkConfig struct {
	MaxDiagnostics *int    `toml:"max_diagnostics"`
	Dedup          *bool   `toml:"dedup"`
	Format         *string `toml:"format"`
	Jobs           *int    `toml:"jobs"`
}

type cacheConfig struct {
	Enabled *bool  `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

// findConfig walks up from startDir looking for decaf.toml.
func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest finds and parses the config governing target, which
// may be a manifest file or a directory.
func loadProjectManifest(target string) (*projectManifest, bool, error) {
	start := target
	if st, err := os.Stat(target); err == nil && !st.IsDir() {
		start = filepath.Dir(target)
	}
	path, ok, err := findConfig(start)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := loadProjectConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &projectManifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return projectConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.Check.Format != nil {
		if _, err := readFormat(*cfg.Check.Format); err != nil {
			return projectConfig{}, fmt.Errorf("%s: [check].format: %w", path, err)
		}
	}
	if cfg.Check.Jobs != nil && *cfg.Check.Jobs < 0 {
		return projectConfig{}, fmt.Errorf("%s: [check].jobs must not be negative", path)
	}
	if cfg.Check.MaxDiagnostics != nil && *cfg.Check.MaxDiagnostics < 0 {
		return projectConfig{}, fmt.Errorf("%s: [check].max_diagnostics must not be negative", path)
	}
	return cfg, nil
}

// cacheDir resolves [cache].dir against the directory holding the config.
func (m *projectManifest) cacheDir() string {
	dir := strings.TrimSpace(m.Config.Cache.Dir)
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, filepath.FromSlash(dir))
}
