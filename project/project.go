// Package project loads the generator configuration of a project.
package project

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ConfigFile is looked up in the project root.
const ConfigFile = "gen-tsd.yaml"

const (
	DefaultAnalysis = "analysis.json"
	DefaultOutDir   = "."
)

// DefaultExclude skips test and demo sources.
var DefaultExclude = []string{"test/**", "demo/**"}

// Config describes one generator run. Paths in it are relative to RootDir;
// document URLs and references are relative to the project root.
type Config struct {
	RootDir string `yaml:"-"`
	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-"`

	Analysis         string              `yaml:"analysis"`
	OutDir           string              `yaml:"outDir"`
	Exclude          []string            `yaml:"exclude"`
	RemoveReferences []string            `yaml:"removeReferences"`
	AddReferences    map[string][]string `yaml:"addReferences"`
	StagedDirs       []string            `yaml:"stagedDirs"`
	MetricsFile      string              `yaml:"metricsFile"`
}

// Default returns the configuration used when rootDir has no config file.
func Default(rootDir string) *Config {
	c := &Config{RootDir: rootDir}
	c.applyDefaults()
	return c
}

// Load reads the configuration of the project in the current directory.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads rootDir/gen-tsd.yaml, falling back to defaults when the
// file does not exist.
func LoadFrom(rootDir string) (*Config, error) {
	path := filepath.Join(rootDir, ConfigFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(rootDir), nil
	}
	return LoadFile(path)
}

// LoadFile reads the configuration at path. The project root is the
// directory containing it. Unknown keys are an error.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	c := &Config{RootDir: filepath.Dir(path), Path: path}
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Analysis == "" {
		c.Analysis = DefaultAnalysis
	}
	if c.OutDir == "" {
		c.OutDir = DefaultOutDir
	}
	if c.Exclude == nil {
		c.Exclude = append([]string(nil), DefaultExclude...)
	}
}

// Validate checks the exclude patterns.
func (c *Config) Validate() error {
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("bad exclude pattern %q", pattern)
		}
	}
	return nil
}

// Excluded reports whether the document at url matches an exclude pattern.
func (c *Config) Excluded(url string) bool {
	url = strings.TrimPrefix(filepath.ToSlash(url), "./")
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(pattern, url); ok {
			return true
		}
	}
	return false
}

// AnalysisPath is the analysis file resolved against the project root.
func (c *Config) AnalysisPath() string {
	return c.resolve(c.Analysis)
}

// OutputDir is the output directory resolved against the project root.
func (c *Config) OutputDir() string {
	return c.resolve(c.OutDir)
}

// MetricsPath is the metrics file resolved against the project root, or ""
// when metrics are disabled.
func (c *Config) MetricsPath() string {
	if c.MetricsFile == "" {
		return ""
	}
	return c.resolve(c.MetricsFile)
}

// AddedReferences lists the extra references of the declaration file at
// path, sorted.
func (c *Config) AddedReferences(path string) []string {
	refs := append([]string(nil), c.AddReferences[path]...)
	sort.Strings(refs)
	return refs
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.RootDir, p)
}
