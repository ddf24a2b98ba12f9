package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/danielpatrickdp/fuzzy-controller/internal/config"
	"github.com/danielpatrickdp/fuzzy-controller/internal/fuzzy"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string  `json:"description"`
	System      string  `json:"system"`               // YAML path, relative to the fixture file
	Partitions  int     `json:"partitions,omitempty"` // overrides the system's setting when > 0
	Tolerance   float64 `json:"tolerance,omitempty"`
	Cases       []Case  `json:"cases"`

	dir string
}

// Case is one recorded inference: inputs and either expected outputs or an
// expected error code (see fuzzy.Code).
type Case struct {
	ID          string    `json:"id"`
	Inputs      []float64 `json:"inputs"`
	Expected    []float64 `json:"expected,omitempty"`
	ExpectError string    `json:"expect_error,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return &f, nil
}

// Engine loads and builds the system the fixture refers to.
func (f *Fixture) Engine() (*fuzzy.Engine, error) {
	if f.System == "" {
		return nil, fmt.Errorf("fixture has no system")
	}
	path := f.System
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.dir, path)
	}
	sf, err := config.LoadSystem(path)
	if err != nil {
		return nil, err
	}
	if f.Partitions > 0 {
		sf.Partitions = f.Partitions
	}
	return sf.Build()
}

// ToReplayConfig returns the default config with the fixture's tolerance applied.
func (f *Fixture) ToReplayConfig() ReplayConfig {
	cfg := DefaultReplayConfig()
	if f.Tolerance > 0 {
		cfg.Tolerance = f.Tolerance
	}
	return cfg
}

// WriteFixture encodes f as indented JSON.
func WriteFixture(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// #endregion fixture-loader
