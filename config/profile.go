// Package config implements the analysis-profile layer: four named
// presets plus JSON/YAML file loading, adapted from analyzeMFT's
// AnalysisProfile dataclass and config.py's built-in profile table.
// Out of core scope per spec.md, but carried as the ambient
// configuration surface the CLI wires up exactly as the original did.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile mirrors analyzeMFT's AnalysisProfile: a named bundle of CLI
// defaults a user can select with --profile or load from a file with
// -c/--config.
type Profile struct {
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	ExportFormat  string `yaml:"export_format"`
	ComputeHashes bool   `yaml:"compute_hashes"`
	ChunkSize     int    `yaml:"chunk_size"`
	Verbosity     int    `yaml:"verbosity"`
	Debug         int    `yaml:"debug"`
}

// Built-in profiles. Values match spec.md section 6's profile table
// verbatim, including forensic's chunk size of 500 - analyzeMFT's own
// config.py never overrides chunk_size for the forensic profile and
// leaves it at the dataclass default of 1000, which spec.md's
// explicit, more specific number supersedes.
var builtinProfiles = map[string]Profile{
	"default": {
		Name: "default", Description: "balanced defaults for general-purpose analysis",
		ExportFormat: "csv", ComputeHashes: false, ChunkSize: 1000, Verbosity: 0, Debug: 0,
	},
	"quick": {
		Name: "quick", Description: "fast pass with no hashing, larger chunks",
		ExportFormat: "csv", ComputeHashes: false, ChunkSize: 5000, Verbosity: 0, Debug: 0,
	},
	"forensic": {
		Name: "forensic", Description: "maximum detail: hashing enabled, smaller chunks, verbose",
		ExportFormat: "sqlite", ComputeHashes: true, ChunkSize: 500, Verbosity: 2, Debug: 0,
	},
	"performance": {
		Name: "performance", Description: "throughput-optimized for very large images",
		ExportFormat: "csv", ComputeHashes: false, ChunkSize: 10000, Verbosity: 0, Debug: 0,
	},
}

// Get returns a named built-in profile.
func Get(name string) (Profile, bool) {
	p, ok := builtinProfiles[name]
	return p, ok
}

// List returns every built-in profile name paired with its
// description, in a stable order, for --list-profiles.
func List() []Profile {
	order := []string{"default", "quick", "forensic", "performance"}
	out := make([]Profile, 0, len(order))
	for _, name := range order {
		out = append(out, builtinProfiles[name])
	}
	return out
}

// LoadFile loads a profile from a JSON or YAML file for -c/--config.
// YAML is a superset of JSON for this purpose, so a single
// yaml.Unmarshal call (via gopkg.in/yaml.v3) handles both.
func LoadFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("mftkit/config: reading %s: %w", path, err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("mftkit/config: parsing %s: %w", path, err)
	}
	return p, nil
}

// WriteSample writes a sample configuration file, seeded from the
// default profile, in the format LoadFile reads.
func WriteSample(path string) error {
	sample := builtinProfiles["default"]
	sample.Name = "custom"
	sample.Description = "edit me"

	data, err := yaml.Marshal(sample)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
