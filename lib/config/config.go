// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides run-settings loading for Viaduct.
//
// Settings are loaded from a single file passed via the --config flag.
// There are no fallbacks, no ~/.config discovery, and no automatic
// file search. This ensures deterministic, auditable configuration
// with no hidden overrides. CLI flags override file values.
//
// The file format is chosen by extension: .toml is decoded with
// go-toml, .yaml/.yml with yaml.v3. Both decoders reject unknown
// fields so a typo in a setting name fails loudly instead of being
// silently ignored.
//
// The credential file (homeserver URL, user ID, access token) is
// deliberately separate from run settings — it is written by
// "viaduct login" and read by the session flags. This file only
// carries selection parameters.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the via-selection run settings.
type Config struct {
	// SpaceID is the root space whose child rooms are processed.
	SpaceID string `toml:"space_id" yaml:"space_id"`

	// AllowedServers are always considered as via candidates, provided
	// they host at least one current member of the room.
	AllowedServers []string `toml:"allowed_servers" yaml:"allowed_servers"`

	// MinMembersPerServer is the minimum number of members a server
	// must host to qualify for frequency selection.
	MinMembersPerServer int `toml:"min_members_per_server" yaml:"min_members_per_server"`

	// MaxCommonServers caps how many servers frequency selection returns.
	MaxCommonServers int `toml:"max_common_servers" yaml:"max_common_servers"`

	// OptimalViaServers is the desired size of the final via list.
	OptimalViaServers int `toml:"optimal_via_servers" yaml:"optimal_via_servers"`

	// RelaxToReachOptimum re-runs frequency selection with a
	// per-server minimum of one member when the candidate set falls
	// short of OptimalViaServers.
	RelaxToReachOptimum bool `toml:"relax_to_reach_optimum" yaml:"relax_to_reach_optimum"`

	// ShuffleOrder randomizes the published via list order.
	ShuffleOrder bool `toml:"shuffle_order" yaml:"shuffle_order"`

	// IgnoreErrors continues to the next room when a membership fetch
	// or state update fails, instead of aborting the run.
	IgnoreErrors bool `toml:"ignore_errors" yaml:"ignore_errors"`

	// DryRun reports what would change without writing state.
	DryRun bool `toml:"dry_run" yaml:"dry_run"`
}

// Default returns a Config with the standard selection parameters.
func Default() Config {
	return Config{
		MinMembersPerServer: 2,
		MaxCommonServers:    5,
		OptimalViaServers:   3,
	}
}

// LoadFile reads and parses a settings file. The format is chosen by
// file extension: .toml, .yaml, or .yml. Fields absent from the file
// keep their Default() values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	config := Default()
	switch extension := strings.ToLower(filepath.Ext(path)); extension {
	case ".toml":
		decoder := toml.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&config); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&config); err != nil {
			return nil, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported extension %q (expected .toml, .yaml, or .yml)", extension)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &config, nil
}

// Validate checks that the selection parameters are internally
// consistent. The space ID is not checked here — it may be supplied
// by flag instead of file.
func (c *Config) Validate() error {
	if c.MinMembersPerServer < 1 {
		return fmt.Errorf("min_members_per_server must be at least 1, got %d", c.MinMembersPerServer)
	}
	if c.MaxCommonServers < 1 {
		return fmt.Errorf("max_common_servers must be at least 1, got %d", c.MaxCommonServers)
	}
	if c.OptimalViaServers < 1 {
		return fmt.Errorf("optimal_via_servers must be at least 1, got %d", c.OptimalViaServers)
	}
	return nil
}
