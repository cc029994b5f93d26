// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFileTOML(t *testing.T) {
	path := writeFile(t, "viaduct.toml", `
space_id = "!space:example.org"
allowed_servers = ["backup.example.net"]
min_members_per_server = 3
max_common_servers = 4
optimal_via_servers = 5
relax_to_reach_optimum = true
shuffle_order = true
ignore_errors = true
dry_run = true
`)

	config, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if config.SpaceID != "!space:example.org" {
		t.Errorf("unexpected space ID: %q", config.SpaceID)
	}
	if len(config.AllowedServers) != 1 || config.AllowedServers[0] != "backup.example.net" {
		t.Errorf("unexpected allowed servers: %v", config.AllowedServers)
	}
	if config.MinMembersPerServer != 3 || config.MaxCommonServers != 4 || config.OptimalViaServers != 5 {
		t.Errorf("unexpected thresholds: %+v", config)
	}
	if !config.RelaxToReachOptimum || !config.ShuffleOrder || !config.IgnoreErrors || !config.DryRun {
		t.Errorf("unexpected flags: %+v", config)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := writeFile(t, "viaduct.yaml", `
space_id: "!space:example.org"
optimal_via_servers: 4
`)

	config, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if config.SpaceID != "!space:example.org" {
		t.Errorf("unexpected space ID: %q", config.SpaceID)
	}
	if config.OptimalViaServers != 4 {
		t.Errorf("unexpected optimal count: %d", config.OptimalViaServers)
	}
	// Unset fields keep defaults.
	if config.MinMembersPerServer != 2 {
		t.Errorf("expected default min members, got %d", config.MinMembersPerServer)
	}
}

func TestLoadFileRejectsUnknownFields(t *testing.T) {
	path := writeFile(t, "viaduct.toml", `optimal_via_srevers = 3`)
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for misspelled field")
	}

	path = writeFile(t, "viaduct.yaml", `optimal_via_srevers: 3`)
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for misspelled field")
	}
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "viaduct.json", `{}`)
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestValidate(t *testing.T) {
	valid := Default()
	if err := valid.Validate(); err != nil {
		t.Errorf("Default should validate: %v", err)
	}

	for name, mutate := range map[string]func(*Config){
		"zero min members": func(c *Config) { c.MinMembersPerServer = 0 },
		"zero max common":  func(c *Config) { c.MaxCommonServers = 0 },
		"zero optimal":     func(c *Config) { c.OptimalViaServers = 0 },
	} {
		t.Run(name, func(t *testing.T) {
			config := Default()
			mutate(&config)
			if err := config.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
