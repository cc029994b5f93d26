// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

// parseUpdateFlags registers the update flags and parses args, the
// same way the command's Execute path does.
func parseUpdateFlags(t *testing.T, args ...string) (updateParams, *pflag.FlagSet) {
	t.Helper()
	var params updateParams
	flagSet := pflag.NewFlagSet("update", pflag.ContinueOnError)
	params.addFlags(flagSet)
	if err := flagSet.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return params, flagSet
}

func TestBuildViaConfigDefaults(t *testing.T) {
	params, flagSet := parseUpdateFlags(t, "--space", "!space:example.org")

	config, err := buildViaConfig(params, flagSet)
	if err != nil {
		t.Fatalf("buildViaConfig: %v", err)
	}
	if config.SpaceID.String() != "!space:example.org" {
		t.Errorf("space = %s", config.SpaceID)
	}
	if config.MinMembersPerServer != 2 || config.MaxCommonServers != 5 || config.OptimalViaServers != 3 {
		t.Errorf("defaults not applied: %+v", config)
	}
	if config.DryRun || config.ShuffleOrder || config.IgnoreErrors || config.RelaxToReachOptimum {
		t.Errorf("boolean settings should default off: %+v", config)
	}
}

func TestBuildViaConfigRequiresSpace(t *testing.T) {
	params, flagSet := parseUpdateFlags(t)
	if _, err := buildViaConfig(params, flagSet); err == nil {
		t.Error("missing space accepted")
	}
}

func TestBuildViaConfigFlagsOverrideFile(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "viaduct.toml")
	settings := `
space_id = "!fromfile:example.org"
min_members_per_server = 4
optimal_via_servers = 6
dry_run = true
`
	if err := os.WriteFile(settingsPath, []byte(settings), 0o600); err != nil {
		t.Fatal(err)
	}

	params, flagSet := parseUpdateFlags(t,
		"--config", settingsPath,
		"--space", "!fromflag:example.org",
		"--min-members-per-server", "1",
		"--allow", "trusted.example")

	config, err := buildViaConfig(params, flagSet)
	if err != nil {
		t.Fatalf("buildViaConfig: %v", err)
	}
	if config.SpaceID.String() != "!fromflag:example.org" {
		t.Errorf("space = %s, flag should override file", config.SpaceID)
	}
	if config.MinMembersPerServer != 1 {
		t.Errorf("min members = %d, flag should override file", config.MinMembersPerServer)
	}
	if config.OptimalViaServers != 6 {
		t.Errorf("optimal = %d, file value should apply", config.OptimalViaServers)
	}
	if !config.DryRun {
		t.Error("dry_run from file should apply")
	}
	if len(config.AllowedServers) != 1 || config.AllowedServers[0].String() != "trusted.example" {
		t.Errorf("allowed servers = %v", config.AllowedServers)
	}
}

func TestBuildViaConfigRejectsBadServer(t *testing.T) {
	params, flagSet := parseUpdateFlags(t,
		"--space", "!space:example.org",
		"--allow", "not a server")
	if _, err := buildViaConfig(params, flagSet); err == nil {
		t.Error("malformed allowed server accepted")
	}
}

func TestBuildViaConfigRejectsBadSpace(t *testing.T) {
	params, flagSet := parseUpdateFlags(t, "--space", "no-sigil")
	if _, err := buildViaConfig(params, flagSet); err == nil {
		t.Error("malformed space ID accepted")
	}
}
