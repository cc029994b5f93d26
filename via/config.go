// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package via

import (
	"fmt"

	"github.com/viaduct-tools/viaduct/lib/ref"
)

// DefaultAuthorityThreshold is the power level a room's highest-level
// members must exceed before their homeservers are selected as
// authority candidates. 50 is the conventional Matrix moderator level:
// a room whose top members sit at or below it has no meaningful
// authority to anchor routing on.
const DefaultAuthorityThreshold = 50

// Config holds the immutable per-run selection parameters. A Config is
// built once from flags and settings file, validated, and passed into
// the pipeline — never mutated during a run.
type Config struct {
	// SpaceID is the root space whose direct children are processed.
	SpaceID ref.RoomID

	// AllowedServers are extra via candidates. An allowed server is
	// only admitted for a room when it hosts at least one current
	// member of that room.
	AllowedServers []ref.ServerName

	// MinMembersPerServer is the minimum number of members a server
	// must host to qualify for frequency selection.
	MinMembersPerServer int

	// MaxCommonServers caps how many servers frequency selection
	// returns.
	MaxCommonServers int

	// OptimalViaServers is the desired size of the final via list.
	// Reaching it is best-effort, not guaranteed.
	OptimalViaServers int

	// AuthorityThreshold is the power level the room maximum must
	// exceed for authority selection. Zero means
	// DefaultAuthorityThreshold.
	AuthorityThreshold int

	// RelaxToReachOptimum enables the frequency re-run with a
	// per-server minimum of one member when the candidate set falls
	// short of OptimalViaServers.
	RelaxToReachOptimum bool

	// ShuffleOrder randomizes the outward order of a via list that is
	// about to be written.
	ShuffleOrder bool

	// DryRun reports what would change without writing state.
	DryRun bool

	// IgnoreErrors continues to the next room when a membership fetch
	// or state update fails, instead of aborting the run.
	IgnoreErrors bool
}

// Validate checks that the selection parameters are usable.
func (c *Config) Validate() error {
	if c.SpaceID.IsZero() {
		return fmt.Errorf("via: space ID is required")
	}
	if c.MinMembersPerServer < 1 {
		return fmt.Errorf("via: MinMembersPerServer must be at least 1, got %d", c.MinMembersPerServer)
	}
	if c.MaxCommonServers < 1 {
		return fmt.Errorf("via: MaxCommonServers must be at least 1, got %d", c.MaxCommonServers)
	}
	if c.OptimalViaServers < 1 {
		return fmt.Errorf("via: OptimalViaServers must be at least 1, got %d", c.OptimalViaServers)
	}
	if c.AuthorityThreshold < 0 {
		return fmt.Errorf("via: AuthorityThreshold must not be negative, got %d", c.AuthorityThreshold)
	}
	return nil
}

// authorityThreshold returns the effective authority threshold.
func (c *Config) authorityThreshold() int {
	if c.AuthorityThreshold == 0 {
		return DefaultAuthorityThreshold
	}
	return c.AuthorityThreshold
}
