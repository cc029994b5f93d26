// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package via

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/viaduct-tools/viaduct/lib/ref"
	"github.com/viaduct-tools/viaduct/messaging"
)

// Session is the slice of a homeserver session the updater needs.
// *messaging.DirectSession satisfies it.
type Session interface {
	SpaceHierarchy(ctx context.Context, spaceID ref.RoomID, options messaging.HierarchyOptions) (*messaging.HierarchyResponse, error)
	JoinedMembers(ctx context.Context, roomID ref.RoomID) ([]ref.UserID, error)
	PowerLevels(ctx context.Context, roomID ref.RoomID) (*messaging.PowerLevelsContent, error)
	SendStateEvent(ctx context.Context, roomID ref.RoomID, eventType ref.EventType, stateKey string, content any) (string, error)
}

// RunStats summarizes one updater run over a space's children.
type RunStats struct {
	// Children is the number of m.space.child events examined.
	Children int
	// Skipped counts rooms whose via list already matched.
	Skipped int
	// Updated counts rooms whose m.space.child event was rewritten.
	Updated int
	// DryRun counts rooms that would have been rewritten.
	DryRun int
	// Failed counts rooms skipped because of an ignored error.
	Failed int
}

// UpdaterConfig configures an Updater. Session and Config are
// required; the rest default sensibly.
type UpdaterConfig struct {
	Session Session
	Config  Config

	// Logger receives structural diagnostics (non-child events,
	// missing state keys). Defaults to slog.Default().
	Logger *slog.Logger

	// Output receives the per-room report lines. Defaults to
	// os.Stdout.
	Output io.Writer

	// Rand drives shuffling when Config.ShuffleOrder is set. Defaults
	// to a fresh PCG source; tests inject a seeded one.
	Rand *rand.Rand
}

// Updater walks a space's direct children and rewrites each child's
// via routing hints from current room membership.
type Updater struct {
	session Session
	config  Config
	logger  *slog.Logger
	output  io.Writer
	rng     *rand.Rand
}

// NewUpdater validates the configuration and builds an Updater.
func NewUpdater(config UpdaterConfig) (*Updater, error) {
	if config.Session == nil {
		return nil, fmt.Errorf("via: session is required")
	}
	if err := config.Config.Validate(); err != nil {
		return nil, err
	}
	updater := &Updater{
		session: config.Session,
		config:  config.Config,
		logger:  config.Logger,
		output:  config.Output,
		rng:     config.Rand,
	}
	if updater.logger == nil {
		updater.logger = slog.Default()
	}
	if updater.output == nil {
		updater.output = os.Stdout
	}
	if updater.rng == nil {
		updater.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return updater, nil
}

// Run processes every direct child of the configured space once.
// Rooms are handled sequentially in hierarchy order. With
// Config.IgnoreErrors set, a room whose membership fetch or state
// write fails is reported and skipped; otherwise the first failure
// aborts the run after updating the rooms before it.
func (u *Updater) Run(ctx context.Context) (*RunStats, error) {
	spaceID := u.config.SpaceID
	hierarchy, err := u.session.SpaceHierarchy(ctx, spaceID, messaging.HierarchyOptions{MaxDepth: 1})
	if err != nil {
		return nil, fmt.Errorf("fetching hierarchy of %s: %w", spaceID, err)
	}

	var root *messaging.HierarchyRoom
	for index := range hierarchy.Rooms {
		if hierarchy.Rooms[index].RoomID == spaceID {
			root = &hierarchy.Rooms[index]
			break
		}
	}
	if root == nil {
		return nil, fmt.Errorf("space %s not present in its own hierarchy response", spaceID)
	}

	stats := &RunStats{}
	for _, child := range root.ChildrenState {
		if child.Type != ref.EventTypeSpaceChild {
			u.logger.Debug("skipping non-child state event",
				"space", spaceID, "type", child.Type)
			continue
		}
		if child.StateKey.IsZero() {
			u.logger.Debug("skipping child event without state key",
				"space", spaceID, "sender", child.Sender)
			continue
		}
		stats.Children++
		if err := u.processChild(ctx, child, stats); err != nil {
			if !u.config.IgnoreErrors {
				return stats, err
			}
			stats.Failed++
			fmt.Fprintf(u.output, "Could not update room %s, skipping: %v\n",
				child.StateKey, err)
		}
	}
	return stats, nil
}

// processChild recomputes one child room's via list and applies the
// change when the computed set differs from the current one.
func (u *Updater) processChild(ctx context.Context, child messaging.ChildEvent, stats *RunStats) error {
	roomID := child.StateKey
	plan, err := u.planRoom(ctx, child)
	if err != nil {
		return err
	}

	if plan.Matches() {
		stats.Skipped++
		fmt.Fprintf(u.output, "Skipping room %s, 'via' servers already match.\n", roomID)
		return nil
	}

	if u.config.ShuffleOrder {
		plan.Shuffle(u.rng)
	}

	if u.config.DryRun {
		stats.DryRun++
		fmt.Fprintf(u.output, "DRY RUN: would have updated room %s\n", roomID)
	} else {
		content := messaging.ChildContent{
			Suggested: plan.Suggested,
			Via:       plan.Computed,
		}
		_, err = u.session.SendStateEvent(ctx, u.config.SpaceID,
			ref.EventTypeSpaceChild, roomID.String(), content)
		if err != nil {
			return fmt.Errorf("updating child event for %s: %w", roomID, err)
		}
		stats.Updated++
		fmt.Fprintf(u.output, "Updated room %s\n", roomID)
	}

	fmt.Fprintf(u.output, "Before: %s\n", formatServers(plan.Current))
	fmt.Fprintf(u.output, "After:  %s\n", formatServers(plan.Computed))
	return nil
}

// planRoom fetches a child room's membership and power levels and
// computes its replacement via list.
func (u *Updater) planRoom(ctx context.Context, child messaging.ChildEvent) (*Plan, error) {
	roomID := child.StateKey

	members, err := u.session.JoinedMembers(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("fetching members of %s: %w", roomID, err)
	}
	memberServers := make([]ref.ServerName, len(members))
	for index, member := range members {
		memberServers[index] = member.Server()
	}

	levels, err := u.session.PowerLevels(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("fetching power levels of %s: %w", roomID, err)
	}
	memberLevels := make(map[ref.UserID]int, len(members))
	for _, member := range members {
		memberLevels[member] = levels.Level(member)
	}

	common := CommonServers(memberServers, u.config.MaxCommonServers, u.config.MinMembersPerServer)
	authority := AuthorityServers(memberLevels, u.config.authorityThreshold())
	candidates := Merge(memberServers, common, authority, u.config)

	return &Plan{
		RoomID:    roomID,
		Suggested: child.Content.Suggested,
		Current:   child.Content.Via,
		Computed:  Servers(candidates),
	}, nil
}

func formatServers(servers []ref.ServerName) string {
	out := ""
	for index, server := range servers {
		if index > 0 {
			out += ", "
		}
		out += server.String()
	}
	return out
}
