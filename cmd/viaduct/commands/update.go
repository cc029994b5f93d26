// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/viaduct-tools/viaduct/cmd/viaduct/cli"
	"github.com/viaduct-tools/viaduct/lib/config"
	"github.com/viaduct-tools/viaduct/lib/ref"
	"github.com/viaduct-tools/viaduct/via"
)

// updateParams holds the update command's selection flags. Flags left
// at their zero value fall back to the settings file, which falls back
// to config.Default().
type updateParams struct {
	configFile string
	space      string
	allow      []string
	minMembers int
	maxCommon  int
	optimal    int
	relax      bool
	shuffle    bool
	dryRun     bool
	ignore     bool
	verbose    bool
}

func (p *updateParams) addFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&p.configFile, "config", "", "path to TOML or YAML settings file")
	flagSet.StringVar(&p.space, "space", "", "room ID of the space to process")
	flagSet.StringSliceVar(&p.allow, "allow", nil, "server always considered as a via candidate (repeatable)")
	flagSet.IntVar(&p.minMembers, "min-members-per-server", 0, "minimum members a server must host to qualify")
	flagSet.IntVar(&p.maxCommon, "max-common-servers", 0, "maximum servers frequency selection returns")
	flagSet.IntVar(&p.optimal, "optimal", 0, "desired size of the final via list")
	flagSet.BoolVar(&p.relax, "relax", false, "re-run frequency selection with a minimum of 1 when short of --optimal")
	flagSet.BoolVar(&p.shuffle, "shuffle", false, "randomize the order of written via lists")
	flagSet.BoolVar(&p.dryRun, "dry-run", false, "report changes without writing state")
	flagSet.BoolVar(&p.ignore, "ignore-errors", false, "skip rooms that fail instead of aborting")
	flagSet.BoolVar(&p.verbose, "verbose", false, "enable debug logging")
}

// updateCommand returns the "update" command: the whole point of the
// tool. It walks the space's direct children and rewrites each child's
// via routing hints from current room membership.
func updateCommand() *cli.Command {
	var session SessionConfig
	var params updateParams
	var flagSet *pflag.FlagSet

	return &cli.Command{
		Name:    "update",
		Summary: "Recompute and rewrite via lists",
		Description: `Recompute the via server list of every direct child of a space and
rewrite the m.space.child events whose current list no longer reflects
room membership.

For each child room, candidate servers come from three sources: the
configured allow-list (filtered to servers actually hosting a member),
the servers hosting the most members, and the homeservers of the
room's highest-powered members. A room whose current via list already
contains exactly the computed servers is left untouched, so repeated
runs are idempotent.

Settings can come from a TOML or YAML file (--config) with individual
flags overriding file values. Use --dry-run to preview the changes.`,
		Usage: "viaduct update [flags]",
		Examples: []cli.Example{
			{
				Description: "Preview what would change",
				Command:     "viaduct update --space '!space:example.org' --dry-run",
			},
			{
				Description: "Run with a settings file",
				Command:     "viaduct update --config viaduct.toml",
			},
			{
				Description: "Keep going when individual rooms fail",
				Command:     "viaduct update --config viaduct.toml --ignore-errors",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet = pflag.NewFlagSet("update", pflag.ContinueOnError)
			session.AddFlags(flagSet)
			params.addFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			viaConfig, err := buildViaConfig(params, flagSet)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
			defer cancel()

			logger := cli.NewCommandLogger(params.verbose).With("command", "update")
			sess, err := session.Connect(ctx, logger)
			if err != nil {
				return err
			}
			defer sess.Close()

			updater, err := via.NewUpdater(via.UpdaterConfig{
				Session: sess,
				Config:  viaConfig,
				Logger:  logger,
				Output:  os.Stdout,
			})
			if err != nil {
				return err
			}

			stats, err := updater.Run(ctx)
			if err != nil {
				return err
			}

			logger.Info("run complete",
				"children", stats.Children,
				"updated", stats.Updated,
				"skipped", stats.Skipped,
				"dry_run", stats.DryRun,
				"failed", stats.Failed)
			return nil
		},
	}
}

// buildViaConfig merges the settings file and the command-line flags
// into a via.Config. File values apply first; any flag the user
// actually set wins over the file.
func buildViaConfig(params updateParams, flagSet *pflag.FlagSet) (via.Config, error) {
	settings := config.Default()
	if params.configFile != "" {
		loaded, err := config.LoadFile(params.configFile)
		if err != nil {
			return via.Config{}, err
		}
		settings = *loaded
	}

	if flagSet.Changed("space") {
		settings.SpaceID = params.space
	}
	if flagSet.Changed("allow") {
		settings.AllowedServers = params.allow
	}
	if flagSet.Changed("min-members-per-server") {
		settings.MinMembersPerServer = params.minMembers
	}
	if flagSet.Changed("max-common-servers") {
		settings.MaxCommonServers = params.maxCommon
	}
	if flagSet.Changed("optimal") {
		settings.OptimalViaServers = params.optimal
	}
	if flagSet.Changed("relax") {
		settings.RelaxToReachOptimum = params.relax
	}
	if flagSet.Changed("shuffle") {
		settings.ShuffleOrder = params.shuffle
	}
	if flagSet.Changed("dry-run") {
		settings.DryRun = params.dryRun
	}
	if flagSet.Changed("ignore-errors") {
		settings.IgnoreErrors = params.ignore
	}

	if settings.SpaceID == "" {
		return via.Config{}, fmt.Errorf("a space is required: set --space or space_id in the settings file")
	}
	spaceID, err := ref.ParseRoomID(settings.SpaceID)
	if err != nil {
		return via.Config{}, fmt.Errorf("invalid space ID %q: %w", settings.SpaceID, err)
	}

	allowed := make([]ref.ServerName, 0, len(settings.AllowedServers))
	for _, name := range settings.AllowedServers {
		server, err := ref.ParseServerName(name)
		if err != nil {
			return via.Config{}, fmt.Errorf("invalid allowed server %q: %w", name, err)
		}
		allowed = append(allowed, server)
	}

	viaConfig := via.Config{
		SpaceID:             spaceID,
		AllowedServers:      allowed,
		MinMembersPerServer: settings.MinMembersPerServer,
		MaxCommonServers:    settings.MaxCommonServers,
		OptimalViaServers:   settings.OptimalViaServers,
		RelaxToReachOptimum: settings.RelaxToReachOptimum,
		ShuffleOrder:        settings.ShuffleOrder,
		DryRun:              settings.DryRun,
		IgnoreErrors:        settings.IgnoreErrors,
	}
	if err := viaConfig.Validate(); err != nil {
		return via.Config{}, err
	}
	return viaConfig, nil
}
