// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the viaduct CLI command tree.
package commands

import (
	"fmt"

	"github.com/viaduct-tools/viaduct/cmd/viaduct/cli"
	"github.com/viaduct-tools/viaduct/lib/version"
)

// Root builds and returns the complete viaduct command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "viaduct",
		Description: `Viaduct: keep a Matrix space's via routing hints honest.

Recomputes the via server list on every m.space.child event of a space
from current room membership, so joins through the space keep working
as members come and go.`,
		Subcommands: []*cli.Command{
			loginCommand(),
			whoamiCommand(),
			inspectCommand(),
			updateCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("viaduct %s\n", version.Full())
					return nil
				},
			},
		},
	}
}
