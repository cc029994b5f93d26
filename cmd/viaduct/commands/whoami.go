// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/viaduct-tools/viaduct/cmd/viaduct/cli"
)

// whoamiCommand returns the "whoami" command: it verifies the saved
// credentials against the homeserver and prints the account they
// belong to.
func whoamiCommand() *cli.Command {
	var session SessionConfig

	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the authenticated account",
		Description: `Verify the saved credentials and print the Matrix account they
belong to. Useful to check that "viaduct login" worked or that an
injected token is still valid.`,
		Usage: "viaduct whoami [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
			session.AddFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			logger := cli.NewCommandLogger(false).With("command", "whoami")
			sess, err := session.Connect(ctx, logger)
			if err != nil {
				return err
			}
			defer sess.Close()

			userID := sess.UserID()
			fmt.Printf("%s\n", userID)
			fmt.Printf("homeserver: %s\n", userID.Server())
			return nil
		},
	}
}
