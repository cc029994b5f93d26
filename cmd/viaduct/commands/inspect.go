// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/viaduct-tools/viaduct/cmd/viaduct/cli"
	"github.com/viaduct-tools/viaduct/lib/ref"
	"github.com/viaduct-tools/viaduct/messaging"
)

// inspectCommand returns the "inspect" command: a read-only table of a
// space's direct children and their current via routing hints. This is
// the look-before-you-leap companion to "viaduct update".
func inspectCommand() *cli.Command {
	var session SessionConfig

	return &cli.Command{
		Name:    "inspect",
		Summary: "Show a space's children and their via lists",
		Description: `List the direct children of a space with the via server list each
m.space.child event currently carries. Purely read-only: no state is
modified. Run this before "viaduct update" to see what would be
rewritten, or after to confirm the result.`,
		Usage: "viaduct inspect <space-id> [flags]",
		Examples: []cli.Example{
			{
				Description: "List the children of a space",
				Command:     "viaduct inspect '!space:example.org'",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
			session.AddFlags(flagSet)
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("space ID is required\n\nUsage: viaduct inspect <space-id> [flags]")
			}
			spaceID, err := ref.ParseRoomID(args[0])
			if err != nil {
				return fmt.Errorf("invalid space ID: %w", err)
			}
			if len(args) > 1 {
				return fmt.Errorf("unexpected argument: %s", args[1])
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			logger := cli.NewCommandLogger(false).With("command", "inspect")
			sess, err := session.Connect(ctx, logger)
			if err != nil {
				return err
			}
			defer sess.Close()

			hierarchy, err := sess.SpaceHierarchy(ctx, spaceID, messaging.HierarchyOptions{MaxDepth: 1})
			if err != nil {
				return fmt.Errorf("fetching hierarchy of %s: %w", spaceID, err)
			}

			return printHierarchy(os.Stdout, spaceID, hierarchy)
		},
	}
}

// printHierarchy renders the space's children as a table: one row per
// m.space.child event, with the child's name resolved from the room
// listing when the hierarchy response includes it.
func printHierarchy(out io.Writer, spaceID ref.RoomID, hierarchy *messaging.HierarchyResponse) error {
	var root *messaging.HierarchyRoom
	names := make(map[ref.RoomID]string)
	memberCounts := make(map[ref.RoomID]int)
	for index := range hierarchy.Rooms {
		room := &hierarchy.Rooms[index]
		names[room.RoomID] = room.Name
		memberCounts[room.RoomID] = room.NumJoinedMembers
		if room.RoomID == spaceID {
			root = room
		}
	}
	if root == nil {
		return fmt.Errorf("space %s not present in its own hierarchy response", spaceID)
	}

	fmt.Fprintf(out, "Space: %s", spaceID)
	if name := names[spaceID]; name != "" {
		fmt.Fprintf(out, " (%s)", name)
	}
	fmt.Fprintln(out)

	writer := tabwriter.NewWriter(out, 2, 0, 3, ' ', 0)
	fmt.Fprintln(writer, "ROOM\tNAME\tMEMBERS\tSUGGESTED\tVIA")
	children := 0
	for _, child := range root.ChildrenState {
		if child.Type != ref.EventTypeSpaceChild || child.StateKey.IsZero() {
			continue
		}
		children++
		roomID := child.StateKey
		via := make([]string, len(child.Content.Via))
		for index, server := range child.Content.Via {
			via[index] = server.String()
		}
		fmt.Fprintf(writer, "%s\t%s\t%d\t%t\t%s\n",
			roomID, names[roomID], memberCounts[roomID],
			child.Content.Suggested, strings.Join(via, ","))
	}
	writer.Flush()

	if children == 0 {
		fmt.Fprintln(out, "No child rooms.")
	}
	return nil
}
