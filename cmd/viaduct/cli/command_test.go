// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "viaduct",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(args []string) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "update",
				Run: func(args []string) error {
					called = "update"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"update"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "update" {
		t.Errorf("dispatched to %q, want %q", called, "update")
	}
}

func TestCommand_Execute_PassesRemainingArgs(t *testing.T) {
	var receivedArgs []string

	root := &Command{
		Name: "viaduct",
		Subcommands: []*Command{
			{
				Name: "inspect",
				Run: func(args []string) error {
					receivedArgs = args
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"inspect", "!space:example.org"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "!space:example.org" {
		t.Errorf("args = %v, want [!space:example.org]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var space string
	var target string

	command := &Command{
		Name: "update",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("update", pflag.ContinueOnError)
			flagSet.StringVar(&space, "space", "", "space room ID")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"--space", "!space:example.org", "extra"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if space != "!space:example.org" {
		t.Errorf("space = %q, want %q", space, "!space:example.org")
	}
	if target != "extra" {
		t.Errorf("target = %q, want %q", target, "extra")
	}
}

func TestCommand_Execute_UnknownCommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "viaduct",
		Subcommands: []*Command{
			{Name: "update", Run: func(args []string) error { return nil }},
			{Name: "inspect", Run: func(args []string) error { return nil }},
		},
	}

	err := root.Execute([]string{"updaet"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "update"?`) {
		t.Errorf("error missing suggestion: %v", err)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "update",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("update", pflag.ContinueOnError)
			flagSet.Bool("dry-run", false, "report without writing")
			flagSet.String("space", "", "space room ID")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--dry-rnu"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "--dry-run") {
		t.Errorf("error missing flag suggestion: %v", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name: "viaduct",
		Subcommands: []*Command{
			{Name: "update", Run: func(args []string) error { return nil }},
		},
	}

	if err := root.Execute(nil); err == nil {
		t.Fatal("expected error when no subcommand given")
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	root := &Command{
		Name:        "viaduct",
		Description: "Recompute via routing hints for a space's child rooms.",
		Subcommands: []*Command{
			{Name: "update", Summary: "Rewrite stale via lists"},
			{Name: "inspect", Summary: "Show a space's children"},
		},
	}

	var output bytes.Buffer
	root.PrintHelp(&output)
	help := output.String()

	for _, want := range []string{
		"Recompute via routing hints",
		"update",
		"Rewrite stale via lists",
		"inspect",
		"viaduct <command> [flags]",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}
}
