// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

// Command viaduct recomputes the via routing hints on a Matrix space's
// child room links.
package main

import (
	"fmt"
	"os"

	"github.com/viaduct-tools/viaduct/cmd/viaduct/commands"
)

func main() {
	if err := commands.Root().Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
