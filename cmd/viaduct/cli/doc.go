// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command dispatch framework for the viaduct
// binary: a declarative command tree with pflag flag sets, structured
// help output, and typo suggestions for unknown commands and flags.
package cli
