// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package via

import (
	"math/rand/v2"

	"github.com/viaduct-tools/viaduct/lib/ref"
)

// Plan is the proposed state change for one child room: the current
// via list read from the space's m.space.child event and the computed
// replacement.
type Plan struct {
	RoomID    ref.RoomID
	Suggested bool
	Current   []ref.ServerName
	Computed  []ref.ServerName
}

// Matches reports whether the current and computed via lists contain
// the same servers, ignoring order and duplicates. A matching plan is
// skipped without a write, which keeps repeated runs idempotent even
// when shuffling is enabled.
func (p *Plan) Matches() bool {
	current := make(map[ref.ServerName]struct{}, len(p.Current))
	for _, server := range p.Current {
		current[server] = struct{}{}
	}
	computed := make(map[ref.ServerName]struct{}, len(p.Computed))
	for _, server := range p.Computed {
		computed[server] = struct{}{}
	}
	if len(current) != len(computed) {
		return false
	}
	for server := range computed {
		if _, ok := current[server]; !ok {
			return false
		}
	}
	return true
}

// Shuffle randomizes the order of the computed list in place.
func (p *Plan) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(p.Computed), func(i, j int) {
		p.Computed[i], p.Computed[j] = p.Computed[j], p.Computed[i]
	})
}
