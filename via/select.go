// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package via

import (
	"sort"

	"github.com/viaduct-tools/viaduct/lib/ref"
)

// CommonServers ranks the servers in a member-derived multiset by how
// many members they host and returns at most limit servers, dropping
// any server hosting fewer than minMembers. Equal counts are broken
// lexicographically by server name, so the result is deterministic and
// reproducible across runs.
//
// Every returned server appears at least minMembers times in servers.
func CommonServers(servers []ref.ServerName, limit, minMembers int) []ref.ServerName {
	counts := make(map[ref.ServerName]int, len(servers))
	for _, server := range servers {
		counts[server]++
	}

	qualified := make([]ref.ServerName, 0, len(counts))
	for server, count := range counts {
		if count >= minMembers {
			qualified = append(qualified, server)
		}
	}

	sort.Slice(qualified, func(i, j int) bool {
		if counts[qualified[i]] != counts[qualified[j]] {
			return counts[qualified[i]] > counts[qualified[j]]
		}
		return qualified[i].String() < qualified[j].String()
	})

	if len(qualified) > limit {
		qualified = qualified[:limit]
	}
	return qualified
}

// AuthorityServers returns the homeservers of the members holding the
// room's highest power level, provided that level exceeds threshold.
// Ties are all included: a room with several members at the maximum
// yields every one of their servers. If the maximum is at or below the
// threshold, no one qualifies and the result is empty.
//
// A room always has at least one member (the querying account), so an
// empty levels map indicates an upstream fetch defect; it yields an
// empty result rather than a panic.
//
// The returned servers are deduplicated and sorted for determinism.
func AuthorityServers(levels map[ref.UserID]int, threshold int) []ref.ServerName {
	if len(levels) == 0 {
		return nil
	}

	highest := 0
	first := true
	for _, level := range levels {
		if first || level > highest {
			highest = level
			first = false
		}
	}
	if highest <= threshold {
		return nil
	}

	seen := make(map[ref.ServerName]struct{})
	var servers []ref.ServerName
	for userID, level := range levels {
		if level != highest {
			continue
		}
		server := userID.Server()
		if _, duplicate := seen[server]; duplicate {
			continue
		}
		seen[server] = struct{}{}
		servers = append(servers, server)
	}

	sort.Slice(servers, func(i, j int) bool {
		return servers[i].String() < servers[j].String()
	})
	return servers
}
