// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package via

import (
	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/viaduct-tools/viaduct/lib/ref"
)

// Source identifies which selector proposed a via candidate. When a
// server is proposed by several sources, the first proposal wins:
// allow-list, then frequency, then authority, then the relaxed
// frequency re-run.
type Source int

// Candidate sources, in merge order.
const (
	SourceAllowList Source = iota
	SourceFrequency
	SourceAuthority
	SourceRelaxed
)

func (s Source) String() string {
	switch s {
	case SourceAllowList:
		return "allow-list"
	case SourceFrequency:
		return "frequency"
	case SourceAuthority:
		return "authority"
	case SourceRelaxed:
		return "relaxed"
	}
	return "unknown"
}

// Candidate is a via server candidate with its provenance. Candidates
// are ephemeral — they exist only within one room's processing pass.
type Candidate struct {
	Server ref.ServerName
	Source Source
}

// Merge combines the allow-list, the frequency-selected servers, and
// the authority-selected servers into the room's candidate via set.
//
// The allow-list is filtered first: a configured server that hosts no
// current member of the room is dropped even though configured. If the
// merged set falls short of the configured optimum and relaxation is
// enabled, frequency selection is re-run over all member servers with
// a per-server minimum of one, capped at
// max(MaxCommonServers, OptimalViaServers), and the result is unioned
// in. The shortfall persists silently when the room simply has fewer
// distinct servers than the optimum.
//
// The result is deduplicated (an insertion-ordered set by
// construction) and deterministic for identical inputs.
func Merge(memberServers, common, authority []ref.ServerName, config Config) []Candidate {
	hosted := make(map[ref.ServerName]struct{}, len(memberServers))
	for _, server := range memberServers {
		hosted[server] = struct{}{}
	}

	merged := linkedhashset.New()
	var candidates []Candidate
	add := func(server ref.ServerName, source Source) {
		if merged.Contains(server.String()) {
			return
		}
		merged.Add(server.String())
		candidates = append(candidates, Candidate{Server: server, Source: source})
	}

	for _, server := range config.AllowedServers {
		if _, ok := hosted[server]; ok {
			add(server, SourceAllowList)
		}
	}
	for _, server := range common {
		add(server, SourceFrequency)
	}
	for _, server := range authority {
		add(server, SourceAuthority)
	}

	if merged.Size() < config.OptimalViaServers && config.RelaxToReachOptimum {
		limit := config.MaxCommonServers
		if config.OptimalViaServers > limit {
			limit = config.OptimalViaServers
		}
		for _, server := range CommonServers(memberServers, limit, 1) {
			add(server, SourceRelaxed)
		}
	}

	return candidates
}

// Servers strips provenance from a candidate list.
func Servers(candidates []Candidate) []ref.ServerName {
	servers := make([]ref.ServerName, len(candidates))
	for index, candidate := range candidates {
		servers[index] = candidate.Server
	}
	return servers
}
