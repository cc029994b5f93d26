// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

// Package via computes and maintains the via routing-hint server lists
// published on a Matrix space's child rooms.
//
// A space advertises each child room through an m.space.child state
// event whose content carries a via list: homeserver names a client can
// route through to reach the room even when the room's own authority
// server is offline. Stale via lists break resolution, so this package
// recomputes them from live room state.
//
// Selection combines three candidate sources per room:
//
//   - Frequency: servers hosting at least a minimum number of current
//     members, ranked by member count ([CommonServers]).
//   - Authority: the homeservers of the members holding the highest
//     power level, when that level clears a threshold
//     ([AuthorityServers]).
//   - Allow-list: operator-configured servers, admitted only when they
//     actually host a member of the room.
//
// [Merge] unions the three into a deduplicated candidate set and, when
// the result falls short of the configured optimum and relaxation is
// enabled, tops it up by re-running frequency selection with a
// per-server minimum of one member. The top-up is best-effort: a room
// with fewer distinct servers than the optimum stays short.
//
// [Updater] drives the per-room pipeline — fetch membership and power
// levels, select, compare against the published list, and write the
// new m.space.child content when it differs — against a [Session],
// the narrow slice of the Matrix API the pipeline needs. Rooms are
// processed sequentially; per-room failures are isolated and either
// abort the run or, with IgnoreErrors, skip to the next room.
//
// All selection is deterministic: candidate order is fixed by
// selector ranking (with lexicographic tie-breaks) and insertion
// order, so two runs over identical room state produce identical
// lists. Shuffling, when enabled, is applied only to the outward
// order of a list that is about to be written.
package via
