// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package ref

// EventType identifies a Matrix state or timeline event type. Viaduct
// only touches standard Matrix event types (m.space.child,
// m.room.power_levels).
//
// EventType is a named string type, not a struct wrapper: event types
// are opaque identifiers that need no parsing or validation. The type
// exists purely for compile-time safety — preventing accidental use of
// a state key where an event type is expected (or vice versa).
type EventType string

// Event types Viaduct reads and writes.
const (
	// EventTypeSpaceChild is the state event a space publishes for each
	// child room. Its content carries the suggested flag and via list.
	EventTypeSpaceChild EventType = "m.space.child"

	// EventTypePowerLevels is the room state event mapping members to
	// their power levels.
	EventTypePowerLevels EventType = "m.room.power_levels"
)

// String returns the event type string (e.g., "m.space.child").
func (t EventType) String() string { return string(t) }
