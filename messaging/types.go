// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"github.com/viaduct-tools/viaduct/lib/ref"
)

// LoginRequest is the request body for password login.
type LoginRequest struct {
	Type                     string `json:"type"`
	User                     string `json:"user"`
	Password                 string `json:"password"`
	DeviceID                 string `json:"device_id,omitempty"`
	InitialDeviceDisplayName string `json:"initial_device_display_name,omitempty"`
}

// AuthResponse is returned by Login.
type AuthResponse struct {
	UserID      ref.UserID `json:"user_id"`
	AccessToken string     `json:"access_token"`
	DeviceID    string     `json:"device_id"`
}

// WhoAmIResponse is returned by WhoAmI.
type WhoAmIResponse struct {
	UserID   ref.UserID `json:"user_id"`
	DeviceID string     `json:"device_id,omitempty"`
}

// ServerVersionsResponse is returned by Client.ServerVersions.
type ServerVersionsResponse struct {
	Versions         []string        `json:"versions"`
	UnstableFeatures map[string]bool `json:"unstable_features,omitempty"`
}

// HierarchyOptions controls the space hierarchy fetch.
type HierarchyOptions struct {
	// Limit is the maximum number of rooms per response page.
	// 0 uses the server default.
	Limit int
	// MaxDepth bounds how deep the server descends into nested
	// sub-spaces. 0 uses the server default. Viaduct passes 1: only
	// the root space's direct children are processed.
	MaxDepth int
	// From is the pagination token from a previous response.
	From string
}

// HierarchyResponse is returned by SpaceHierarchy.
// The requested space itself is the first entry in Rooms.
type HierarchyResponse struct {
	Rooms     []HierarchyRoom `json:"rooms"`
	NextBatch string          `json:"next_batch,omitempty"`
}

// HierarchyRoom is one room in a space hierarchy response. For the
// root space, ChildrenState carries the m.space.child state events
// whose via lists Viaduct recomputes.
type HierarchyRoom struct {
	RoomID           ref.RoomID   `json:"room_id"`
	Name             string       `json:"name,omitempty"`
	RoomType         string       `json:"room_type,omitempty"`
	NumJoinedMembers int          `json:"num_joined_members"`
	ChildrenState    []ChildEvent `json:"children_state"`
}

// ChildEvent is an m.space.child state event as published in a space's
// hierarchy. The state key is the child room's ID; an absent or empty
// state key deserializes to the zero RoomID.
type ChildEvent struct {
	Type           ref.EventType `json:"type"`
	StateKey       ref.RoomID    `json:"state_key"`
	Sender         ref.UserID    `json:"sender,omitempty"`
	OriginServerTS int64         `json:"origin_server_ts,omitempty"`
	Content        ChildContent  `json:"content"`
}

// ChildContent is the content of an m.space.child state event: the
// suggested flag and the via routing-hint server list. The via list is
// ordered on the wire — clients may treat the order as a preference
// hint — even though selection itself treats it as a set.
type ChildContent struct {
	Suggested bool             `json:"suggested"`
	Via       []ref.ServerName `json:"via"`
}

// JoinedMembersResponse is the wire shape of the joined_members
// endpoint: a map from user ID to profile.
type JoinedMembersResponse struct {
	Joined map[ref.UserID]MemberProfile `json:"joined"`
}

// MemberProfile is the per-member payload of a joined_members response.
// Viaduct only needs the user IDs (the map keys); the profile fields
// are decoded for completeness.
type MemberProfile struct {
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// PowerLevelsContent is the content of an m.room.power_levels state
// event, reduced to the fields Viaduct reads: explicit per-user levels
// and the default for everyone else.
type PowerLevelsContent struct {
	Users        map[ref.UserID]int `json:"users,omitempty"`
	UsersDefault int                `json:"users_default,omitempty"`
}

// Level returns the effective power level for a member: the explicit
// per-user override if present, else the room default.
func (p *PowerLevelsContent) Level(userID ref.UserID) int {
	if level, ok := p.Users[userID]; ok {
		return level
	}
	return p.UsersDefault
}

// SendEventResponse is returned by SendStateEvent.
type SendEventResponse struct {
	EventID string `json:"event_id"`
}
