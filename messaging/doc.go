// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging wraps the slice of the Matrix client-server API
// that Viaduct needs: space hierarchy, room membership, power levels,
// and state updates.
//
// The package provides two core types. [Client] is an unauthenticated
// Matrix client that handles password login, returning authenticated
// [DirectSession] values. Client holds the homeserver URL and HTTP
// transport, shared across all sessions derived from it.
//
// [DirectSession] wraps a Client with an access token for the
// authenticated operations: SpaceHierarchy (a space's child rooms with
// their published via lists), JoinedMembers, PowerLevels,
// SendStateEvent (writing recomputed m.space.child content), and
// identity verification (WhoAmI).
//
// The access token is stored in mmap-backed secret.Buffer memory
// (locked against swap, excluded from core dumps); callers must call
// DirectSession.Close to release it.
//
// All API errors are returned as [*MatrixError] with the standard
// Matrix error code (M_FORBIDDEN, M_NOT_FOUND, etc.) and HTTP status
// code. [IsMatrixError] tests for a specific error code. Request URLs
// are built by string concatenation rather than url.URL to avoid
// double-encoding of path segments that contain URL-encoded characters
// (such as room IDs).
package messaging
