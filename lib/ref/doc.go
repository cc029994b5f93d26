// Copyright 2026 The Viaduct Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides strongly typed, immutable Matrix identifier
// values: user IDs, room IDs, and server names.
//
// Viaduct's selection logic works almost entirely with server names
// derived from user IDs, so identifiers are validated once at the API
// boundary (JSON deserialization of homeserver responses, CLI flags)
// and handled as typed values from there on. A malformed user ID in a
// membership response is a data-integrity failure in the homeserver
// and surfaces as a parse error immediately — there is no lenient
// path that could silently mis-derive a server name.
//
// All constructors validate their input and return errors for invalid
// identifiers. Once constructed, a ref is immutable. JSON marshaling
// uses the canonical Matrix string form via encoding.TextMarshaler.
package ref
