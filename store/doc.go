// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store defines the transport-agnostic contract between the sync
// engine and a remote document store.
//
// The primary abstraction is [Client]: read, write, delete and list of a
// single document at a key, with optional optimistic-concurrency checks via
// revision tokens. This is the seam at which any concrete document-store
// transport plugs in — the engine never depends on a vendor protocol.
// Concrete implementations live in the subpackages memstore (in-memory),
// httpstore (HTTP/REST), pgstore (PostgreSQL) and sqlitestore (SQLite).
//
// Error values defined in errors.go let callers handle failures
// transport-agnostically with [errors.Is]: [ErrNotFound],
// [ErrRevisionMismatch], [ErrPermissionDenied], plus the [Transient] class
// for failures expected to clear on retry.
package store
