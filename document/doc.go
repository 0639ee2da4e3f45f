// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package document converts application objects to and from the schema-less
// [models.Document] representation used for remote storage.
//
// Conversion goes through encoding/json, so any value whose fields are
// representable as JSON round-trips losslessly: for all supported objects o,
// Unmarshal(Marshal(o)) reconstructs o. Failures are split into two
// distinguishable kinds so callers can tell corrupt data from an unreachable
// store: [ErrUnsupportedField] (the object cannot be represented) and
// [ErrSchemaMismatch] (a stored document no longer fits the target type).
package document
