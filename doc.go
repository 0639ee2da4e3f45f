// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cloudsync gives serializable application objects "save myself to
// the cloud" and "load myself from the cloud" behavior against any remote
// document store, without each type re-implementing storage logic.
//
// An object participates by satisfying [Syncable]: report a stable identity
// key and a type tag. Serialization happens through the document package;
// the destination collection for each type tag comes from a
// [config.Resolver]; the remote operations go through a [store.Client]
// (in-memory, HTTP, PostgreSQL and SQLite clients ship in store/...).
//
// The [Engine] composes those collaborators into the sync verbs Save, Load,
// LoadAll, Update and Delete, applying retry with exponential backoff and
// jitter to transient store failures, optimistic-concurrency checks via
// revision tokens, and a merge policy for concurrent updates. Verbs are
// stateless per call (apart from an optional change-detection cache) and
// safe to invoke concurrently.
//
//	eng, err := cloudsync.New(client, resolver)
//	...
//	res, err := eng.Save(ctx, &user)          // res.Outcome: Created/Updated/...
//	res, err = eng.Update(ctx, &user, cloudsync.FieldUnion{})
package cloudsync
