// Package config supplies each syncable type with its destination and holds
// the tunable knobs of the sync engine.
//
// Two concerns live here:
//
//   - The [Resolver]: a static registry mapping a type tag to its
//     [models.Destination] (collection plus opaque credentials handle).
//     Registration happens once at process start; asking for an
//     unregistered type is a programmer error surfaced as
//     [ErrMissingConfiguration], never retried.
//
//   - The [Config] loader: configuration is assembled from multiple sources
//     in the following priority order (later sources only fill fields the
//     earlier ones left empty):
//     1. Environment variables
//     2. JSON config file (path resolved from source 1)
//     3. Built-in defaults
//
// The main entry point is [GetConfig].
package config
