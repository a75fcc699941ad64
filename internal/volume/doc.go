// Package volume models the workflow summary of a single scanned map volume
// and holds the client's authoritative copy of it.
//
// A Snapshot is the full summary payload returned by the service for every
// volume operation. The Store keeps exactly one Snapshot and replaces it
// wholesale on each response; derived values such as edit permission, the
// auto-reload condition, and the layer category lookup are pure functions of
// the snapshot and are never patched incrementally.
//
// Treat this package as the single source of truth for summary semantics;
// when the service grows new item collections or processing counters, extend
// the types here and keep the derivations pure.
package volume
