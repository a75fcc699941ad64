// Package main hosts the ohmg CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into volume
// operations against the georeferencing service: summary rendering, bulk
// sheet loads, lookup refreshes, per-document status transitions, index
// layer classification, and configuration scaffolding. It centralizes
// configuration resolution and session construction so subcommands can focus
// on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
