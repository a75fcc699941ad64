// Package tui renders a live volume dashboard in the terminal.
//
// The model subscribes to the session's snapshot changes and redraws the
// selected section whenever a replacement arrives. Map-backed panes (the
// mosaic preview) rebuild from scratch whenever their reinit token moves,
// never patching stale content in place.
package tui
