// Package api assembles one dashboard session and exposes the workflows the
// CLI and TUI trigger.
//
// A Dashboard owns the snapshot store, the operation client, the polling
// supervisor, the view reinit coordinator, and the classification session,
// wired so that every operation response flows through the store and every
// replacement drives the supervisor and coordinator. Commands call the
// workflow methods here instead of talking to the lower packages directly.
package api
