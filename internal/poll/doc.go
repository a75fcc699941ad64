// Package poll owns the single background refresh timer of a dashboard
// session.
//
// The Supervisor is a two-state machine (idle, polling) driven by edge
// transitions of the auto-reload condition. Entering the polling state
// starts one repeating timer that invokes the session's refresh function;
// leaving it cancels the timer. Observing the same condition repeatedly is
// idempotent, so feeding it every snapshot replacement is safe.
package poll
