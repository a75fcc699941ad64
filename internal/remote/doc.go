// Package remote issues operation requests against the georeferencing
// service and decodes the volume summaries it returns.
//
// Volume-level operations post to the volume's summary endpoint and always
// come back as a full snapshot. Per-document operations post to the
// document's own georeference endpoint and return only a small ack; callers
// must follow up with a refresh to observe the resulting state.
//
// Failures are never retried here. Transport errors, non-2xx statuses, and
// malformed bodies each surface as distinct error shapes so callers can
// decide what to reset or display; the polling loop's next tick is the
// natural retry path for transient refresh failures.
package remote
