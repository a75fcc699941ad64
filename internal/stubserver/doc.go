// Package stubserver implements the service side of the volume operation
// contract for local development and integration tests.
//
// It persists volumes and their documents in SQLite and answers the two
// endpoints the client speaks to: the volume summary endpoint (full
// snapshot per operation) and the per-document georeference endpoint
// (set-status acks). The initialize operation simulates the asynchronous
// bulk sheet load: sheets appear one at a time while the volume reports the
// initializing status, then the status flips to started.
//
// The snapshot assembly mirrors the production service: documents are
// bucketed by status into the four item collections, with transitional
// statuses counted in the processing counters.
package stubserver
