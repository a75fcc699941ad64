// Package reinit hands out generation tokens for the map-rendering views.
//
// A token is an opaque unique value; consumers key their whole view on it,
// so replacing the token forces a teardown and rebuild instead of an
// in-place update. One token exists per dependent view: the inline mosaic
// preview and the modal single-layer viewer.
package reinit
