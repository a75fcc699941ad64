package reinit

import (
	"sync"

	"github.com/google/uuid"

	"ohmg/internal/volume"
)

// Token identifies one generation of a dependent view. Views compare tokens
// by equality; any difference means rebuild from scratch.
type Token string

func newToken() Token {
	return Token(uuid.NewString())
}

// Coordinator decides when the mosaic preview and the layer viewer must be
// reinitialized rather than patched.
type Coordinator struct {
	mu     sync.Mutex
	mosaic Token
	viewer Token
}

// NewCoordinator seeds both views with fresh tokens.
func NewCoordinator() *Coordinator {
	return &Coordinator{mosaic: newToken(), viewer: newToken()}
}

// Mosaic returns the current mosaic preview token.
func (c *Coordinator) Mosaic() Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mosaic
}

// Viewer returns the current layer viewer token.
func (c *Coordinator) Viewer() Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewer
}

// SnapshotReplaced bumps both tokens when the layer collection changed
// length across a replacement. Equal-length replacements leave the tokens
// alone.
func (c *Coordinator) SnapshotReplaced(change volume.Change) {
	if !change.LayersChanged() {
		return
	}
	c.ForceAll()
}

// ForceAll unconditionally bumps both tokens. Used when index or key layer
// definitions changed, which never shows up as a length difference.
func (c *Coordinator) ForceAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mosaic = newToken()
	c.viewer = newToken()
}

// Retarget bumps only the viewer token. The viewer's target URL and extent
// are not reactive on their own, so opening a different document or layer
// must remount it.
func (c *Coordinator) Retarget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.viewer = newToken()
}
