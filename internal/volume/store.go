package volume

import "sync"

// Change describes one snapshot replacement as seen by subscribers.
type Change struct {
	Prev Snapshot
	Next Snapshot
}

// LayersChanged reports whether the layer collection changed length across
// the replacement, which forces dependent map views to reinitialize.
func (c Change) LayersChanged() bool {
	return len(c.Prev.Items.Layers) != len(c.Next.Items.Layers)
}

// Subscriber receives every snapshot replacement, in order.
type Subscriber interface {
	SnapshotReplaced(Change)
}

// SubscriberFunc adapts a plain function to the Subscriber interface.
type SubscriberFunc func(Change)

// SnapshotReplaced calls the wrapped function.
func (f SubscriberFunc) SnapshotReplaced(change Change) { f(change) }

// Store holds the single authoritative snapshot for one dashboard session.
// Replace is the only mutator and is total: it accepts any server response
// verbatim, never merging fields. The last response to arrive wins; a stale
// overwrite self-corrects on the next poll or operation.
type Store struct {
	mu       sync.RWMutex
	user     User
	snapshot Snapshot
	lookup   map[string]string
	subs     []Subscriber
}

// NewStore seeds a store with the server-rendered initial snapshot and the
// acting user record.
func NewStore(initial Snapshot, user User) *Store {
	return &Store{
		user:     user,
		snapshot: initial,
		lookup:   initial.LayerCategoryLookup(),
	}
}

// Subscribe registers a subscriber for future replacements. Subscribers are
// notified synchronously in registration order, outside the store lock.
func (s *Store) Subscribe(sub Subscriber) {
	if sub == nil {
		return
	}
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
}

// Replace installs the next snapshot wholesale, rebuilds the category
// lookup, and notifies subscribers. It returns the change for callers that
// react inline instead of subscribing.
func (s *Store) Replace(next Snapshot) Change {
	s.mu.Lock()
	change := Change{Prev: s.snapshot, Next: next}
	s.snapshot = next
	s.lookup = next.LayerCategoryLookup()
	subs := append([]Subscriber(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.SnapshotReplaced(change)
	}
	return change
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// UserCanEdit reports the acting user's edit permission for the current
// snapshot.
func (s *Store) UserCanEdit() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.UserCanEdit(s.user)
}

// SheetsLoading reports whether the bulk sheet load is running.
func (s *Store) SheetsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.SheetsLoading()
}

// AutoReload reports whether background polling should be active.
func (s *Store) AutoReload() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.AutoReload()
}

// LayerCategoryLookup returns a copy of the slug-to-category lookup rebuilt
// on the most recent replacement.
func (s *Store) LayerCategoryLookup() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lookup := make(map[string]string, len(s.lookup))
	for slug, category := range s.lookup {
		lookup[slug] = category
	}
	return lookup
}

// MultimaskLabel renders the assigned/total mask label for the current
// snapshot.
func (s *Store) MultimaskLabel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.MultimaskLabel()
}

// User returns the acting user record.
func (s *Store) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}
