package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"ohmg/internal/classify"
	"ohmg/internal/logging"
	"ohmg/internal/poll"
	"ohmg/internal/reinit"
	"ohmg/internal/remote"
	"ohmg/internal/volume"
)

// Dashboard is one user's session against a single volume.
type Dashboard struct {
	client          *remote.Client
	summaryEndpoint string
	store           *volume.Store
	views           *reinit.Coordinator
	session         *classify.Session
	poller          *poll.Supervisor
	logger          *slog.Logger

	lookupsRefreshing atomic.Bool

	noticeMu sync.Mutex
	notice   string

	watchMu   sync.Mutex
	watchNext int
	watchers  map[int]chan volume.Change
}

// NewDashboard wires a session around the initial server-rendered snapshot.
// The supervisor starts polling immediately when the initial snapshot
// already reports work in flight.
func NewDashboard(client *remote.Client, summaryEndpoint string, initial volume.Snapshot, user volume.User, interval time.Duration, logger *slog.Logger) (*Dashboard, error) {
	if client == nil {
		return nil, errors.New("dashboard requires an operation client")
	}
	if summaryEndpoint == "" {
		return nil, errors.New("dashboard requires a summary endpoint")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	d := &Dashboard{
		client:          client,
		summaryEndpoint: summaryEndpoint,
		store:           volume.NewStore(initial, user),
		views:           reinit.NewCoordinator(),
		session:         &classify.Session{},
		logger:          logger,
		watchers:        make(map[int]chan volume.Change),
	}
	d.poller = poll.NewSupervisor(interval, d.backgroundRefresh, logger.With(logging.String("component", "poll")))

	d.store.Subscribe(d.views)
	d.store.Subscribe(volume.SubscriberFunc(func(change volume.Change) {
		d.poller.Observe(change.Next.AutoReload())
		d.fanOut(change)
	}))
	d.poller.Observe(initial.AutoReload())

	return d, nil
}

// Store exposes the session's snapshot store.
func (d *Dashboard) Store() *volume.Store { return d.store }

// Views exposes the reinit coordinator for map-rendering consumers.
func (d *Dashboard) Views() *reinit.Coordinator { return d.views }

// Polling reports whether the background refresh timer is running.
func (d *Dashboard) Polling() bool { return d.poller.Polling() }

// Close stops background polling. The session is unusable afterwards.
func (d *Dashboard) Close() { d.poller.Close() }

// Apply replaces the snapshot with an operation response. Subscribers move
// the supervisor and reinit coordinator along with it.
func (d *Dashboard) Apply(snapshot volume.Snapshot) volume.Change {
	return d.store.Replace(snapshot)
}

func (d *Dashboard) backgroundRefresh(ctx context.Context) error {
	_, err := d.Refresh(ctx)
	return err
}

// Refresh fetches the current snapshot and applies it.
func (d *Dashboard) Refresh(ctx context.Context) (volume.Snapshot, error) {
	snapshot, err := d.client.SubmitVolumeOperation(ctx, d.summaryEndpoint, remote.OpRefresh, remote.VolumePayload{})
	if err != nil {
		d.setNotice(fmt.Sprintf("refresh failed: %v", err))
		return volume.Snapshot{}, err
	}
	d.clearNotice()
	d.Apply(*snapshot)
	return *snapshot, nil
}

// Initialize triggers the bulk sheet load on the server. The response
// snapshot reports the initializing status, which starts the poller.
func (d *Dashboard) Initialize(ctx context.Context) (volume.Snapshot, error) {
	snapshot, err := d.client.SubmitVolumeOperation(ctx, d.summaryEndpoint, remote.OpInitialize, remote.VolumePayload{})
	if err != nil {
		d.setNotice(fmt.Sprintf("initialize failed: %v", err))
		return volume.Snapshot{}, err
	}
	d.clearNotice()
	d.Apply(*snapshot)
	return *snapshot, nil
}

// RefreshLookups asks the server to recompute its summary lookups. The
// in-flight flag backs the loading indicator and is always reset, success or
// failure.
func (d *Dashboard) RefreshLookups(ctx context.Context) (volume.Snapshot, error) {
	d.lookupsRefreshing.Store(true)
	defer d.lookupsRefreshing.Store(false)

	snapshot, err := d.client.SubmitVolumeOperation(ctx, d.summaryEndpoint, remote.OpRefreshLookups, remote.VolumePayload{})
	if err != nil {
		d.setNotice(fmt.Sprintf("refresh-lookups failed: %v", err))
		return volume.Snapshot{}, err
	}
	d.clearNotice()
	d.Apply(*snapshot)
	return *snapshot, nil
}

// LookupsRefreshing reports whether a refresh-lookups call is in flight.
func (d *Dashboard) LookupsRefreshing() bool {
	return d.lookupsRefreshing.Load()
}

// SetDocumentStatus posts a set-status operation against one document, then
// immediately refreshes: the per-document ack never carries volume state.
func (d *Dashboard) SetDocumentStatus(ctx context.Context, docEndpoint, status string) (volume.Snapshot, error) {
	if err := d.client.SetDocumentStatus(ctx, docEndpoint, status); err != nil {
		d.setNotice(fmt.Sprintf("set-status failed: %v", err))
		return volume.Snapshot{}, err
	}
	return d.Refresh(ctx)
}

// OpenClassification starts a classification session seeded from the
// current lookup. Reports false when one is already open.
func (d *Dashboard) OpenClassification() bool {
	return d.session.Open(d.store.LayerCategoryLookup())
}

// Classifying reports whether a classification session is open.
func (d *Dashboard) Classifying() bool { return d.session.Editing() }

// SetCategory edits the open classification draft.
func (d *Dashboard) SetCategory(slug, category string) error {
	return d.session.Set(slug, category)
}

// ClassificationDraft returns a copy of the open draft.
func (d *Dashboard) ClassificationDraft() map[string]string {
	return d.session.Assignments()
}

// DiscardClassification drops the open draft.
func (d *Dashboard) DiscardClassification() { d.session.Discard() }

// CommitIndexLayers submits the classification draft as a set-index-layers
// operation. The operation always forces both map views to reinitialize,
// whether or not the layer count moved.
func (d *Dashboard) CommitIndexLayers(ctx context.Context) (volume.Snapshot, error) {
	draft, ok := d.session.Commit()
	if !ok {
		return volume.Snapshot{}, classify.ErrNotEditing
	}
	payload := remote.VolumePayload{
		IndexLayerIDs:       []string{},
		LayerCategoryLookup: draft,
	}
	snapshot, err := d.client.SubmitVolumeOperation(ctx, d.summaryEndpoint, remote.OpSetIndexLayers, payload)
	if err != nil {
		d.setNotice(fmt.Sprintf("set-index-layers failed: %v", err))
		return volume.Snapshot{}, err
	}
	d.clearNotice()
	d.Apply(*snapshot)
	d.views.ForceAll()
	return *snapshot, nil
}

// WaitIdle blocks until the auto-reload condition clears, relying on the
// polling supervisor to keep fetching fresh snapshots.
func (d *Dashboard) WaitIdle(ctx context.Context) error {
	changes, cancel := d.Watch(4)
	defer cancel()
	for {
		if !d.store.AutoReload() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changes:
		}
	}
}

// Watch returns a channel receiving every snapshot replacement and a cancel
// function releasing it. Slow receivers miss intermediate changes rather
// than blocking the store.
func (d *Dashboard) Watch(buffer int) (<-chan volume.Change, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan volume.Change, buffer)

	d.watchMu.Lock()
	id := d.watchNext
	d.watchNext++
	d.watchers[id] = ch
	d.watchMu.Unlock()

	cancel := func() {
		d.watchMu.Lock()
		delete(d.watchers, id)
		d.watchMu.Unlock()
	}
	return ch, cancel
}

func (d *Dashboard) fanOut(change volume.Change) {
	d.watchMu.Lock()
	defer d.watchMu.Unlock()
	for _, ch := range d.watchers {
		select {
		case ch <- change:
		default:
		}
	}
}

// Notice returns the most recent operation failure message, or "" when the
// last operation succeeded.
func (d *Dashboard) Notice() string {
	d.noticeMu.Lock()
	defer d.noticeMu.Unlock()
	return d.notice
}

func (d *Dashboard) setNotice(message string) {
	d.noticeMu.Lock()
	d.notice = message
	d.noticeMu.Unlock()
}

func (d *Dashboard) clearNotice() {
	d.noticeMu.Lock()
	d.notice = ""
	d.noticeMu.Unlock()
}
