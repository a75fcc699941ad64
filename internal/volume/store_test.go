package volume_test

import (
	"testing"

	"ohmg/internal/testsupport"
	"ohmg/internal/volume"
)

func TestReplaceIsWholesale(t *testing.T) {
	initial := testsupport.NewSnapshot(t, testsupport.WithPrepared(2))
	store := volume.NewStore(initial, volume.User{})

	next := testsupport.NewSnapshot(t, testsupport.WithLayers(1, volume.MainCategory))
	change := store.Replace(next)

	if len(change.Prev.Items.Prepared) != 2 {
		t.Fatalf("expected prev snapshot preserved in change, got %d prepared", len(change.Prev.Items.Prepared))
	}
	current := store.Snapshot()
	if len(current.Items.Prepared) != 0 {
		t.Fatal("expected prepared items dropped by wholesale replace")
	}
	if len(current.Items.Layers) != 1 {
		t.Fatal("expected layers from replacement snapshot")
	}
}

func TestReplaceRebuildsLookup(t *testing.T) {
	store := volume.NewStore(testsupport.NewSnapshot(t), volume.User{})
	if len(store.LayerCategoryLookup()) != 0 {
		t.Fatal("expected empty lookup before layers exist")
	}

	store.Replace(testsupport.NewSnapshot(t, testsupport.WithLayers(2, volume.MainCategory)))
	lookup := store.LayerCategoryLookup()
	if len(lookup) != 2 {
		t.Fatalf("expected lookup rebuilt with 2 entries, got %d", len(lookup))
	}

	// Mutating the returned map must not leak into the store.
	lookup["baton_rouge_p1"] = "edited"
	if store.LayerCategoryLookup()["baton_rouge_p1"] == "edited" {
		t.Fatal("expected LayerCategoryLookup to return a copy")
	}
}

func TestReplaceWithSelfIsIdempotent(t *testing.T) {
	snapshot := testsupport.NewSnapshot(t,
		testsupport.WithLayers(5, volume.MainCategory),
		testsupport.WithMultimask(3),
	)
	store := volume.NewStore(snapshot, volume.User{Username: "alice", IsAuthenticated: true})

	before := store.MultimaskLabel()
	canEdit := store.UserCanEdit()
	for i := 0; i < 3; i++ {
		store.Replace(snapshot)
	}
	if store.MultimaskLabel() != before {
		t.Fatal("MultimaskLabel changed after replacing snapshot with itself")
	}
	if store.UserCanEdit() != canEdit {
		t.Fatal("UserCanEdit changed after replacing snapshot with itself")
	}
}

func TestSubscribersSeeEveryChangeInOrder(t *testing.T) {
	store := volume.NewStore(testsupport.NewSnapshot(t), volume.User{})

	var changes []volume.Change
	store.Subscribe(volume.SubscriberFunc(func(change volume.Change) {
		changes = append(changes, change)
	}))

	store.Replace(testsupport.NewSnapshot(t, testsupport.WithLayers(1, volume.MainCategory)))
	store.Replace(testsupport.NewSnapshot(t, testsupport.WithLayers(2, volume.MainCategory)))

	if len(changes) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(changes))
	}
	if !changes[0].LayersChanged() {
		t.Fatal("expected first change to report layer count change")
	}
	if len(changes[1].Prev.Items.Layers) != 1 || len(changes[1].Next.Items.Layers) != 2 {
		t.Fatal("expected second change to carry ordered prev/next snapshots")
	}
}

func TestLayersChanged(t *testing.T) {
	two := testsupport.NewSnapshot(t, testsupport.WithLayers(2, volume.MainCategory))
	alsoTwo := testsupport.NewSnapshot(t, testsupport.WithLayers(2, "key map"))
	three := testsupport.NewSnapshot(t, testsupport.WithLayers(3, volume.MainCategory))

	if (volume.Change{Prev: two, Next: alsoTwo}).LayersChanged() {
		t.Fatal("equal layer counts must not report a change")
	}
	if !(volume.Change{Prev: two, Next: three}).LayersChanged() {
		t.Fatal("differing layer counts must report a change")
	}
}
