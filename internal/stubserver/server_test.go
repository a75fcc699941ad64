package stubserver_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"ohmg/internal/remote"
	"ohmg/internal/stubserver"
	"ohmg/internal/testsupport"
	"ohmg/internal/volume"
)

const testToken = "stub-test-token"

func newTestServer(t *testing.T, opts stubserver.Options) (*stubserver.Store, *httptest.Server) {
	t.Helper()
	store := newTestStore(t)
	if opts.CSRFToken == "" {
		opts.CSRFToken = testToken
	}
	if opts.LoadDelay == 0 {
		opts.LoadDelay = time.Millisecond
	}
	srv := stubserver.NewServer(store, opts)
	httpSrv := httptest.NewServer(srv.Router())
	t.Cleanup(httpSrv.Close)
	srv.SetBaseURL(httpSrv.URL)
	return store, httpSrv
}

func newTestClient(t *testing.T) *remote.Client {
	t.Helper()
	client, err := remote.New(testToken)
	if err != nil {
		t.Fatalf("remote.New: %v", err)
	}
	return client
}

func summaryEndpoint(baseURL, identifier string) string {
	return fmt.Sprintf("%s/volumes/%s/summary", baseURL, identifier)
}

func TestServerRejectsBadCSRFToken(t *testing.T) {
	_, httpSrv := newTestServer(t, stubserver.Options{})

	client, err := remote.New("wrong-token")
	if err != nil {
		t.Fatalf("remote.New: %v", err)
	}
	_, err = client.SubmitVolumeOperation(context.Background(),
		summaryEndpoint(httpSrv.URL, "vol1"), remote.OpRefresh, remote.VolumePayload{})
	if !remote.IsStatus(err, 403) {
		t.Fatalf("error = %v, want 403 status error", err)
	}
}

func TestServerRefreshUnknownVolume(t *testing.T) {
	_, httpSrv := newTestServer(t, stubserver.Options{})
	client := newTestClient(t)

	_, err := client.SubmitVolumeOperation(context.Background(),
		summaryEndpoint(httpSrv.URL, "nope"), remote.OpRefresh, remote.VolumePayload{})
	if !remote.IsStatus(err, 404) {
		t.Fatalf("error = %v, want 404 status error", err)
	}
}

func TestServerInitializeLoadsSheets(t *testing.T) {
	store, httpSrv := newTestServer(t, stubserver.Options{})
	client := newTestClient(t)
	ctx := context.Background()

	if err := store.CreateVolume(ctx, stubserver.VolumeRecord{Identifier: "vol1", Title: "Vol 1", SheetTotal: 3}); err != nil {
		t.Fatalf("CreateVolume: %v", err)
	}

	endpoint := summaryEndpoint(httpSrv.URL, "vol1")
	snapshot, err := client.SubmitVolumeOperation(ctx, endpoint, remote.OpInitialize, remote.VolumePayload{})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if snapshot.Status != volume.StatusInitializing {
		t.Errorf("status after initialize = %q, want %q", snapshot.Status, volume.StatusInitializing)
	}
	if !snapshot.AutoReload() {
		t.Error("snapshot should request auto reload while initializing")
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		snapshot, err = client.SubmitVolumeOperation(ctx, endpoint, remote.OpRefresh, remote.VolumePayload{})
		if err != nil {
			t.Fatalf("refresh: %v", err)
		}
		if snapshot.Status == "started" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("load never finished, status %q, loaded %d/%d",
				snapshot.Status, snapshot.SheetCt.Loaded, snapshot.SheetCt.Total)
		}
		time.Sleep(5 * time.Millisecond)
	}

	if snapshot.SheetCt.Loaded != 3 {
		t.Errorf("loaded sheets = %d, want 3", snapshot.SheetCt.Loaded)
	}
	if len(snapshot.Items.Unprepared) != 3 {
		t.Errorf("unprepared count = %d, want 3", len(snapshot.Items.Unprepared))
	}
	if snapshot.AutoReload() {
		t.Error("finished volume should not request auto reload")
	}
	if snapshot.LoadedBy.Name == "" {
		t.Error("loaded_by should record who started the load")
	}
}

func TestServerSnapshotBucketsByStatus(t *testing.T) {
	store, httpSrv := newTestServer(t, stubserver.Options{})
	client := newTestClient(t)
	ctx := context.Background()

	if err := store.CreateVolume(ctx, stubserver.VolumeRecord{Identifier: "vol1", SheetTotal: 7}); err != nil {
		t.Fatalf("CreateVolume: %v", err)
	}
	statuses := []volume.DocStatus{
		volume.DocUnprepared,
		volume.DocSplitting,
		volume.DocPrepared,
		volume.DocGeoreferencing,
		volume.DocGeoreferenced,
		volume.DocTrimming,
		volume.DocNonMap,
	}
	for i, status := range statuses {
		_, err := store.InsertDocument(ctx, stubserver.DocumentRecord{
			VolumeID: "vol1",
			PageNo:   i + 1,
			Status:   status,
			Slug:     fmt.Sprintf("vol1_p%d", i+1),
		})
		if err != nil {
			t.Fatalf("InsertDocument: %v", err)
		}
	}

	snapshot, err := client.SubmitVolumeOperation(ctx,
		summaryEndpoint(httpSrv.URL, "vol1"), remote.OpRefresh, remote.VolumePayload{})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if got := len(snapshot.Items.Unprepared); got != 2 {
		t.Errorf("unprepared = %d, want 2 (unprepared + splitting)", got)
	}
	if got := len(snapshot.Items.Prepared); got != 2 {
		t.Errorf("prepared = %d, want 2 (prepared + georeferencing)", got)
	}
	if got := len(snapshot.Items.Layers); got != 2 {
		t.Errorf("layers = %d, want 2 (georeferenced + trimming)", got)
	}
	if got := len(snapshot.Items.NonMaps); got != 1 {
		t.Errorf("nonmaps = %d, want 1", got)
	}
	want := volume.Processing{Unprep: 1, Prep: 1, GeoTrim: 1}
	if snapshot.Items.Processing != want {
		t.Errorf("processing = %+v, want %+v", snapshot.Items.Processing, want)
	}
	if !snapshot.AutoReload() {
		t.Error("in-flight processing should request auto reload")
	}
}

func TestServerSetIndexLayersUpdatesLookups(t *testing.T) {
	store, httpSrv := newTestServer(t, stubserver.Options{})
	client := newTestClient(t)
	ctx := context.Background()

	if err := store.CreateVolume(ctx, stubserver.VolumeRecord{Identifier: "vol1", SheetTotal: 2}); err != nil {
		t.Fatalf("CreateVolume: %v", err)
	}
	for page := 1; page <= 2; page++ {
		_, err := store.InsertDocument(ctx, stubserver.DocumentRecord{
			VolumeID: "vol1",
			PageNo:   page,
			Status:   volume.DocGeoreferenced,
			Slug:     fmt.Sprintf("vol1_p%d", page),
		})
		if err != nil {
			t.Fatalf("InsertDocument: %v", err)
		}
	}

	snapshot, err := client.SubmitVolumeOperation(ctx,
		summaryEndpoint(httpSrv.URL, "vol1"), remote.OpSetIndexLayers, remote.VolumePayload{
			LayerCategoryLookup: map[string]string{"vol1_p1": "key map"},
		})
	if err != nil {
		t.Fatalf("set-index-layers: %v", err)
	}

	if got := len(snapshot.SortedLayers["key map"]); got != 1 {
		t.Errorf("key map layers = %d, want 1", got)
	}
	if got := len(snapshot.SortedLayers[volume.MainCategory]); got != 1 {
		t.Errorf("main layers = %d, want 1", got)
	}
	if slug := snapshot.SortedLayers["key map"][0].Slug; slug != "vol1_p1" {
		t.Errorf("key map layer slug = %q, want %q", slug, "vol1_p1")
	}
}

func TestServerSetStatusMovesDocument(t *testing.T) {
	store, httpSrv := newTestServer(t, stubserver.Options{})
	client := newTestClient(t)
	ctx := context.Background()

	testsupport.NewVolume(t, store, "vol1", 1)
	id := testsupport.NewStoredDocument(t, store, "vol1", 1, volume.DocUnprepared)

	docEndpoint := fmt.Sprintf("%s/documents/%d/georeference", httpSrv.URL, id)
	if err := client.SetDocumentStatus(ctx, docEndpoint, string(volume.DocPrepared)); err != nil {
		t.Fatalf("SetDocumentStatus: %v", err)
	}

	snapshot, err := client.SubmitVolumeOperation(ctx,
		summaryEndpoint(httpSrv.URL, "vol1"), remote.OpRefresh, remote.VolumePayload{})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(snapshot.Items.Unprepared) != 0 || len(snapshot.Items.Prepared) != 1 {
		t.Errorf("buckets after set-status: unprepared=%d prepared=%d, want 0/1",
			len(snapshot.Items.Unprepared), len(snapshot.Items.Prepared))
	}
}

func TestServerSetStatusUnknownDocument(t *testing.T) {
	_, httpSrv := newTestServer(t, stubserver.Options{})
	client := newTestClient(t)

	endpoint := fmt.Sprintf("%s/documents/%d/georeference", httpSrv.URL, 999)
	err := client.SetDocumentStatus(context.Background(), endpoint, string(volume.DocPrepared))
	if !remote.IsStatus(err, 404) {
		t.Fatalf("error = %v, want 404 status error", err)
	}
}
