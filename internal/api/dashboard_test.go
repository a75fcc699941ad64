package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ohmg/internal/api"
	"ohmg/internal/remote"
	"ohmg/internal/testsupport"
	"ohmg/internal/volume"
)

// scriptedVolume serves the summary endpoint from an in-memory snapshot that
// tests mutate between operations.
type scriptedVolume struct {
	mu         sync.Mutex
	current    volume.Snapshot
	operations []string
}

func (s *scriptedVolume) set(snapshot volume.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snapshot
}

func (s *scriptedVolume) ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.operations...)
}

func (s *scriptedVolume) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		op, _ := body["operation"].(string)

		s.mu.Lock()
		s.operations = append(s.operations, op)
		snapshot := s.current
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(snapshot)
	})
}

func newDashboard(t *testing.T, endpoint string, initial volume.Snapshot, interval time.Duration) *api.Dashboard {
	t.Helper()
	client, err := remote.New("token-1")
	if err != nil {
		t.Fatalf("remote.New returned error: %v", err)
	}
	dashboard, err := api.NewDashboard(client, endpoint, initial, volume.User{Username: "alice", IsAuthenticated: true}, interval, nil)
	if err != nil {
		t.Fatalf("NewDashboard returned error: %v", err)
	}
	t.Cleanup(dashboard.Close)
	return dashboard
}

func TestInitializeStartsPollingUntilIdle(t *testing.T) {
	script := &scriptedVolume{}
	server := httptest.NewServer(script.handler())
	t.Cleanup(server.Close)

	idle := testsupport.NewSnapshot(t, testsupport.WithSheetCt(0, 10))
	dashboard := newDashboard(t, server.URL, idle, 10*time.Millisecond)
	if dashboard.Polling() {
		t.Fatal("expected idle dashboard before initialize")
	}

	// The initialize response reports the bulk load in progress.
	script.set(testsupport.NewSnapshot(t,
		testsupport.WithStatus(volume.StatusInitializing),
		testsupport.WithSheetCt(0, 10),
	))
	snapshot, err := dashboard.Initialize(context.Background())
	if err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	if !snapshot.SheetsLoading() {
		t.Fatal("expected initializing status from server")
	}
	if !dashboard.Polling() {
		t.Fatal("expected polling after initialize response")
	}

	// Later refreshes report the load complete; polling must stop.
	script.set(testsupport.NewSnapshot(t,
		testsupport.WithStatus("started"),
		testsupport.WithSheetCt(10, 10),
	))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := dashboard.WaitIdle(ctx); err != nil {
		t.Fatalf("WaitIdle returned error: %v", err)
	}

	deadline := time.After(time.Second)
	for dashboard.Polling() {
		select {
		case <-deadline:
			t.Fatal("poller never stopped after idle snapshot")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if dashboard.Store().AutoReload() {
		t.Fatal("expected AutoReload to clear")
	}
}

func TestSetDocumentStatusIsTwoStep(t *testing.T) {
	script := &scriptedVolume{}
	script.set(testsupport.NewSnapshot(t, testsupport.WithPrepared(1)))
	server := httptest.NewServer(script.handler())
	t.Cleanup(server.Close)

	docServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["operation"] != "set-status" || body["status"] != "nonmap" {
			t.Fatalf("unexpected document request: %v", body)
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(docServer.Close)

	dashboard := newDashboard(t, server.URL, testsupport.NewSnapshot(t), time.Second)

	if _, err := dashboard.SetDocumentStatus(context.Background(), docServer.URL, "nonmap"); err != nil {
		t.Fatalf("SetDocumentStatus returned error: %v", err)
	}
	ops := script.ops()
	if len(ops) != 1 || ops[0] != "refresh" {
		t.Fatalf("expected a follow-up refresh against the summary endpoint, got %v", ops)
	}
}

func TestCommitIndexLayersForcesReinit(t *testing.T) {
	script := &scriptedVolume{}
	initial := testsupport.NewSnapshot(t, testsupport.WithLayers(2, volume.MainCategory))
	// Same layer count in the response: only the explicit force may bump.
	script.set(testsupport.NewSnapshot(t, testsupport.WithLayers(2, "key map")))
	server := httptest.NewServer(script.handler())
	t.Cleanup(server.Close)

	dashboard := newDashboard(t, server.URL, initial, time.Second)

	if !dashboard.OpenClassification() {
		t.Fatal("expected classification session to open")
	}
	if dashboard.OpenClassification() {
		t.Fatal("expected second open to be a no-op")
	}
	if err := dashboard.SetCategory("baton_rouge_p1", "key map"); err != nil {
		t.Fatalf("SetCategory returned error: %v", err)
	}

	mosaicBefore := dashboard.Views().Mosaic()
	if _, err := dashboard.CommitIndexLayers(context.Background()); err != nil {
		t.Fatalf("CommitIndexLayers returned error: %v", err)
	}
	if dashboard.Views().Mosaic() == mosaicBefore {
		t.Fatal("expected set-index-layers to force a reinit")
	}
	if dashboard.Classifying() {
		t.Fatal("expected session closed after commit")
	}

	ops := script.ops()
	if len(ops) != 1 || ops[0] != "set-index-layers" {
		t.Fatalf("expected set-index-layers operation, got %v", ops)
	}
}

func TestEqualLayerCountRefreshDoesNotReinit(t *testing.T) {
	script := &scriptedVolume{}
	initial := testsupport.NewSnapshot(t, testsupport.WithLayers(2, volume.MainCategory))
	script.set(testsupport.NewSnapshot(t, testsupport.WithLayers(2, volume.MainCategory)))
	server := httptest.NewServer(script.handler())
	t.Cleanup(server.Close)

	dashboard := newDashboard(t, server.URL, initial, time.Second)
	mosaicBefore := dashboard.Views().Mosaic()

	if _, err := dashboard.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if dashboard.Views().Mosaic() != mosaicBefore {
		t.Fatal("equal-length refresh must not reinit views")
	}

	// A refresh that drops a layer must reinit.
	script.set(testsupport.NewSnapshot(t, testsupport.WithLayers(1, volume.MainCategory)))
	if _, err := dashboard.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if dashboard.Views().Mosaic() == mosaicBefore {
		t.Fatal("expected reinit after layer count changed")
	}
}

func TestRefreshLookupsResetsFlagOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	dashboard := newDashboard(t, server.URL, testsupport.NewSnapshot(t), time.Second)

	if _, err := dashboard.RefreshLookups(context.Background()); err == nil {
		t.Fatal("expected error from failing server")
	}
	if dashboard.LookupsRefreshing() {
		t.Fatal("expected in-flight flag reset after failure")
	}
	if dashboard.Notice() == "" {
		t.Fatal("expected a failure notice")
	}
}

func TestNoticeClearsOnNextSuccess(t *testing.T) {
	script := &scriptedVolume{}
	script.set(testsupport.NewSnapshot(t))
	okServer := httptest.NewServer(script.handler())
	t.Cleanup(okServer.Close)

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(failing.Close)

	dashboard := newDashboard(t, okServer.URL, testsupport.NewSnapshot(t), time.Second)
	if _, err := dashboard.SetDocumentStatus(context.Background(), failing.URL, "prepared"); err == nil {
		t.Fatal("expected set-status failure")
	}
	if dashboard.Notice() == "" {
		t.Fatal("expected failure notice")
	}
	if _, err := dashboard.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if dashboard.Notice() != "" {
		t.Fatalf("expected notice cleared, got %q", dashboard.Notice())
	}
}

func TestFailedOperationLeavesSnapshotAlone(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(failing.Close)

	initial := testsupport.NewSnapshot(t, testsupport.WithLayers(3, volume.MainCategory))
	dashboard := newDashboard(t, failing.URL, initial, time.Second)

	if _, err := dashboard.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh failure")
	}
	if got := len(dashboard.Store().Snapshot().Items.Layers); got != 3 {
		t.Fatalf("expected snapshot unchanged after failure, got %d layers", got)
	}
}
