package stubserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ohmg/internal/logging"
	"ohmg/internal/volume"
)

// Options configures the stub daemon.
type Options struct {
	Bind        string
	CSRFToken   string
	LoadDelay   time.Duration
	SheetsTotal int
	Logger      *slog.Logger
}

// Server serves the volume operation contract against a local SQLite store.
// It exists for development and tests; it is not the production service.
type Server struct {
	store   *Store
	opts    Options
	logger  *slog.Logger
	httpSrv *http.Server

	mu      sync.Mutex
	loading map[string]bool
	baseURL string
}

// NewServer builds a stub server over the given store.
func NewServer(store *Store, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.LoadDelay <= 0 {
		opts.LoadDelay = 250 * time.Millisecond
	}
	if opts.SheetsTotal <= 0 {
		opts.SheetsTotal = 4
	}
	return &Server{
		store:   store,
		opts:    opts,
		logger:  opts.Logger.With(logging.String("component", "stubserver")),
		loading: make(map[string]bool),
	}
}

// Router returns the HTTP handler serving the operation contract.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requireCSRF)
	r.Post("/volumes/{identifier}/summary", s.handleVolumeOperation)
	r.Post("/documents/{id}/georeference", s.handleDocumentOperation)
	return r
}

// ListenAndServe binds the configured address and serves until ctx is
// canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.opts.Bind)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.opts.Bind, err)
	}
	s.mu.Lock()
	s.baseURL = "http://" + listener.Addr().String()
	s.httpSrv = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpSrv
	s.mu.Unlock()

	s.logger.Info("stub server listening", logging.String("addr", listener.Addr().String()))

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(listener) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-serveErr:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// BaseURL returns the serving address after ListenAndServe has bound it, or
// sets it explicitly for tests that mount Router on their own listener.
func (s *Server) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseURL
}

// SetBaseURL fixes the URL prefix used in serialized snapshots.
func (s *Server) SetBaseURL(u string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baseURL = u
}

func (s *Server) requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-CSRFToken")
		if s.opts.CSRFToken != "" && token != s.opts.CSRFToken {
			s.logger.Warn("rejected request with bad csrf token", logging.String("path", r.URL.Path))
			writeError(w, http.StatusForbidden, "csrf token missing or invalid")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type volumeOperationRequest struct {
	Operation           string            `json:"operation"`
	IndexLayerIDs       []string          `json:"indexLayerIds"`
	LayerCategoryLookup map[string]string `json:"layerCategoryLookup"`
}

func (s *Server) handleVolumeOperation(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	var req volumeOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	ctx := r.Context()
	switch req.Operation {
	case "initialize":
		if err := s.startLoad(ctx, identifier); err != nil {
			s.operationError(w, req.Operation, err)
			return
		}
	case "refresh", "refresh-lookups":
		// Read-only; the snapshot below is the whole response.
	case "set-index-layers":
		if err := s.store.ApplyCategories(ctx, identifier, req.LayerCategoryLookup); err != nil {
			s.operationError(w, req.Operation, err)
			return
		}
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown operation %q", req.Operation))
		return
	}

	snapshot, err := s.store.buildSnapshot(ctx, s.BaseURL(), identifier)
	if err != nil {
		s.operationError(w, req.Operation, err)
		return
	}
	s.logger.Info("served volume operation",
		logging.String("operation", req.Operation),
		logging.String("volume", identifier))
	writeJSON(w, http.StatusOK, snapshot)
}

type documentOperationRequest struct {
	Operation string `json:"operation"`
	Status    string `json:"status"`
}

func (s *Server) handleDocumentOperation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad document id")
		return
	}

	var req documentOperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if req.Operation != "set-status" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown operation %q", req.Operation))
		return
	}
	if !volume.ValidDocStatus(req.Status) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
		return
	}

	if err := s.store.SetDocumentStatus(r.Context(), id, volume.DocStatus(req.Status)); err != nil {
		s.operationError(w, req.Operation, err)
		return
	}
	s.logger.Info("served document operation",
		logging.String("operation", req.Operation),
		logging.Int64("document", id),
		logging.String("status", req.Status))
	writeJSON(w, http.StatusOK, map[string]string{"result": "ok", "status": req.Status})
}

// startLoad flips the volume into the initializing state and kicks off the
// simulated bulk sheet load. A second initialize while a load is running is
// a no-op; the snapshot in the response shows the load in progress.
func (s *Server) startLoad(ctx context.Context, identifier string) error {
	s.mu.Lock()
	if s.loading[identifier] {
		s.mu.Unlock()
		return nil
	}
	s.loading[identifier] = true
	s.mu.Unlock()

	record, err := s.store.GetVolume(ctx, identifier)
	if err != nil {
		s.clearLoading(identifier)
		return err
	}
	loaded, err := s.store.CountDocuments(ctx, identifier)
	if err != nil {
		s.clearLoading(identifier)
		return err
	}
	if loaded >= record.SheetTotal {
		s.clearLoading(identifier)
		return nil
	}

	if err := s.store.SetVolumeStatus(ctx, identifier, volume.StatusInitializing, "stub"); err != nil {
		s.clearLoading(identifier)
		return err
	}

	go s.runLoad(identifier, record.SheetTotal, loaded)
	return nil
}

// runLoad inserts one sheet per delay tick until the volume is fully loaded.
func (s *Server) runLoad(identifier string, total, loaded int) {
	defer s.clearLoading(identifier)
	ctx := context.Background()

	for page := loaded + 1; page <= total; page++ {
		time.Sleep(s.opts.LoadDelay)
		_, err := s.store.InsertDocument(ctx, DocumentRecord{
			VolumeID: identifier,
			PageNo:   page,
			Title:    fmt.Sprintf("%s p%d", identifier, page),
			Status:   volume.DocUnprepared,
			ImageW:   8000,
			ImageH:   9600,
		})
		if err != nil {
			s.logger.Error("sheet load failed",
				logging.String("volume", identifier),
				logging.Int("page", page),
				logging.Error(err))
			return
		}
	}

	if err := s.store.SetVolumeStatus(ctx, identifier, "started", ""); err != nil {
		s.logger.Error("finalize load failed",
			logging.String("volume", identifier),
			logging.Error(err))
		return
	}
	s.logger.Info("bulk sheet load complete",
		logging.String("volume", identifier),
		logging.Int("sheets", total))
}

func (s *Server) clearLoading(identifier string) {
	s.mu.Lock()
	delete(s.loading, identifier)
	s.mu.Unlock()
}

func (s *Server) operationError(w http.ResponseWriter, operation string, err error) {
	s.logger.Error("operation failed", logging.String("operation", operation), logging.Error(err))
	status := http.StatusInternalServerError
	if isNotFound(err) {
		status = http.StatusNotFound
	}
	writeError(w, status, err.Error())
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
