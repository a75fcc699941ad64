package testsupport

import (
	"encoding/json"
	"fmt"
	"testing"

	"ohmg/internal/volume"
)

// SnapshotOption customizes the generated snapshot fixture.
type SnapshotOption func(*volume.Snapshot)

// NewSnapshot produces a small but fully populated volume snapshot fixture.
func NewSnapshot(t testing.TB, opts ...SnapshotOption) volume.Snapshot {
	t.Helper()

	snapshot := volume.Snapshot{
		Identifier: "sanborn03375_001",
		Title:      "Baton Rouge, La. | 1885",
		Status:     "started",
		Access:     volume.AccessAny,
		SheetCt:    volume.SheetCount{Loaded: 2, Total: 2},
		URLs: volume.URLs{
			Summary:    "/volumes/sanborn03375_001/summary",
			Viewer:     "/viewer/baton-rouge-la",
			MosaicJSON: "/volumes/sanborn03375_001/mosaic.json",
		},
		Extent: []float64{-91.2, 30.4, -91.1, 30.5},
	}
	for _, opt := range opts {
		opt(&snapshot)
	}
	return snapshot
}

// WithStatus sets the volume status.
func WithStatus(status string) SnapshotOption {
	return func(s *volume.Snapshot) { s.Status = status }
}

// WithSheetCt sets bulk-load progress.
func WithSheetCt(loaded, total int) SnapshotOption {
	return func(s *volume.Snapshot) {
		s.SheetCt = volume.SheetCount{Loaded: loaded, Total: total}
	}
}

// WithProcessing sets the in-flight counters.
func WithProcessing(unprep, prep, geoTrim int) SnapshotOption {
	return func(s *volume.Snapshot) {
		s.Items.Processing = volume.Processing{Unprep: unprep, Prep: prep, GeoTrim: geoTrim}
	}
}

// WithAccess sets the access policy and sponsor.
func WithAccess(access, sponsor string) SnapshotOption {
	return func(s *volume.Snapshot) {
		s.Access = access
		s.Sponsor = sponsor
	}
}

// WithUnprepared appends n unprepared documents.
func WithUnprepared(n int) SnapshotOption {
	return func(s *volume.Snapshot) {
		for i := 0; i < n; i++ {
			s.Items.Unprepared = append(s.Items.Unprepared, NewDocument(i+1))
		}
	}
}

// WithPrepared appends n prepared documents.
func WithPrepared(n int) SnapshotOption {
	return func(s *volume.Snapshot) {
		for i := 0; i < n; i++ {
			s.Items.Prepared = append(s.Items.Prepared, NewDocument(i+1))
		}
	}
}

// WithLayers appends n georeferenced layers and files them under category in
// the sorted view.
func WithLayers(n int, category string) SnapshotOption {
	return func(s *volume.Snapshot) {
		for i := 0; i < n; i++ {
			layer := NewLayer(len(s.Items.Layers) + 1)
			s.Items.Layers = append(s.Items.Layers, layer)
			if category != "" {
				if s.SortedLayers == nil {
					s.SortedLayers = make(map[string][]volume.Layer)
				}
				s.SortedLayers[category] = append(s.SortedLayers[category], layer)
			}
		}
	}
}

// WithMultimask assigns masks to the first n layers.
func WithMultimask(n int) SnapshotOption {
	return func(s *volume.Snapshot) {
		if s.Multimask == nil {
			s.Multimask = make(map[string]json.RawMessage)
		}
		for i := 0; i < n && i < len(s.Items.Layers); i++ {
			s.Multimask[s.Items.Layers[i].Slug] = json.RawMessage(`{"type":"Polygon","coordinates":[]}`)
		}
	}
}

// NewDocument builds a document fixture for page n.
func NewDocument(n int) volume.Document {
	return volume.Document{
		Title:     fmt.Sprintf("Baton Rouge, La. | 1885 p%d", n),
		PageStr:   fmt.Sprintf("%d", n),
		ImageSize: []int{8000, 9600},
		URLs: volume.ResourceURLs{
			Resource:     fmt.Sprintf("/documents/%d", n),
			Image:        fmt.Sprintf("/media/documents/%d.jpg", n),
			Thumbnail:    fmt.Sprintf("/media/thumbs/%d.png", n),
			Split:        fmt.Sprintf("/split/%d", n),
			Georeference: fmt.Sprintf("/georeference/%d", n),
		},
	}
}

// NewLayer builds a layer fixture for page n.
func NewLayer(n int) volume.Layer {
	return volume.Layer{
		Document: NewDocument(n),
		Slug:     fmt.Sprintf("baton_rouge_p%d", n),
		Extent:   []float64{-91.2, 30.4, -91.1, 30.5},
	}
}
