package stubserver

import (
	"context"
	"encoding/json"
	"fmt"

	"ohmg/internal/volume"
)

// buildSnapshot assembles the full summary for one volume. Sheets are
// bucketed by workflow status: sheets mid-transition stay in the bucket they
// are leaving and increment the matching processing counter.
func (s *Store) buildSnapshot(ctx context.Context, baseURL, identifier string) (*volume.Snapshot, error) {
	record, err := s.GetVolume(ctx, identifier)
	if err != nil {
		return nil, err
	}
	docs, err := s.ListDocuments(ctx, identifier)
	if err != nil {
		return nil, err
	}

	snapshot := &volume.Snapshot{
		Identifier: record.Identifier,
		Title:      record.Title,
		Status:     record.Status,
		Access:     record.Access,
		Sponsor:    record.Sponsor,
		SheetCt: volume.SheetCount{
			Loaded: len(docs),
			Total:  record.SheetTotal,
		},
		Items: volume.Items{
			Unprepared: []volume.Document{},
			Prepared:   []volume.Document{},
			Layers:     []volume.Layer{},
			NonMaps:    []volume.Document{},
		},
		SortedLayers: map[string][]volume.Layer{},
		Multimask:    map[string]json.RawMessage{},
		URLs: volume.URLs{
			Summary: fmt.Sprintf("%s/volumes/%s/summary", baseURL, record.Identifier),
			Viewer:  fmt.Sprintf("%s/viewer/%s", baseURL, record.Identifier),
		},
	}
	if record.LoadedBy != "" {
		snapshot.LoadedBy = volume.LoadedBy{
			Name: record.LoadedBy,
			Date: record.LoadDate,
		}
	}

	for _, doc := range docs {
		item := documentItem(baseURL, doc)
		switch doc.Status {
		case volume.DocUnprepared:
			snapshot.Items.Unprepared = append(snapshot.Items.Unprepared, item)
		case volume.DocSplitting:
			snapshot.Items.Unprepared = append(snapshot.Items.Unprepared, item)
			snapshot.Items.Processing.Unprep++
		case volume.DocPrepared:
			snapshot.Items.Prepared = append(snapshot.Items.Prepared, item)
		case volume.DocGeoreferencing:
			snapshot.Items.Prepared = append(snapshot.Items.Prepared, item)
			snapshot.Items.Processing.Prep++
		case volume.DocGeoreferenced, volume.DocTrimming, volume.DocTrimmed:
			layer := layerItem(baseURL, doc, item)
			snapshot.Items.Layers = append(snapshot.Items.Layers, layer)
			snapshot.SortedLayers[doc.Category] = append(snapshot.SortedLayers[doc.Category], layer)
			if doc.Status == volume.DocTrimming {
				snapshot.Items.Processing.GeoTrim++
			}
			if doc.Mask != "" {
				snapshot.Multimask[doc.Slug] = json.RawMessage(doc.Mask)
			}
		case volume.DocNonMap:
			snapshot.Items.NonMaps = append(snapshot.Items.NonMaps, item)
		}
	}
	return snapshot, nil
}

func documentItem(baseURL string, doc DocumentRecord) volume.Document {
	item := volume.Document{
		Title:   doc.Title,
		PageStr: fmt.Sprintf("%d", doc.PageNo),
		URLs: volume.ResourceURLs{
			Resource: fmt.Sprintf("%s/documents/%d", baseURL, doc.ID),
			Image:    fmt.Sprintf("%s/media/%s/page_%d.jpg", baseURL, doc.VolumeID, doc.PageNo),
		},
	}
	if doc.ImageW > 0 && doc.ImageH > 0 {
		item.ImageSize = []int{doc.ImageW, doc.ImageH}
	}
	if doc.LockUser != "" {
		item.LockEnabled = true
		item.LockDetails = &volume.Lock{User: volume.LockUser{Name: doc.LockUser}}
	}
	return item
}

func layerItem(baseURL string, doc DocumentRecord, item volume.Document) volume.Layer {
	item.URLs.COG = fmt.Sprintf("%s/cogs/%s.tif", baseURL, doc.Slug)
	return volume.Layer{
		Document: item,
		Slug:     doc.Slug,
	}
}
