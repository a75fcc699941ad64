package volume

import "encoding/json"

// StatusInitializing is the sentinel volume status set while a bulk sheet
// load is in progress on the server.
const StatusInitializing = "initializing..."

// Volume access policies controlling who may trigger edit operations.
const (
	AccessAny     = "any"
	AccessSponsor = "sponsor"
)

// DocStatus represents the lifecycle of a single sheet within a volume.
type DocStatus string

const (
	DocUnprepared     DocStatus = "unprepared"
	DocSplitting      DocStatus = "splitting"
	DocPrepared       DocStatus = "prepared"
	DocGeoreferencing DocStatus = "georeferencing"
	DocGeoreferenced  DocStatus = "georeferenced"
	DocTrimming       DocStatus = "trimming"
	DocTrimmed        DocStatus = "trimmed"
	DocNonMap         DocStatus = "nonmap"
)

var docStatusSet = map[DocStatus]struct{}{
	DocUnprepared:     {},
	DocSplitting:      {},
	DocPrepared:       {},
	DocGeoreferencing: {},
	DocGeoreferenced:  {},
	DocTrimming:       {},
	DocTrimmed:        {},
	DocNonMap:         {},
}

// ValidDocStatus reports whether value names a known document status.
func ValidDocStatus(value string) bool {
	_, ok := docStatusSet[DocStatus(value)]
	return ok
}

// User is the acting user record supplied once at session start.
type User struct {
	Username        string `json:"username"`
	IsStaff         bool   `json:"is_staff"`
	IsAuthenticated bool   `json:"is_authenticated"`
}

// SheetCount tracks bulk-load progress; Loaded never exceeds Total.
type SheetCount struct {
	Loaded int `json:"loaded"`
	Total  int `json:"total"`
}

// Processing counts sheets with server-side work in flight, bucketed by the
// workflow step they are leaving.
type Processing struct {
	Unprep  int `json:"unprep"`
	Prep    int `json:"prep"`
	GeoTrim int `json:"geo_trim"`
}

// Any reports whether any processing counter is nonzero.
func (p Processing) Any() bool {
	return p.Unprep > 0 || p.Prep > 0 || p.GeoTrim > 0
}

// ResourceURLs holds the per-document and per-layer endpoints and assets.
type ResourceURLs struct {
	Resource     string `json:"resource,omitempty"`
	Image        string `json:"image,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	Split        string `json:"split,omitempty"`
	Georeference string `json:"georeference,omitempty"`
	COG          string `json:"cog,omitempty"`
}

// Lock is a server-held exclusive claim on a document or layer.
type Lock struct {
	User LockUser `json:"user"`
}

// LockUser identifies who holds a lock.
type LockUser struct {
	Name string `json:"name"`
}

// Document describes one scanned sheet in the unprepared, prepared, or
// non-map collections.
type Document struct {
	Title       string       `json:"title"`
	PageStr     string       `json:"page_str,omitempty"`
	URLs        ResourceURLs `json:"urls"`
	ImageSize   []int        `json:"image_size,omitempty"`
	LockEnabled bool         `json:"lock_enabled"`
	LockDetails *Lock        `json:"lock_details,omitempty"`
}

// LockedBy returns the name of the lock holder, or "" when unlocked.
func (d Document) LockedBy() string {
	if !d.LockEnabled || d.LockDetails == nil {
		return ""
	}
	return d.LockDetails.User.Name
}

// Layer is a georeferenced raster derived from a prepared document.
type Layer struct {
	Document
	Slug   string    `json:"slug"`
	Extent []float64 `json:"extent,omitempty"`
}

// Items holds the four disjoint item collections plus in-flight counters. A
// document lives in exactly one collection at a time; operation responses
// move it between collections by omission and inclusion, never by mutation.
type Items struct {
	Unprepared []Document `json:"unprepared"`
	Prepared   []Document `json:"prepared"`
	Layers     []Layer    `json:"layers"`
	NonMaps    []Document `json:"nonmaps"`
	Processing Processing `json:"processing"`
}

// URLs holds the volume-level endpoints.
type URLs struct {
	Summary       string `json:"summary"`
	Viewer        string `json:"viewer,omitempty"`
	MosaicJSON    string `json:"mosaic_json,omitempty"`
	MosaicGeotiff string `json:"mosaic_geotiff,omitempty"`
}

// SiblingVolume is a navigation entry for another volume of the same place.
type SiblingVolume struct {
	Identifier string `json:"identifier"`
	Year       int    `json:"year"`
	URL        string `json:"url,omitempty"`
}

// Breadcrumb is one element of the locale navigation trail.
type Breadcrumb struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Locale carries place metadata for navigation.
type Locale struct {
	Slug        string          `json:"slug"`
	DisplayName string          `json:"display_name"`
	Volumes     []SiblingVolume `json:"volumes,omitempty"`
	Breadcrumbs []Breadcrumb    `json:"breadcrumbs,omitempty"`
}

// LoadedBy records who started the bulk sheet load.
type LoadedBy struct {
	Name    string `json:"name"`
	Profile string `json:"profile,omitempty"`
	Date    string `json:"date,omitempty"`
}

// Snapshot is the full volume summary. Every successful operation response
// carries one and replaces the previous snapshot in full.
type Snapshot struct {
	Identifier   string                     `json:"identifier"`
	Title        string                     `json:"title"`
	Status       string                     `json:"status"`
	Access       string                     `json:"access,omitempty"`
	Sponsor      string                     `json:"sponsor,omitempty"`
	SheetCt      SheetCount                 `json:"sheet_ct"`
	Items        Items                      `json:"items"`
	SortedLayers map[string][]Layer         `json:"sorted_layers,omitempty"`
	Multimask    map[string]json.RawMessage `json:"multimask,omitempty"`
	URLs         URLs                       `json:"urls"`
	Extent       []float64                  `json:"extent,omitempty"`
	Locale       *Locale                    `json:"locale,omitempty"`
	LoadedBy     LoadedBy                   `json:"loaded_by,omitempty"`
}
