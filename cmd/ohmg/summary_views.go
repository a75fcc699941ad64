package main

import (
	"fmt"
	"sort"
	"strings"

	"ohmg/internal/volume"
)

// renderSection renders one dashboard section of a snapshot as text lines.
func renderSection(snapshot volume.Snapshot, user volume.User, section volume.Section, colorize bool) []string {
	switch section {
	case volume.SectionSummary:
		return renderSummarySection(snapshot, user, colorize)
	case volume.SectionPreview:
		return renderPreviewSection(snapshot)
	case volume.SectionUnprepared:
		return []string{renderDocumentTable("Unprepared", snapshot.Items.Unprepared)}
	case volume.SectionPrepared:
		return []string{renderDocumentTable("Prepared", snapshot.Items.Prepared)}
	case volume.SectionGeoreferenced:
		return renderGeoreferencedSection(snapshot)
	case volume.SectionNonMaps:
		return []string{renderDocumentTable("Non-Maps", snapshot.Items.NonMaps)}
	case volume.SectionMultimask:
		return renderMultimaskSection(snapshot)
	case volume.SectionDownload:
		return renderDownloadSection(snapshot)
	default:
		return nil
	}
}

func renderSummarySection(snapshot volume.Snapshot, user volume.User, colorize bool) []string {
	statusKindFor := statusOK
	if snapshot.SheetsLoading() {
		statusKindFor = statusWarn
	}

	lines := []string{
		renderStatusLine("volume", statusInfo, fmt.Sprintf("%s (%s)", snapshot.Title, snapshot.Identifier), colorize),
		renderStatusLine("status", statusKindFor, snapshot.Status, colorize),
		renderStatusLine("sheets", statusInfo, fmt.Sprintf("%d/%d loaded", snapshot.SheetCt.Loaded, snapshot.SheetCt.Total), colorize),
		renderStatusLine("access", statusInfo, accessLabel(snapshot), colorize),
		renderStatusLine("can edit", statusInfo, yesNo(snapshot.UserCanEdit(user)), colorize),
		renderStatusLine("auto reload", statusInfo, yesNo(snapshot.AutoReload()), colorize),
	}
	if snapshot.Items.Processing.Any() {
		p := snapshot.Items.Processing
		lines = append(lines, renderStatusLine("processing", statusWarn,
			fmt.Sprintf("unprep=%d prep=%d geo/trim=%d", p.Unprep, p.Prep, p.GeoTrim), colorize))
	}
	if snapshot.LoadedBy.Name != "" {
		detail := snapshot.LoadedBy.Name
		if snapshot.LoadedBy.Date != "" {
			detail += " on " + snapshot.LoadedBy.Date
		}
		lines = append(lines, renderStatusLine("loaded by", statusInfo, detail, colorize))
	}
	return lines
}

func renderPreviewSection(snapshot volume.Snapshot) []string {
	if len(snapshot.Items.Layers) == 0 {
		return []string{"No georeferenced layers yet."}
	}
	rows := make([][]string, 0, len(snapshot.Items.Layers))
	for _, layer := range snapshot.Items.Layers {
		rows = append(rows, []string{layer.Slug, layer.URLs.COG})
	}
	return []string{renderTable("Mosaic Preview", []string{"Layer", "COG"}, rows, nil)}
}

func renderDocumentTable(title string, docs []volume.Document) string {
	if len(docs) == 0 {
		return fmt.Sprintf("No %s documents.", strings.ToLower(title))
	}
	rows := make([][]string, 0, len(docs))
	for _, doc := range docs {
		lock := ""
		if holder := doc.LockedBy(); holder != "" {
			lock = "locked by " + holder
		}
		rows = append(rows, []string{doc.PageStr, doc.Title, lock})
	}
	return renderTable(title, []string{"Page", "Title", "Lock"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft})
}

func renderGeoreferencedSection(snapshot volume.Snapshot) []string {
	if len(snapshot.Items.Layers) == 0 {
		return []string{"No georeferenced layers yet."}
	}

	lookup := snapshot.LayerCategoryLookup()
	rows := make([][]string, 0, len(snapshot.Items.Layers))
	for _, layer := range snapshot.Items.Layers {
		category := lookup[layer.Slug]
		if category == "" {
			category = volume.MainCategory
		}
		rows = append(rows, []string{layer.PageStr, layer.Slug, titleCase(category)})
	}
	return []string{renderTable("Georeferenced", []string{"Page", "Layer", "Category"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft})}
}

func renderMultimaskSection(snapshot volume.Snapshot) []string {
	lines := []string{fmt.Sprintf("Multimask progress: %s", snapshot.MultimaskLabel())}
	if len(snapshot.Multimask) == 0 {
		return lines
	}
	slugs := make([]string, 0, len(snapshot.Multimask))
	for slug := range snapshot.Multimask {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	for _, slug := range slugs {
		lines = append(lines, statusIndent+slug)
	}
	return lines
}

func renderDownloadSection(snapshot volume.Snapshot) []string {
	rows := [][]string{}
	if snapshot.URLs.MosaicGeotiff != "" {
		rows = append(rows, []string{"Mosaic GeoTIFF", snapshot.URLs.MosaicGeotiff})
	}
	if snapshot.URLs.MosaicJSON != "" {
		rows = append(rows, []string{"MosaicJSON", snapshot.URLs.MosaicJSON})
	}
	for _, layer := range snapshot.Items.Layers {
		if layer.URLs.COG != "" {
			rows = append(rows, []string{layer.Slug, layer.URLs.COG})
		}
	}
	if len(rows) == 0 {
		return []string{"Nothing to download yet."}
	}
	return []string{renderTable("Downloads", []string{"Asset", "URL"}, rows, nil)}
}

func accessLabel(snapshot volume.Snapshot) string {
	if snapshot.Access == volume.AccessSponsor && snapshot.Sponsor != "" {
		return fmt.Sprintf("%s (%s)", snapshot.Access, snapshot.Sponsor)
	}
	if snapshot.Access == "" {
		return "unknown"
	}
	return snapshot.Access
}
