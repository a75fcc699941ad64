package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ohmg/internal/volume"
)

// View renders the tab bar, the selected section pane, and the footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%s)", m.snapshot.Title, m.snapshot.Identifier)))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(paneStyle.Render(m.renderSectionBody()))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(volume.Sections))
	for i, section := range volume.Sections {
		style := tabStyle
		if i == m.section {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(string(section)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderSectionBody() string {
	switch volume.Sections[m.section] {
	case volume.SectionSummary:
		return m.renderSummary()
	case volume.SectionPreview:
		return m.previewPane
	case volume.SectionUnprepared:
		return renderDocumentList(m.snapshot.Items.Unprepared)
	case volume.SectionPrepared:
		return renderDocumentList(m.snapshot.Items.Prepared)
	case volume.SectionGeoreferenced:
		return renderLayerList(m.snapshot)
	case volume.SectionNonMaps:
		return renderDocumentList(m.snapshot.Items.NonMaps)
	case volume.SectionMultimask:
		return renderMultimask(m.snapshot)
	case volume.SectionDownload:
		return renderDownloads(m.snapshot)
	default:
		return ""
	}
}

func (m Model) renderSummary() string {
	lines := []string{
		summaryLine("status", m.snapshot.Status),
		summaryLine("sheets", fmt.Sprintf("%d/%d loaded", m.snapshot.SheetCt.Loaded, m.snapshot.SheetCt.Total)),
		summaryLine("access", m.snapshot.Access),
		summaryLine("can edit", boolLabel(m.snapshot.UserCanEdit(m.user))),
	}
	if m.snapshot.Items.Processing.Any() {
		p := m.snapshot.Items.Processing
		lines = append(lines, summaryLine("processing",
			fmt.Sprintf("unprep=%d prep=%d geo/trim=%d", p.Unprep, p.Prep, p.GeoTrim)))
	}
	if m.snapshot.LoadedBy.Name != "" {
		lines = append(lines, summaryLine("loaded by", m.snapshot.LoadedBy.Name))
	}
	return strings.Join(lines, "\n")
}

func summaryLine(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(fmt.Sprintf("%-12s", label+":")), value)
}

func boolLabel(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// renderPreviewPane builds the mosaic preview content. It is cached on the
// model and recomputed only when the mosaic reinit token moves.
func renderPreviewPane(snapshot volume.Snapshot) string {
	if len(snapshot.Items.Layers) == 0 {
		return dimStyle.Render("No georeferenced layers yet.")
	}
	lines := make([]string, 0, len(snapshot.Items.Layers)+1)
	lines = append(lines, fmt.Sprintf("Mosaic of %d layers", len(snapshot.Items.Layers)))
	for _, layer := range snapshot.Items.Layers {
		lines = append(lines, "  "+layer.Slug)
	}
	return strings.Join(lines, "\n")
}

func renderDocumentList(docs []volume.Document) string {
	if len(docs) == 0 {
		return dimStyle.Render("Empty.")
	}
	lines := make([]string, 0, len(docs))
	for _, doc := range docs {
		line := fmt.Sprintf("%3s  %s", doc.PageStr, doc.Title)
		if holder := doc.LockedBy(); holder != "" {
			line += dimStyle.Render(fmt.Sprintf("  (locked by %s)", holder))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderLayerList(snapshot volume.Snapshot) string {
	if len(snapshot.Items.Layers) == 0 {
		return dimStyle.Render("Empty.")
	}
	lookup := snapshot.LayerCategoryLookup()
	lines := make([]string, 0, len(snapshot.Items.Layers))
	for _, layer := range snapshot.Items.Layers {
		category := lookup[layer.Slug]
		if category == "" {
			category = volume.MainCategory
		}
		lines = append(lines, fmt.Sprintf("%3s  %-32s %s", layer.PageStr, layer.Slug, dimStyle.Render(category)))
	}
	return strings.Join(lines, "\n")
}

func renderMultimask(snapshot volume.Snapshot) string {
	lines := []string{fmt.Sprintf("Progress: %s", snapshot.MultimaskLabel())}
	slugs := make([]string, 0, len(snapshot.Multimask))
	for slug := range snapshot.Multimask {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	for _, slug := range slugs {
		lines = append(lines, "  "+slug)
	}
	return strings.Join(lines, "\n")
}

func renderDownloads(snapshot volume.Snapshot) string {
	var lines []string
	if snapshot.URLs.MosaicGeotiff != "" {
		lines = append(lines, "mosaic  "+snapshot.URLs.MosaicGeotiff)
	}
	for _, layer := range snapshot.Items.Layers {
		if layer.URLs.COG != "" {
			lines = append(lines, layer.Slug+"  "+layer.URLs.COG)
		}
	}
	if len(lines) == 0 {
		return dimStyle.Render("Nothing to download yet.")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	parts := []string{}
	if m.polling {
		parts = append(parts, m.spin.View()+" auto-reloading")
	}
	if m.notice != "" {
		parts = append(parts, noticeStyle.Render(m.notice))
	}
	parts = append(parts, dimStyle.Render("tab: next section  q: quit"))
	return strings.Join(parts, "   ")
}
