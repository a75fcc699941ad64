package volume

// Section names one expandable region of the dashboard. The page fragment
// (or the CLI --section flag) selects which section starts expanded.
type Section string

const (
	SectionSummary       Section = "summary"
	SectionPreview       Section = "preview"
	SectionUnprepared    Section = "unprepared"
	SectionPrepared      Section = "prepared"
	SectionGeoreferenced Section = "georeferenced"
	SectionNonMaps       Section = "nonmaps"
	SectionMultimask     Section = "multimask"
	SectionDownload      Section = "download"
)

// Sections lists every dashboard section in display order.
var Sections = []Section{
	SectionSummary,
	SectionPreview,
	SectionUnprepared,
	SectionPrepared,
	SectionGeoreferenced,
	SectionNonMaps,
	SectionMultimask,
	SectionDownload,
}

var sectionSet = func() map[Section]struct{} {
	set := make(map[Section]struct{}, len(Sections))
	for _, section := range Sections {
		set[section] = struct{}{}
	}
	return set
}()

// ParseSection resolves a requested section name against the snapshot.
// Unknown or empty names fall back to the summary section, or to the mosaic
// preview when the volume already has georeferenced layers.
func ParseSection(name string, snapshot Snapshot) Section {
	if _, ok := sectionSet[Section(name)]; ok {
		return Section(name)
	}
	return DefaultSection(snapshot)
}

// DefaultSection picks the section to expand when none was requested.
func DefaultSection(snapshot Snapshot) Section {
	if len(snapshot.Items.Layers) > 0 {
		return SectionPreview
	}
	return SectionSummary
}
