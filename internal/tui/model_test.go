package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"ohmg/internal/testsupport"
	"ohmg/internal/volume"
)

func testModel(t *testing.T, opts ...testsupport.SnapshotOption) Model {
	t.Helper()
	snapshot := testsupport.NewSnapshot(t, opts...)
	m := Model{
		snapshot: snapshot,
		user:     volume.User{Username: "alice", IsAuthenticated: true},
		section:  sectionIndex(volume.DefaultSection(snapshot)),
	}
	m.previewPane = renderPreviewPane(snapshot)
	return m
}

func pressKey(t *testing.T, m Model, key string) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	next, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return next
}

func TestDefaultSectionFollowsLayers(t *testing.T) {
	plain := testModel(t)
	if got := volume.Sections[plain.section]; got != volume.SectionSummary {
		t.Errorf("empty volume opens %q, want summary", got)
	}

	withLayers := testModel(t, testsupport.WithLayers(2, volume.MainCategory))
	if got := volume.Sections[withLayers.section]; got != volume.SectionPreview {
		t.Errorf("volume with layers opens %q, want preview", got)
	}
}

func TestTabCyclesSections(t *testing.T) {
	m := testModel(t)
	start := m.section

	m = pressKey(t, m, "l")
	if m.section != (start+1)%len(volume.Sections) {
		t.Errorf("section after next = %d, want %d", m.section, (start+1)%len(volume.Sections))
	}

	m = pressKey(t, m, "h")
	if m.section != start {
		t.Errorf("section after prev = %d, want %d", m.section, start)
	}

	// A full lap lands back where it started.
	for range volume.Sections {
		m = pressKey(t, m, "l")
	}
	if m.section != start {
		t.Errorf("section after full lap = %d, want %d", m.section, start)
	}
}

func TestQuitCancelsWatch(t *testing.T) {
	m := testModel(t)
	canceled := false
	m.cancelWatch = func() { canceled = true }

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("quit key should produce a command")
	}
	if !canceled {
		t.Error("quit should cancel the watch subscription")
	}
	if !updated.(Model).quitting {
		t.Error("quit should mark the model as quitting")
	}
}

func TestViewShowsSummaryFields(t *testing.T) {
	m := testModel(t, testsupport.WithStatus(volume.StatusInitializing), testsupport.WithSheetCt(1, 4))
	m.section = sectionIndex(volume.SectionSummary)

	view := m.View()
	if !strings.Contains(view, "1/4 loaded") {
		t.Errorf("summary view missing sheet progress:\n%s", view)
	}
	if !strings.Contains(view, volume.StatusInitializing) {
		t.Errorf("summary view missing status:\n%s", view)
	}
}

func TestChangeMsgReplacesSnapshotAndRequeuesListener(t *testing.T) {
	m := testModel(t)
	next := testsupport.NewSnapshot(t, testsupport.WithSheetCt(4, 4))

	updated, cmd := m.Update(changeMsg(volume.Change{Prev: m.snapshot, Next: next}))
	if cmd == nil {
		t.Fatal("change message should requeue the listener command")
	}
	if got := updated.(Model).snapshot.SheetCt.Loaded; got != 4 {
		t.Errorf("snapshot loaded = %d, want 4", got)
	}
}

func TestPreviewPaneRebuild(t *testing.T) {
	empty := renderPreviewPane(testsupport.NewSnapshot(t))
	if !strings.Contains(empty, "No georeferenced layers") {
		t.Errorf("empty preview = %q", empty)
	}

	filled := renderPreviewPane(testsupport.NewSnapshot(t, testsupport.WithLayers(3, volume.MainCategory)))
	if !strings.Contains(filled, "Mosaic of 3 layers") {
		t.Errorf("preview missing layer count:\n%s", filled)
	}
}
