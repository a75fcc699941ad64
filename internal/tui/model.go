package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"ohmg/internal/api"
	"ohmg/internal/reinit"
	"ohmg/internal/volume"
)

type changeMsg volume.Change

// Model is the bubbletea model for the live watch dashboard.
type Model struct {
	dashboard *api.Dashboard
	user      volume.User

	snapshot volume.Snapshot
	notice   string
	polling  bool

	section int

	// mosaicToken guards the cached preview pane. A moved token throws the
	// cache away so the pane rebuilds from the new snapshot.
	mosaicToken reinit.Token
	previewPane string

	spin   spinner.Model
	width  int
	height int

	changes     <-chan volume.Change
	cancelWatch func()
	quitting    bool
}

// New builds a watch model around an open session.
func New(dashboard *api.Dashboard, user volume.User) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	changes, cancel := dashboard.Watch(8)
	snapshot := dashboard.Store().Snapshot()

	m := Model{
		dashboard:   dashboard,
		user:        user,
		snapshot:    snapshot,
		polling:     dashboard.Polling(),
		spin:        sp,
		changes:     changes,
		cancelWatch: cancel,
		mosaicToken: dashboard.Views().Mosaic(),
	}
	m.previewPane = renderPreviewPane(snapshot)
	m.section = sectionIndex(volume.DefaultSection(snapshot))
	return m
}

// Init starts the spinner and the change listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, waitForChange(m.changes))
}

func waitForChange(changes <-chan volume.Change) tea.Cmd {
	return func() tea.Msg {
		change, ok := <-changes
		if !ok {
			return nil
		}
		return changeMsg(change)
	}
}

// Update handles key presses, snapshot replacements, and spinner ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			if m.cancelWatch != nil {
				m.cancelWatch()
			}
			return m, tea.Quit
		case "tab", "right", "l":
			m.section = (m.section + 1) % len(volume.Sections)
			return m, nil
		case "shift+tab", "left", "h":
			m.section = (m.section + len(volume.Sections) - 1) % len(volume.Sections)
			return m, nil
		}
		return m, nil

	case changeMsg:
		m.applyChange(volume.Change(msg))
		return m, waitForChange(m.changes)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) applyChange(change volume.Change) {
	m.snapshot = change.Next
	if m.dashboard != nil {
		m.notice = m.dashboard.Notice()
		m.polling = m.dashboard.Polling()
		if token := m.dashboard.Views().Mosaic(); token != m.mosaicToken {
			m.mosaicToken = token
			m.previewPane = renderPreviewPane(m.snapshot)
		}
	}
}

func sectionIndex(section volume.Section) int {
	for i, s := range volume.Sections {
		if s == section {
			return i
		}
	}
	return 0
}
