package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ripcast/internal/formatter"
	"github.com/desertthunder/ripcast/internal/progress"
	"github.com/desertthunder/ripcast/internal/tasks"
)

// noticeDuration is how long a transient submission notice stays visible
// unless another notice replaces it first.
const noticeDuration = 5 * time.Second

const (
	fieldURL = iota
	fieldSource
	fieldFallback
	fieldCount
)

// MonitorModel renders live download progress and hosts the submission form.
type MonitorModel struct {
	ctx    context.Context
	store  *progress.Store
	events <-chan progress.Event
	engine *tasks.SubmitEngine

	connected bool
	width     int
	height    int

	formActive bool
	inputs     [fieldCount]textinput.Model
	focused    int

	notice    string
	noticeErr bool
	noticeSeq int

	bar  bar.Model
	help help.Model
	keys keyMap
}

type streamEventMsg struct {
	event progress.Event
}

type streamClosedMsg struct{}

type submitDoneMsg struct {
	result *tasks.SubmitResult
	err    error
}

// noticeExpiredMsg clears the notice it was scheduled for. The sequence
// stamp keeps a stale timer from wiping a newer notice.
type noticeExpiredMsg struct {
	seq int
}

// NewMonitorModel creates the monitor view. events is the subscriber's
// channel; engine may be nil to disable the submission form.
func NewMonitorModel(ctx context.Context, store *progress.Store, events <-chan progress.Event, engine *tasks.SubmitEngine) *MonitorModel {
	m := &MonitorModel{
		ctx:    ctx,
		store:  store,
		events: events,
		engine: engine,
		bar:    bar.New(bar.WithDefaultGradient(), bar.WithWidth(30)),
		help:   help.New(),
		keys:   newKeyMap(),
	}

	urlInput := textinput.New()
	urlInput.Placeholder = "https://open.spotify.com/playlist/..."
	urlInput.CharLimit = 512
	urlInput.Width = 48

	sourceInput := textinput.New()
	sourceInput.Placeholder = "source (optional)"
	sourceInput.Width = 24

	fallbackInput := textinput.New()
	fallbackInput.Placeholder = "fallback source (optional)"
	fallbackInput.Width = 24

	m.inputs[fieldURL] = urlInput
	m.inputs[fieldSource] = sourceInput
	m.inputs[fieldFallback] = fallbackInput

	return m
}

// Init starts consuming the event stream.
func (m *MonitorModel) Init() tea.Cmd {
	return m.waitForEvent()
}

// Update handles incoming messages and updates the model state.
func (m *MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case streamEventMsg:
		m.applyEvent(msg.event)
		return m, m.waitForEvent()

	case streamClosedMsg:
		m.connected = false
		return m, nil

	case submitDoneMsg:
		if msg.err != nil {
			return m, m.setNotice(msg.err.Error(), true)
		}
		m.resetForm()
		m.formActive = false
		return m, m.setNotice(fmt.Sprintf("Download started (task %s)", msg.result.TaskID), false)

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.formActive {
			return m.handleFormKeys(msg)
		}
		return m.handleKeys(msg)
	}

	return m, nil
}

// View renders the UI based on the current state.
func (m *MonitorModel) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Download Monitor"))
	b.WriteString("  ")
	if m.connected {
		b.WriteString(styles.ok.Render("● connected"))
	} else {
		b.WriteString(styles.warn.Render("○ reconnecting"))
	}
	b.WriteString("\n\n")

	playlists := m.store.Playlists()
	if len(playlists) == 0 {
		b.WriteString(styles.help.Render(formatter.Placeholder))
		b.WriteString("\n")
	}

	for _, pl := range playlists {
		b.WriteString(styles.ok.Render(pl.Name))
		b.WriteString(fmt.Sprintf("  %s · %d/%d tracks", pl.Status, pl.CompletedTracks, pl.TotalTracks))
		if pl.FailedTracks > 0 {
			b.WriteString(styles.err.Render(fmt.Sprintf(" · %d failed", pl.FailedTracks)))
		}
		b.WriteString("\n")

		for _, tr := range m.store.TracksFor(pl.PlaylistID) {
			b.WriteString(fmt.Sprintf("  %s — %s  [%s]", tr.Title, tr.Artist, tr.Status))
			if tr.Downloading() {
				b.WriteString("  ")
				b.WriteString(m.bar.ViewAs(tr.Progress / 100))
			}
			if tr.ErrorMessage != "" {
				b.WriteString("  ")
				b.WriteString(styles.err.Render(tr.ErrorMessage))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.formActive {
		b.WriteString(styles.title.Render("Submit Playlist"))
		b.WriteString("\n")
		for i := range m.inputs {
			b.WriteString(m.inputs[i].View())
			b.WriteString("\n")
		}
	}

	if m.notice != "" {
		b.WriteString("\n")
		if m.noticeErr {
			b.WriteString(styles.err.Render(m.notice))
		} else {
			b.WriteString(styles.ok.Render(m.notice))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.formActive {
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.accept, m.keys.next, m.keys.cancel}))
	} else {
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.quit}))
	}
	return b.String()
}

func (m *MonitorModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s":
		if m.engine != nil {
			m.formActive = true
			m.focused = fieldURL
			return m, m.focusField(fieldURL)
		}
	}
	return m, nil
}

func (m *MonitorModel) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.formActive = false
		m.blurAll()
		return m, nil
	case "tab":
		return m, m.focusField((m.focused + 1) % fieldCount)
	case "shift+tab":
		return m, m.focusField((m.focused + fieldCount - 1) % fieldCount)
	case "enter":
		return m, m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

// applyEvent folds one stream event into the snapshot.
func (m *MonitorModel) applyEvent(ev progress.Event) {
	switch ev.Kind {
	case progress.EventConnected:
		m.connected = true
	case progress.EventDisconnected:
		m.connected = false
	case progress.EventPlaylist, progress.EventTrack:
		m.store.Apply(ev)
	}
}

func (m *MonitorModel) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return streamClosedMsg{}
		}
		return streamEventMsg{event: ev}
	}
}

// submit validates locally and posts the job off the render path. An empty
// URL never reaches the network.
func (m *MonitorModel) submit() tea.Cmd {
	playlistURL := strings.TrimSpace(m.inputs[fieldURL].Value())
	if playlistURL == "" {
		return m.setNotice("Please enter a playlist URL", true)
	}

	source := strings.TrimSpace(m.inputs[fieldSource].Value())
	fallback := strings.TrimSpace(m.inputs[fieldFallback].Value())

	return func() tea.Msg {
		result, err := m.engine.Submit(m.ctx, playlistURL, source, fallback)
		return submitDoneMsg{result: result, err: err}
	}
}

func (m *MonitorModel) setNotice(text string, isErr bool) tea.Cmd {
	m.notice = text
	m.noticeErr = isErr
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

func (m *MonitorModel) focusField(idx int) tea.Cmd {
	m.blurAll()
	m.focused = idx
	return m.inputs[idx].Focus()
}

func (m *MonitorModel) blurAll() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *MonitorModel) resetForm() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.blurAll()
}
