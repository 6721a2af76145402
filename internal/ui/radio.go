package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ripcast/internal/artwork"
	"github.com/desertthunder/ripcast/internal/covers"
	"github.com/desertthunder/ripcast/internal/models"
	"github.com/desertthunder/ripcast/internal/player"
	"github.com/desertthunder/ripcast/internal/radio"
)

// artWidth and artHeight bound the rendered cover art in terminal cells.
const (
	artWidth  = 24
	artHeight = 12
)

// RadioModel renders the radio player view: current song, bounded history,
// cover artwork, and playback control for the external player process.
type RadioModel struct {
	ctx       context.Context
	updates   <-chan models.NowPlaying
	history   *radio.History
	resolver  *covers.Resolver
	publisher *player.Publisher
	proc      *player.Player
	streamURL string

	art      []string
	accent   string
	coverURL string
	errText  string

	width  int
	height int

	spin spinner.Model
	help help.Model
	keys keyMap
}

type nowPlayingMsg struct {
	np models.NowPlaying
}

type updatesClosedMsg struct{}

type coverResolvedMsg struct {
	key string
	url string
}

type artworkMsg struct {
	key    string
	lines  []string
	accent string
}

// NewRadioModel creates the radio view. publisher and proc may be nil for
// metadata-only operation.
func NewRadioModel(ctx context.Context, updates <-chan models.NowPlaying, hist *radio.History, resolver *covers.Resolver, publisher *player.Publisher, proc *player.Player, streamURL string) *RadioModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.warn

	return &RadioModel{
		ctx:       ctx,
		updates:   updates,
		history:   hist,
		resolver:  resolver,
		publisher: publisher,
		proc:      proc,
		streamURL: streamURL,
		accent:    artwork.DefaultAccent,
		spin:      sp,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts the spinner and begins consuming poll results.
func (m *RadioModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.waitForUpdate())
}

// Update handles incoming messages and updates the model state.
func (m *RadioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case nowPlayingMsg:
		cmds := []tea.Cmd{m.waitForUpdate()}
		if m.history.Observe(msg.np) {
			np := msg.np
			cmds = append(cmds,
				tea.SetWindowTitle(fmt.Sprintf("%s — %s", np.DisplayArtist(), np.DisplayTitle())),
				m.resolveCover(np),
			)
		}
		return m, tea.Batch(cmds...)

	case updatesClosedMsg:
		return m, tea.Quit

	case coverResolvedMsg:
		current := m.history.Current()
		if current == nil || current.Key() != msg.key {
			// stale lookup for a track that already changed
			return m, nil
		}
		m.coverURL = msg.url
		if m.publisher != nil {
			m.publisher.Update(*current, msg.url)
		}
		return m, m.fetchArtwork(msg.key, msg.url)

	case artworkMsg:
		current := m.history.Current()
		if current == nil || current.Key() != msg.key {
			return m, nil
		}
		m.art = msg.lines
		m.accent = msg.accent
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

// View renders the UI based on the current state.
func (m *RadioModel) View() string {
	var b strings.Builder

	current := m.history.Current()

	header := "Radio"
	if current != nil && current.ServerName != "" {
		header = current.ServerName
	}
	b.WriteString(NewBold(m.accent).Render(header))
	b.WriteString("\n\n")

	if current == nil {
		b.WriteString(m.spin.View())
		b.WriteString(" waiting for stream metadata...\n")
		b.WriteString("\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.quit}))
		return b.String()
	}

	for _, line := range m.art {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.art) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(styles.ok.Render(current.DisplayTitle()))
	b.WriteString("\n")
	b.WriteString(current.DisplayArtist())
	if current.Album != "" {
		b.WriteString(styles.help.Render(" · " + current.Album))
	}
	b.WriteString("\n")

	var stats []string
	if current.Listeners > 0 {
		stats = append(stats, fmt.Sprintf("%d listening", current.Listeners))
	}
	if current.Bitrate > 0 {
		stats = append(stats, fmt.Sprintf("%d kbps", current.Bitrate))
	}
	if len(stats) > 0 {
		b.WriteString(styles.help.Render(strings.Join(stats, " · ")))
		b.WriteString("\n")
	}

	if past := m.history.Past(); len(past) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.title.Render("Recently Played"))
		b.WriteString("\n")
		for _, np := range past {
			b.WriteString(styles.help.Render(fmt.Sprintf("  %s — %s", np.DisplayArtist(), np.DisplayTitle())))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.proc != nil && m.proc.Running() {
		b.WriteString(styles.ok.Render("▶ playing"))
	} else {
		b.WriteString(styles.help.Render("metadata only — press p to play"))
	}
	b.WriteString("\n")

	if m.errText != "" {
		b.WriteString(styles.err.Render(m.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.play, m.keys.quit}))
	return b.String()
}

func (m *RadioModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if m.proc != nil {
			m.proc.Stop()
		}
		return m, tea.Quit
	case "p":
		m.togglePlayback()
		return m, nil
	}
	return m, nil
}

func (m *RadioModel) togglePlayback() {
	if m.proc == nil {
		return
	}
	if m.proc.Running() {
		m.proc.Stop()
		return
	}
	if err := m.proc.Start(m.ctx, m.streamURL); err != nil {
		m.errText = err.Error()
		return
	}
	m.errText = ""
}

func (m *RadioModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		np, ok := <-m.updates
		if !ok {
			return updatesClosedMsg{}
		}
		return nowPlayingMsg{np: np}
	}
}

// resolveCover looks up artwork off the render path. Lookup never fails; the
// worst case is the default image URL.
func (m *RadioModel) resolveCover(np models.NowPlaying) tea.Cmd {
	return func() tea.Msg {
		url := m.resolver.Lookup(m.ctx, np.Artist, np.Title)
		return coverResolvedMsg{key: np.Key(), url: url}
	}
}

// fetchArtwork downloads and renders the cover image. Failures clear the art
// rather than surfacing an error, so stale covers never outlive their track.
func (m *RadioModel) fetchArtwork(trackKey, coverURL string) tea.Cmd {
	return func() tea.Msg {
		img, err := artwork.Fetch(m.ctx, coverURL)
		if err != nil {
			return artworkMsg{key: trackKey, lines: nil, accent: artwork.DefaultAccent}
		}
		return artworkMsg{
			key:    trackKey,
			lines:  artwork.RenderHalfBlock(img, artWidth, artHeight),
			accent: artwork.Accent(img),
		}
	}
}
