package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/tonelink/internal/formatter"
	"github.com/desertthunder/tonelink/internal/models"
	"github.com/desertthunder/tonelink/internal/services"
)

// searchDebounce is how long typing must pause before a search fires.
const searchDebounce = 300 * time.Millisecond

// ConnectFunc commits the selected artist to the profile.
type ConnectFunc func(ctx context.Context, artist models.Artist) error

// debounceMsg fires when the typing pause elapses. Stale sequences are ignored.
type debounceMsg struct {
	seq int
}

// searchResultMsg carries a finished search. The sequence fences out
// responses that arrive after a newer search was dispatched.
type searchResultMsg struct {
	seq     int
	artists []models.Artist
	err     error
}

type connectResultMsg struct {
	err error
}

// Model is the bubbletea shell around the dialog reducer.
type Model struct {
	ctx     context.Context
	spotify services.Service
	connect ConnectFunc

	state DialogState
	input textinput.Model
	seq   int

	width  int
	height int
	help   help.Model
	keys   keyMap
}

// NewModel creates the connect dialog with the provided dependencies.
func NewModel(ctx context.Context, spotify services.Service, connect ConnectFunc) *Model {
	input := textinput.New()
	input.Placeholder = "Search for your artist profile..."
	input.Focus()
	input.CharLimit = 100

	return &Model{
		ctx:     ctx,
		spotify: spotify,
		connect: connect,
		state:   NewDialogState(),
		input:   input,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// State exposes the current dialog state for callers inspecting the outcome.
func (m *Model) State() DialogState {
	return m.state
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case debounceMsg:
		// A newer keystroke superseded this tick
		if msg.seq != m.seq {
			return m, nil
		}
		m.state = Reduce(m.state, StartSearch{})
		return m, m.search(m.seq, m.state.Query)

	case searchResultMsg:
		// Drop responses from searches that are no longer current
		if msg.seq != m.seq {
			return m, nil
		}
		if msg.err != nil {
			m.state = Reduce(m.state, SetError{Message: msg.err.Error()})
			return m, nil
		}
		m.state = Reduce(m.state, SetResults{Artists: msg.artists})
		return m, nil

	case connectResultMsg:
		if msg.err != nil {
			m.state = Reduce(m.state, SetError{Message: msg.err.Error()})
			return m, nil
		}
		m.state = Reduce(m.state, Connected{})
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.back):
		if m.state.ShowResults {
			m.state = Reduce(m.state, SetShowResults{Show: false})
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.clear):
		m.state = Reduce(m.state, ClearSearch{})
		m.input.SetValue("")
		m.seq++
		return m, nil

	case key.Matches(msg, m.keys.down):
		m.state = Reduce(m.state, MoveDown{})
		return m, nil

	case key.Matches(msg, m.keys.up):
		m.state = Reduce(m.state, MoveUp{})
		return m, nil

	case key.Matches(msg, m.keys.home):
		m.state = Reduce(m.state, MoveHome{})
		return m, nil

	case key.Matches(msg, m.keys.end):
		m.state = Reduce(m.state, MoveEnd{})
		return m, nil

	case key.Matches(msg, m.keys.enter):
		artist, ok := m.state.Selected()
		if !ok {
			return m, nil
		}
		m.state = Reduce(m.state, StartConnect{})
		return m, m.commit(artist)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if query := m.input.Value(); query != m.state.Query {
		m.state = Reduce(m.state, SetQuery{Query: query})

		// Every edit takes a new sequence so an armed debounce from the
		// previous keystroke can never fire for the current query
		m.seq++
		if query == "" {
			return m, cmd
		}

		return m, tea.Batch(cmd, m.scheduleSearch(m.seq))
	}

	return m, cmd
}

// scheduleSearch arms the debounce timer for the given sequence.
func (m *Model) scheduleSearch(seq int) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func (m *Model) search(seq int, query string) tea.Cmd {
	return func() tea.Msg {
		artists, err := m.spotify.SearchArtists(m.ctx, query, 10)
		return searchResultMsg{seq: seq, artists: artists, err: err}
	}
}

func (m *Model) commit(artist models.Artist) tea.Cmd {
	return func() tea.Msg {
		if m.connect == nil {
			return connectResultMsg{err: fmt.Errorf("connect not configured")}
		}
		return connectResultMsg{err: m.connect(m.ctx, artist)}
	}
}

// View renders the dialog.
func (m *Model) View() string {
	out := styles.title.Render("Connect your artist profile") + "\n"
	out += m.input.View() + "\n"

	switch m.state.Phase {
	case PhaseSearching:
		out += "\n" + styles.dim.Render("Searching...")
	case PhaseConnecting:
		out += "\n" + styles.dim.Render("Connecting...")
	case PhaseConnected:
		out += "\n" + styles.ok.Render("✓ Connected")
	case PhaseError:
		out += "\n" + styles.err.Render("Error: "+m.state.Err)
	}

	if m.state.ShowResults {
		out += "\n" + m.renderResults()
	}

	out += "\n\n" + m.help.ShortHelpView(m.keys.ShortHelp())
	return out
}

func (m *Model) renderResults() string {
	if len(m.state.Results) == 0 {
		return styles.dim.Render("No artists found")
	}

	out := ""
	for i, artist := range m.state.Results {
		line := fmt.Sprintf("%s (%s followers)", artist.Name, formatter.FormatFollowers(artist.Followers))
		if i == m.state.ActiveIndex {
			out += styles.selected.Render("> "+line) + "\n"
		} else {
			out += "  " + line + "\n"
		}
	}
	return out
}
