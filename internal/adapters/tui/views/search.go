package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"confluenz/internal/adapters/tui/styles"
	"confluenz/internal/application"
	"confluenz/internal/application/commands"
	"confluenz/internal/ports"
)

// SearchKeyMap defines key bindings for the search view
type SearchKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Cancel   key.Binding
	NextPage key.Binding
	PrevPage key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "go to page"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("ctrl+f", "pgdown"),
		key.WithHelp("ctrl+f", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("ctrl+b", "pgup"),
		key.WithHelp("ctrl+b", "prev page"),
	),
}

// SearchModel is the model for the search view. With an index the page
// text is searched after the index catches up with the tree; without one
// only page paths match.
type SearchModel struct {
	ViewState
	engine *application.Engine
	index  ports.PageIndex
	reader ports.DocumentReader

	input     textinput.Model
	spinner   spinner.Model
	paginator *Paginator
	syncing   bool
	synced    bool
	results   []commands.SearchResult
	query     string
}

// NewSearchModel creates a new search view model. index and reader may be nil.
func NewSearchModel(engine *application.Engine, index ports.PageIndex, reader ports.DocumentReader) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Search pages..."
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &SearchModel{
		engine:    engine,
		index:     index,
		reader:    reader,
		input:     input,
		spinner:   s,
		paginator: NewPaginator(10),
	}
}

// Init starts syncing the index if there is one
func (m *SearchModel) Init() tea.Cmd {
	if m.index == nil || m.reader == nil || m.synced {
		return textinput.Blink
	}
	m.syncing = true
	tree := m.engine.Tree()
	return tea.Batch(textinput.Blink, m.spinner.Tick, func() tea.Msg {
		_, err := m.index.Sync(context.Background(), tree, m.reader)
		return indexSyncedMsg{err: err}
	})
}

// Reset resets the search view
func (m *SearchModel) Reset() {
	m.input.SetValue("")
	m.results = nil
	m.query = ""
	m.paginator.Reset()
	m.ClearMessage()
	m.input.Focus()
}

// Invalidate marks the index stale after the tree changed
func (m *SearchModel) Invalidate() {
	m.synced = false
}

type indexSyncedMsg struct {
	err error
}

type searchResultsMsg struct {
	query   string
	results []commands.SearchResult
	err     error
}

// SearchSelectMsg is sent when a search result is selected
type SearchSelectMsg struct {
	Result commands.SearchResult
}

// Update handles messages for the search view
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.paginator.SetPageSize(max(msg.Height-10, 3))
		return m, nil

	case spinner.TickMsg:
		if m.syncing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case indexSyncedMsg:
		m.syncing = false
		if msg.err != nil {
			m.SetMessage("Index unavailable, matching page paths only: "+application.Describe(msg.err), true)
			m.index = nil
		} else {
			m.synced = true
		}
		return m, m.search(m.input.Value())

	case searchResultsMsg:
		if msg.query != m.input.Value() {
			return m, nil
		}
		if msg.err != nil {
			m.SetError(msg.err)
		}
		m.results = msg.results
		m.paginator.SetTotal(len(m.results))
		m.paginator.SetCursor(0)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, SearchKeys.Cancel):
			return m, emit(SwitchToBrowserMsg{})

		case key.Matches(msg, SearchKeys.Up):
			m.paginator.CursorUp()
			return m, nil

		case key.Matches(msg, SearchKeys.Down):
			m.paginator.CursorDown()
			return m, nil

		case key.Matches(msg, SearchKeys.NextPage):
			m.paginator.NextPage()
			return m, nil

		case key.Matches(msg, SearchKeys.PrevPage):
			m.paginator.PrevPage()
			return m, nil

		case key.Matches(msg, SearchKeys.Select):
			if i := m.paginator.Cursor(); i < len(m.results) {
				return m, emit(SearchSelectMsg{Result: m.results[i]})
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	if query := m.input.Value(); query != m.query {
		m.query = query
		if len(query) < 2 {
			m.results = nil
			m.paginator.SetTotal(0)
			return m, cmd
		}
		if !m.syncing {
			return m, tea.Batch(cmd, m.search(query))
		}
	}

	return m, cmd
}

func (m *SearchModel) search(query string) tea.Cmd {
	if len(query) < 2 {
		return nil
	}
	index := m.index
	tree := m.engine.Tree()
	return func() tea.Msg {
		results, err := commands.NewSearchCommand(index, tree, query).Execute(context.Background())
		return searchResultsMsg{query: query, results: results, err: err}
	}
}

// View renders the search view
func (m *SearchModel) View() string {
	v := NewViewBuilder().
		Title("Search").
		Line(styles.InputFocused.Render(m.input.View())).
		BlankLine()

	switch {
	case m.syncing:
		v.Line(m.spinner.View() + " Indexing pages...")
	case len(m.results) == 0 && len(m.input.Value()) >= 2:
		v.Muted("No results found")
	case len(m.results) == 0:
		v.Muted("Type at least 2 characters to search")
	default:
		v.Line(RenderSubtitle(fmt.Sprintf("%d results", len(m.results)))).BlankLine()
		start, end := m.paginator.VisibleRange()
		for i := start; i < end; i++ {
			v.Line(m.renderResult(m.results[i], i == m.paginator.Cursor()))
		}
		if m.paginator.TotalPages() > 1 {
			v.Muted(fmt.Sprintf("page %d/%d", m.paginator.CurrentPage(), m.paginator.TotalPages()))
		}
	}

	return v.BlankLine().
		Message(m.Message, m.MessageErr).
		Help(SearchKeys.Up, SearchKeys.Down, SearchKeys.Select, SearchKeys.Cancel).
		String()
}

func (m *SearchModel) renderResult(result commands.SearchResult, selected bool) string {
	text := result.Title
	if text == "" {
		text = result.StoragePath
	}
	line := fmt.Sprintf("%s  %s", text, RenderMuted(result.StoragePath))
	if selected {
		line = styles.NodeSelected.Render(text) + "  " + RenderMuted(result.StoragePath)
	}
	if result.MatchedText != "" && result.MatchedText != result.Title {
		line += "\n    " + RenderMuted(result.MatchedText)
	}
	return line
}
