package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"confluenz/internal/adapters/tui/styles"
	"confluenz/internal/application"
	"confluenz/internal/application/commands"
	"confluenz/internal/domain"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Enter   key.Binding
	Edit    key.Binding
	New     key.Binding
	Subpage key.Binding
	Folder  key.Binding
	Rename  key.Binding
	Delete  key.Binding
	Copy    key.Binding
	Open    key.Binding
	Reload  key.Binding
	Search  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Subpage: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "subpage"),
	),
	Folder: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "folder"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy path"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open in browser"),
	),
	Reload: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reload"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// PageRef identifies a node of the page tree for the other views
type PageRef struct {
	Segments    []string
	StoragePath string // empty for folders
	HasChildren bool
}

// IsHome reports whether the reference is the repository-root page
func (r PageRef) IsHome() bool {
	return len(r.Segments) == 0
}

// Label returns the logical path shown to the user
func (r PageRef) Label() string {
	if r.IsHome() {
		return "/"
	}
	return domain.JoinLogicalPath(r.Segments)
}

// row is one visible line of the flattened tree
type row struct {
	ref   PageRef
	node  *domain.PageNode // nil for the home row
	depth int
}

// BrowserModel is the model for the page tree view. The left pane lists
// the tree; the right pane previews the selected page.
type BrowserModel struct {
	ViewState
	engine *application.Engine

	tree       *domain.PageTree
	expanded   map[string]bool // keyed by logical path
	rows       []row
	paginator  *Paginator
	pending    []string // selection waiting for a tree that has it
	hasPending bool

	preview     viewport.Model
	previewPath string
	previewText string
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(engine *application.Engine) *BrowserModel {
	return &BrowserModel{
		engine:    engine,
		expanded:  make(map[string]bool),
		paginator: NewPaginator(20),
		preview:   viewport.New(0, 0),
	}
}

// Init loads the tree
func (m *BrowserModel) Init() tea.Cmd {
	return m.Reload()
}

// Reload lists the repository again
func (m *BrowserModel) Reload() tea.Cmd {
	return func() tea.Msg {
		result, err := commands.NewLoadTreeCommand(m.engine).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return treeLoadedMsg{tree: result.Tree, message: result.Message}
	}
}

type treeLoadedMsg struct {
	tree    *domain.PageTree
	message string
}

// TreeChangedMsg carries a tree published by the engine after a mutation
type TreeChangedMsg struct {
	Tree *domain.PageTree
}

type previewLoadedMsg struct {
	storagePath string
	text        string
	stamp       string
}

type errMsg struct {
	err error
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case treeLoadedMsg:
		m.SetMessage(msg.message, false)
		return m, m.SetTree(msg.tree)

	case TreeChangedMsg:
		return m, m.SetTree(msg.Tree)

	case previewLoadedMsg:
		if msg.storagePath == m.previewPath {
			m.previewText = msg.text
			m.preview.SetContent(styles.Stamp.Render("version "+shortStamp(msg.stamp)) + "\n\n" + msg.text)
			m.preview.GotoTop()
		}
		return m, nil

	case errMsg:
		m.SetError(msg.err)
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		if m.paginator.CursorUp() {
			return m.loadPreview()
		}

	case key.Matches(msg, BrowserKeys.Down):
		if m.paginator.CursorDown() {
			return m.loadPreview()
		}

	case key.Matches(msg, BrowserKeys.Left):
		m.collapseOrParent()
		return m.loadPreview()

	case key.Matches(msg, BrowserKeys.Right):
		if r, ok := m.selected(); ok && r.node != nil && r.node.HasChildren() {
			m.expanded[r.ref.Label()] = true
			m.refreshRows()
		}

	case key.Matches(msg, BrowserKeys.Enter):
		if r, ok := m.selected(); ok && r.node != nil && r.node.HasChildren() {
			label := r.ref.Label()
			m.expanded[label] = !m.expanded[label]
			m.refreshRows()
		}

	case key.Matches(msg, BrowserKeys.Edit):
		if r, ok := m.selected(); ok && r.ref.StoragePath != "" {
			return emit(OpenEditorMsg{StoragePath: r.ref.StoragePath})
		}
		m.SetMessage("Folders have no page to edit. Press s on the parent or n to create one.", true)

	case key.Matches(msg, BrowserKeys.New):
		base := []string{}
		if r, ok := m.selected(); ok && !r.ref.IsHome() {
			base = r.ref.Segments[:len(r.ref.Segments)-1]
		}
		return emit(SwitchToCreateMsg{Mode: CreateModePage, Target: PageRef{Segments: base}})

	case key.Matches(msg, BrowserKeys.Subpage):
		if r, ok := m.selected(); ok && r.ref.StoragePath != "" {
			return emit(SwitchToCreateMsg{Mode: CreateModeSubpage, Target: r.ref})
		}
		m.SetMessage("Subpages can only be added under a page", true)

	case key.Matches(msg, BrowserKeys.Folder):
		var target PageRef
		if r, ok := m.selected(); ok {
			target = r.ref
		}
		return emit(SwitchToCreateMsg{Mode: CreateModeFolder, Target: target})

	case key.Matches(msg, BrowserKeys.Rename):
		r, ok := m.selected()
		switch {
		case !ok || r.ref.StoragePath == "":
			m.SetMessage("Only pages can be renamed", true)
		case r.ref.IsHome():
			m.SetMessage("The home page cannot be renamed", true)
		default:
			return emit(SwitchToCreateMsg{Mode: CreateModeRename, Target: r.ref})
		}

	case key.Matches(msg, BrowserKeys.Delete):
		if r, ok := m.selected(); ok && r.ref.StoragePath != "" {
			return emit(SwitchToDeleteMsg{Target: r.ref})
		}
		m.SetMessage("Only pages can be deleted", true)

	case key.Matches(msg, BrowserKeys.Copy):
		if r, ok := m.selected(); ok {
			if err := clipboard.WriteAll(r.ref.Label()); err != nil {
				m.SetMessage(fmt.Sprintf("Failed to copy: %v", err), true)
			} else {
				m.SetMessage("Copied "+r.ref.Label(), false)
			}
		}

	case key.Matches(msg, BrowserKeys.Open):
		if r, ok := m.selected(); ok && r.ref.StoragePath != "" {
			return emit(OpenWebMsg{StoragePath: r.ref.StoragePath})
		}

	case key.Matches(msg, BrowserKeys.Reload):
		return m.Reload()

	case key.Matches(msg, BrowserKeys.Search):
		return emit(SwitchToSearchMsg{})

	case key.Matches(msg, BrowserKeys.Help):
		return emit(SwitchToHelpMsg{})

	default:
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return cmd
	}

	return nil
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m *BrowserModel) collapseOrParent() {
	r, ok := m.selected()
	if !ok || r.ref.IsHome() {
		return
	}
	label := r.ref.Label()
	if m.expanded[label] {
		m.expanded[label] = false
		m.refreshRows()
		return
	}
	if len(r.ref.Segments) > 1 {
		m.Select(r.ref.Segments[:len(r.ref.Segments)-1])
	}
}

// SetTree replaces the displayed tree, keeping the selection when the
// selected node still exists
func (m *BrowserModel) SetTree(tree *domain.PageTree) tea.Cmd {
	var keep []string
	r, hadSelection := m.selected()
	if hadSelection {
		keep = r.ref.Segments
	}

	m.tree = tree
	m.refreshRows()
	pending, hasPending := m.pending, m.hasPending
	switch {
	case hasPending && m.Select(pending):
	case hadSelection:
		m.Select(keep)
		m.pending, m.hasPending = pending, hasPending
	}
	m.previewPath = ""
	return m.loadPreview()
}

// Select moves the cursor to the node at segments, expanding its ancestors.
// When the node is not in the tree yet, the next tree that has it selects it.
func (m *BrowserModel) Select(segments []string) bool {
	for i := 1; i < len(segments); i++ {
		m.expanded[domain.JoinLogicalPath(segments[:i])] = true
	}
	m.refreshRows()

	want := domain.JoinLogicalPath(segments)
	for i, r := range m.rows {
		if (len(segments) == 0 && r.ref.IsHome()) || (len(segments) > 0 && r.ref.Label() == want) {
			m.paginator.SetCursor(i)
			m.hasPending = false
			return true
		}
	}
	m.pending = segments
	m.hasPending = true
	return false
}

// SelectedPage returns the page or folder under the cursor
func (m *BrowserModel) SelectedPage() (PageRef, bool) {
	r, ok := m.selected()
	return r.ref, ok
}

func (m *BrowserModel) selected() (row, bool) {
	i := m.paginator.Cursor()
	if i >= 0 && i < len(m.rows) {
		return m.rows[i], true
	}
	return row{}, false
}

func (m *BrowserModel) refreshRows() {
	m.rows = flattenTree(m.tree, m.expanded)
	m.paginator.SetTotal(len(m.rows))
}

// flattenTree lists the visible rows: the home page first, then every
// top-level node, descending into expanded nodes
func flattenTree(tree *domain.PageTree, expanded map[string]bool) []row {
	if tree == nil {
		return nil
	}

	var rows []row
	if tree.Home != nil {
		rows = append(rows, row{ref: PageRef{StoragePath: tree.Home.StoragePath}})
	}

	var walk func(node *domain.PageNode, segments []string, depth int)
	walk = func(node *domain.PageNode, segments []string, depth int) {
		for _, child := range node.SortedChildren() {
			path := append(append([]string(nil), segments...), child.Segment)
			ref := PageRef{Segments: path, HasChildren: child.HasChildren()}
			if child.Document != nil {
				ref.StoragePath = child.Document.StoragePath
			}
			rows = append(rows, row{ref: ref, node: child, depth: depth})
			if child.HasChildren() && expanded[domain.JoinLogicalPath(path)] {
				walk(child, path, depth+1)
			}
		}
	}
	walk(tree.Root, nil, 0)
	return rows
}

func (m *BrowserModel) loadPreview() tea.Cmd {
	r, ok := m.selected()
	if !ok || r.ref.StoragePath == "" {
		m.previewPath = ""
		m.previewText = ""
		m.preview.SetContent(styles.MutedText.Render("Folder without a page"))
		return nil
	}
	if r.ref.StoragePath == m.previewPath {
		return nil
	}

	path := r.ref.StoragePath
	m.previewPath = path
	m.preview.SetContent(styles.MutedText.Render("Loading..."))
	return func() tea.Msg {
		result, err := commands.NewOpenPageCommand(m.engine, path).Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return previewLoadedMsg{
			storagePath: path,
			text:        result.Document.Text,
			stamp:       result.Document.VersionStamp,
		}
	}
}

func shortStamp(stamp string) string {
	if len(stamp) > 10 {
		return stamp[:10]
	}
	return stamp
}

// View renders the browser
func (m *BrowserModel) View() string {
	if m.tree == nil {
		return styles.App.Render("Loading...")
	}

	var tree strings.Builder
	if len(m.rows) == 0 {
		tree.WriteString(styles.MutedText.Render("The wiki is empty. Press n to create a page."))
		tree.WriteString("\n")
	}
	start, end := m.paginator.VisibleRange()
	for i := start; i < end; i++ {
		tree.WriteString(m.renderRow(m.rows[i], i == m.paginator.Cursor()))
		tree.WriteString("\n")
	}
	if m.paginator.TotalPages() > 1 {
		tree.WriteString(styles.MutedText.Render(fmt.Sprintf("%d/%d", m.paginator.CurrentPage(), m.paginator.TotalPages())))
	}

	treeWidth := max(m.Width/3, 24)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(treeWidth).Render(tree.String()),
		styles.Preview.Render(m.preview.View()),
	)

	v := NewViewBuilder().
		Title("Confluenz").
		Line(body).
		BlankLine()
	if len(m.tree.Rejected) > 0 {
		v.Muted(fmt.Sprintf("%d invalid paths ignored", len(m.tree.Rejected)))
	}
	return v.Message(m.Message, m.MessageErr).
		Help(BrowserKeys.Edit, BrowserKeys.New, BrowserKeys.Subpage, BrowserKeys.Rename,
			BrowserKeys.Delete, BrowserKeys.Search, BrowserKeys.Help, BrowserKeys.Quit).
		String()
}

func (m *BrowserModel) renderRow(r row, selected bool) string {
	indent := strings.Repeat("  ", r.depth)

	prefix := styles.TreeLeaf
	if r.node != nil && r.node.HasChildren() {
		if m.expanded[r.ref.Label()] {
			prefix = styles.TreeExpanded
		} else {
			prefix = styles.TreeCollapsed
		}
	}

	text := "Home"
	style := styles.NodeHome
	switch {
	case r.ref.IsHome():
	case r.ref.StoragePath == "":
		text = r.node.Segment + "/"
		style = styles.NodeFolder
	case r.node.HasChildren():
		text = r.node.Segment
		style = styles.NodeBranch
	default:
		text = r.node.Segment
		style = styles.NodePage
	}

	if selected {
		style = styles.NodeSelected
	}

	return indent + styles.TreeBranch.Render(prefix) + style.Render(text)
}

// SetSize updates the view dimensions
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	// title, blank line, message and help line
	rows := max(height-8, 1)
	m.paginator.SetPageSize(rows)
	m.preview.Width = max(width-max(width/3, 24)-6, 10)
	m.preview.Height = rows
}

// Messages for view switching
type SwitchToCreateMsg struct {
	Mode   CreateMode
	Target PageRef
}

type SwitchToDeleteMsg struct {
	Target PageRef
}

type SwitchToSearchMsg struct{}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}

// OpenWebMsg asks the app to show a page outside the terminal
type OpenWebMsg struct {
	StoragePath string
}

// OpenEditorMsg asks the app to edit a page in the external editor
type OpenEditorMsg struct {
	StoragePath string
	Message     string
}
