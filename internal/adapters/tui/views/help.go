package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"confluenz/internal/adapters/tui/styles"
)

type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// previewScroll is handled by the preview viewport, not by BrowserKeys.
var previewScroll = key.NewBinding(
	key.WithKeys("pgup", "pgdown"),
	key.WithHelp("pgup/pgdn", "scroll preview"),
)

type helpSection struct {
	title    string
	bindings []key.Binding
}

// helpSections lists the browser bindings, so the screen always shows the
// keys that are actually bound.
func helpSections() []helpSection {
	k := BrowserKeys
	return []helpSection{
		{"Navigation", []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Enter, previewScroll}},
		{"Pages", []key.Binding{k.Edit, k.New, k.Subpage, k.Folder, k.Rename, k.Delete, k.Copy, k.Open}},
		{"General", []key.Binding{k.Search, k.Reload, k.Help, k.Quit}},
	}
}

type HelpModel struct {
	ViewState
}

func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

func (m *HelpModel) Init() tea.Cmd {
	return nil
}

func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, emit(SwitchToBrowserMsg{})
		}
	}
	return m, nil
}

func (m *HelpModel) View() string {
	v := NewViewBuilder().
		Title("Confluenz Help").
		Subtitle("Every page is a folder holding an index.md")

	for _, section := range helpSections() {
		v.Line(styles.InputLabel.Render(section.title))
		for _, b := range section.bindings {
			v.Line(helpLine(b))
		}
		v.BlankLine()
	}

	return v.Line(styles.InputLabel.Render("Conflicts")).
		Muted("  A save is rejected when the page changed since you opened it.").
		Muted("  Your text stays in the edit file. Reload, then merge it by hand.").
		BlankLine().
		Help(HelpKeys.Close).
		String()
}

func helpLine(b key.Binding) string {
	h := b.Help()
	pad := max(16-lipgloss.Width(h.Key), 1)
	return "  " + styles.HelpKey.Render(h.Key) + strings.Repeat(" ", pad) + styles.HelpDesc.Render(h.Desc)
}
