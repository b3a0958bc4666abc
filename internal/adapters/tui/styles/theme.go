package styles

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Primary   = lipgloss.Color("#0D9488") // teal
	Secondary = lipgloss.Color("#2563EB") // blue
	Muted     = lipgloss.Color("#6B7280")
	Error     = lipgloss.Color("#DC2626")
	White     = lipgloss.Color("#FFFFFF")

	HomeColor   = lipgloss.Color("#7C3AED")
	FolderColor = lipgloss.Color("#94A3B8")
)

var (
	App = lipgloss.NewStyle().Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	MutedText = lipgloss.NewStyle().Foreground(Muted)
)

// Page tree. Folders without a page are dimmed and italic so they read as
// placeholders.
var (
	NodeHome   = lipgloss.NewStyle().Bold(true).Foreground(HomeColor)
	NodeFolder = lipgloss.NewStyle().Foreground(FolderColor).Italic(true)
	NodePage   = lipgloss.NewStyle()
	NodeBranch = lipgloss.NewStyle().Foreground(Primary)

	NodeSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	TreeBranch    = lipgloss.NewStyle().Foreground(Muted)
	TreeExpanded  = "▾ "
	TreeCollapsed = "▸ "
	TreeLeaf      = "  "
)

// Preview pane
var (
	Preview = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(Muted).
		PaddingLeft(1)

	Stamp = lipgloss.NewStyle().Foreground(Muted).Italic(true)
)

// Forms and messages
var (
	InputLabel = lipgloss.NewStyle().Foreground(Secondary).Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Padding(0, 1)

	InputFocused = InputField.BorderForeground(Primary)

	Success  = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	ErrorMsg = lipgloss.NewStyle().Foreground(Error).Bold(true)
	Spinner  = lipgloss.NewStyle().Foreground(Primary)
)

// Key help
var (
	HelpKey       = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	HelpDesc      = lipgloss.NewStyle().Foreground(Muted)
	HelpSeparator = lipgloss.NewStyle().Foreground(Muted).SetString(" • ")
)
