package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"confluenz/internal/adapters/tui/styles"
)

type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmationModel asks a yes/no question about one page. Once confirmed
// it ignores keys until Done is called, so an action runs at most once.
type ConfirmationModel struct {
	ViewState
	Target  PageRef
	Keys    ConfirmKeyMap
	running bool
}

func NewConfirmationModel() ConfirmationModel {
	return ConfirmationModel{Keys: DefaultConfirmKeys}
}

// SetTarget arms the confirmation for ref
func (m *ConfirmationModel) SetTarget(ref PageRef) {
	m.Target = ref
	m.running = false
	m.ClearMessage()
}

// Running reports whether the confirmed action is still in flight
func (m *ConfirmationModel) Running() bool {
	return m.running
}

// Done re-enables the keys after the action finished
func (m *ConfirmationModel) Done() {
	m.running = false
}

// HandleKeyMsg runs onConfirm or onCancel as a command. handled is false for
// keys that are not part of the confirmation.
func (m *ConfirmationModel) HandleKeyMsg(msg tea.KeyMsg, onConfirm, onCancel func() tea.Msg) (handled bool, cmd tea.Cmd) {
	if m.running {
		return true, nil
	}
	switch {
	case key.Matches(msg, m.Keys.Cancel):
		return true, onCancel
	case key.Matches(msg, m.Keys.Confirm):
		m.running = true
		return true, onConfirm
	}
	return false, nil
}

// Prompt is the question followed by the confirm and cancel keys
func (m *ConfirmationModel) Prompt(question string) string {
	if m.running {
		return RenderMuted("Working...")
	}
	return question + " " + RenderHelpLine(m.Keys.Confirm, m.Keys.Cancel)
}

// RenderTargetInfo shows the page label with its storage path below it
func RenderTargetInfo(ref PageRef, action string) string {
	if ref.StoragePath == "" {
		return ""
	}
	return styles.InputLabel.Render(action+" page:") +
		"\n  " + ref.Label() +
		"\n  " + RenderMuted(ref.StoragePath)
}
