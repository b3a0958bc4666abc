package views

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestConfirmation_RunsOnce(t *testing.T) {
	m := NewConfirmationModel()
	m.SetTarget(PageRef{Segments: []string{"guide"}, StoragePath: "guide/index.md"})

	calls := 0
	confirm := func() tea.Msg { calls++; return nil }
	cancel := func() tea.Msg { return SwitchToBrowserMsg{} }
	yes := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}

	if handled, cmd := m.HandleKeyMsg(yes, confirm, cancel); !handled || cmd == nil {
		t.Fatalf("first confirm: handled=%v cmd=%v", handled, cmd)
	} else {
		cmd()
	}
	if _, cmd := m.HandleKeyMsg(yes, confirm, cancel); cmd != nil {
		t.Errorf("second confirm while running returned a command")
	}
	if calls != 1 || !m.Running() {
		t.Errorf("calls = %d running = %v, want 1 true", calls, m.Running())
	}

	m.Done()
	if _, cmd := m.HandleKeyMsg(yes, confirm, cancel); cmd == nil {
		t.Errorf("confirm after Done returned no command")
	}
}

func TestConfirmation_IgnoresOtherKeys(t *testing.T) {
	m := NewConfirmationModel()
	other := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}

	handled, _ := m.HandleKeyMsg(other, nil, nil)
	if handled {
		t.Error("x should not be handled")
	}
}
