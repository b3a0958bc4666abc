package views

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"confluenz/internal/adapters/tui/styles"
	"confluenz/internal/application"
	"confluenz/internal/application/commands"
)

// DeleteModel is the model for the delete confirmation view
type DeleteModel struct {
	ConfirmationModel
	engine *application.Engine
}

// NewDeleteModel creates a new delete view model
func NewDeleteModel(engine *application.Engine) *DeleteModel {
	return &DeleteModel{
		ConfirmationModel: NewConfirmationModel(),
		engine:            engine,
	}
}

// Init initializes the delete view
func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg,
			m.doDelete,
			func() tea.Msg { return SwitchToBrowserMsg{} },
		)
		if handled {
			return m, cmd
		}
	}

	return m, nil
}

func (m *DeleteModel) doDelete() tea.Msg {
	if m.Target.StoragePath == "" {
		return DeleteErrMsg{Err: fmt.Errorf("no page selected")}
	}

	cmd := commands.NewDeletePageCommand(m.engine, m.Target.StoragePath)
	result, err := cmd.Execute(context.Background())
	if err != nil {
		return DeleteErrMsg{Err: err}
	}

	return DeleteSuccessMsg{Message: result.Message}
}

// DeleteSuccessMsg indicates successful deletion
type DeleteSuccessMsg struct {
	Message string
}

// DeleteErrMsg indicates an error during deletion
type DeleteErrMsg struct {
	Err error
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	v := NewViewBuilder().
		Title("Delete Page").
		Line(styles.ErrorMsg.Render("The page file is removed from the repository.")).
		BlankLine().
		Line(RenderTargetInfo(m.Target, "Delete")).
		BlankLine()

	if m.Target.HasChildren {
		v.Muted("  Subpages are kept. This page becomes a folder.").BlankLine()
	}

	return v.Message(m.Message, m.MessageErr).
		Raw(m.Prompt("Are you sure?")).
		String()
}
