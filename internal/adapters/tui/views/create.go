package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"confluenz/internal/application"
	"confluenz/internal/application/commands"
	"confluenz/internal/domain"
)

// CreateMode indicates what the form creates
type CreateMode int

const (
	CreateModePage CreateMode = iota
	CreateModeSubpage
	CreateModeFolder
	CreateModeRename
)

// CreateModel is the form behind new page, subpage, folder and rename
type CreateModel struct {
	ViewState
	engine       *application.Engine
	openInEditor bool
	mode         CreateMode
	target       PageRef
	form         *InputForm
}

// NewCreateModel creates a new create view model
func NewCreateModel(engine *application.Engine, openInEditor bool) *CreateModel {
	return &CreateModel{
		engine:       engine,
		openInEditor: openInEditor,
		form:         NewInputForm(NewInputField("Path:", "guide/install", 200)),
	}
}

// Configure prepares the form for mode. target is the selected node: the
// parent for subpages, the page being renamed, or the location new pages
// and folders default to.
func (m *CreateModel) Configure(mode CreateMode, target PageRef) {
	m.mode = mode
	m.target = target
	m.ClearMessage()
	m.form.Reset()

	field := &m.form.Fields[0]
	field.Check = CheckLogicalPath
	switch mode {
	case CreateModeSubpage:
		field.Label = "Subpage name:"
		field.Input.Placeholder = "install"
		field.Check = CheckSegment
	case CreateModeRename:
		field.Label = "New path:"
		field.Input.Placeholder = target.Label()
		m.form.SetValue(0, target.Label())
	case CreateModeFolder:
		field.Label = "Folder path:"
		field.Input.Placeholder = "guide/reference"
		m.form.SetValue(0, prefill(target.Segments))
	default:
		field.Label = "Page path:"
		field.Input.Placeholder = "guide/install"
		m.form.SetValue(0, prefill(target.Segments))
	}
}

func prefill(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	return domain.JoinLogicalPath(segments) + "/"
}

// Init initializes the create view
func (m *CreateModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the create view
func (m *CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, emit(SwitchToBrowserMsg{})
		case key.Matches(msg, m.form.Keys.Submit):
			if err := m.form.Err(); err != nil {
				m.SetMessage(err.Error(), true)
				return m, nil
			}
			return m, m.submit()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *CreateModel) submit() tea.Cmd {
	value := m.form.Value(0)
	mode := m.mode
	target := m.target

	return func() tea.Msg {
		ctx := context.Background()

		switch mode {
		case CreateModeSubpage:
			result, err := commands.NewCreateSubpageCommand(m.engine, target.StoragePath, value, "").Execute(ctx)
			if err != nil {
				return CreateErrMsg{Err: err}
			}
			return m.created(result)

		case CreateModeFolder:
			result, err := commands.NewCreateFolderCommand(m.engine, value).Execute(ctx)
			if err != nil {
				return CreateErrMsg{Err: err}
			}
			segments, _ := domain.FolderOfMarker(result.MarkerPath)
			return CreateSuccessMsg{Message: result.Message, Segments: segments}

		case CreateModeRename:
			result, err := commands.NewRenamePageCommand(m.engine, target.StoragePath, value).Execute(ctx)
			if err != nil {
				return CreateErrMsg{Err: err}
			}
			segments, _ := domain.ParentLogicalPath(result.StoragePath)
			return CreateSuccessMsg{Message: result.Message, Segments: segments}

		default:
			result, err := commands.NewCreatePageCommand(m.engine, value, "").Execute(ctx)
			if err != nil {
				return CreateErrMsg{Err: err}
			}
			return m.created(result)
		}
	}
}

func (m *CreateModel) created(result *commands.CreatePageResult) tea.Msg {
	if m.openInEditor {
		return OpenEditorMsg{StoragePath: result.StoragePath, Message: result.Message}
	}
	segments, _ := domain.ParentLogicalPath(result.StoragePath)
	return CreateSuccessMsg{Message: result.Message, Segments: segments}
}

// CreateSuccessMsg indicates the form's action succeeded. Segments is the
// node the browser should select.
type CreateSuccessMsg struct {
	Message  string
	Segments []string
}

// CreateErrMsg indicates an error during creation
type CreateErrMsg struct {
	Err error
}

// View renders the create view
func (m *CreateModel) View() string {
	var title, subtitle, submit string
	switch m.mode {
	case CreateModeSubpage:
		title = "New Subpage"
		subtitle = fmt.Sprintf("Creating a page under %s", m.target.Label())
		submit = "create"
	case CreateModeFolder:
		title = "New Folder"
		subtitle = "An empty folder is kept alive by a placeholder file"
		submit = "create"
	case CreateModeRename:
		title = "Rename Page"
		subtitle = fmt.Sprintf("Moving %s and every page below it", m.target.Label())
		submit = "rename"
	default:
		title = "New Page"
		subtitle = "Segments are separated by /"
		submit = "create"
	}

	return NewViewBuilder().
		Title(title).
		Subtitle(subtitle).
		Line(m.form.RenderField(0)).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp(submit)).
		String()
}
