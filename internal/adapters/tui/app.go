package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"confluenz/internal/adapters/editor"
	"confluenz/internal/adapters/tui/views"
	"confluenz/internal/application"
	"confluenz/internal/application/commands"
	"confluenz/internal/domain"
	"confluenz/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewCreate
	ViewDelete
	ViewSearch
	ViewHelp
)

// App is the main TUI application model
type App struct {
	engine *application.Engine
	editor ports.EditorOpener
	web    ports.PageOpener
	trees  chan *domain.PageTree
	stop   func()

	state   ViewState
	browser *views.BrowserModel
	create  *views.CreateModel
	delete  *views.DeleteModel
	search  *views.SearchModel
	help    *views.HelpModel

	width  int
	height int
}

// Options configures the optional collaborators of the app
type Options struct {
	Editor ports.EditorOpener   // nil disables editing
	Web    ports.PageOpener     // nil disables opening pages in a browser
	Index  ports.PageIndex      // nil limits search to page paths
	Reader ports.DocumentReader // source the index reads pages from
}

// NewApp creates a new TUI application
func NewApp(engine *application.Engine, opts Options) *App {
	a := &App{
		engine:  engine,
		editor:  opts.Editor,
		web:     opts.Web,
		trees:   make(chan *domain.PageTree, 1),
		state:   ViewBrowser,
		browser: views.NewBrowserModel(engine),
		create:  views.NewCreateModel(engine, opts.Editor != nil),
		delete:  views.NewDeleteModel(engine),
		search:  views.NewSearchModel(engine, opts.Index, opts.Reader),
		help:    views.NewHelpModel(),
	}

	// Keep only the newest tree when the UI falls behind.
	a.stop = engine.Subscribe(func(tree *domain.PageTree) {
		select {
		case <-a.trees:
		default:
		}
		a.trees <- tree
	})
	return a
}

// Close stops listening for tree changes
func (a *App) Close() {
	a.stop()
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.browser.Init(), a.waitForTree())
}

func (a *App) waitForTree() tea.Cmd {
	return func() tea.Msg {
		return views.TreeChangedMsg{Tree: <-a.trees}
	}
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.create.SetSize(msg.Width, msg.Height)
		a.delete.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		a.search.Update(msg)
		return a, nil

	case views.TreeChangedMsg:
		a.search.Invalidate()
		return a, tea.Batch(a.browser.SetTree(msg.Tree), a.waitForTree())

	// View switching messages
	case views.SwitchToCreateMsg:
		a.state = ViewCreate
		a.create.Configure(msg.Mode, msg.Target)
		return a, a.create.Init()

	case views.SwitchToDeleteMsg:
		a.state = ViewDelete
		a.delete.SetTarget(msg.Target)
		return a, a.delete.Init()

	case views.SwitchToSearchMsg:
		a.state = ViewSearch
		a.search.Reset()
		return a, a.search.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	case views.CreateSuccessMsg:
		a.state = ViewBrowser
		a.browser.SetMessage(msg.Message, false)
		a.browser.Select(msg.Segments)
		return a, nil

	case views.CreateErrMsg:
		a.create.SetError(msg.Err)
		return a, nil

	case views.DeleteSuccessMsg:
		a.state = ViewBrowser
		a.browser.SetMessage(msg.Message, false)
		return a, nil

	case views.DeleteErrMsg:
		a.delete.Done()
		a.delete.SetError(msg.Err)
		return a, nil

	case views.SearchSelectMsg:
		a.state = ViewBrowser
		if segments, err := domain.ParentLogicalPath(msg.Result.StoragePath); err == nil {
			a.browser.Select(segments)
		}
		return a, nil

	case views.OpenEditorMsg:
		a.state = ViewBrowser
		if msg.Message != "" {
			a.browser.SetMessage(msg.Message, false)
		}
		return a, a.openEditor(msg.StoragePath)

	case views.OpenWebMsg:
		if a.web == nil {
			return a, nil
		}
		return a, func() tea.Msg {
			if err := a.web.OpenPage(msg.StoragePath); err != nil {
				return editDoneMsg{message: fmt.Sprintf("Failed to open browser: %v", err), isErr: true}
			}
			return editDoneMsg{message: "Opened " + msg.StoragePath}
		}

	case editorFinishedMsg:
		return a, a.finishEdit(msg)

	case editDoneMsg:
		a.browser.SetMessage(msg.message, msg.isErr)
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewCreate:
		_, cmd = a.create.Update(msg)
	case ViewDelete:
		_, cmd = a.delete.Update(msg)
	case ViewSearch:
		_, cmd = a.search.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

type editorFinishedMsg struct {
	session *editor.Session
	err     error
}

type editDoneMsg struct {
	message string
	isErr   bool
}

// openEditor reads the page fresh, writes it to a temporary file and hands
// the terminal to the editor
func (a *App) openEditor(storagePath string) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	result, err := commands.NewOpenPageCommand(a.engine, storagePath).Execute(context.Background())
	if err != nil {
		return func() tea.Msg { return editDoneMsg{message: application.Describe(err), isErr: true} }
	}

	session, err := editor.NewSession(result.Buffer)
	if err != nil {
		return func() tea.Msg { return editDoneMsg{message: err.Error(), isErr: true} }
	}

	cmd, err := session.Command(a.editor)
	if err != nil {
		session.Cleanup()
		return func() tea.Msg { return editDoneMsg{message: err.Error(), isErr: true} }
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{session: session, err: err}
	})
}

// finishEdit saves the edited text. A rejected save keeps the temporary
// file so the user's text survives.
func (a *App) finishEdit(msg editorFinishedMsg) tea.Cmd {
	return func() tea.Msg {
		session := msg.session
		if msg.err != nil {
			session.Cleanup()
			return editDoneMsg{message: fmt.Sprintf("Editor failed: %v", msg.err), isErr: true}
		}

		buf, changed, err := session.Result()
		if err != nil {
			return editDoneMsg{message: err.Error(), isErr: true}
		}
		if !changed {
			session.Cleanup()
			return editDoneMsg{message: "No changes"}
		}

		result, err := commands.NewSavePageCommand(a.engine, buf).Execute(context.Background())
		if err != nil {
			text := application.Describe(err)
			if errors.Is(err, application.ErrVersionConflict) || errors.Is(err, application.ErrRemoteUnavailable) {
				text += " Your text is kept in " + session.Path()
			} else {
				session.Cleanup()
			}
			return editDoneMsg{message: text, isErr: true}
		}

		session.Cleanup()
		return editDoneMsg{message: result.Message}
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewCreate:
		return a.create.View()
	case ViewDelete:
		return a.delete.View()
	case ViewSearch:
		return a.search.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
