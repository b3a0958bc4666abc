package ports

import "os/exec"

// EditorOpener opens local files in the user's editor
type EditorOpener interface {
	// OpenFile opens path and waits for the editor to exit
	OpenFile(path string) error

	// Command returns an exec.Cmd for opening a file in the editor
	// This is useful for integrating with bubbletea's ExecProcess
	Command(path string) (*exec.Cmd, error)
}

// PageOpener shows a page outside the terminal, e.g. in a web browser
type PageOpener interface {
	OpenPage(storagePath string) error
}
