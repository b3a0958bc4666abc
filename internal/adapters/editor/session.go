package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"confluenz/internal/domain"
	"confluenz/internal/ports"
)

// Session edits a page through a temporary file. The file keeps the user's
// text until Cleanup, so a rejected save loses nothing.
type Session struct {
	buffer *domain.EditBuffer
	path   string
}

// NewSession writes buf to a temporary Markdown file
func NewSession(buf *domain.EditBuffer) (*Session, error) {
	name := strings.NewReplacer("/", "-").Replace(strings.TrimSuffix(buf.StoragePath, "/"+domain.DocumentName))
	if buf.StoragePath == domain.DocumentName {
		name = "home"
	}

	f, err := os.CreateTemp("", "confluenz-"+name+"-*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to create edit file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(buf.Text); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("failed to write edit file: %w", err)
	}

	return &Session{buffer: buf, path: f.Name()}, nil
}

// Path returns the temporary file being edited
func (s *Session) Path() string {
	return s.path
}

// Buffer returns the buffer the session was started from
func (s *Session) Buffer() *domain.EditBuffer {
	return s.buffer
}

// Command returns the editor process for the session
func (s *Session) Command(opener ports.EditorOpener) (*exec.Cmd, error) {
	return opener.Command(s.path)
}

// Result reads the edited text back. changed is false when the user saved
// nothing new.
func (s *Session) Result() (buf *domain.EditBuffer, changed bool, err error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read edit file: %w", err)
	}

	edited := *s.buffer
	edited.Text = string(content)
	return &edited, edited.Text != s.buffer.Text, nil
}

// Cleanup removes the temporary file
func (s *Session) Cleanup() {
	os.Remove(s.path)
}
