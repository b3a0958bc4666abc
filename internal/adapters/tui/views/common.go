package views

import "confluenz/internal/application"

// ViewState is embedded by every view: terminal size plus a one-line status.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage replaces the status line
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// SetError shows err as an error status, phrased for the user
func (s *ViewState) SetError(err error) {
	if err == nil {
		s.ClearMessage()
		return
	}
	s.SetMessage(application.Describe(err), true)
}

func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}
