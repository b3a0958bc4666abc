package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"confluenz/internal/domain"
)

func TestOpener_Command(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantArgs []string
	}{
		{
			name:     "editor",
			env:      map[string]string{"EDITOR": "vim", "VISUAL": "emacs"},
			wantArgs: []string{"vim", "/tmp/page.md"},
		},
		{
			name:     "visual fallback",
			env:      map[string]string{"VISUAL": "emacs"},
			wantArgs: []string{"emacs", "/tmp/page.md"},
		},
		{
			name:     "editor with flags",
			env:      map[string]string{"EDITOR": "code --wait"},
			wantArgs: []string{"code", "--wait", "/tmp/page.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Opener{getenv: func(k string) string { return tt.env[k] }}
			cmd, err := o.Command("/tmp/page.md")
			if err != nil {
				t.Fatalf("Command failed: %v", err)
			}
			if strings.Join(cmd.Args, " ") != strings.Join(tt.wantArgs, " ") {
				t.Errorf("args = %v, want %v", cmd.Args, tt.wantArgs)
			}
		})
	}
}

func TestSession_RoundTrip(t *testing.T) {
	buf := &domain.EditBuffer{StoragePath: "guide/install/index.md", Text: "# Install", BaseVersionStamp: "abc"}

	s, err := NewSession(buf)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Cleanup()

	if !strings.HasPrefix(filepath.Base(s.Path()), "confluenz-guide-install-") {
		t.Errorf("unexpected temp name %s", s.Path())
	}

	_, changed, err := s.Result()
	if err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	if changed {
		t.Error("untouched file should not count as changed")
	}

	if err := os.WriteFile(s.Path(), []byte("# Install\n\nSteps."), 0600); err != nil {
		t.Fatal(err)
	}
	edited, changed, err := s.Result()
	if err != nil {
		t.Fatalf("Result failed: %v", err)
	}
	if !changed || edited.Text != "# Install\n\nSteps." {
		t.Errorf("unexpected result %+v changed=%v", edited, changed)
	}
	if edited.BaseVersionStamp != "abc" || edited.StoragePath != buf.StoragePath {
		t.Error("edited buffer must keep path and base stamp")
	}
	if buf.Text != "# Install" {
		t.Error("original buffer must not be modified")
	}

	s.Cleanup()
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("Cleanup should remove the file")
	}
}

func TestSession_HomeName(t *testing.T) {
	s, err := NewSession(&domain.EditBuffer{StoragePath: "index.md"})
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	defer s.Cleanup()
	if !strings.HasPrefix(filepath.Base(s.Path()), "confluenz-home-") {
		t.Errorf("unexpected temp name %s", s.Path())
	}
}
