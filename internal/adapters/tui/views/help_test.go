package views

import (
	"strings"
	"testing"
)

func TestHelpListsBrowserKeys(t *testing.T) {
	view := NewHelpModel().View()

	for _, section := range helpSections() {
		for _, b := range section.bindings {
			if desc := b.Help().Desc; !strings.Contains(view, desc) {
				t.Errorf("help screen is missing %q", desc)
			}
		}
	}
}
