package views

import (
	"strings"
	"testing"
)

func TestInputFormErr(t *testing.T) {
	tests := []struct {
		name  string
		check func(string) error
		value string
		want  bool
	}{
		{"nested path", CheckLogicalPath, "guide/install", true},
		{"trailing slash", CheckLogicalPath, "guide/", false},
		{"reserved name", CheckLogicalPath, "guide/index.md", false},
		{"segment", CheckSegment, "install", true},
		{"segment with slash", CheckSegment, "a/b", false},
		{"no check", nil, "a//b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := NewInputField("Path:", "", 0)
			field.Check = tt.check
			form := NewInputForm(field)
			form.SetValue(0, tt.value)

			if got := form.Err() == nil; got != tt.want {
				t.Errorf("Err() = %v, want valid %v", form.Err(), tt.want)
			}
		})
	}
}

func TestInputFormRenderFieldShowsReason(t *testing.T) {
	field := NewInputField("Path:", "", 0)
	field.Check = CheckLogicalPath
	form := NewInputForm(field)

	form.SetValue(0, "guide/")
	if !strings.Contains(form.RenderField(0), "trailing slash") {
		t.Errorf("expected a trailing slash hint, got %q", form.RenderField(0))
	}

	form.SetValue(0, "guide/install")
	if strings.Contains(form.RenderField(0), "slash") {
		t.Errorf("valid value should not render a hint, got %q", form.RenderField(0))
	}
}

func TestInputFormErrNamesField(t *testing.T) {
	field := NewInputField("Page path:", "", 0)
	field.Check = CheckLogicalPath
	form := NewInputForm(field)
	form.SetValue(0, "/guide")

	if err := form.Err(); err == nil || err.Error() != "Page path: leading slash" {
		t.Errorf("Err() = %v, want %q", err, "Page path: leading slash")
	}
}

func TestInputFormValueTrims(t *testing.T) {
	form := NewInputForm(NewInputField("Path:", "", 0))
	form.SetValue(0, "  guide  ")

	if got := form.Value(0); got != "guide" {
		t.Errorf("Value() = %q, want %q", got, "guide")
	}
	if got := form.Value(3); got != "" {
		t.Errorf("Value(out of range) = %q, want empty", got)
	}
}
