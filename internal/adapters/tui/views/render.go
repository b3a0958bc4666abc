package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"confluenz/internal/adapters/tui/styles"
)

// RenderKeyHelp formats a binding as "key description"
func RenderKeyHelp(b key.Binding) string {
	help := b.Help()
	return styles.HelpKey.Render(help.Key) + " " + styles.HelpDesc.Render(help.Desc)
}

// RenderHelpLine joins bindings with the help separator. Disabled
// bindings are left out.
func RenderHelpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		parts = append(parts, RenderKeyHelp(b))
	}
	return strings.Join(parts, styles.HelpSeparator.String())
}

func RenderSubtitle(subtitle string) string {
	return styles.Subtitle.Render(subtitle)
}

func RenderMuted(text string) string {
	return styles.MutedText.Render(text)
}

// ViewBuilder assembles a screen top to bottom. Every view ends with
// String, which applies the app padding.
type ViewBuilder struct {
	b strings.Builder
}

func NewViewBuilder() *ViewBuilder {
	return &ViewBuilder{}
}

func (v *ViewBuilder) Title(title string) *ViewBuilder {
	return v.block(styles.Title.Render(title))
}

func (v *ViewBuilder) Subtitle(subtitle string) *ViewBuilder {
	if subtitle == "" {
		return v
	}
	return v.block(RenderSubtitle(subtitle))
}

func (v *ViewBuilder) Line(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteByte('\n')
	return v
}

func (v *ViewBuilder) BlankLine() *ViewBuilder {
	v.b.WriteByte('\n')
	return v
}

func (v *ViewBuilder) Muted(text string) *ViewBuilder {
	return v.Line(RenderMuted(text))
}

// Message writes the status line, red for errors. Empty messages are skipped.
func (v *ViewBuilder) Message(message string, isError bool) *ViewBuilder {
	switch {
	case message == "":
		return v
	case isError:
		return v.block(styles.ErrorMsg.Render(message))
	default:
		return v.block(styles.Success.Render(message))
	}
}

func (v *ViewBuilder) Help(bindings ...key.Binding) *ViewBuilder {
	v.b.WriteString(RenderHelpLine(bindings...))
	return v
}

// Raw writes text as is
func (v *ViewBuilder) Raw(text string) *ViewBuilder {
	v.b.WriteString(text)
	return v
}

func (v *ViewBuilder) String() string {
	return styles.App.Render(v.b.String())
}

func (v *ViewBuilder) block(text string) *ViewBuilder {
	v.b.WriteString(text)
	v.b.WriteString("\n\n")
	return v
}
