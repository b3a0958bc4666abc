package ports

// Renderer turns page Markdown into HTML. Rendering never fails; malformed
// Markdown renders as text.
type Renderer interface {
	Render(markdown string) string
}
