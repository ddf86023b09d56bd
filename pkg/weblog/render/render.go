// Package render converts raw markup typed by an author into the HTML
// stored alongside it. The conversion runs inside the save path, never
// on display.
package render

// Renderer turns raw markup into HTML. Implementations must be pure
// and deterministic: the stored HTML for a field is always exactly the
// rendering of its source text.
type Renderer interface {
	Render(raw string) string
}
