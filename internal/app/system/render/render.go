// Package render sends pages and HTMX snippets through the waffle template
// engine. Handlers depend on the Renderer interface so tests can capture
// what would have been rendered.
package render

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
)

// Renderer renders a named template with a view model.
type Renderer interface {
	// Page renders a full page inside the site layout.
	Page(w http.ResponseWriter, r *http.Request, name string, data any)
	// Snippet renders a fragment (modal body, form partial) with no layout.
	Snippet(w http.ResponseWriter, name string, data any)
}

// Templates is the Renderer backed by the booted waffle engine.
type Templates struct{}

func (Templates) Page(w http.ResponseWriter, r *http.Request, name string, data any) {
	templates.Render(w, r, name, data)
}

func (Templates) Snippet(w http.ResponseWriter, name string, data any) {
	templates.RenderSnippet(w, name, data)
}
