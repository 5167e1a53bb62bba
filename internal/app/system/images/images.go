// Package images turns hosted image ids into delivery URLs.
package images

import (
	"net/url"
	"strings"
)

// Transform is a delivery-time transformation segment, e.g. "c_fill,w_600".
type Transform string

const (
	Original Transform = ""
	Headshot Transform = "c_fill,g_face,h_600,w_600"
	Poster   Transform = "c_limit,w_900"
	Program  Transform = "c_limit,w_1200"
	Thumb    Transform = "c_fill,h_160,w_160"
)

// Resolver builds URLs of the form <base>/<transform>/<id>.
type Resolver struct {
	base string
}

// NewResolver takes the delivery base, e.g.
// https://res.cloudinary.com/<cloud>/image/upload.
func NewResolver(base string) Resolver {
	return Resolver{base: strings.TrimRight(strings.TrimSpace(base), "/")}
}

// URL returns the delivery URL for id, or "" when id or the base is empty.
func (r Resolver) URL(id string, t Transform) string {
	id = strings.Trim(strings.TrimSpace(id), "/")
	if id == "" || r.base == "" {
		return ""
	}
	parts := []string{r.base}
	if t != Original {
		parts = append(parts, string(t))
	}
	parts = append(parts, url.PathEscape(id))
	return strings.Join(parts, "/")
}

func (r Resolver) Headshot(id string) string { return r.URL(id, Headshot) }
func (r Resolver) Poster(id string) string   { return r.URL(id, Poster) }
func (r Resolver) Program(id string) string  { return r.URL(id, Program) }
