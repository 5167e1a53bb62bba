// internal/app/features/series/routes.go
package series

import (
	"github.com/go-chi/chi/v5"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
)

// Routes mounts at /series. Every route requires a signed-in editor.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireToken)

		pr.Get("/new", h.ServeNew)
		pr.Post("/new", h.HandleCreate)
		pr.Post("/form", h.HandleFormChange)

		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)
		pr.Get("/{id}/delete", h.ServeDelete)
		pr.Post("/{id}/delete", h.HandleDelete)
		pr.Get("/{id}/poster", h.ServePoster)
		pr.Post("/{id}/poster", h.HandlePoster)
	})
	return r
}
