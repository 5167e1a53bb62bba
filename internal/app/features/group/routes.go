// internal/app/features/group/routes.go
package group

import (
	"github.com/go-chi/chi/v5"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
)

// Routes mounts at /group. Every route requires a signed-in editor.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireToken)
		pr.Get("/edit", h.ServeEdit)
		pr.Post("/edit", h.HandleEdit)
	})
	return r
}
