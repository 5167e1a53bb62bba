// internal/app/features/musicians/routes.go
package musicians

import (
	"github.com/go-chi/chi/v5"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
)

// Routes mounts at /musicians. Every route requires a signed-in editor.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireToken)
		pr.Get("/{id}/bio", h.ServeBio)
		pr.Post("/{id}/bio", h.HandleBio)
		pr.Get("/{id}/headshot", h.ServeHeadshot)
		pr.Post("/{id}/headshot", h.HandleHeadshot)
	})
	return r
}
