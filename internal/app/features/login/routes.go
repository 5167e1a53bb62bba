// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes mounts at /login. The Google route is exempt from the site's CSRF
// middleware; it checks Google's double-submit cookie instead.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/google", h.HandleGoogle)
	return r
}
