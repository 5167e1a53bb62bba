// internal/app/features/contact/routes.go
package contact

import "github.com/go-chi/chi/v5"

// Routes mounts at /contact. Both routes are public.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/form", h.ServeForm)
	r.Post("/", h.HandleSubmit)
	return r
}
