package render

import "net/http"

// IsHTMX reports whether r was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") != ""
}

// Redirect sends the browser to url: HX-Redirect for htmx requests, 303
// otherwise.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// Form renders a form view: as a snippet for htmx (the modal swaps its own
// body) or as a full page otherwise. status is written first when non-zero.
func Form(rn Renderer, w http.ResponseWriter, r *http.Request, status int, page, snippet string, data any) {
	if status != 0 {
		w.WriteHeader(status)
	}
	if IsHTMX(r) {
		rn.Snippet(w, snippet, data)
		return
	}
	rn.Page(w, r, page, data)
}
