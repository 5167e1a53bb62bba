// Package formutil holds the fields every edit modal shares. Form view
// models embed Base next to viewdata.BaseVM, which carries the CSRF token.
//
// A failed submission re-renders its form with the submitted values and an
// error banner:
//
//	data := bioFormData{Bio: bio}
//	formutil.SetBase(&data.Base, "Edit Bio", "/musicians/2/bio", "musician-2")
//	data.SetError("Failed to update bio: " + api.Detail(err))
//	render.Form(h.Render, w, r, http.StatusBadGateway, "musician_bio_page", "musician_bio_form", data)
package formutil

import "html/template"

// NoChanges is the banner shown when a form is submitted unchanged.
const NoChanges = "Nothing to save: no changes were made."

// Base contains common fields for modal forms.
type Base struct {
	Heading string
	Action  string
	Anchor  string
	Error   template.HTML
	Hint    string
	// Dirty enables the submit button on first render. Forms start
	// disabled until the editor changes a field.
	Dirty bool
}

// SetBase populates Base for a form posting to action. anchor is the page
// fragment the modal returns to on cancel or success.
func SetBase(b *Base, heading, action, anchor string) {
	b.Heading = heading
	b.Action = action
	b.Anchor = anchor
}

// SetError sets the banner text and marks the form dirty so the editor can
// resubmit. msg is escaped.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(template.HTMLEscapeString(msg))
	b.Dirty = true
}

// ReturnURL is where the browser goes when the form closes.
func (b Base) ReturnURL() string {
	if b.Anchor == "" {
		return "/"
	}
	return "/#" + b.Anchor
}
