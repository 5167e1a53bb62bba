// internal/domain/models/group.go
package models

// Group is the duo itself. The API exposes exactly one.
//
// LivestreamID is a YouTube video id; an empty value means no embedded
// livestream. It is always sent on PATCH so that clearing it takes effect.
type Group struct {
	ID                  int    `json:"id"`
	Name                string `json:"name"`
	Bio                 string `json:"bio"`
	LivestreamID        string `json:"livestream_id"`
	LivestreamProgramID string `json:"livestream_program_id,omitempty"`
}

// HasLivestream reports whether a livestream should be embedded.
func (g Group) HasLivestream() bool {
	return g.LivestreamID != ""
}
