// internal/domain/models/musician.go
package models

// Musician is one member of the group.
type Musician struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Bio        string `json:"bio"`
	HeadshotID string `json:"headshot_id"`
}
