// internal/domain/models/user.go
package models

// User is an admin account known to the API. It is created server-side from
// the login token; Sub is the identity provider's subject id.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	ID    int    `json:"id"`
	Sub   string `json:"sub,omitempty"`
}
