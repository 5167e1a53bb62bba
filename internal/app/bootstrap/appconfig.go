// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds the site's configuration.
//
// WAFFLE's CoreConfig covers ports, TLS, logging and body limits. AppConfig
// carries what is specific to this site: where the API lives, how the
// session cookie is signed, the Google sign-in client and the image host.
type AppConfig struct {
	// Remote API
	APIBaseURL string        // e.g., "https://api.thegrapefruitsduo.com"
	APITimeout time.Duration // transport timeout for every API call

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: tgd-session)
	SessionDomain string // Cookie domain (blank means current host)
	SessionTTL    time.Duration

	// CSRF key for gorilla/csrf; blank generates one per process.
	CSRFKey string

	// Google sign-in
	GoogleClientID     string
	GoogleClientSecret string // only the OAuth code-flow fallback needs it

	// Public URL of this site, used for the GIS login_uri and OAuth callback.
	BaseURL string

	// Image delivery base, e.g. "https://res.cloudinary.com/<cloud>/image/upload".
	ImageBaseURL   string
	UploadMaxBytes int64

	// 0 keeps the snapshot until an edit or a restart.
	SnapshotMaxAge time.Duration

	ContactRateLimit  int
	ContactRateWindow time.Duration

	SiteVersion string
	SignupURL   string // mailing-list sign-up; blank hides the button
}
