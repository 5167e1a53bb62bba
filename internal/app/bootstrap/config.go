// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/uploadpolicy"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the site.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, session_name, etc.
//   - Environment variables: TGD_API_BASE_URL, TGD_SESSION_NAME, etc.
//   - Command-line flags: --api_base_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "api_base_url", Default: "http://localhost:8000", Desc: "Root URL of the site API"},
	{Name: "api_timeout", Default: "15s", Desc: "Transport timeout for API calls"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "tgd-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_ttl", Default: "24h", Desc: "How long a sign-in lasts"},
	{Name: "csrf_key", Default: "", Desc: "32-byte CSRF key (blank generates one per process)"},

	// Google sign-in
	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret (code-flow fallback)"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public URL of this site"},

	// Images and uploads
	{Name: "image_base_url", Default: "https://res.cloudinary.com/demo/image/upload", Desc: "Image delivery base URL"},
	{Name: "upload_max_bytes", Default: int(uploadpolicy.DefaultMaxBytes), Desc: "Largest accepted image upload in bytes"},

	{Name: "snapshot_max_age", Default: "0s", Desc: "Refetch the site data after this long (0 = never)"},

	// Contact form
	{Name: "contact_rate_limit", Default: 5, Desc: "Contact messages allowed per IP and per email in each window"},
	{Name: "contact_rate_window", Default: "10m", Desc: "Contact rate-limit window"},

	{Name: "site_version", Default: "dev", Desc: "Version shown in the footer"},
	{Name: "signup_url", Default: "", Desc: "Mailing-list sign-up link (blank hides the button)"},
}

// LoadConfig loads WAFFLE core config and the site's config.
//
// WAFFLE's config.LoadWithAppConfig reads .env files, config files, TGD_*
// environment variables and flags, with precedence flags > env > files >
// defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "TGD", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		APIBaseURL: appValues.String("api_base_url"),
		APITimeout: appValues.Duration("api_timeout", 15*time.Second),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionTTL:    appValues.Duration("session_ttl", auth.DefaultTTL),
		CSRFKey:       appValues.String("csrf_key"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		BaseURL: appValues.String("base_url"),

		ImageBaseURL:   appValues.String("image_base_url"),
		UploadMaxBytes: int64(appValues.Int("upload_max_bytes")),

		SnapshotMaxAge: appValues.Duration("snapshot_max_age", 0),

		ContactRateLimit:  appValues.Int("contact_rate_limit"),
		ContactRateWindow: appValues.Duration("contact_rate_window", 10*time.Minute),

		SiteVersion: appValues.String("site_version"),
		SignupURL:   appValues.String("signup_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig rejects settings the site cannot start with.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := absoluteURL(appCfg.APIBaseURL); err != nil {
		return fmt.Errorf("invalid api_base_url: %w", err)
	}
	if err := absoluteURL(appCfg.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if appCfg.UploadMaxBytes <= 0 {
		return fmt.Errorf("upload_max_bytes must be positive, got %d", appCfg.UploadMaxBytes)
	}
	if appCfg.SnapshotMaxAge < 0 {
		return fmt.Errorf("snapshot_max_age must not be negative")
	}
	if appCfg.CSRFKey != "" && len(appCfg.CSRFKey) != 32 {
		return fmt.Errorf("csrf_key must be exactly 32 bytes, got %d", len(appCfg.CSRFKey))
	}

	if coreCfg.Env == "prod" {
		if len(appCfg.SessionKey) < 32 {
			return fmt.Errorf("session_key must be at least 32 characters in prod")
		}
		if appCfg.GoogleClientID == "" {
			logger.Warn("google_client_id is empty; editors cannot sign in")
		}
	}
	return nil
}

func absoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) URL", raw)
	}
	return nil
}
