// internal/app/bootstrap/csrf.go
package bootstrap

import (
	"fmt"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// csrfKeyBytes returns the configured key, or a random one when none is
// set. A random key invalidates open forms on every restart.
func csrfKeyBytes(configured string, logger *zap.Logger) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}
	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return nil, fmt.Errorf("generate csrf key: no randomness available")
	}
	logger.Warn("csrf_key not set; generated a per-process key")
	return key, nil
}

// csrfExempt marks POSTs to the given paths as not needing a CSRF token.
// It must run before csrf.Protect.
func csrfExempt(paths ...string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(paths))
	for _, p := range paths {
		skip[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				r = csrf.UnsafeSkipCheck(r)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// plaintextHTTP tells csrf.Protect the request arrived over http, so its
// Referer check does not demand https. Dev only.
func plaintextHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
