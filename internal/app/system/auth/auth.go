// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session keys                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	// DefaultTTL is how long a sign-in lasts.
	DefaultTTL = 24 * time.Hour

	tokenKey    = "token"
	nameKey     = "name"
	emailKey    = "email"
	pictureKey  = "picture"
	signedInKey = "signed_in_at"
	stateKey    = "oauth_state"
)

// ErrNoSession is returned when the session cookie cannot be decoded.
var ErrNoSession = errors.New("no session")

/*─────────────────────────────────────────────────────────────────────────────*
| Session                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// Session is what a request knows about its visitor. The zero value is an
// anonymous visitor.
type Session struct {
	Token   string
	Name    string
	Email   string
	Picture string
}

// CanEdit reports whether admin affordances should be shown.
func (s Session) CanEdit() bool {
	return s.Token != ""
}

type ctxKey string

const sessionCtxKey ctxKey = "tgdSession"

// SessionFrom returns the session LoadSession put in the request context.
func SessionFrom(r *http.Request) Session {
	if s, ok := r.Context().Value(sessionCtxKey).(Session); ok {
		return s
	}
	return Session{}
}

// WithSession returns r carrying s. Handlers and tests use it to seed a
// request without a cookie round trip.
func WithSession(r *http.Request, s Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), sessionCtxKey, s))
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the cookie store holding the identity token.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

// NewSessionManager builds the cookie store. In production (secure=true)
// cookies are Secure and SameSite=None; in dev over http they are Lax.
func NewSessionManager(sessionKey, name, domain string, ttl time.Duration, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		name = "tgd-session"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}
	store.MaxAge(int(ttl / time.Second))

	logger.Info("session store initialized",
		zap.String("name", name),
		zap.Bool("secure", secure),
		zap.String("domain", domain),
		zap.Duration("ttl", ttl))

	return &SessionManager{
		store: store,
		name:  name,
		ttl:   ttl,
		log:   logger,
		now:   time.Now,
	}, nil
}

// Store exposes the underlying cookie store.
func (sm *SessionManager) Store() *sessions.CookieStore { return sm.store }

// Name is the session cookie name.
func (sm *SessionManager) Name() string { return sm.name }

// GetSession returns the raw gorilla session. On a decode error a fresh
// session is still returned so callers can overwrite or delete it.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	sess, err := sm.store.Get(r, sm.name)
	if err != nil {
		return sess, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	return sess, nil
}

// SignIn stores token in the session and returns the resulting Session. The
// token's claims supply the profile; an expired or malformed token is
// refused.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, token string) (Session, error) {
	claims, err := ParseClaims(token)
	if err != nil {
		return Session{}, err
	}
	if claims.Expired(sm.now()) {
		return Session{}, ErrTokenExpired
	}

	sess, _ := sm.GetSession(r)
	sess.Values[tokenKey] = token
	sess.Values[nameKey] = claims.Name
	sess.Values[emailKey] = claims.Email
	sess.Values[pictureKey] = claims.Picture
	sess.Values[signedInKey] = sm.now().Unix()
	delete(sess.Values, stateKey)
	if err := sess.Save(r, w); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}

	return Session{Token: token, Name: claims.Name, Email: claims.Email, Picture: claims.Picture}, nil
}

// SignOut deletes the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.log.Debug("session decode failed during sign-out", zap.Error(err))
	}

	// The deletion cookie must match the original store settings.
	if opts := sm.store.Options; opts != nil {
		sess.Options = &sessions.Options{
			Domain:   opts.Domain,
			Path:     opts.Path,
			Secure:   opts.Secure,
			HttpOnly: opts.HttpOnly,
			SameSite: opts.SameSite,
		}
	}
	sess.Options.MaxAge = -1
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	return sess.Save(r, w)
}

// PutState remembers an OAuth state value until TakeState.
func (sm *SessionManager) PutState(w http.ResponseWriter, r *http.Request, state string) error {
	sess, _ := sm.GetSession(r)
	sess.Values[stateKey] = state
	return sess.Save(r, w)
}

// TakeState returns and forgets the remembered OAuth state.
func (sm *SessionManager) TakeState(w http.ResponseWriter, r *http.Request) string {
	sess, err := sm.GetSession(r)
	if err != nil {
		return ""
	}
	state, _ := sess.Values[stateKey].(string)
	if state == "" {
		return ""
	}
	delete(sess.Values, stateKey)
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("save session after state check", zap.Error(err))
	}
	return state
}

// LoadSession puts the visitor's Session into the request context. A token
// past its own expiry, or older than the session TTL, is treated as absent
// and the cookie is cleared.
func (sm *SessionManager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.store.Get(r, sm.name)
		if err != nil || sess.IsNew {
			next.ServeHTTP(w, r)
			return
		}

		token, _ := sess.Values[tokenKey].(string)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		if sm.expired(sess, token) {
			sm.log.Info("session token expired; clearing",
				zap.String("email", getString(sess, emailKey)))
			if err := sm.SignOut(w, r); err != nil {
				sm.log.Warn("clear expired session", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}

		s := Session{
			Token:   token,
			Name:    getString(sess, nameKey),
			Email:   getString(sess, emailKey),
			Picture: getString(sess, pictureKey),
		}
		next.ServeHTTP(w, WithSession(r, s))
	})
}

// RequireToken guards admin routes. Without a token:
//   - HTMX: 401 with HX-Redirect to /
//   - HTML: 303 to /
//   - other callers: plain 401
func (sm *SessionManager) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFrom(r).CanEdit() {
			next.ServeHTTP(w, r)
			return
		}

		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", "/")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if wantsHTML(r) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

func (sm *SessionManager) expired(sess *sessions.Session, token string) bool {
	now := sm.now()
	if at, ok := sess.Values[signedInKey].(int64); ok {
		if now.Sub(time.Unix(at, 0)) >= sm.ttl {
			return true
		}
	}
	claims, err := ParseClaims(token)
	if err != nil {
		return true
	}
	return claims.Expired(now)
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
