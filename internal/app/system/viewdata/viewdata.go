// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/csrf"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
)

// DefaultSiteName is shown until Init supplies one.
const DefaultSiteName = "The Grapefruits Duo"

// Site holds the per-process values every page shows.
type Site struct {
	Name           string
	Version        string
	GoogleClientID string
	SignupURL      string
	BaseURL        string
}

// NavLink is a nav bar entry pointing at a page anchor.
type NavLink struct {
	Label  string
	Anchor string
}

// NavLoader returns the musician links for the nav bar. Set by bootstrap so
// viewdata does not depend on the snapshot store.
type NavLoader func(ctx context.Context) (apiVersion string, links []NavLink)

var (
	mu        sync.RWMutex
	site      = Site{Name: DefaultSiteName}
	navLoader NavLoader
)

// Init sets the site values. Call once at startup.
func Init(s Site) {
	mu.Lock()
	defer mu.Unlock()
	if s.Name == "" {
		s.Name = DefaultSiteName
	}
	site = s
}

// SetNavLoader sets the function used to build nav links.
func SetNavLoader(l NavLoader) {
	mu.Lock()
	defer mu.Unlock()
	navLoader = l
}

// BaseVM contains the fields the layout needs. Embed it in page view models.
//
//	data := struct {
//	    viewdata.BaseVM
//	    Group models.Group
//	}{BaseVM: viewdata.NewBaseVM(r, "Home")}
type BaseVM struct {
	SiteName    string
	SiteVersion string
	APIVersion  string
	Title       string
	CurrentPath string
	Year        int

	// Visitor
	CanEdit   bool
	UserName  string
	UserEmail string

	// Sign-in
	GoogleClientID string
	LoginURI       string
	LoggedOut      bool
	Notice         string

	SignupURL string
	NavLinks  []NavLink

	CSRFToken string
}

// NewBaseVM builds the layout fields for r.
func NewBaseVM(r *http.Request, title string) BaseVM {
	mu.RLock()
	s, loader := site, navLoader
	mu.RUnlock()

	sess := auth.SessionFrom(r)
	vm := BaseVM{
		SiteName:       s.Name,
		SiteVersion:    s.Version,
		Title:          title,
		CurrentPath:    r.URL.Path,
		Year:           time.Now().Year(),
		CanEdit:        sess.CanEdit(),
		UserName:       sess.Name,
		UserEmail:      sess.Email,
		GoogleClientID: s.GoogleClientID,
		LoginURI:       s.BaseURL + "/login/google",
		LoggedOut:      r.URL.Query().Get("signed_out") == "1",
		Notice:         notice(r.URL.Query().Get("notice")),
		SignupURL:      s.SignupURL,
		CSRFToken:      csrf.Token(r),
	}
	if loader != nil {
		vm.APIVersion, vm.NavLinks = loader(r.Context())
	}
	return vm
}

// notice maps the short codes redirects carry to banner text.
func notice(code string) string {
	switch code {
	case "rejected":
		return "Sign-in failed: your credential was rejected."
	case "expired":
		return "Your sign-in has expired. Please sign in again."
	case "login_failed":
		return "Sign-in could not be completed. Please try again."
	default:
		return ""
	}
}
