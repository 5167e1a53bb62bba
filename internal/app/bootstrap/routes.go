// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	authgooglefeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/authgoogle"
	contactfeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/contact"
	errorsfeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/errors"
	groupfeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/group"
	healthfeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/health"
	homefeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/home"
	loginfeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/login"
	logoutfeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/logout"
	musiciansfeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/musicians"
	seriesfeature "github.com/thegrapefruitsduo/tgdweb/internal/app/features/series"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/auth"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/images"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/render"
	"github.com/thegrapefruitsduo/tgdweb/internal/app/system/uploadpolicy"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler.
//
// It boots the template engine, puts the visitor's session into every
// request, guards form posts with CSRF tokens and mounts the feature
// routers: the public page, the admin edit modals, contact, sign-in and
// health.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionTTL, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	csrfKey, err := csrfKeyBytes(appCfg.CSRFKey, logger)
	if err != nil {
		logger.Error("csrf key init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	rn := render.Templates{}
	errLog := errorsfeature.NewErrorLogger(logger, rn)
	errorsHandler := errorsfeature.NewHandler(errLog)

	img := images.NewResolver(appCfg.ImageBaseURL)
	uploads := uploadpolicy.Default(appCfg.UploadMaxBytes)

	r := chi.NewRouter()
	r.NotFound(errorsHandler.ServeNotFound)

	// Global session middleware: puts auth.Session into the request context.
	r.Use(sessionMgr.LoadSession)

	// Health check endpoint for load balancers; JSON, no CSRF involvement.
	healthHandler := healthfeature.NewHandler(deps.API, deps.Snapshots, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(fr chi.Router) {
		if !secure {
			fr.Use(plaintextHTTP)
		}
		// Google posts the sign-in credential cross-site with its own
		// double-submit cookie, which login checks instead.
		fr.Use(csrfExempt("/login/google"))
		fr.Use(csrf.Protect(csrfKey,
			csrf.Secure(secure),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.ErrorHandler(http.HandlerFunc(errorsHandler.ServeCSRFFailure)),
		))

		// Public page
		homeHandler := homefeature.NewHandler(deps.Snapshots, img, rn, logger)
		fr.Mount("/", homefeature.Routes(homeHandler))

		contactHandler := contactfeature.NewHandler(deps.API, deps.Contact, rn, errLog, logger)
		fr.Mount("/contact", contactfeature.Routes(contactHandler))

		// Authentication
		loginHandler := loginfeature.NewHandler(deps.API, sessionMgr, logger)
		fr.Mount("/login", loginfeature.Routes(loginHandler))

		googleHandler := authgooglefeature.NewHandler(loginHandler, sessionMgr,
			appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
		fr.Mount("/auth/google", authgooglefeature.Routes(googleHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
		fr.Mount("/logout", logoutfeature.Routes(logoutHandler))

		// Admin edit modals; every route requires a signed-in editor.
		groupHandler := groupfeature.NewHandler(deps.API, deps.Snapshots, rn, errLog, logger)
		fr.Mount("/group", groupfeature.Routes(groupHandler, sessionMgr))

		musiciansHandler := musiciansfeature.NewHandler(deps.API, deps.Snapshots, img, uploads, rn, errLog, logger)
		fr.Mount("/musicians", musiciansfeature.Routes(musiciansHandler, sessionMgr))

		seriesHandler := seriesfeature.NewHandler(deps.API, deps.Snapshots, img, uploads, rn, errLog, logger)
		fr.Mount("/series", seriesfeature.Routes(seriesHandler, sessionMgr))
	})

	return r, nil
}
