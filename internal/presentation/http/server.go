package http

import (
	stdhttp "net/http"
	"net/netip"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"sdaadmin/app/internal/domain/accounts"
	"sdaadmin/app/internal/domain/admin"
	"sdaadmin/app/internal/domain/content"
)

const (
	adminRoot  = "/admin"
	loginPath  = "/admin/login"
	logoutPath = "/admin/logout"
	healthPath = "/healthz"

	defaultMaxUploadBytes = 10 << 20
	// multipartOverhead is the room left for non-file form fields.
	multipartOverhead = 1 << 20
)

// Options configures the HTTP server wiring.
type Options struct {
	AdminService    admin.Service
	AccountService  accounts.Service
	Database        *gorm.DB
	Logger          *logrus.Logger
	SentryHub       *sentry.Hub
	RateLimiter     RateLimiterSettings
	TrustedProxies  []string
	Session         SessionSettings
	DefaultLanguage string
	MaxUploadBytes  int64
}

// RateLimiterSettings configures the sign-in throttle.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Server wires the admin HTML screens and the JSON API onto one mux.
type Server struct {
	api            huma.API
	mux            *stdhttp.ServeMux
	handler        stdhttp.Handler
	admin          admin.Service
	accounts       accounts.Service
	db             *gorm.DB
	logger         *logrus.Logger
	sentry         *sentry.Hub
	rateLimiter    *RateLimiter
	// trustedProxies may set X-Forwarded-For and X-Real-IP.
	trustedProxies []netip.Prefix
	sessions       *sessionManager
	language       language.Tag
	maxUpload      int64
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.AdminService == nil {
		return nil, eris.New("admin service is required")
	}
	if opts.AccountService == nil {
		return nil, eris.New("account service is required")
	}

	settings := opts.RateLimiter
	if settings.Burst <= 0 {
		return nil, eris.New("rate limiter burst must be greater than zero")
	}
	if settings.RequestsPerSecond <= 0 {
		return nil, eris.New("rate limiter requests per second must be greater than zero")
	}
	if settings.ClientTTL <= 0 {
		return nil, eris.New("rate limiter client TTL must be greater than zero")
	}

	trustedProxies, err := parseTrustedProxies(opts.TrustedProxies)
	if err != nil {
		return nil, err
	}

	sessions, err := newSessionManager(opts.Session, opts.AccountService)
	if err != nil {
		return nil, err
	}

	fallback := language.English
	if opts.DefaultLanguage != "" {
		tag, err := language.Parse(opts.DefaultLanguage)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid default language %q", opts.DefaultLanguage)
		}
		fallback = content.MatchLanguage(language.English, tag)
	}

	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig("SDA Admin API", "1.0.0")
	config.OpenAPIPath = "/api/openapi"
	config.DocsPath = "/api/docs"
	config.SchemasPath = "/api/schemas"

	srv := &Server{
		api:            humago.New(mux, config),
		mux:            mux,
		admin:          opts.AdminService,
		accounts:       opts.AccountService,
		db:             opts.Database,
		logger:         opts.Logger,
		sentry:         opts.SentryHub,
		rateLimiter:    NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL),
		trustedProxies: trustedProxies,
		sessions:       sessions,
		language:       fallback,
		maxUpload:      maxUpload,
	}

	srv.api.UseMiddleware(srv.operationMiddleware())
	srv.registerRoutes()

	srv.handler = chain(mux,
		srv.sentryMiddleware,
		srv.requestIDMiddleware,
		srv.recoveryMiddleware,
		srv.loggingMiddleware,
		srv.authMiddleware,
	)

	return srv, nil
}

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s.handler
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

// Close releases background resources.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

func (s *Server) registerRoutes() {
	s.registerStaticRoute()
	s.registerHealthRoute()
	s.registerAPIRoutes()
	s.registerAuthRoutes()
	s.registerPageRoutes()
	s.registerFormRoutes()

	s.mux.HandleFunc("GET /{$}", func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		stdhttp.Redirect(w, r, adminRoot, stdhttp.StatusFound)
	})
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.handler.ServeHTTP(w, r)
}
