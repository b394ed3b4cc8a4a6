package bootstrap

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sdaadmin/app/internal/config"
	dataaccounts "sdaadmin/app/internal/data/accounts"
	datacontent "sdaadmin/app/internal/data/content"
	"sdaadmin/app/internal/data/database"
	"sdaadmin/app/internal/data/migrations"
	domainaccounts "sdaadmin/app/internal/domain/accounts"
	"sdaadmin/app/internal/domain/admin"
	"sdaadmin/app/internal/infrastructure/upload"
	presentationhttp "sdaadmin/app/internal/presentation/http"
)

type Dependencies struct {
	Config    *config.Config
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
}

type Result struct {
	AdminService   admin.Service
	AccountService domainaccounts.Service
	HTTPServer     *presentationhttp.Server
	Database       *gorm.DB
	Cleanup        func() error
}

// OpenDatabase connects to the configured database and applies the admin
// migrations. Content tables are only migrated when this service owns them.
func OpenDatabase(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*gorm.DB, error) {
	db, err := database.Open(database.Options{
		Driver: cfg.DBDriver,
		DSN:    cfg.DatabaseURL,
		Path:   cfg.DBPath,
	})
	if err != nil {
		return nil, eris.Wrap(err, "opening database")
	}

	if err := migrations.Migrate(ctx, db, logger, migrations.Options{ManageContent: cfg.ManageContentSchema}); err != nil {
		if closeErr := database.Close(db); closeErr != nil && logger != nil {
			logger.WithError(closeErr).Error("closing database after migration failure")
		}
		return nil, eris.Wrap(err, "running migrations")
	}

	return db, nil
}

// NewAccountService builds the admin account service on an open database.
func NewAccountService(db *gorm.DB, logger *logrus.Logger, hub *sentry.Hub) (domainaccounts.Service, error) {
	repo, err := dataaccounts.NewRepository(db, logger)
	if err != nil {
		return nil, eris.Wrap(err, "creating account repository")
	}

	service, err := domainaccounts.NewService(repo, bcrypt.DefaultCost, logger, hub)
	if err != nil {
		return nil, eris.Wrap(err, "creating account service")
	}
	return service, nil
}

// Build composes the admin application layers and returns the constructed components.
func Build(ctx context.Context, deps Dependencies) (Result, error) {
	if deps.Config == nil {
		return Result{}, eris.New("configuration is required")
	}
	cfg := deps.Config

	db, err := OpenDatabase(ctx, cfg, deps.Logger)
	if err != nil {
		return Result{}, err
	}

	closeOnError := func(wrapper error) (Result, error) {
		if closeErr := database.Close(db); closeErr != nil && deps.Logger != nil {
			deps.Logger.WithError(closeErr).Error("closing database after bootstrap failure")
		}
		return Result{}, wrapper
	}

	contentRepo, err := datacontent.NewRepository(db, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating content repository"))
	}

	relay, err := upload.NewRelay(upload.Options{
		Endpoint:    cfg.Upload.Endpoint,
		URLField:    cfg.Upload.URLField,
		Timeout:     cfg.Upload.Timeout,
		MaxAttempts: cfg.Upload.MaxAttempts,
		Logger:      deps.Logger,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating upload relay"))
	}

	adminService, err := admin.NewService(admin.DefaultRegistry(), contentRepo, relay, admin.Settings{
		PerPage:        cfg.ListPerPage,
		MaxUploadBytes: cfg.Upload.MaxBytes,
	}, deps.Logger, deps.SentryHub)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating admin service"))
	}

	accountService, err := NewAccountService(db, deps.Logger, deps.SentryHub)
	if err != nil {
		return closeOnError(err)
	}

	httpServer, err := presentationhttp.NewServer(presentationhttp.Options{
		AdminService:   adminService,
		AccountService: accountService,
		Database:       db,
		Logger:         deps.Logger,
		SentryHub:      deps.SentryHub,
		RateLimiter: presentationhttp.RateLimiterSettings{
			Burst:             cfg.RateLimit.Burst,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			ClientTTL:         cfg.RateLimit.ClientTTL,
		},
		TrustedProxies: cfg.TrustedProxies,
		Session: presentationhttp.SessionSettings{
			Secret: []byte(cfg.Session.Secret),
			Secure: cfg.Session.Secure,
		},
		DefaultLanguage: cfg.DefaultLanguage,
		MaxUploadBytes:  cfg.Upload.MaxBytes,
	})
	if err != nil {
		return closeOnError(eris.Wrap(err, "initialising http server"))
	}

	cleanup := func() error {
		httpServer.Close()
		return database.Close(db)
	}

	return Result{
		AdminService:   adminService,
		AccountService: accountService,
		HTTPServer:     httpServer,
		Database:       db,
		Cleanup:        cleanup,
	}, nil
}
