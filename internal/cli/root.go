package cli

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sdaadmin/app/internal/config"
	applog "sdaadmin/app/internal/platform/log"
)

// Execute runs the command named on the command line. Without a subcommand
// the HTTP server is started.
func Execute(ctx context.Context, args []string) error {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// NewRootCmd assembles the command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sda-admin",
		Short:         "Content administration for the SDA website",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		checkDBCmd(),
		createAdminCmd(),
	)
	return cmd
}

// runtime holds the process wide services every command starts with.
type runtime struct {
	cfg    *config.Config
	logger *logrus.Logger
	hub    *sentry.Hub
	flush  func()
}

func loadRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, eris.Wrap(err, "failure loading configuration")
	}

	logger, err := applog.NewLogger(applog.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, eris.Wrap(err, "failure initialising logger")
	}

	hub, flush, err := applog.InitSentry(logger, applog.SentrySettings{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
	})
	if err != nil {
		return nil, eris.Wrap(err, "failure initialising sentry")
	}

	return &runtime{cfg: cfg, logger: logger, hub: hub, flush: flush}, nil
}
