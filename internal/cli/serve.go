package cli

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sdaadmin/app/internal/app/bootstrap"
	applog "sdaadmin/app/internal/platform/log"
)

const readHeaderTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the admin HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.flush()

	if err := rt.cfg.ValidateServe(); err != nil {
		return eris.Wrap(err, "invalid server configuration")
	}

	app, err := bootstrap.Build(ctx, bootstrap.Dependencies{
		Config:    rt.cfg,
		Logger:    rt.logger,
		SentryHub: rt.hub,
	})
	if err != nil {
		return eris.Wrap(err, "bootstrapping application")
	}
	defer func() {
		if closeErr := app.Cleanup(); closeErr != nil {
			rt.logger.WithError(closeErr).Error("releasing resources")
		}
	}()

	httpServer := &stdhttp.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", rt.cfg.ServerPort),
		Handler:           app.HTTPServer.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serverLog := applog.WithComponent(rt.logger, "http.server")
	serverLog.WithFields(logrus.Fields{
		"addr":           httpServer.Addr,
		"db_driver":      rt.cfg.DBDriver,
		"manage_content": rt.cfg.ManageContentSchema,
	}).Info("starting http server")

	serverErrCh := make(chan error, 1)
	go func() {
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	select {
	case <-ctx.Done():
		serverLog.Info("shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			return eris.Wrap(err, "http server error")
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.ShutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "shutting down http server")
	}

	serverLog.Info("http server shut down cleanly")
	return nil
}
