package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"sdaadmin/app/internal/app/bootstrap"
	"sdaadmin/app/internal/data/database"
	"sdaadmin/app/internal/data/migrations"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the admin schema, and the content schema when DB_MANAGE_CONTENT_SCHEMA is set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(_ *runtime, _ *gorm.DB) error {
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
				return nil
			})
		},
	}
}

func checkDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-db",
		Short: "Report the database version and any missing tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(_ *runtime, db *gorm.DB) error {
				report, err := database.Inspect(cmd.Context(), db, migrations.ExpectedTables())
				if err != nil {
					return err
				}
				writeReport(cmd.OutOrStdout(), report)
				if !report.OK() {
					return eris.Errorf("%d expected tables are missing", len(report.Missing))
				}
				return nil
			})
		},
	}
}

// withDatabase opens and migrates the configured database for the duration of fn.
func withDatabase(ctx context.Context, fn func(*runtime, *gorm.DB) error) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer rt.flush()

	db, err := bootstrap.OpenDatabase(ctx, rt.cfg, rt.logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := database.Close(db); closeErr != nil {
			rt.logger.WithError(closeErr).Error("closing database")
		}
	}()

	return fn(rt, db)
}

func writeReport(w io.Writer, report *database.Report) {
	fmt.Fprintf(w, "Driver:  %s\n", report.Driver)
	fmt.Fprintf(w, "Version: %s\n", report.Version)
	fmt.Fprintf(w, "Tables:  %d\n", len(report.Tables))
	if report.OK() {
		fmt.Fprintln(w, "All expected tables are present.")
		return
	}
	fmt.Fprintf(w, "Missing: %s\n", strings.Join(report.Missing, ", "))
}
