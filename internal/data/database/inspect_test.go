package database

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestInspectPostgresListsMissingTables(t *testing.T) {
	t.Parallel()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(postgresVersionQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("PostgreSQL 16.2"))
	mock.ExpectQuery(regexp.QuoteMeta(postgresTablesQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("news").AddRow("projects"))

	report, err := Inspect(context.Background(), gormDB, []string{"projects", "news", "partners"})
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, report.Driver)
	assert.Equal(t, "PostgreSQL 16.2", report.Version)
	assert.Equal(t, []string{"news", "projects"}, report.Tables)
	assert.Equal(t, []string{"partners"}, report.Missing)
	assert.False(t, report.OK())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspectPostgresWrapsQueryErrors(t *testing.T) {
	t.Parallel()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(postgresVersionQuery)).WillReturnError(assert.AnError)

	_, err = Inspect(context.Background(), gormDB, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "querying database version")
}

func TestInspectSQLite(t *testing.T) {
	t.Parallel()

	gormDB, err := Open(Options{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "inspect.db")})
	require.NoError(t, err)
	t.Cleanup(func() {
		if closeErr := Close(gormDB); closeErr != nil {
			t.Errorf("closing database failed: %v", closeErr)
		}
	})

	require.NoError(t, gormDB.Exec("CREATE TABLE projects (id INTEGER PRIMARY KEY)").Error)

	report, err := Inspect(context.Background(), gormDB, []string{"projects"})
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, report.Driver)
	assert.NotEmpty(t, report.Version)
	assert.Equal(t, []string{"projects"}, report.Tables)
	assert.True(t, report.OK())
}
