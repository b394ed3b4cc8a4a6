package database

import (
	"context"
	"slices"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

// Report describes the connected database and which expected tables it lacks.
type Report struct {
	Driver  string   `json:"driver"`
	Version string   `json:"version"`
	Tables  []string `json:"tables"`
	Missing []string `json:"missing"`
}

// OK reports whether every expected table exists.
func (r *Report) OK() bool {
	return len(r.Missing) == 0
}

const (
	postgresVersionQuery = "SELECT version()"
	postgresTablesQuery  = "SELECT table_name FROM information_schema.tables " +
		"WHERE table_schema = current_schema() AND table_type = 'BASE TABLE' ORDER BY table_name"
	sqliteVersionQuery = "SELECT sqlite_version()"
	sqliteTablesQuery  = "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
)

// Inspect queries the server version and table listing and compares it with expected.
func Inspect(ctx context.Context, db *gorm.DB, expected []string) (*Report, error) {
	if db == nil {
		return nil, eris.New("gorm.DB is nil")
	}

	driver := db.Dialector.Name()
	versionQuery, tablesQuery := sqliteVersionQuery, sqliteTablesQuery
	if driver == DriverPostgres {
		versionQuery, tablesQuery = postgresVersionQuery, postgresTablesQuery
	}

	report := &Report{Driver: driver}

	if err := db.WithContext(ctx).Raw(versionQuery).Scan(&report.Version).Error; err != nil {
		return nil, eris.Wrap(err, "querying database version")
	}

	var tables []string
	if err := db.WithContext(ctx).Raw(tablesQuery).Scan(&tables).Error; err != nil {
		return nil, eris.Wrap(err, "listing database tables")
	}
	report.Tables = tables

	for _, table := range expected {
		if !slices.Contains(tables, table) {
			report.Missing = append(report.Missing, table)
		}
	}

	return report, nil
}
