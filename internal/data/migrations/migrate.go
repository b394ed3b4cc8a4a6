package migrations

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	accountsdata "sdaadmin/app/internal/data/accounts"
	"sdaadmin/app/internal/domain/content"
)

// Options selects which schemas this service owns.
type Options struct {
	// ManageContent migrates the content tables. They are normally owned by the
	// public site backend and left untouched.
	ManageContent bool
}

type tabler interface {
	TableName() string
}

// Migrate applies the admin schema and, when owned, the content schema.
func Migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger, opts Options) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	if err := migrate(ctx, db, logger, "accounts", &accountsdata.UserRecord{}); err != nil {
		return err
	}

	if !opts.ManageContent {
		if logger != nil {
			logger.WithField("component", "content.migrate").Info("content schema is externally managed, skipping")
		}
		return nil
	}

	return migrate(ctx, db, logger, "content", content.Models()...)
}

// ExpectedTables lists every table the admin reads or writes.
func ExpectedTables() []string {
	tables := []string{(accountsdata.UserRecord{}).TableName()}
	for _, model := range content.Models() {
		if named, ok := model.(tabler); ok {
			tables = append(tables, named.TableName())
		}
	}
	return tables
}

func migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger, schema string, models ...any) error {
	logFields := logrus.Fields{"component": schema + ".migrate", "tables": len(models)}
	if logger != nil {
		logger.WithFields(logFields).Infof("applying %s schema", schema)
	}

	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithField("error", err.Error()).Errorf("%s schema migration failed", schema)
		}
		return eris.Wrapf(err, "auto migrating %s schema", schema)
	}

	if logger != nil {
		logger.WithFields(logFields).Infof("%s schema migration complete", schema)
	}

	return nil
}
