package content

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sdaadmin/app/internal/domain/admin"
)

// Repository persists admin resources using a Gorm database connection.
type Repository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*Repository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &Repository{db: db, logger: logger}, nil
}

var _ admin.Repository = (*Repository)(nil)

// List returns one page of records in the resource's default ordering with the total match count.
func (r *Repository) List(ctx context.Context, res *admin.Resource, query admin.Query) (any, int64, error) {
	fields := logrus.Fields{"resource": res.Key, "search": query.Search}

	var total int64
	if err := r.scope(ctx, res, query).Count(&total).Error; err != nil {
		r.logError(fields, err, "counting list matches")
		return nil, 0, eris.Wrapf(err, "counting %s", res.Table)
	}

	tx := r.scope(ctx, res, query)
	for _, term := range res.Ordering {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: term.Column}, Desc: term.Desc})
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit).Offset(query.Offset)
	}

	list := res.NewList()
	if err := tx.Find(list).Error; err != nil {
		r.logError(fields, err, "listing records")
		return nil, 0, eris.Wrapf(err, "listing %s", res.Table)
	}

	return list, total, nil
}

// Get returns the record with the given identifier or nil when not found.
func (r *Repository) Get(ctx context.Context, res *admin.Resource, id uint) (any, error) {
	record := res.New()

	err := r.db.WithContext(ctx).First(record, id).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"resource": res.Key, "id": id}, err, "fetching record")
		return nil, eris.Wrapf(err, "fetching %s %d", res.Table, id)
	}

	return record, nil
}

// Create inserts a new record.
func (r *Repository) Create(ctx context.Context, res *admin.Resource, record any) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return r.writeError(res, err, "creating record")
	}
	return nil
}

// Save writes every column of an existing record.
func (r *Repository) Save(ctx context.Context, res *admin.Resource, record any) error {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return r.writeError(res, err, "saving record")
	}
	return nil
}

// Delete removes a record and the rows of its inline children in one
// transaction, and reports whether the record existed.
func (r *Repository) Delete(ctx context.Context, res *admin.Resource, id uint, children []*admin.Resource) (bool, error) {
	var deleted bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range children {
			column := child.ParentColumn()
			if column == "" {
				continue
			}
			err := tx.Where(clause.Eq{Column: clause.Column{Name: column}, Value: id}).Delete(child.New()).Error
			if err != nil {
				return eris.Wrapf(err, "deleting %s of %s %d", child.Table, res.Table, id)
			}
		}

		result := tx.Delete(res.New(), id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(strings.ToLower(err.Error()), "foreign key") {
			r.logError(logrus.Fields{"resource": res.Key, "id": id}, err, "deleting referenced record")
			return false, eris.Wrapf(admin.ErrInUse, "%s %d: %s", res.Table, id, err.Error())
		}
		r.logError(logrus.Fields{"resource": res.Key, "id": id}, err, "deleting record")
		return false, eris.Wrapf(err, "deleting %s %d", res.Table, id)
	}

	return deleted, nil
}

// Exists reports whether a record with the identifier is present.
func (r *Repository) Exists(ctx context.Context, res *admin.Resource, id uint) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).Model(res.New()).
		Where(clause.Eq{Column: clause.Column{Name: "id"}, Value: id}).
		Count(&count).Error
	if err != nil {
		r.logError(logrus.Fields{"resource": res.Key, "id": id}, err, "checking record existence")
		return false, eris.Wrapf(err, "checking %s %d", res.Table, id)
	}

	return count > 0, nil
}

// Count returns the number of records of the resource.
func (r *Repository) Count(ctx context.Context, res *admin.Resource) (int64, error) {
	var count int64

	if err := r.db.WithContext(ctx).Model(res.New()).Count(&count).Error; err != nil {
		r.logError(logrus.Fields{"resource": res.Key}, err, "counting records")
		return 0, eris.Wrapf(err, "counting %s", res.Table)
	}

	return count, nil
}

func (r *Repository) scope(ctx context.Context, res *admin.Resource, query admin.Query) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(res.New())

	if query.ParentID != nil {
		if column := res.ParentColumn(); column != "" {
			tx = tx.Where(clause.Eq{Column: clause.Column{Name: column}, Value: *query.ParentID})
		}
	}

	search := strings.ToLower(strings.TrimSpace(query.Search))
	columns := res.SearchColumns()
	if search != "" && len(columns) > 0 {
		pattern := "%" + escapeLike(search) + "%"
		matches := make([]clause.Expression, 0, len(columns))
		for _, column := range columns {
			matches = append(matches, clause.Expr{
				SQL:  "LOWER(?) LIKE ? ESCAPE '\\'",
				Vars: []any{clause.Column{Name: column}, pattern},
			})
		}
		tx = tx.Where(clause.Or(matches...))
	}

	return tx
}

func (r *Repository) writeError(res *admin.Resource, err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
		r.logError(logrus.Fields{"resource": res.Key}, err, message+" violates a unique constraint")
		return eris.Wrapf(admin.ErrConflict, "%s: %s", res.Table, err.Error())
	}

	r.logError(logrus.Fields{"resource": res.Key}, err, message)
	return eris.Wrapf(err, "%s %s", message, res.Table)
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

func (r *Repository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil || err == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
