package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domainaccounts "sdaadmin/app/internal/domain/accounts"
)

// Repository persists admin users using a Gorm database connection.
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

var _ domainaccounts.Repository = (*Repository)(nil)

// GetByUsername returns the user for the provided username or nil when not found.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*domainaccounts.User, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return nil, eris.New("username is required")
	}

	var record UserRecord
	err := r.db.WithContext(ctx).First(&record, "username = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"username": trimmed}, err, "fetching user by username")
		return nil, eris.Wrapf(err, "fetching user by username: %s", trimmed)
	}

	return toDomainUser(&record), nil
}

// GetByID returns the user with the identifier or nil when not found.
func (r *Repository) GetByID(ctx context.Context, id uint) (*domainaccounts.User, error) {
	var record UserRecord
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"user_id": id}, err, "fetching user by id")
		return nil, eris.Wrapf(err, "fetching user by id: %d", id)
	}

	return toDomainUser(&record), nil
}

// Create stores a new user. It returns ErrUserExists when the username is taken.
func (r *Repository) Create(ctx context.Context, user *domainaccounts.User) error {
	if user == nil {
		return eris.New("user is nil")
	}

	record := &UserRecord{
		Username:     strings.TrimSpace(user.Username),
		Email:        strings.TrimSpace(user.Email),
		PasswordHash: user.PasswordHash,
		Active:       user.Active,
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			r.logError(logrus.Fields{"username": record.Username}, err, "creating user with duplicate username")
			return eris.Wrapf(domainaccounts.ErrUserExists, "username %s", record.Username)
		}
		r.logError(logrus.Fields{"username": record.Username}, err, "creating user")
		return eris.Wrapf(err, "creating user: %s", record.Username)
	}

	// Active has a database default, so write false explicitly.
	if !user.Active {
		if err := r.db.WithContext(ctx).Model(record).Update("active", false).Error; err != nil {
			r.logError(logrus.Fields{"username": record.Username}, err, "deactivating user")
			return eris.Wrapf(err, "deactivating user: %s", record.Username)
		}
	}

	active := user.Active
	*user = *toDomainUser(record)
	user.Active = active
	return nil
}

// TouchLogin records the time of a successful sign in.
func (r *Repository) TouchLogin(ctx context.Context, id uint, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&UserRecord{}).Where("id = ?", id).Update("last_login_at", at)
	if result.Error != nil {
		r.logError(logrus.Fields{"user_id": id}, result.Error, "recording last login")
		return eris.Wrapf(result.Error, "recording last login for user %d", id)
	}
	if result.RowsAffected == 0 {
		return eris.Errorf("user %d not found", id)
	}
	return nil
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
