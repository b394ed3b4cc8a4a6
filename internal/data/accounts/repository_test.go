package accounts

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"sdaadmin/app/internal/data/database"
	domainaccounts "sdaadmin/app/internal/domain/accounts"
)

func TestGetByUsernameReturnsNilForMissingUser(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t, "missing.db")

	user, err := repo.GetByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = repo.GetByUsername(context.Background(), "  ")
	assert.Error(t, err)
}

func TestCreateRejectsDuplicateUsername(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := setupRepository(t, "duplicate.db")

	first := &domainaccounts.User{Username: "admin", Email: "admin@sda.com", PasswordHash: "x", Active: true}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)

	err := repo.Create(ctx, &domainaccounts.User{Username: "admin", Email: "other@sda.com", PasswordHash: "y", Active: true})
	assert.ErrorIs(t, err, domainaccounts.ErrUserExists)
}

func TestCreatePersistsInactiveFlag(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := setupRepository(t, "inactive.db")

	require.NoError(t, repo.Create(ctx, &domainaccounts.User{Username: "former", Email: "former@sda.com", PasswordHash: "x"}))

	user, err := repo.GetByUsername(ctx, "former")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.False(t, user.Active)
}

func TestServiceCreateAndAuthenticate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := setupRepository(t, "auth.db")

	service, err := domainaccounts.NewService(repo, bcrypt.MinCost, silentLogger(), nil)
	require.NoError(t, err)

	created, err := service.Create(ctx, domainaccounts.CreateParams{Username: " admin ", Email: "admin@sda.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", created.Username)
	assert.NotEqual(t, "admin123", created.PasswordHash)

	_, err = service.Create(ctx, domainaccounts.CreateParams{Username: "admin", Email: "admin@sda.com", Password: "admin123"})
	assert.ErrorIs(t, err, domainaccounts.ErrUserExists)

	_, err = service.Create(ctx, domainaccounts.CreateParams{Username: "short", Email: "short@sda.com", Password: "abc"})
	assert.Error(t, err)

	_, err = service.Authenticate(ctx, "admin", "wrong-password")
	assert.ErrorIs(t, err, domainaccounts.ErrInvalidCredentials)

	_, err = service.Authenticate(ctx, "nobody", "admin123")
	assert.ErrorIs(t, err, domainaccounts.ErrInvalidCredentials)

	before := time.Now().Add(-time.Second)
	user, err := service.Authenticate(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.NotNil(t, user.LastLoginAt)
	assert.True(t, user.LastLoginAt.After(before))

	loaded, err := service.Get(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.LastLoginAt)
}

func TestServiceRejectsInactiveAccount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := setupRepository(t, "disabled.db")

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, &domainaccounts.User{Username: "disabled", Email: "d@sda.com", PasswordHash: string(hash)}))

	service, err := domainaccounts.NewService(repo, bcrypt.MinCost, silentLogger(), nil)
	require.NoError(t, err)

	_, err = service.Authenticate(ctx, "disabled", "admin123")
	assert.ErrorIs(t, err, domainaccounts.ErrInvalidCredentials)
}

func setupRepository(t *testing.T, filename string) *Repository {
	t.Helper()

	db, err := database.Open(database.Options{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), filename)})
	require.NoError(t, err)
	t.Cleanup(func() {
		if closeErr := database.Close(db); closeErr != nil {
			t.Errorf("closing database failed: %v", closeErr)
		}
	})

	logger := silentLogger()
	require.NoError(t, db.AutoMigrate(&UserRecord{}))

	repo, err := NewRepository(db, logger)
	require.NoError(t, err)
	return repo
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
