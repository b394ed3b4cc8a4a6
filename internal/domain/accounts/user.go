package accounts

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

// User is an administrator allowed to sign in to the admin.
type User struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string
	Active       bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

var (
	// ErrUserExists indicates the username is already taken.
	ErrUserExists         = eris.New("user already exists")
	// ErrInvalidCredentials indicates an unknown user, a wrong password or an inactive account.
	ErrInvalidCredentials = eris.New("invalid credentials")
)

// Repository persists admin users.
type Repository interface {
	// GetByUsername returns nil when the user does not exist.
	GetByUsername(ctx context.Context, username string) (*User, error)
	// GetByID returns nil when the user does not exist.
	GetByID(ctx context.Context, id uint) (*User, error)
	// Create stores a new user and fails with ErrUserExists on duplicates.
	Create(ctx context.Context, user *User) error
	TouchLogin(ctx context.Context, id uint, at time.Time) error
}
