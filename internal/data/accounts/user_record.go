package accounts

import (
	"time"

	domainaccounts "sdaadmin/app/internal/domain/accounts"
)

// UserRecord is the persisted representation of an admin user.
type UserRecord struct {
	ID           uint       `gorm:"primaryKey"`
	Username     string     `gorm:"size:150;uniqueIndex;not null"`
	Email        string     `gorm:"size:254;not null"`
	PasswordHash string     `gorm:"size:100;not null"`
	Active       bool       `gorm:"not null;default:true"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName keeps admin accounts apart from the content schema.
func (UserRecord) TableName() string {
	return "admin_users"
}

func toDomainUser(record *UserRecord) *domainaccounts.User {
	if record == nil {
		return nil
	}

	return &domainaccounts.User{
		ID:           record.ID,
		Username:     record.Username,
		Email:        record.Email,
		PasswordHash: record.PasswordHash,
		Active:       record.Active,
		LastLoginAt:  record.LastLoginAt,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}
