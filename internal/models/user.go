package models

import (
	"time"
)

// User is an account row. Token is the sole authentication credential:
// non-NULL means currently signed in. It is rotated on every successful
// signin and cleared on signout. PasswordHash holds a bcrypt hash; the raw
// password is never stored.
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string    `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName     string    `gorm:"column:last_name;size:100;not null" json:"last_name"`
	Username     string    `gorm:"size:64;not null;uniqueIndex:users_username_key" json:"username"`
	Email        string    `gorm:"size:255;not null;uniqueIndex:users_email_key" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;size:100;not null" json:"-"`
	Token        *string   `gorm:"size:128;index" json:"token,omitempty"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
