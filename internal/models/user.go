package models

import (
	"time"
)

// User represents a forum account
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Username     string    `gorm:"type:varchar(32);not null;uniqueIndex:forum_users_ux1;column:username" json:"username"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:forum_users_ux2;column:email" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null;column:password_hash" json:"-"`
	Role         string    `gorm:"type:varchar(16);not null;default:'user';column:role" json:"role"`
	CreatedAt    time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "forum_users"
}

// Role constants
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// IsAdmin reports whether the user holds the admin role exactly.
// Admin does not imply moderator; the two permission sets are disjoint.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsModerator reports whether the user holds the moderator role exactly.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}
