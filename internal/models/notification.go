package models

import (
	"time"
)

// Notification is an append-only log entry for moderation and
// social events. Entries are never updated or deleted.
type Notification struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Message   string    `gorm:"type:text;not null;column:message" json:"message"`
	CreatedAt time.Time `gorm:"not null;index:forum_notifs_ix1;column:created_at" json:"created_at"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "forum_notifications"
}
