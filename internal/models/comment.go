package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

// Comment represents a comment on a post. ParentID is null for
// top-level comments and otherwise references an earlier comment
// on the same post, forming a reply tree.
type Comment struct {
	ID             int64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	PostID         int64          `gorm:"not null;index:forum_comments_ix1;column:post_id" json:"post_id"`
	Author         string         `gorm:"type:varchar(32);not null;column:author" json:"author"`
	Body           string         `gorm:"type:text;not null;column:body" json:"body"`
	AttachmentURLs pq.StringArray `gorm:"type:text[];column:attachment_urls" json:"attachment_urls"`
	ParentID       sql.NullInt64  `gorm:"index:forum_comments_ix2;column:parent_id" json:"-"`
	CreatedAt      time.Time      `gorm:"not null;column:created_at" json:"created_at"`

	// Relationships
	Post   *Post    `gorm:"foreignKey:PostID;references:ID" json:"-"`
	Parent *Comment `gorm:"foreignKey:ParentID;references:ID" json:"-"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "forum_comments"
}
