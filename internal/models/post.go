package models

import (
	"time"

	"github.com/lib/pq"
)

// Post represents a forum topic
type Post struct {
	ID             int64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Author         string         `gorm:"type:varchar(32);not null;index:forum_posts_ix1;column:author" json:"author"`
	Title          string         `gorm:"type:varchar(255);not null;column:title" json:"title"`
	Content        string         `gorm:"type:text;not null;default:'';column:content" json:"content"`
	AttachmentURLs pq.StringArray `gorm:"type:text[];column:attachment_urls" json:"attachment_urls"`
	Upvotes        int            `gorm:"not null;default:0;column:upvotes" json:"upvotes"`
	Downvotes      int            `gorm:"not null;default:0;column:downvotes" json:"downvotes"`
	UpvotedBy      pq.StringArray `gorm:"type:text[];column:upvoted_by" json:"upvoted_by"`
	DownvotedBy    pq.StringArray `gorm:"type:text[];column:downvoted_by" json:"downvoted_by"`
	Status         string         `gorm:"type:varchar(16);not null;default:'pending';index:forum_posts_ix2;column:status" json:"status"`
	CreatedAt      time.Time      `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "forum_posts"
}

// Post status constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Contribution returns the post's net score, upvotes minus downvotes.
func (p *Post) Contribution() int {
	return p.Upvotes - p.Downvotes
}
