package models

import (
	"time"
)

// Category is a thematic grouping for posts. Categories are either created
// by editors or minted on the fly from free-text input when an author
// submits a category name that does not exist yet; Title is the natural
// key used for that deduplication.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null;uniqueIndex" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Slug        string    `gorm:"size:256;not null;uniqueIndex" json:"slug"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	Posts       []Post    `gorm:"foreignKey:CategoryID" json:"posts,omitempty"`
}
