// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post represents a publication in the Blogicum application.
//
// PubDate may be set in the future, which makes the post a scheduled
// publication: visible to its author at any time but excluded from public
// listings until the scheduled moment passes.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	PubDate     time.Time `gorm:"not null;index" json:"pub_date"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user"`
	LocationID  *uint     `gorm:"index" json:"location_id,omitempty"`
	Location    *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	CategoryID  *uint     `gorm:"index" json:"category_id,omitempty"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int       `gorm:"->" json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// VisibleAt reports whether the post is publicly visible at the given
// moment: published, in a published category, and past its publication
// date (boundary inclusive). Callers use this to re-check a post fetched
// without the listing filter; Category must be preloaded.
func (p *Post) VisibleAt(now time.Time) bool {
	if !p.IsPublished {
		return false
	}
	if p.Category == nil || !p.Category.IsPublished {
		return false
	}
	return !p.PubDate.After(now)
}
