package models

import (
	"time"
)

// Location is a geographic tag for posts. Like Category it supports
// get-or-create from free-text input; Name is the natural key.
type Location struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:256;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"size:256" json:"description"`
	Slug        string    `gorm:"size:256;not null;uniqueIndex" json:"slug"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	Posts       []Post    `gorm:"foreignKey:LocationID" json:"posts,omitempty"`
}
