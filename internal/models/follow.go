package models

import (
	"time"
)

// Follow is a directed subscription edge: UserID follows FollowingID.
// The composite unique index is the natural key; duplicate edges and
// self-follows are rejected by the service layer and the index absorbs
// concurrent duplicate inserts.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index;uniqueIndex:idx_follow_edge" json:"user_id"`
	FollowingID uint      `gorm:"not null;index;uniqueIndex:idx_follow_edge" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Relationships
	User      User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Following User `gorm:"foreignKey:FollowingID" json:"following,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
