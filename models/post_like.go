package models

import "time"

// PostLike records that a user liked a post.
// The (post, user) pair is unique at the storage level.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_like_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_like_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
