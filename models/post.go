package models

import "time"

// Post is an instructor-authored content item with up to three media attachments.
// MediaURLs keeps upload order; it is stored as a JSON array column.
type Post struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InstructorID uint      `gorm:"index;not null" json:"instructor_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	MediaURLs    []string  `gorm:"serializer:json;type:text" json:"media_urls"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Instructor   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"instructor"`
}
