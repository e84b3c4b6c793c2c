package services

import "time"

// PostRequest carries the mutable fields of a post.
type PostRequest struct {
	Title       string
	Description string
	Media       []MediaFile
}

// PostResponse is the outward view of a post.
type PostResponse struct {
	ID                 uint              `json:"id"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	InstructorID       uint              `json:"instructor_id"`
	InstructorUsername string            `json:"instructor_username"`
	MediaURLs          []string          `json:"media_urls"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	Comments           []CommentResponse `json:"comments"`
	LikeCount          int64             `json:"like_count"`
}

// CommentResponse is the outward view of a comment.
type CommentResponse struct {
	ID             uint      `json:"id"`
	Content        string    `json:"content"`
	AuthorID       uint      `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
