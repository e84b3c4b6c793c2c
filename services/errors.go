package services

import "errors"

var (
	// ErrPostNotFound indicates the requested post id has no matching record
	ErrPostNotFound = errors.New("post not found")

	// ErrMediaLimitExceeded indicates more than MaxMediaItems attachments were supplied
	ErrMediaLimitExceeded = errors.New("media limit exceeded: max 3 images or 1 video")

	// ErrNotAnInstructor indicates the acting user lacks the instructor role
	ErrNotAnInstructor = errors.New("current user is not an instructor")

	// ErrEmptyComment indicates a comment without content
	ErrEmptyComment = errors.New("comment content cannot be empty")

	// ErrCommentNotFound indicates the requested comment id has no matching record
	ErrCommentNotFound = errors.New("comment not found")

	// ErrNotCommentAuthor indicates a user tried to remove someone else's comment
	ErrNotCommentAuthor = errors.New("you can only delete your own comment")
)
