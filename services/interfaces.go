package services

import (
	"context"
	"io"

	"github.com/roboticgen/nexus/models"
)

// CurrentUser is the caller identity resolved once at the authentication boundary.
type CurrentUser struct {
	ID       uint
	Username string
	Role     models.Role
}

// IsInstructor reports whether the user may publish posts.
func (u CurrentUser) IsInstructor() bool {
	return u.Role == models.RoleInstructor
}

// MediaFile is one uploaded attachment. Open is only called by a MediaStore,
// so rejected uploads are never read.
type MediaFile struct {
	Filename string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// MediaStore converts a raw upload into a stable public URL.
type MediaStore interface {
	Store(ctx context.Context, file MediaFile) (string, error)
}

// PostRepository persists posts. Lookups return ErrPostNotFound for missing ids.
type PostRepository interface {
	Save(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id uint) (*models.Post, error)
	FindByInstructor(ctx context.Context, instructorID uint) ([]models.Post, error)
	FindAll(ctx context.Context) ([]models.Post, error)
	DeleteByID(ctx context.Context, id uint) error
}

// CommentRepository persists comments on posts. FindByID returns ErrCommentNotFound for missing ids.
type CommentRepository interface {
	// FindByPostOrderByCreatedAtAsc returns the post's comments oldest first, authors loaded.
	FindByPostOrderByCreatedAtAsc(ctx context.Context, postID uint) ([]models.Comment, error)
	FindByID(ctx context.Context, id uint) (*models.Comment, error)
	Save(ctx context.Context, comment *models.Comment) error
	DeleteByID(ctx context.Context, id uint) error
}

// LikeRepository persists post likes.
type LikeRepository interface {
	ExistsByPostAndUser(ctx context.Context, postID, userID uint) (bool, error)
	// Save inserts the like unless one already exists for the same (post, user).
	// It reports whether a new row was written.
	Save(ctx context.Context, like *models.PostLike) (bool, error)
	CountByPostID(ctx context.Context, postID uint) (int64, error)
}
