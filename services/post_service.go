package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/roboticgen/nexus/models"
)

// PostService orchestrates post lifecycle, likes, comments and read-side enrichment.
// It holds no mutable state of its own; everything lives behind the repositories.
type PostService struct {
	posts    PostRepository
	comments CommentRepository
	likes    LikeRepository
	media    MediaStore
	logger   *zap.Logger
}

// NewPostService wires a PostService. A nil logger disables logging.
func NewPostService(posts PostRepository, comments CommentRepository, likes LikeRepository, media MediaStore, logger *zap.Logger) *PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{
		posts:    posts,
		comments: comments,
		likes:    likes,
		media:    media,
		logger:   logger,
	}
}

// CreatePost publishes a new post owned by actor.
// Flow: role check -> validate media -> store media in order -> save post.
func (s *PostService) CreatePost(ctx context.Context, req PostRequest, actor CurrentUser) (*PostResponse, error) {
	if !actor.IsInstructor() {
		return nil, ErrNotAnInstructor
	}
	if err := ValidateMedia(req.Media); err != nil {
		return nil, err
	}

	urls, err := s.storeMedia(ctx, req.Media)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		InstructorID: actor.ID,
		Title:        req.Title,
		Description:  req.Description,
		MediaURLs:    urls,
		Instructor: models.User{
			ID:       actor.ID,
			Username: actor.Username,
			Role:     actor.Role,
		},
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	s.logger.Info("post created",
		zap.Uint("post_id", post.ID),
		zap.Uint("instructor_id", actor.ID),
		zap.Int("media", len(urls)))

	resp := mapPost(post)
	return &resp, nil
}

// UpdatePost overwrites title and description. Media is replaced wholesale when
// the request carries any; an empty media list leaves existing URLs untouched.
func (s *PostService) UpdatePost(ctx context.Context, id uint, req PostRequest) (*PostResponse, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(req.Media) > 0 {
		if err := ValidateMedia(req.Media); err != nil {
			return nil, err
		}
		urls, err := s.storeMedia(ctx, req.Media)
		if err != nil {
			return nil, err
		}
		post.MediaURLs = urls
	}
	post.Title = req.Title
	post.Description = req.Description

	if err := s.posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to update post %d: %w", id, err)
	}

	s.logger.Info("post updated", zap.Uint("post_id", id), zap.Bool("media_replaced", len(req.Media) > 0))

	resp := mapPost(post)
	return &resp, nil
}

// DeletePost removes a post with its comments and likes.
// Deleting a post that does not exist is a no-op.
func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	if err := s.posts.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post %d: %w", id, err)
	}
	s.logger.Info("post deleted", zap.Uint("post_id", id))
	return nil
}

// GetPost returns the lightweight projection of a post: no comments, zero likes.
func (s *PostService) GetPost(ctx context.Context, id uint) (*PostResponse, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := mapPost(post)
	return &resp, nil
}

// GetInstructorPosts returns the lightweight projections of every post owned by actor.
func (s *PostService) GetInstructorPosts(ctx context.Context, actor CurrentUser) ([]PostResponse, error) {
	posts, err := s.posts.FindByInstructor(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts of instructor %d: %w", actor.ID, err)
	}
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, mapPost(&posts[i]))
	}
	return out, nil
}

// GetAllPosts returns the full projection of every post.
func (s *PostService) GetAllPosts(ctx context.Context) ([]PostResponse, error) {
	posts, err := s.posts.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	out := make([]PostResponse, 0, len(posts))
	for i := range posts {
		resp, err := s.enrich(ctx, &posts[i])
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

// LikePost registers actor's like on a post. Liking twice has the same effect as liking once.
// The existence check is a fast path; the unique (post, user) index behind
// LikeRepository.Save is what keeps concurrent likes from duplicating.
func (s *PostService) LikePost(ctx context.Context, postID uint, actor CurrentUser) error {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return err
	}

	exists, err := s.likes.ExistsByPostAndUser(ctx, post.ID, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to check like: %w", err)
	}
	if exists {
		return nil
	}

	created, err := s.likes.Save(ctx, &models.PostLike{PostID: post.ID, UserID: actor.ID})
	if err != nil {
		return fmt.Errorf("failed to save like: %w", err)
	}
	if !created {
		s.logger.Debug("concurrent like absorbed", zap.Uint("post_id", post.ID), zap.Uint("user_id", actor.ID))
	}
	return nil
}

// AddComment attaches a comment by actor to a post.
func (s *PostService) AddComment(ctx context.Context, postID uint, actor CurrentUser, content string) (*CommentResponse, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyComment
	}
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   post.ID,
		AuthorID: actor.ID,
		Content:  content,
		Author: models.User{
			ID:       actor.ID,
			Username: actor.Username,
			Role:     actor.Role,
		},
	}
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	resp := mapComment(comment)
	return &resp, nil
}

// DeleteComment removes a comment. Only its author may delete it unless asAdmin is set.
func (s *PostService) DeleteComment(ctx context.Context, commentID uint, actor CurrentUser, asAdmin bool) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != actor.ID && !asAdmin {
		return ErrNotCommentAuthor
	}
	if err := s.comments.DeleteByID(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", commentID, err)
	}
	return nil
}

// storeMedia uploads items in input order and returns their URLs in the same order.
func (s *PostService) storeMedia(ctx context.Context, media []MediaFile) ([]string, error) {
	urls := make([]string, 0, len(media))
	for _, m := range media {
		url, err := s.media.Store(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("failed to store media %q: %w", m.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}
