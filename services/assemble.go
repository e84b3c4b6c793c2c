package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/roboticgen/nexus/models"
)

// mapPost is the plain mapping: post fields, instructor identity and media.
// Comments are present but empty and the like count is zero.
func mapPost(post *models.Post) PostResponse {
	urls := make([]string, len(post.MediaURLs))
	copy(urls, post.MediaURLs)
	return PostResponse{
		ID:                 post.ID,
		Title:              post.Title,
		Description:        post.Description,
		InstructorID:       post.InstructorID,
		InstructorUsername: post.Instructor.Username,
		MediaURLs:          urls,
		CreatedAt:          post.CreatedAt,
		UpdatedAt:          post.UpdatedAt,
		Comments:           []CommentResponse{},
	}
}

func mapComment(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:             c.ID,
		Content:        c.Content,
		AuthorID:       c.AuthorID,
		AuthorUsername: c.Author.Username,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// enrich builds the full projection of a post: its comments in creation order
// and a like count read fresh from storage.
func (s *PostService) enrich(ctx context.Context, post *models.Post) (PostResponse, error) {
	resp := mapPost(post)

	comments, err := s.comments.FindByPostOrderByCreatedAtAsc(ctx, post.ID)
	if err != nil {
		return PostResponse{}, fmt.Errorf("failed to load comments for post %d: %w", post.ID, err)
	}
	// keep ascending creation order even if storage returns ties out of id order
	slices.SortStableFunc(comments, func(a, b models.Comment) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	for i := range comments {
		resp.Comments = append(resp.Comments, mapComment(&comments[i]))
	}

	count, err := s.likes.CountByPostID(ctx, post.ID)
	if err != nil {
		return PostResponse{}, fmt.Errorf("failed to count likes for post %d: %w", post.ID, err)
	}
	resp.LikeCount = count
	return resp, nil
}
