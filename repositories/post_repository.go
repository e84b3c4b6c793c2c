package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/roboticgen/nexus/models"
	"github.com/roboticgen/nexus/services"
)

// PostRepository is the gorm-backed services.PostRepository.
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a PostRepository.
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Save inserts or updates the post row. The instructor association is never written.
func (r *PostRepository) Save(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(post).Error
}

func (r *PostRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("Instructor").First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, services.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindByInstructor returns the instructor's posts in creation order.
func (r *PostRepository) FindByInstructor(ctx context.Context, instructorID uint) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.db.WithContext(ctx).
		Preload("Instructor").
		Where("instructor_id = ?", instructorID).
		Order("id ASC").
		Find(&posts).Error
	return posts, err
}

// FindAll returns every post in creation order.
func (r *PostRepository) FindAll(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.db.WithContext(ctx).Preload("Instructor").Order("id ASC").Find(&posts).Error
	return posts, err
}

// DeleteByID removes the post together with its comments and likes. Missing ids are ignored.
func (r *PostRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}
