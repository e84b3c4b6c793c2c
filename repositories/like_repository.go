package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/roboticgen/nexus/models"
)

// LikeRepository is the gorm-backed services.LikeRepository.
// Uniqueness of (post_id, user_id) is enforced by idx_post_like_post_user.
type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) ExistsByPostAndUser(ctx context.Context, postID, userID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Limit(1).
		Count(&n).Error
	return n > 0, err
}

// Save inserts the like; a row conflicting on the unique index is dropped
// and reported as not created.
func (r *LikeRepository) Save(ctx context.Context, like *models.PostLike) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *LikeRepository) CountByPostID(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}
