package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/roboticgen/nexus/models"
	"github.com/roboticgen/nexus/utils"
)

// StatsController provides platform statistics such as totals per entity.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate statistics for the platform.
func (s *StatsController) GetStats(ctx *gin.Context) {
	db := s.db.WithContext(ctx.Request.Context())
	counts := map[string]interface{}{
		"user_count":    &models.User{},
		"post_count":    &models.Post{},
		"comment_count": &models.Comment{},
		"like_count":    &models.PostLike{},
	}

	out := gin.H{}
	for key, model := range counts {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			// report 0 instead of failing the whole endpoint
			utils.Sugar.Warnw("stats count failed", "metric", key, "error", err)
			n = 0
		}
		out[key] = n
	}
	utils.Success(ctx, out)
}

// GetPostStats returns comment and like counts for a given post id.
func (s *StatsController) GetPostStats(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	db := s.db.WithContext(ctx.Request.Context())

	var exists int64
	if err := db.Model(&models.Post{}).Where("id = ?", id).Count(&exists).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternal, "failed to load post")
		return
	}
	if exists == 0 {
		utils.Error(ctx, http.StatusNotFound, utils.CodePostNotFound, "post not found")
		return
	}

	var comments, likes int64
	if err := db.Model(&models.Comment{}).Where("post_id = ?", id).Count(&comments).Error; err != nil {
		comments = 0
	}
	if err := db.Model(&models.PostLike{}).Where("post_id = ?", id).Count(&likes).Error; err != nil {
		likes = 0
	}

	utils.Success(ctx, gin.H{
		"comments_count": comments,
		"like_count":     likes,
	})
}
