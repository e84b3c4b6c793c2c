package main

import (
	"context"
	"time"

	"github.com/roboticgen/nexus/config"
	"github.com/roboticgen/nexus/models"
	"github.com/roboticgen/nexus/repositories"
	"github.com/roboticgen/nexus/routes"
	"github.com/roboticgen/nexus/services"
	"github.com/roboticgen/nexus/storage"
	"github.com/roboticgen/nexus/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(&models.User{}, &models.Post{}, &models.Comment{}, &models.PostLike{})

	media, err := storage.New(context.Background(), cfg)
	if err != nil {
		utils.Sugar.Fatalf("media storage init failed: %v", err)
	}

	posts := services.NewPostService(
		repositories.NewPostRepository(db),
		repositories.NewCommentRepository(db),
		repositories.NewLikeRepository(db),
		media,
		utils.Logger.Named("posts"),
	)

	r := routes.SetupRouter(db, posts)

	utils.Sugar.Infof("Starting server on port %s (graceful, media backend %s)", cfg.AppPort, cfg.MediaBackend)
	if err := utils.GraceServer(":"+cfg.AppPort, r, time.Duration(cfg.ShutdownTimeoutSec)*time.Second); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
