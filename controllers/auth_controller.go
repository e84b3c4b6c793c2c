package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/roboticgen/nexus/config"
	"github.com/roboticgen/nexus/middleware"
	"github.com/roboticgen/nexus/models"
	"github.com/roboticgen/nexus/services"
	"github.com/roboticgen/nexus/utils"
)

// UserStore is the account persistence used by AuthController.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// AuthController handles registration, login and session endpoints.
type AuthController struct {
	users UserStore
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(users UserStore) *AuthController {
	return &AuthController{users: users}
}

// Register handles local account registration with bcrypt hashing.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=64"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "invalid request payload")
		return
	}

	username := strings.TrimSpace(req.Username)
	if !validUsername(username) {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "username may only contain letters, digits, '-', '_' and '.'")
		return
	}

	role := models.RoleStudent
	if req.Role != "" {
		role = models.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
		if !role.Valid() {
			utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "role must be INSTRUCTOR or STUDENT")
			return
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if errors.Is(err, utils.ErrWeakPassword) {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, err.Error())
		return
	}
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternal, "failed to hash password")
		return
	}

	exists, err := a.users.ExistsByUsername(ctx.Request.Context(), username)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternal, "failed to check username")
		return
	}
	if exists {
		utils.Error(ctx, http.StatusConflict, utils.CodeConflict, "username already exists")
		return
	}

	user := models.User{Username: username, PasswordHash: hash, Role: role}
	if err := a.users.Create(ctx.Request.Context(), &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, utils.CodeConflict, "username already exists")
			return
		}
		utils.Sugar.Errorw("create user failed", "username", username, "error", err)
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternal, "failed to create user")
		return
	}

	a.issueToken(ctx, http.StatusCreated, user)
}

// Login verifies user credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := a.users.FindByUsername(ctx.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid username or password")
		return
	}

	a.issueToken(ctx, http.StatusOK, *user)
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	tokenID, expiresAt := middleware.TokenInfo(ctx)
	if tokenID == "" {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token")
		return
	}
	utils.BlacklistToken(ctx.Request.Context(), tokenID, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the current authenticated user's information.
func (a *AuthController) Me(ctx *gin.Context) {
	current, ok := currentUser(ctx)
	if !ok {
		return
	}
	user, err := a.users.FindByID(ctx.Request.Context(), current.ID)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "user not found")
		return
	}
	utils.Success(ctx, userResponse(*user))
}

func (a *AuthController) issueToken(ctx *gin.Context, status int, user models.User) {
	ttl := time.Duration(config.Get().JWTTTLHours) * time.Hour
	token, err := utils.GenerateToken(user.ID, user.Username, ttl)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternal, "failed to generate token")
		return
	}
	utils.Respond(ctx, status, utils.CodeOK, "success", gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

func userResponse(user models.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"role":       user.Role,
		"is_admin":   middleware.IsAdmin(services.CurrentUser{ID: user.ID, Username: user.Username, Role: user.Role}),
		"created_at": user.CreatedAt,
	}
}

func validUsername(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}
