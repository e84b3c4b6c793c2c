package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roboticgen/nexus/config"
	"github.com/roboticgen/nexus/models"
	"github.com/roboticgen/nexus/services"
	"github.com/roboticgen/nexus/utils"
)

const (
	// ContextUserKey stores the resolved services.CurrentUser inside Gin context.
	ContextUserKey = "current_user"
	// ContextTokenIDKey stores the JWT id, used by logout.
	ContextTokenIDKey = "token_id"
	// ContextTokenExpiryKey stores the JWT expiry as time.Time.
	ContextTokenExpiryKey = "token_expires_at"
)

// UserLookup resolves a token subject into its account. A missing account must yield an error.
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// AuthRequired ensures the request is authenticated via JWT and resolves the caller role once.
func AuthRequired(users UserLookup) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Abort(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "authorization header missing")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Abort(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid authorization header format")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Abort(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "empty bearer token")
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Abort(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "invalid token")
			return
		}

		if utils.IsTokenBlacklisted(ctx.Request.Context(), claims.ID) {
			utils.Abort(ctx, http.StatusUnauthorized, utils.CodeTokenRevoked, "token revoked")
			return
		}

		user, err := users.FindByID(ctx.Request.Context(), claims.UserID)
		if err != nil {
			utils.Sugar.Debugf("token subject %d not resolvable: %v", claims.UserID, err)
			utils.Abort(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "account not found")
			return
		}

		ctx.Set(ContextUserKey, services.CurrentUser{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		})
		ctx.Set(ContextTokenIDKey, claims.ID)
		if claims.ExpiresAt != nil {
			ctx.Set(ContextTokenExpiryKey, claims.ExpiresAt.Time)
		}
		ctx.Next()
	}
}

var errNoUser = errors.New("no authenticated user in context")

// CurrentUser returns the identity placed by AuthRequired.
func CurrentUser(ctx *gin.Context) (services.CurrentUser, error) {
	v, ok := ctx.Get(ContextUserKey)
	if !ok {
		return services.CurrentUser{}, errNoUser
	}
	user, ok := v.(services.CurrentUser)
	if !ok {
		return services.CurrentUser{}, errNoUser
	}
	return user, nil
}

// TokenInfo returns the id and expiry of the bearer token used for this request.
func TokenInfo(ctx *gin.Context) (string, time.Time) {
	id := ctx.GetString(ContextTokenIDKey)
	exp, _ := ctx.Get(ContextTokenExpiryKey)
	expiresAt, _ := exp.(time.Time)
	return id, expiresAt
}

// IsAdmin reports whether the user is listed in ADMIN_USERNAMES.
func IsAdmin(user services.CurrentUser) bool {
	return slices.Contains(config.Get().AdminUsernames, user.Username)
}
