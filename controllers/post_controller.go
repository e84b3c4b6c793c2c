package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/roboticgen/nexus/middleware"
	"github.com/roboticgen/nexus/services"
	"github.com/roboticgen/nexus/storage"
	"github.com/roboticgen/nexus/utils"
)

const (
	mediaFormField  = "media"
	maxTitleLength  = 200
	maxMultipartMem = 32 << 20
)

// PostController exposes post, like and comment operations over HTTP.
type PostController struct {
	posts *services.PostService
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

// CreatePost publishes a post from a multipart form: title, description and up to three media files.
func (p *PostController) CreatePost(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	req, ok := bindPostRequest(ctx, true)
	if !ok {
		return
	}

	resp, err := p.posts.CreatePost(ctx.Request.Context(), req, user)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.Created(ctx, resp)
}

// ListPosts returns every post with its comments and like count.
// The feed is always read from the database so like counts stay current.
func (p *PostController) ListPosts(ctx *gin.Context) {
	posts, err := p.posts.GetAllPosts(ctx.Request.Context())
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	utils.Success(ctx, posts)
}

// GetPost returns one post without comments or likes.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var cached services.PostResponse
	key := utils.PostDetailCacheKey(id)
	if utils.CacheGetJSON(ctx.Request.Context(), key, &cached) {
		utils.Success(ctx, cached)
		return
	}

	post, err := p.posts.GetPost(ctx.Request.Context(), id)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	utils.CacheSetJSON(ctx.Request.Context(), key, post, utils.PostDetailCacheTTL)
	utils.Success(ctx, post)
}

// ListMyPosts returns the posts of the calling instructor.
func (p *PostController) ListMyPosts(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	posts, err := p.posts.GetInstructorPosts(ctx.Request.Context(), user)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	utils.Success(ctx, posts)
}

// UpdatePost lets the owning instructor, or an admin, edit a post.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !p.authorizePostOwner(ctx, id, user) {
		return
	}
	req, ok := bindPostRequest(ctx, false)
	if !ok {
		return
	}

	resp, err := p.posts.UpdatePost(ctx.Request.Context(), id, req)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.CacheDelete(ctx.Request.Context(), utils.PostDetailCacheKey(id))
	utils.Success(ctx, resp)
}

// DeletePost lets the owning instructor, or an admin, remove a post with its comments and likes.
func (p *PostController) DeletePost(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if !p.authorizePostOwner(ctx, id, user) {
		return
	}

	if err := p.posts.DeletePost(ctx.Request.Context(), id); err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.CacheDelete(ctx.Request.Context(), utils.PostDetailCacheKey(id))
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// LikePost records the caller's like. Repeated likes succeed without effect.
func (p *PostController) LikePost(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := p.posts.LikePost(ctx.Request.Context(), id, user); err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"message": "post liked"})
}

// CreateComment allows authenticated users to comment on posts.
func (p *PostController) CreateComment(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required,max=5000"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "invalid request payload")
		return
	}

	comment, err := p.posts.AddComment(ctx.Request.Context(), id, user, utils.Sanitize(req.Content))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.Created(ctx, comment)
}

// DeleteComment allows the comment owner or admin to delete a comment.
func (p *PostController) DeleteComment(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "commentId")
	if !ok {
		return
	}

	if err := p.posts.DeleteComment(ctx.Request.Context(), id, user, middleware.IsAdmin(user)); err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"message": "comment deleted"})
}

// authorizePostOwner writes the error response itself and reports false when the caller may not modify the post.
func (p *PostController) authorizePostOwner(ctx *gin.Context, id uint, user services.CurrentUser) bool {
	post, err := p.posts.GetPost(ctx.Request.Context(), id)
	if errors.Is(err, services.ErrPostNotFound) {
		// deleting an absent post is a no-op; let the service answer
		return ctx.Request.Method == http.MethodDelete
	}
	if err != nil {
		writeServiceError(ctx, err)
		return false
	}
	if post.InstructorID != user.ID && !middleware.IsAdmin(user) {
		utils.Error(ctx, http.StatusForbidden, utils.CodeForbidden, "you can only modify your own posts")
		return false
	}
	return true
}

// bindPostRequest reads the post form. A title is required on create; an update
// overwrites it with whatever was sent, blank included.
func bindPostRequest(ctx *gin.Context, requireTitle bool) (services.PostRequest, bool) {
	if err := ctx.Request.ParseMultipartForm(maxMultipartMem); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "invalid multipart form")
		return services.PostRequest{}, false
	}

	title := utils.SanitizePlain(ctx.PostForm("title"))
	if requireTitle && title == "" {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "title cannot be empty")
		return services.PostRequest{}, false
	}
	if len([]rune(title)) > maxTitleLength {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "title is too long")
		return services.PostRequest{}, false
	}

	req := services.PostRequest{
		Title:       title,
		Description: utils.Sanitize(ctx.PostForm("description")),
	}
	if form := ctx.Request.MultipartForm; form != nil {
		for _, fh := range form.File[mediaFormField] {
			req.Media = append(req.Media, mediaFile(fh))
		}
	}
	return req, true
}

func mediaFile(fh *multipart.FileHeader) services.MediaFile {
	return services.MediaFile{
		Filename: fh.Filename,
		Size:     fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func currentUser(ctx *gin.Context) (services.CurrentUser, bool) {
	user, err := middleware.CurrentUser(ctx)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return services.CurrentUser{}, false
	}
	return user, true
}

func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(ctx.Param(name)), 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// writeServiceError maps domain errors onto the response envelope.
func writeServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		utils.Error(ctx, http.StatusNotFound, utils.CodePostNotFound, "post not found")
	case errors.Is(err, services.ErrCommentNotFound):
		utils.Error(ctx, http.StatusNotFound, utils.CodeCommentNotFound, "comment not found")
	case errors.Is(err, services.ErrMediaLimitExceeded):
		utils.Error(ctx, http.StatusBadRequest, utils.CodeMediaLimit, err.Error())
	case errors.Is(err, services.ErrEmptyComment):
		utils.Error(ctx, http.StatusBadRequest, utils.CodeEmptyComment, "content cannot be empty")
	case errors.Is(err, services.ErrNotAnInstructor):
		utils.Error(ctx, http.StatusForbidden, utils.CodeNotInstructor, "only instructors can publish posts")
	case errors.Is(err, services.ErrNotCommentAuthor):
		utils.Error(ctx, http.StatusForbidden, utils.CodeForbidden, "you can only delete your own comment")
	case errors.Is(err, storage.ErrFileTooLarge):
		utils.Error(ctx, http.StatusRequestEntityTooLarge, utils.CodeTooLarge, "file size exceeds limit")
	default:
		utils.Sugar.Errorw("request failed", "path", ctx.FullPath(), "error", err)
		utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
	}
}
