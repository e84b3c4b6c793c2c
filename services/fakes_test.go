package services

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/roboticgen/nexus/models"
)

// memPostRepo is an in-memory PostRepository.
type memPostRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.Post
	order  []uint
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{rows: map[uint]models.Post{}}
}

func clonePost(p models.Post) models.Post {
	if p.MediaURLs != nil {
		p.MediaURLs = append([]string(nil), p.MediaURLs...)
	}
	return p
}

func (r *memPostRepo) Save(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	if post.ID == 0 {
		r.nextID++
		post.ID = r.nextID
		post.CreatedAt = now
		r.order = append(r.order, post.ID)
	}
	post.UpdatedAt = now
	r.rows[post.ID] = clonePost(*post)
	return nil
}

func (r *memPostRepo) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, ErrPostNotFound
	}
	p = clonePost(p)
	return &p, nil
}

func (r *memPostRepo) FindByInstructor(ctx context.Context, instructorID uint) ([]models.Post, error) {
	all, _ := r.FindAll(ctx)
	var out []models.Post
	for _, p := range all {
		if p.InstructorID == instructorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memPostRepo) FindAll(ctx context.Context) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Post
	for _, id := range r.order {
		if p, ok := r.rows[id]; ok {
			out = append(out, clonePost(p))
		}
	}
	return out, nil
}

func (r *memPostRepo) DeleteByID(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

// memCommentRepo returns comments in insertion order, leaving ordering to the service.
type memCommentRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   []models.Comment
}

func (r *memCommentRepo) FindByPostOrderByCreatedAtAsc(ctx context.Context, postID uint) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Comment
	for _, c := range r.rows {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCommentRepo) FindByID(ctx context.Context, id uint) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, ErrCommentNotFound
}

func (r *memCommentRepo) Save(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	comment.ID = r.nextID
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	comment.UpdatedAt = comment.CreatedAt
	r.rows = append(r.rows, *comment)
	return nil
}

func (r *memCommentRepo) DeleteByID(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.rows {
		if c.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

type likeKey struct{ post, user uint }

// memLikeRepo enforces (post, user) uniqueness like the storage index does.
type memLikeRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[likeKey]models.PostLike
	saves  int
}

func newMemLikeRepo() *memLikeRepo {
	return &memLikeRepo{rows: map[likeKey]models.PostLike{}}
}

func (r *memLikeRepo) ExistsByPostAndUser(ctx context.Context, postID, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[likeKey{postID, userID}]
	return ok, nil
}

func (r *memLikeRepo) Save(ctx context.Context, like *models.PostLike) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	k := likeKey{like.PostID, like.UserID}
	if _, ok := r.rows[k]; ok {
		return false, nil
	}
	r.nextID++
	like.ID = r.nextID
	r.rows[k] = *like
	return true, nil
}

func (r *memLikeRepo) CountByPostID(ctx context.Context, postID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for k := range r.rows {
		if k.post == postID {
			n++
		}
	}
	return n, nil
}

// mockMediaStore records Store calls.
type mockMediaStore struct {
	mock.Mock
}

func (m *mockMediaStore) Store(ctx context.Context, file MediaFile) (string, error) {
	args := m.Called(ctx, file.Filename)
	return args.String(0), args.Error(1)
}

// urlStore derives a URL from the filename.
type urlStore struct {
	mu     sync.Mutex
	stored []string
}

func (s *urlStore) Store(ctx context.Context, file MediaFile) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored = append(s.stored, file.Filename)
	return "/static/uploads/" + file.Filename, nil
}

func mediaFiles(names ...string) []MediaFile {
	out := make([]MediaFile, 0, len(names))
	for _, n := range names {
		out = append(out, MediaFile{Filename: n})
	}
	return out
}
