package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/roboticgen/nexus/services"
)

// LocalStore writes uploads below a directory served as static files.
type LocalStore struct {
	root         string
	publicPrefix string
	maxSize      int64
	now          func() time.Time
}

// NewLocalStore stores files under root and returns URLs under publicPrefix.
func NewLocalStore(root, publicPrefix string, maxSize int64) *LocalStore {
	if root == "" {
		root = filepath.Join(".", "static", "uploads")
	}
	if publicPrefix == "" {
		publicPrefix = "/static/uploads"
	}
	return &LocalStore{root: root, publicPrefix: publicPrefix, maxSize: maxSize, now: time.Now}
}

// Store copies the upload to disk and returns its public URL.
func (s *LocalStore) Store(ctx context.Context, file services.MediaFile) (string, error) {
	if err := checkSize(file, s.maxSize); err != nil {
		return "", err
	}
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	mt, body, err := sniff(src)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	name := objectName(s.now(), mt)
	dstPath := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	out, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	// the declared size can lie, so the copy itself is capped
	_, err = io.Copy(out, newCapReader(body, s.maxSize))
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dstPath)
		if errors.Is(err, ErrFileTooLarge) {
			return "", fmt.Errorf("%w: %s", ErrFileTooLarge, file.Filename)
		}
		return "", fmt.Errorf("write file: %w", err)
	}

	return path.Join(s.publicPrefix, name), nil
}
