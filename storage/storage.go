// Package storage holds the media backends that turn uploads into public URLs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/roboticgen/nexus/config"
	"github.com/roboticgen/nexus/services"
)

// ErrFileTooLarge is returned when an upload exceeds the configured size limit.
var ErrFileTooLarge = errors.New("file size exceeds limit")

// sniffLen is how many leading bytes are used for content-type detection.
const sniffLen = 3072

// New builds the media store selected by cfg.MediaBackend.
func New(ctx context.Context, cfg config.AppConfig) (services.MediaStore, error) {
	maxSize := int64(cfg.MediaMaxSizeMB) * 1024 * 1024
	switch strings.ToLower(cfg.MediaBackend) {
	case "", "local":
		return NewLocalStore(cfg.MediaLocalDir, cfg.MediaPublicPrefix, maxSize), nil
	case "s3":
		store, err := NewS3Store(ctx, S3Config{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Endpoint:        cfg.S3Endpoint,
			UsePathStyle:    cfg.S3UsePathStyle,
			PublicBaseURL:   cfg.S3PublicBaseURL,
			MaxSize:         maxSize,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.MediaBackend)
	}
}

// sniff detects the content type of r and returns a reader that still yields every byte.
func sniff(r io.Reader) (*mimetype.MIME, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, nil, err
	}
	head = head[:n]
	return mimetype.Detect(head), io.MultiReader(bytes.NewReader(head), r), nil
}

// objectName builds a collision-free date-partitioned name, e.g. 2025/01/31/<uuid>.jpg.
// The extension follows the detected content, never the client filename.
func objectName(now time.Time, mt *mimetype.MIME) string {
	return fmt.Sprintf("%s/%s%s", now.Format("2006/01/02"), uuid.NewString(), mediaExtension(mt))
}

// mediaExtension keeps the detected extension for image, audio and video content.
// Anything else, SVG included, is stored as .bin so it cannot render as a page.
func mediaExtension(mt *mimetype.MIME) string {
	if mt == nil || mt.Extension() == "" || mt.Is("image/svg+xml") {
		return ".bin"
	}
	kind, _, _ := strings.Cut(mt.String(), "/")
	switch kind {
	case "image", "audio", "video":
		return mt.Extension()
	}
	return ".bin"
}

func checkSize(file services.MediaFile, maxSize int64) error {
	if maxSize > 0 && file.Size > maxSize {
		return fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, file.Filename, file.Size)
	}
	return nil
}

// capReader fails with ErrFileTooLarge once more than max bytes have been read.
// A max of zero or less disables the limit.
type capReader struct {
	r        io.Reader
	left     int64
	exceeded bool
}

func newCapReader(r io.Reader, max int64) *capReader {
	if max <= 0 {
		max = -1
	}
	return &capReader{r: r, left: max}
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.exceeded {
		return 0, ErrFileTooLarge
	}
	if c.left < 0 {
		return c.r.Read(p)
	}
	if int64(len(p)) > c.left+1 {
		p = p[:c.left+1]
	}
	n, err := c.r.Read(p)
	if int64(n) > c.left {
		c.exceeded = true
		return int(c.left), ErrFileTooLarge
	}
	c.left -= int64(n)
	return n, err
}
