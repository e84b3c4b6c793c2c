package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/roboticgen/nexus/services"
)

// S3Config options for the S3 media backend
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string // empty uses the default credential chain
	SecretAccessKey string
	Endpoint        string // optional, for S3-compatible services such as MinIO
	UsePathStyle    bool
	PublicBaseURL   string // optional CDN or bucket URL prefix for returned links
	MaxSize         int64
}

// objectUploader is the part of manager.Uploader used by S3Store.
type objectUploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Store uploads media to an S3-compatible bucket.
type S3Store struct {
	uploader objectUploader
	cfg      S3Config
	now      func() time.Time
}

// NewS3Store creates an S3-backed media store.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Store{
		uploader: manager.NewUploader(client),
		cfg:      cfg,
		now:      time.Now,
	}, nil
}

// Store uploads the file under uploads/<date>/<uuid><ext> and returns its public URL.
func (s *S3Store) Store(ctx context.Context, file services.MediaFile) (string, error) {
	if err := checkSize(file, s.cfg.MaxSize); err != nil {
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

	key := "uploads/" + objectName(s.now(), mt)
	capped := newCapReader(body, s.cfg.MaxSize)
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        capped,
		ContentType: aws.String(mt.String()),
	})
	if capped.exceeded {
		return "", fmt.Errorf("%w: %s", ErrFileTooLarge, file.Filename)
	}
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("failed to upload %s to S3 (%s): %w", key, apiErr.ErrorCode(), err)
		}
		return "", fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}
	return s.publicURL(key), nil
}

func (s *S3Store) publicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	}
	if s.cfg.Endpoint != "" {
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
