package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ImageStore persists product images and returns public URLs for them.
type ImageStore interface {
	// Upload stores an image and returns its public URL.
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)

	// Delete removes a previously uploaded image by its URL.
	Delete(ctx context.Context, url string) error
}

// s3ImageStore implements ImageStore on AWS S3.
type s3ImageStore struct {
	client    *s3.Client
	bucket    string
	prefix    string
	publicURL string
	logger    zerolog.Logger
}

// NewS3ImageStore creates a new S3-backed image store. publicURL is the base
// URL objects are served from; when empty, the standard S3 URL form is used.
func NewS3ImageStore(ctx context.Context, bucket, region, prefix, publicURL string, logger zerolog.Logger) (ImageStore, error) {
	logger = logger.With().Str("component", "s3-image-store").Logger()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 image store initialised")

	return &s3ImageStore{
		client:    s3.NewFromConfig(cfg),
		bucket:    bucket,
		prefix:    prefix,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		logger:    logger,
	}, nil
}

// Upload stores an image under a random key, keeping the original extension.
func (s *s3ImageStore) Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := s.prefix + uuid.New().String() + path.Ext(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to upload image")
		return "", fmt.Errorf("failed to upload image to S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	url := s.publicURL + "/" + key

	s.logger.Info().
		Str("key", key).
		Str("url", url).
		Msg("image uploaded")

	return url, nil
}

// Delete removes a previously uploaded image by its URL. URLs outside this
// store's base are rejected.
func (s *s3ImageStore) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.publicURL+"/")
	if !ok {
		return fmt.Errorf("image URL %q does not belong to this store", url)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", key).
			Msg("failed to delete image")
		return fmt.Errorf("failed to delete image from S3 (bucket=%s, key=%s): %w", s.bucket, key, err)
	}

	s.logger.Info().Str("key", key).Msg("image deleted")

	return nil
}

// noopImageStore is used when S3 is disabled; uploads are rejected with a
// clear error instead of failing deep inside the AWS SDK.
type noopImageStore struct{}

// NewNoopImageStore creates an image store that rejects all operations.
func NewNoopImageStore() ImageStore {
	return noopImageStore{}
}

func (noopImageStore) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", fmt.Errorf("image storage is not configured")
}

func (noopImageStore) Delete(context.Context, string) error {
	return fmt.Errorf("image storage is not configured")
}
