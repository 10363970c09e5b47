package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"vidshare/internal/config"
)

const (
	ProviderS3 = "s3"

	defaultPresignTTL = 15 * time.Minute
)

// S3Signer hands out presigned PUT URLs for S3-compatible stores (AWS, MinIO,
// R2). Each call targets a fresh object key.
type S3Signer struct {
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
	now     func() time.Time
}

func NewS3Signer(ctx context.Context, cfg config.S3Config) (*S3Signer, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" {
		return nil, ErrMissingCredentials
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config failed: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	ttl := time.Duration(cfg.PresignTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultPresignTTL
	}

	return &S3Signer{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

func (s *S3Signer) Sign(ctx context.Context) (*UploadAuth, error) {
	now := s.now()
	key := uploadKey(now)

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return nil, fmt.Errorf("presign put object failed: %w", err)
	}

	return &UploadAuth{
		Provider:  ProviderS3,
		UploadURL: req.URL,
		Key:       key,
		Expire:    now.Add(s.ttl).Unix(),
	}, nil
}

func uploadKey(now time.Time) string {
	return fmt.Sprintf("uploads/%d/%d/%d/%s", now.Year(), now.Month(), now.Day(), uuid.NewString())
}
