// Package storage archives generated exports in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"dompet/internal/config"
)

// Archive stores a copy of an export.
type Archive interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
}

// NopArchive discards everything.
type NopArchive struct{}

// Put does nothing.
func (NopArchive) Put(context.Context, string, string, []byte) error { return nil }

// S3Config configures the S3 archive.
type S3Config struct {
	Bucket       string
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// S3Archive writes exports to a bucket. Works with AWS S3, MinIO and
// Supabase Storage's S3 endpoint.
type S3Archive struct {
	client *s3.Client
	bucket string
}

// NewS3Archive validates cfg and creates the client.
func NewS3Archive(ctx context.Context, cfg S3Config) (*S3Archive, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("export bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("export access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("export secret key is required")
	}
	if cfg.Endpoint != "" && !strings.HasPrefix(cfg.Endpoint, "http://") && !strings.HasPrefix(cfg.Endpoint, "https://") {
		cfg.Endpoint = "https://" + cfg.Endpoint
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3Archive{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads data under key.
func (a *S3Archive) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// ExportKey is the object key of an export: exports/<user>/<timestamp>-<name>.
func ExportKey(userID string, at time.Time, name string) string {
	return path.Join("exports", userID, at.UTC().Format("20060102T150405Z")+"-"+name)
}

// New returns an S3Archive when an export bucket is configured, NopArchive otherwise.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ExportBucket == "" {
		return NopArchive{}
	}

	archive, err := NewS3Archive(ctx, S3Config{
		Bucket:       cfg.ExportBucket,
		Endpoint:     cfg.ExportEndpoint,
		Region:       cfg.ExportRegion,
		AccessKey:    cfg.ExportAccessKey,
		SecretKey:    cfg.ExportSecretKey,
		UsePathStyle: cfg.ExportUsePathStyle,
	})
	if err != nil {
		logger.Warn("export archive disabled", zap.Error(err))
		return NopArchive{}
	}

	logger.Info("archiving exports", zap.String("bucket", cfg.ExportBucket))
	return archive
}
