package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/rbckmlkrck/ulibrary-frontend/internal/pkg/logx"
)

// maxValueSize bounds how much of an object Get will read.
const maxValueSize = 64 << 10

// s3Client implements the Store interface on an S3-compatible bucket, one object per key.
type s3Client struct {
	cfg      ServiceConfig
	s3Client *s3.Client
	uploader *manager.Uploader
}

// newS3Client initializes the S3 client using a custom configuration that supports S3-compatible endpoints.
func newS3Client(ctx context.Context, cfg ServiceConfig) (*s3Client, error) {
	sdkCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		logx.Error(err, "Failed to load AWS SDK config")
		return nil, errors.New("failed to initialize S3 client configuration")
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &s3Client{
		cfg:      cfg,
		s3Client: client,
		uploader: manager.NewUploader(client),
	}, nil
}

func (c *s3Client) objectKey(key string) string {
	return c.cfg.S3Prefix + key
}

// Get downloads the object stored under key. A missing object means an absent key.
func (c *s3Client) Get(ctx context.Context, key string) (string, bool, error) {
	objectKey := c.objectKey(key)

	out, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &c.cfg.S3BucketName,
		Key:    &objectKey,
	})
	if err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		logx.Error(err, "S3 get failed", "key", objectKey)
		return "", false, fmt.Errorf("failed to read %q from S3: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxValueSize))
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q from S3: %w", key, err)
	}

	return string(data), true, nil
}

// Set uploads value as the object stored under key.
func (c *s3Client) Set(ctx context.Context, key, value string) error {
	objectKey := c.objectKey(key)

	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &c.cfg.S3BucketName,
		Key:         &objectKey,
		Body:        strings.NewReader(value),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		logx.Error(err, "S3 upload failed", "key", objectKey)
		return fmt.Errorf("failed to write %q to S3: %w", key, err)
	}

	return nil
}

// Delete removes the object stored under key from the bucket.
func (c *s3Client) Delete(ctx context.Context, key string) error {
	objectKey := c.objectKey(key)

	_, err := c.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &c.cfg.S3BucketName,
		Key:    &objectKey,
	})
	if err != nil && !isNotFound(err) {
		logx.Error(err, "S3 delete failed", "key", objectKey)
		return fmt.Errorf("failed to delete %q from S3: %w", key, err)
	}

	return nil
}

func (c *s3Client) Close() error { return nil }

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
