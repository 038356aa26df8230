// Package archive keeps copies of generated reports in S3-compatible storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"hrkpi/internal/platform/config"
)

// ObjectPutter is the part of the S3 client the archive uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archive struct {
	client ObjectPutter
	bucket string
	prefix string
}

// New returns nil when archiving is disabled.
func New(ctx context.Context, cfg config.ArchiveConfig) (*S3Archive, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, cfg.Bucket, cfg.Prefix), nil
}

func NewWithClient(client ObjectPutter, bucket, prefix string) *S3Archive {
	return &S3Archive{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

func (a *S3Archive) objectKey(key string) string {
	key = strings.TrimLeft(key, "/")
	if a.prefix == "" {
		return key
	}
	return path.Join(a.prefix, key)
}

// Archive uploads body and returns the full object key.
func (a *S3Archive) Archive(ctx context.Context, key, contentType string, body []byte) (string, error) {
	objectKey := a.objectKey(key)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(objectKey),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		Metadata: map[string]string{
			"generated-at": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("put %s/%s: %w", a.bucket, objectKey, err)
	}
	return objectKey, nil
}
