// Package s3 provides a storage adapter for S3-compatible object stores.
// Each item is one JSON object under <prefix><content-type>/<id>.json.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/tendant/content-registry/pkg/contentregistry"
)

// Config options for the S3 adapter
type Config struct {
	ContentType     string // Content type scoping the object keys
	Region          string // AWS region
	Bucket          string // S3 bucket name
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (MinIO and friends)
	KeyPrefix       string // Optional key prefix within the bucket
}

// Store implements contentregistry.Storage on an S3 bucket.
type Store struct {
	client      *s3.Client
	uploader    *manager.Uploader
	bucket      string
	contentType string
	keyPrefix   string
}

// New creates an S3-backed store for one content type
func New(cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required")
	}
	if cfg.ContentType == "" {
		return nil, errors.New("content type is required")
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"",
			)),
		)
	} else {
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &Store{
		client:      client,
		uploader:    manager.NewUploader(client),
		bucket:      cfg.Bucket,
		contentType: cfg.ContentType,
		keyPrefix:   cfg.KeyPrefix,
	}, nil
}

func (s *Store) Get(ctx context.Context, version contentregistry.VersionSpec, id string, options map[string]any) (any, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", contentregistry.ErrItemNotFound, id)
		}
		return nil, err
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read item %s: %w", id, err)
	}

	var item map[string]any
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("decode item %s: %w", id, err)
	}
	return item, nil
}

func (s *Store) Create(ctx context.Context, version contentregistry.VersionSpec, id string, fields map[string]any) (any, error) {
	if id == "" {
		id = uuid.NewString()
	} else if exists, err := s.exists(ctx, id); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("item already exists: %s", id)
	}

	return s.put(ctx, id, fields)
}

func (s *Store) Update(ctx context.Context, version contentregistry.VersionSpec, id string, fields map[string]any) (any, error) {
	exists, err := s.exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", contentregistry.ErrItemNotFound, id)
	}

	return s.put(ctx, id, fields)
}

func (s *Store) Delete(ctx context.Context, version contentregistry.VersionSpec, id string) error {
	exists, err := s.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", contentregistry.ErrItemNotFound, id)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	return err
}

func (s *Store) put(ctx context.Context, id string, fields map[string]any) (map[string]any, error) {
	item := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		item[k] = v
	}
	item["id"] = id

	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("encode item %s: %w", id, err)
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(id)),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Store) exists(ctx context.Context, id string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Store) key(id string) string {
	return fmt.Sprintf("%s%s/%s.json", s.keyPrefix, s.contentType, id)
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}
