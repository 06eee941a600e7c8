package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	api "github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	defaultRegion    = "us-east-1"
	defaultURLExpiry = 15 * time.Minute
	keyPrefix        = "submissions"
)

type MinioOpts func(c *minioConfig)

type minioConfig struct {
	endpoint        string
	bucket          string
	accessKey       string
	secretAccessKey string
	region          string
	expiry          time.Duration
	useSSL          bool
}

func newConfig(opts ...MinioOpts) *minioConfig {
	cfg := &minioConfig{
		useSSL: false,
		region: defaultRegion,
		expiry: defaultURLExpiry,
	}

	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// MinioSigner issues signed upload and preview URLs against a self-hosted
// S3-compatible bucket, standing in for the server's upload-url and preview endpoints.
type MinioSigner struct {
	cfg    *minioConfig
	client *minio.Client
}

func NewMinioSigner(opts ...MinioOpts) (*MinioSigner, error) {
	cfg := newConfig(opts...)
	if cfg.endpoint == "" || cfg.bucket == "" {
		return nil, fmt.Errorf("minio signer requires an endpoint and a bucket")
	}

	// Region is fixed so that presigning never has to look up the bucket location.
	minioClient, err := minio.New(cfg.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.accessKey, cfg.secretAccessKey, ""),
		Secure: cfg.useSSL,
		Region: cfg.region,
	})
	if err != nil {
		return nil, err
	}

	return &MinioSigner{cfg: cfg, client: minioClient}, nil
}

// RequestUploadURL presigns a PUT for a fresh object key under the task's prefix.
func (s *MinioSigner) RequestUploadURL(ctx context.Context, req api.UploadTargetRequest) (*api.UploadTarget, error) {
	key := objectKey(req.TaskId, req.FileName)

	u, err := s.client.PresignedPutObject(ctx, s.cfg.bucket, key, s.cfg.expiry)
	if err != nil {
		return nil, fmt.Errorf("presigning upload for %s: %w", req.FileName, err)
	}

	return &api.UploadTarget{
		UploadURL: u.String(),
		FileKey:   key,
	}, nil
}

// GetPreviewURL presigns a GET. Only approved submissions get an attachment disposition.
func (s *MinioSigner) GetPreviewURL(ctx context.Context, fileKey string, status api.SubmissionStatus) (string, error) {
	params := url.Values{}
	disposition := "inline"
	if status == api.SubmissionStatusApproved {
		disposition = fmt.Sprintf("attachment; filename=%q", path.Base(fileKey))
	}
	params.Set("response-content-disposition", disposition)

	u, err := s.client.PresignedGetObject(ctx, s.cfg.bucket, fileKey, s.cfg.expiry, params)
	if err != nil {
		return "", fmt.Errorf("presigning preview for %s: %w", fileKey, err)
	}
	return u.String(), nil
}

func objectKey(taskID, fileName string) string {
	name := strings.ReplaceAll(path.Base(fileName), " ", "_")
	if taskID == "" {
		taskID = "unassigned"
	}
	return path.Join(keyPrefix, taskID, uuid.NewString()+"-"+name)
}

func WithEndpoint(endpoint string) MinioOpts {
	return func(c *minioConfig) {
		c.endpoint = endpoint
	}
}

func WithBucket(bucket string) MinioOpts {
	return func(c *minioConfig) {
		c.bucket = bucket
	}
}

func WithAccessKey(accessKey string) MinioOpts {
	return func(c *minioConfig) {
		c.accessKey = accessKey
	}
}

func WithSecretKey(secretKey string) MinioOpts {
	return func(c *minioConfig) {
		c.secretAccessKey = secretKey
	}
}

func WithSSL(useSSL bool) MinioOpts {
	return func(c *minioConfig) {
		c.useSSL = useSSL
	}
}

func WithURLExpiry(expiry time.Duration) MinioOpts {
	return func(c *minioConfig) {
		if expiry > 0 {
			c.expiry = expiry
		}
	}
}
