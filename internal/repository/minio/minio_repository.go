package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"myCreditAdvisor/pkg/logger"
)

type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	Attempts      int
	RetryInterval time.Duration
}

// MinioRepository reads artifacts from an S3 compatible bucket.
type MinioRepository struct {
	client   *minio.Client
	bucket   string
	attempts int
	interval time.Duration
}

func NewMinioRepository(cfg MinioConfig) (*MinioRepository, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("endpoint and bucket are required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("credentials are required")
	}

	// Accept either host:port or a full URL.
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL
	if strings.Contains(endpoint, "://") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid endpoint url: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:      credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:     useSSL,
		Region:     cfg.Region,
		MaxRetries: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}

	return &MinioRepository{
		client:   client,
		bucket:   cfg.Bucket,
		attempts: attempts,
		interval: interval,
	}, nil
}

func (r *MinioRepository) Fetch(ctx context.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("object key is required")
	}

	var data []byte
	operation := func() error {
		var err error
		data, err = r.getObject(ctx, name)
		if err != nil && isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("Object download failed, retrying", "bucket", r.bucket, "key", name, "wait", wait.String(), "error", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.interval
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(r.attempts-1)), ctx)

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", r.bucket, name, err)
	}

	return data, nil
}

func (r *MinioRepository) getObject(ctx context.Context, key string) ([]byte, error) {
	obj, err := r.client.GetObject(ctx, r.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	// GetObject is lazy; request errors surface on the first read.
	return io.ReadAll(obj)
}

// isPermanent reports errors a retry cannot fix.
func isPermanent(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}

	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket", "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return true
	}
	return resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != 429
}
