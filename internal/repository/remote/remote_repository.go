package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"

	"myCreditAdvisor/pkg/logger"
)

type RemoteConfig struct {
	BaseURL       string
	Attempts      int
	Timeout       time.Duration
	RetryInterval time.Duration
}

// RemoteRepository downloads artifacts over HTTP(S). Network errors and 5xx
// responses are retried with exponential backoff; other statuses are final.
type RemoteRepository struct {
	cfg    RemoteConfig
	client *http.Client
}

func NewRemoteRepository(cfg RemoteConfig) *RemoteRepository {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 200 * time.Millisecond
	}

	return &RemoteRepository{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (r *RemoteRepository) Fetch(ctx context.Context, name string) ([]byte, error) {
	target, err := url.JoinPath(r.cfg.BaseURL, name)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact url: %w", err)
	}

	var data []byte
	attempt := 0
	operation := func() error {
		attempt++
		data, err = r.get(ctx, target)
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("Artifact download failed, retrying", "url", target, "attempt", attempt, "wait", wait.String(), "error", err)
	}

	if err := backoff.RetryNotify(operation, retryPolicy(ctx, r.cfg.Attempts, r.cfg.RetryInterval), notify); err != nil {
		return nil, fmt.Errorf("failed to download %s after %d attempt(s): %w", target, attempt, err)
	}

	return data, nil
}

func (r *RemoteRepository) get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	res, err := r.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("unexpected status %d", res.StatusCode)
		if res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

func retryPolicy(ctx context.Context, attempts int, interval time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = interval
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(attempts-1)), ctx)
}
