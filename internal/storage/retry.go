package storage

import (
	"context"

	"github.com/Adithya-Monish-Kumar-K/search-frecency/pkg/resilience"
)

// RetryingGateway retries failed reads and writes on a remote backend. A
// read that still fails is reported to the caller, and Record then skips the
// write instead of persisting over history it could not load.
type RetryingGateway struct {
	Gateway
	cfg resilience.RetryConfig
}

// WithRetry wraps gw so that Get and Set are attempted up to attempts times.
func WithRetry(gw Gateway, attempts int) *RetryingGateway {
	return &RetryingGateway{Gateway: gw, cfg: resilience.RetryConfig{MaxAttempts: attempts}}
}

func (g *RetryingGateway) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := resilience.Retry(ctx, "snapshot read "+key, g.cfg, func() error {
		var err error
		value, ok, err = g.Gateway.Get(ctx, key)
		return err
	})
	if err != nil {
		return "", false, err
	}
	return value, ok, nil
}

func (g *RetryingGateway) Set(ctx context.Context, key, value string) error {
	return resilience.Retry(ctx, "snapshot write "+key, g.cfg, func() error {
		return g.Gateway.Set(ctx, key, value)
	})
}
