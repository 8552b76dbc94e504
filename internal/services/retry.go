package services

import (
	"context"
	"time"
)

// withRetry re-runs an idempotent store write a few times with a short
// backoff. Only used where a partial multi-document mutation must be
// driven to completion (the two-sided friend-set update).
func withRetry(ctx context.Context, attempts int, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(time.Duration(i+1) * 100 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
