package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/pkg/config"
)

// retryableError checks if an error should trigger a retry.
func retryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Network errors
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Connection errors
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	if isRateLimited(errStr) {
		return true
	}

	// Temporary server errors
	if strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504") ||
		strings.Contains(errStr, "bad gateway") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "gateway timeout") {
		return true
	}

	return false
}

func isRateLimited(errStr string) bool {
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "rate limit")
}

// retryWithBackoff executes fn with exponential backoff while it fails with a retryable error.
// A nil config executes fn once.
func retryWithBackoff(ctx context.Context, cfg *config.RetryConfig, operation string,
	fn func() error, log *logger.Logger) error {
	if cfg == nil {
		return fn()
	}

	attempts := 0
	op := func() error {
		attempts++
		err := fn()
		if err != nil && !retryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		observeRetry(operation)
		if log != nil {
			log.Debugw("retrying rpc call",
				"method", operation,
				"attempt", attempts,
				"next_retry_in", next,
				"error", err,
			)
		}
	}

	if err := backoff.RetryNotify(op, cfg.BackOff(ctx), notify); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s cancelled after %d attempts: %w", operation, attempts, ctxErr)
		}
		return fmt.Errorf("%s failed after %d attempts: %w", operation, attempts, err)
	}

	return nil
}
