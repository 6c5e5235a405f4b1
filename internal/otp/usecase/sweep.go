package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

// SweepExpired bulk-expires every ACTIVE code older than the current policy
// TTL. Idempotent and safe to run concurrently; a second run right after the
// first changes nothing.
func (s *Usecase) SweepExpired(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "SweepExpired")
	defer span.End()

	pol := s.policy.Get()
	cutoff := s.clock.Now().Add(-pol.TTL())

	count, err := s.repoDB.MarkExpiredOlderThan(ctx, cutoff)
	if err != nil {
		slog.ErrorContext(ctx, "failed to bulk expire codes", "error", err)
		return 0, goerror.NewServer(err)
	}

	if count > 0 {
		slog.InfoContext(ctx, "expired codes swept", "count", count)
	}

	return count, nil
}

// StartSweeper runs SweepExpired on the configured interval until the
// context is canceled. Transient failures are retried with a capped
// fibonacci backoff inside each tick.
func (s *Usecase) StartSweeper(ctx context.Context) {
	interval := s.cfg.GetSecond("modules.otp.sweep_interval_seconds")
	if interval <= 0 {
		interval = time.Minute
	}

	s.goroutine.Go(ctx, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				b := retry.NewFibonacci(200 * time.Millisecond)
				b = retry.WithCappedDuration(5*time.Second, b)
				b = retry.WithMaxRetries(3, b)

				if err := retry.Do(ctx, b, func(ctx context.Context) error {
					if _, err := s.SweepExpired(ctx); err != nil {
						return retry.RetryableError(err)
					}
					return nil
				}); err != nil {
					slog.ErrorContext(ctx, "periodic expiry sweep failed", "error", err)
				}
			}
		}
	})
}
