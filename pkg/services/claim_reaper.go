package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dskvich/ai-gallery/pkg/logger"
	"github.com/robfig/cron/v3"
)

type claimReleaser interface {
	ReleaseExpired(ctx context.Context, timeout time.Duration) (int64, error)
}

// claimReaper periodically releases job claims held longer than the claim
// timeout, so work abandoned by a crashed worker becomes claimable again.
type claimReaper struct {
	jobs     claimReleaser
	schedule string
	timeout  time.Duration
}

func NewClaimReaper(jobs claimReleaser, schedule string, timeout time.Duration) (*claimReaper, error) {
	if timeout <= 0 {
		return nil, errors.New("claim timeout must be positive")
	}
	return &claimReaper{
		jobs:     jobs,
		schedule: schedule,
		timeout:  timeout,
	}, nil
}

func (r *claimReaper) Name() string { return "claim reaper" }

func (r *claimReaper) Start(ctx context.Context) error {
	c := cron.New()

	_, err := c.AddFunc(r.schedule, func() {
		released, err := r.jobs.ReleaseExpired(ctx, r.timeout)
		if err != nil {
			slog.ErrorContext(ctx, "releasing expired job claims", logger.Err(err))
			return
		}
		if released > 0 {
			slog.InfoContext(ctx, "released expired job claims", "count", released)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling claim reaper: %w", err)
	}

	c.Start()
	<-ctx.Done()

	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}
