package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dskvich/ai-gallery/pkg/domain"
	"github.com/dskvich/ai-gallery/pkg/logger"
)

type jobClaimer interface {
	Claim(ctx context.Context) (*domain.Job, error)
	Delete(ctx context.Context, id int64) error
}

type jobRunner interface {
	Generate(ctx context.Context, job *domain.Job) error
}

// queueDispatcher polls the queue and runs each claimed job in its own
// goroutine. Jobs are terminal on completion either way: a failed job is
// logged and deleted, never retried.
type queueDispatcher struct {
	jobs     jobClaimer
	runner   jobRunner
	interval time.Duration
}

func NewQueueDispatcher(jobs jobClaimer, runner jobRunner, interval time.Duration) (*queueDispatcher, error) {
	if interval <= 0 {
		return nil, errors.New("poll interval must be positive")
	}
	return &queueDispatcher{
		jobs:     jobs,
		runner:   runner,
		interval: interval,
	}, nil
}

func (d *queueDispatcher) Name() string { return "queue dispatcher" }

func (d *queueDispatcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.drain(ctx, &wg)
		}
	}
}

func (d *queueDispatcher) drain(ctx context.Context, wg *sync.WaitGroup) {
	for {
		job, err := d.jobs.Claim(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "claiming job", logger.Err(err))
			return
		}
		if job == nil {
			return
		}

		wg.Add(1)
		go func(job *domain.Job) {
			defer wg.Done()
			d.run(ctx, job)
		}(job)
	}
}

func (d *queueDispatcher) run(ctx context.Context, job *domain.Job) {
	if err := d.runner.Generate(ctx, job); err != nil {
		slog.ErrorContext(ctx, "fulfillment job failed",
			"jobID", job.ID, "promptID", job.PromptID, logger.Err(err))
	}

	if err := d.jobs.Delete(ctx, job.ID); err != nil {
		slog.ErrorContext(ctx, "deleting finished job", "jobID", job.ID, logger.Err(err))
	}
}
