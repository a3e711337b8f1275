package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Job prunes like rows whose photo record is gone. Photo deletes already
// remove their likes in the same transaction; this is the safety net for rows
// left behind by partial failures.
type Job struct {
	likes    orphanedLikeCleaner
	interval time.Duration
	logger   *zap.Logger
}

type orphanedLikeCleaner interface {
	DeleteOrphaned(ctx context.Context) (int64, error)
}

func New(likes orphanedLikeCleaner, interval time.Duration, logger *zap.Logger) *Job {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		likes:    likes,
		interval: interval,
		logger:   logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.likes == nil {
		return nil
	}

	pruned, err := j.likes.DeleteOrphaned(ctx)
	if err != nil {
		return fmt.Errorf("cleanup orphaned likes: %w", err)
	}
	if pruned > 0 {
		j.logger.Info("cleanup orphaned likes completed", zap.Int64("pruned", pruned))
	}
	return nil
}

// Start runs the job on its interval until the context is cancelled.
func (j *Job) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Warn("cleanup run failed", zap.Error(err))
			}
		}
	}
}
