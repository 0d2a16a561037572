package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"leadmarket.backend/pkg/logger"
)

type creditResetter interface {
	ResetWeekly(ctx context.Context) (int, error)
}

// WeeklyCreditResetJob periodically tops subscribed contractors back up to
// their weekly credit allowance.
type WeeklyCreditResetJob struct {
	credits  creditResetter
	interval time.Duration
	stop     chan struct{}
}

func NewWeeklyCreditResetJob(credits creditResetter, interval time.Duration) *WeeklyCreditResetJob {
	return &WeeklyCreditResetJob{
		credits:  credits,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (j *WeeklyCreditResetJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting weekly credit reset job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "weekly credit reset job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "weekly credit reset job stopped")
			return
		case <-ticker.C:
			j.reset(ctx)
		}
	}
}

func (j *WeeklyCreditResetJob) Stop() {
	close(j.stop)
}

func (j *WeeklyCreditResetJob) reset(ctx context.Context) {
	count, err := j.credits.ResetWeekly(ctx)
	if err != nil {
		logger.Error(ctx, "weekly credit reset failed", zap.Error(err))
		return
	}
	if count > 0 {
		logger.Info(ctx, "reset contractor credit balances", zap.Int("count", count))
	}
}
