package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"leadmarket.backend/pkg/logger"
)

type overdueSweeper interface {
	SweepOverdue(ctx context.Context) (int, error)
}

// CommissionOverdueSweepJob periodically flips PENDING commissions past their
// due date to OVERDUE and suspends the owing contractors.
type CommissionOverdueSweepJob struct {
	commissions overdueSweeper
	interval    time.Duration
	stop        chan struct{}
}

func NewCommissionOverdueSweepJob(commissions overdueSweeper, interval time.Duration) *CommissionOverdueSweepJob {
	return &CommissionOverdueSweepJob{
		commissions: commissions,
		interval:    interval,
		stop:        make(chan struct{}),
	}
}

func (j *CommissionOverdueSweepJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting commission overdue sweep job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "commission overdue sweep job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "commission overdue sweep job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *CommissionOverdueSweepJob) Stop() {
	close(j.stop)
}

func (j *CommissionOverdueSweepJob) sweep(ctx context.Context) {
	count, err := j.commissions.SweepOverdue(ctx)
	if err != nil {
		logger.Error(ctx, "commission overdue sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		logger.Info(ctx, "marked commissions overdue", zap.Int("count", count))
	}
}
