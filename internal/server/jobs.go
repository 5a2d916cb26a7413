package server

import (
	"context"
	"time"

	"github.com/Omarzahran17/gym-flow-sub000/internal/logger"
)

// Expirer flips lapsed active subscriptions to expired.
type Expirer interface {
	ExpireLapsed(ctx context.Context) (int64, error)
}

// QueueMonitor reports the email backlog; the call refreshes the queue gauge.
type QueueMonitor interface {
	QueueLength(ctx context.Context) int64
}

// RunSubscriptionExpiry sweeps once immediately and then every interval
// until ctx is done.
func RunSubscriptionExpiry(ctx context.Context, e Expirer, every time.Duration) {
	runEvery(ctx, every, func() {
		n, err := e.ExpireLapsed(ctx)
		if err != nil {
			logger.WithError(err).Error("subscription expiry sweep failed")
			return
		}
		if n > 0 {
			logger.Info("expired lapsed subscriptions", "count", n)
		}
	})
}

// RunQueueMonitor samples the email queue length every interval.
func RunQueueMonitor(ctx context.Context, q QueueMonitor, every time.Duration) {
	runEvery(ctx, every, func() {
		q.QueueLength(ctx)
	})
}

func runEvery(ctx context.Context, every time.Duration, fn func()) {
	fn()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
