package cache

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresh invalidates and reloads the snapshot on a cron schedule (five
// standard fields, or a descriptor such as "@daily") until ctx is done.
func (c *Cache) Refresh(ctx context.Context, schedule string) error {
	sched := cron.New()
	if _, err := sched.AddFunc(schedule, func() { c.refresh(ctx) }); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	sched.Start()
	c.logger.Info("scheduled refresh started",
		zap.String("op", "cache.Refresh"),
		zap.String("schedule", schedule),
	)

	<-ctx.Done()
	<-sched.Stop().Done()
	c.logger.Info("scheduled refresh stopped", zap.String("op", "cache.Refresh"))
	return nil
}

func (c *Cache) refresh(ctx context.Context) {
	c.Invalidate()
	if _, err := c.Get(ctx); err != nil {
		c.logger.Warn("scheduled refresh failed",
			zap.String("op", "cache.refresh"),
			zap.Error(err),
		)
	}
}
