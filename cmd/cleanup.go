package main

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"
)

// Cleanup deletes recommendations older than the retention window.
func (r *Runner) Cleanup(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	days := int(cmd.Int("days"))
	if days <= 0 {
		days = r.config.Recommendations.RetentionDays
	}
	if days <= 0 {
		days = 30
	}

	start := time.Now()
	deleted, err := r.engine.CleanupOlderThan(days)
	if err != nil {
		return err
	}

	r.logger.Info("cleanup complete", "deleted", deleted, "days", days, "took", time.Since(start))
	r.writePlain("Deleted %d recommendations older than %d days\n", deleted, days)
	return nil
}
