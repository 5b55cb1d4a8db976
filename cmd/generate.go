package main

import (
	"context"

	"github.com/encorefm/encore/internal/engine"
	"github.com/urfave/cli/v3"
)

// Generate runs the recommendation batch driver for one or all users.
//
// Per-user failures are reported but do not fail the command; only
// infrastructure errors (bad --user-id, database unavailable, cancellation)
// produce a non-zero exit.
func (r *Runner) Generate(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	opts := engine.BatchOpts{
		UserID:    cmd.String("user-id"),
		Limit:     int(cmd.Int("limit")),
		DryRun:    cmd.Bool("dry-run"),
		RateLimit: cmd.Float("rate"),
	}
	if opts.Limit <= 0 {
		opts.Limit = r.defaultLimit()
	}

	if timeout := cmd.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	r.logger.Info("starting generation", "user", opts.UserID, "limit", opts.Limit, "dry-run", opts.DryRun)
	if opts.DryRun {
		r.writePlain("Dry run: recommendations will not be saved\n\n")
	}

	progressCh := make(chan engine.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case engine.ResolveUsers:
				r.writePlain("👥 %s\n", update.Message)
			case engine.GenerateUser, engine.SaveUser:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.GenerateAll(ctx, progressCh, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Generation Complete!")
	r.writePlain("Users processed: %d\n", result.TotalUsers)
	r.writePlain("Recommendations generated: %d\n", result.TotalGenerated)
	if result.DryRun {
		r.writePlain("Dry run: nothing was saved\n")
	}

	if result.FailedUsers > 0 {
		r.writePlain("\n%d users failed:\n", result.FailedUsers)
		for _, report := range result.Reports {
			if report.Err != nil {
				r.writePlain("  - %s: %v\n", report.Email, report.Err)
			}
		}
	}

	return nil
}
