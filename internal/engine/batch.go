package engine

import (
	"context"
	"fmt"

	"github.com/encorefm/encore/internal/models"
	"golang.org/x/time/rate"
)

// BatchOpts contains configuration for a batch generation run.
type BatchOpts struct {
	UserID    string  // Generate for a single user; empty means all users
	Limit     int     // Per-user cap (default 10)
	DryRun    bool    // Generate without persisting
	RateLimit float64 // Users processed per second; 0 disables throttling
}

// UserReport is the per-user outcome of a batch run.
type UserReport struct {
	UserID    string // Recipient ID
	Email     string // Recipient email for display
	Generated int    // Recommendations produced for this user
	Err       error  // Failure for this user, nil on success
}

// BatchResult contains all data from a batch generation run.
type BatchResult struct {
	TotalUsers     int          // Users processed
	TotalGenerated int          // Recommendations produced across all users
	FailedUsers    int          // Users whose generation or save failed
	DryRun         bool         // Whether persistence was skipped
	Reports        []UserReport // Per-user outcomes in processing order
}

// GenerateAll runs generation for one or all users sequentially.
//
// Per-user failures are collected in the result and never abort the run;
// callers decide how to surface them. An unknown --user-id target is the one
// error returned directly, before any processing. Cancellation and deadlines
// arrive via ctx; the engine imposes no timeout of its own.
//
// When opts.RateLimit is positive a limiter paces user processing, which
// keeps a large batch from monopolizing a shared database.
func (e *Engine) GenerateAll(ctx context.Context, progress chan<- ProgressUpdate, opts BatchOpts) (*BatchResult, error) {
	if opts.Limit <= 0 {
		opts.Limit = 10
	}

	users, err := e.resolveUsers(opts.UserID)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		TotalUsers: len(users),
		DryRun:     opts.DryRun,
		Reports:    make([]UserReport, 0, len(users)),
	}

	e.sendProgress(progress, resolvingUsersUpdate(len(users)))

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	for i, user := range users {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return result, err
			}
		}

		e.sendProgress(progress, generatingUpdate(i+1, len(users), user.Email()))

		report := e.generateForUser(ctx, progress, user, i+1, len(users), opts)
		result.Reports = append(result.Reports, report)

		if report.Err != nil {
			result.FailedUsers++
			e.sendProgress(progress, userFailedUpdate(i+1, len(users), user.Email(), report.Err))
			continue
		}

		result.TotalGenerated += report.Generated
		e.sendProgress(progress, generatedUpdate(i+1, len(users), user.Email(), report.Generated))
	}

	return result, nil
}

// generateForUser runs generation plus optional persistence for one user.
func (e *Engine) generateForUser(ctx context.Context, progress chan<- ProgressUpdate, user *models.User, step, total int, opts BatchOpts) UserReport {
	report := UserReport{UserID: user.ID(), Email: user.Email()}

	recs, err := e.Generate(ctx, user.ID(), opts.Limit)
	if err != nil {
		report.Err = fmt.Errorf("generation failed for %s: %w", user.Email(), err)
		return report
	}

	report.Generated = len(recs)

	if !opts.DryRun && len(recs) > 0 {
		e.sendProgress(progress, savingUpdate(step, total, user.Email(), len(recs)))
		if err := e.Save(recs); err != nil {
			report.Generated = 0
			report.Err = fmt.Errorf("save failed for %s: %w", user.Email(), err)
			return report
		}
	}

	return report
}

// resolveUsers returns the batch targets: one user when userID is set, else all users.
func (e *Engine) resolveUsers(userID string) ([]*models.User, error) {
	if userID != "" {
		user, err := e.users.Get(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve user %s: %w", userID, err)
		}
		return []*models.User{user}, nil
	}

	return e.users.List(map[string]any{})
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}
