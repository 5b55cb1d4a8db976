package main

import (
	"context"
	"fmt"

	"github.com/encorefm/encore/internal/formatter"
	"github.com/encorefm/encore/internal/models"
	"github.com/encorefm/encore/internal/shared"
	"github.com/urfave/cli/v3"
)

// RecommendationsList prints a user's active recommendations, best score first.
func (r *Runner) RecommendationsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	userID := cmd.String("user-id")
	reason := cmd.String("reason")
	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		limit = r.defaultLimit()
	}

	if reason != "" && !validReason(reason) {
		return fmt.Errorf("%w: unknown reason %q", shared.ErrInvalidFlag, reason)
	}

	var recs []formatter.Recommendation
	var err error
	if reason != "" {
		recs, err = r.engine.FormattedByReason(userID, reason, limit)
	} else {
		recs, err = r.engine.Formatted(userID, limit)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") || cmd.Bool("pretty") {
		if err := r.writeJSON(recs, cmd.Bool("pretty")); err != nil {
			return err
		}
	} else {
		if len(recs) == 0 {
			r.writePlain("No recommendations. Run 'encore generate --user-id %s' first.\n", userID)
		}
		for i, rec := range recs {
			flag := " "
			if rec.Liked {
				flag = "♥"
			}
			r.writePlain("%2d. %s %s - %s [%s] %s\n", i+1, flag, rec.Artist, rec.Title, rec.Score, rec.ReasonText)
		}
	}

	if cmd.Bool("mark-viewed") {
		marked, err := r.engine.MarkAllViewed(userID)
		if err != nil {
			return err
		}
		r.logger.Info("marked recommendations viewed", "count", marked)
	}

	return nil
}

// RecommendationsLike marks a recommendation as liked.
func (r *Runner) RecommendationsLike(ctx context.Context, cmd *cli.Command) error {
	return r.mark(cmd, "Liked", func(id, userID string) (bool, error) {
		return r.engine.MarkLiked(id, userID)
	})
}

// RecommendationsDismiss marks a recommendation as dismissed.
func (r *Runner) RecommendationsDismiss(ctx context.Context, cmd *cli.Command) error {
	return r.mark(cmd, "Dismissed", func(id, userID string) (bool, error) {
		return r.engine.MarkDismissed(id, userID)
	})
}

// mark runs a like/dismiss action and reports whether anything changed.
//
// A missing or foreign-owned recommendation is a no-op, not a command failure.
func (r *Runner) mark(cmd *cli.Command, verb string, fn func(id, userID string) (bool, error)) error {
	if err := r.connect(); err != nil {
		return err
	}

	id := cmd.String("id")
	userID := cmd.String("user-id")

	applied, err := fn(id, userID)
	if err != nil {
		return err
	}

	if applied {
		r.writePlain("✓ %s recommendation %s\n", verb, id)
	} else {
		r.writePlain("Recommendation %s not found for this user, nothing to do\n", id)
	}
	return nil
}

// RecommendationsCount prints the number of unviewed recommendations for a user.
func (r *Runner) RecommendationsCount(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	userID := cmd.String("user-id")
	count, err := r.engine.UnviewedCount(userID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]int{"count": count}, false)
	}
	r.writePlain("%d\n", count)
	return nil
}

// RecommendationsExport writes a user's recommendations to a file in the requested format.
func (r *Runner) RecommendationsExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	userID := cmd.String("user-id")
	format := cmd.String("format")
	output := cmd.String("output")
	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		limit = r.defaultLimit()
	}

	recs, err := r.engine.Formatted(userID, limit)
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(recs, format, output)
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %d recommendations to %s\n", len(recs), path)
	return nil
}

func validReason(reason string) bool {
	switch reason {
	case models.ReasonGenre, models.ReasonArtist, models.ReasonTrending:
		return true
	}
	return false
}
