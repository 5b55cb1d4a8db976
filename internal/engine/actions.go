package engine

import (
	"errors"

	"github.com/encorefm/encore/internal/formatter"
	"github.com/encorefm/encore/internal/models"
	"github.com/encorefm/encore/internal/shared"
)

// Save persists a batch of generated recommendations.
//
// Persistence failures propagate to the caller; the batch driver collects
// them per user, a request-scoped caller surfaces them directly.
func (e *Engine) Save(recs []*models.Recommendation) error {
	return e.store.SaveBatch(recs)
}

// MarkLiked sets liked and viewed on the recommendation iff it belongs to the user.
//
// Returns false (and no error) when the id does not exist or is owned by a
// different user; nothing is mutated in that case.
func (e *Engine) MarkLiked(id, userID string) (bool, error) {
	return e.markFlags(id, userID, func(rec *models.Recommendation) {
		rec.SetLiked(true)
		rec.SetViewed(true)
	})
}

// MarkDismissed sets dismissed and viewed on the recommendation iff it belongs to the user.
//
// Symmetric with [Engine.MarkLiked]; dismissed recommendations drop out of
// active listings but still count toward the cooldown window.
func (e *Engine) MarkDismissed(id, userID string) (bool, error) {
	return e.markFlags(id, userID, func(rec *models.Recommendation) {
		rec.SetDismissed(true)
		rec.SetViewed(true)
	})
}

// markFlags applies a flag mutation to a user-owned recommendation.
func (e *Engine) markFlags(id, userID string, mutate func(*models.Recommendation)) (bool, error) {
	rec, err := e.store.GetForUser(id, userID)
	if errors.Is(err, shared.ErrRecommendationNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	mutate(rec)

	if err := e.store.Update(rec); err != nil {
		return false, err
	}

	return true, nil
}

// Formatted returns a user's active recommendations as display-ready records,
// ordered by score (desc) then creation date (desc).
//
// Recommendations whose track has since been removed from the catalog are
// skipped rather than failing the whole listing.
func (e *Engine) Formatted(userID string, limit int) ([]formatter.Recommendation, error) {
	recs, err := e.store.ListActiveForUser(userID, limit)
	if err != nil {
		return nil, err
	}
	return e.format(recs)
}

// FormattedByReason is the reason-filtered variant of [Engine.Formatted].
func (e *Engine) FormattedByReason(userID, reason string, limit int) ([]formatter.Recommendation, error) {
	recs, err := e.store.ListActiveForUserByReason(userID, reason, limit)
	if err != nil {
		return nil, err
	}
	return e.format(recs)
}

// format resolves each recommendation's track and maps the pair to a display record.
func (e *Engine) format(recs []*models.Recommendation) ([]formatter.Recommendation, error) {
	formatted := make([]formatter.Recommendation, 0, len(recs))

	for _, rec := range recs {
		track, err := e.catalog.Get(rec.TrackID())
		if errors.Is(err, shared.ErrTrackNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		formatted = append(formatted, formatter.Format(rec, track))
	}

	return formatted, nil
}

// UnviewedCount returns the number of unviewed, non-dismissed recommendations for a user.
func (e *Engine) UnviewedCount(userID string) (int, error) {
	return e.store.CountUnviewedForUser(userID)
}

// MarkAllViewed marks every unviewed recommendation for the user as viewed,
// returning the number affected. Mirrors the recommendations-page visit.
func (e *Engine) MarkAllViewed(userID string) (int, error) {
	return e.store.MarkAllViewedForUser(userID)
}

// CleanupOlderThan removes recommendations older than the given number of days.
//
// Housekeeping only; generation never deletes records.
func (e *Engine) CleanupOlderThan(days int) (int, error) {
	return e.store.DeleteOlderThan(days)
}
