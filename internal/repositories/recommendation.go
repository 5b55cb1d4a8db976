package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/encorefm/encore/internal/models"
	"github.com/encorefm/encore/internal/shared"
)

const recommendationColumns = `id, sequence, user_id, track_id, reason, score, viewed, liked, dismissed, created_at, updated_at`

// RecommendationRepository implements [models.Repository] for [models.Recommendation] persistence.
//
// Beyond CRUD it provides the store queries the engine depends on: the
// cooldown check, active (non-dismissed) listings ordered by score, unviewed
// counts, bulk viewed marking, and the retention sweep.
//
// The cooldown check plus insert is a read-then-write with no locking; two
// concurrent generation calls for the same user can both pass the check and
// insert the same track. The schema deliberately carries no uniqueness
// constraint for the pair.
type RecommendationRepository struct {
	db *sql.DB
}

// NewRecommendationRepository creates a new [RecommendationRepository] with the given database connection
func NewRecommendationRepository(db *sql.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

// Create inserts a single recommendation with generated ID and sequence
func (r *RecommendationRepository) Create(rec *models.Recommendation) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertRecommendation(tx, rec); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recommendation: %w", err)
	}

	return nil
}

// SaveBatch persists a batch of recommendations in a single transaction.
//
// All-or-nothing: a failure on any row rolls back the whole batch.
func (r *RecommendationRepository) SaveBatch(recs []*models.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, rec := range recs {
		if err := insertRecommendation(tx, rec); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrPersistence, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit batch: %v", shared.ErrPersistence, err)
	}

	return nil
}

// insertRecommendation generates ID and sequence and inserts within tx.
func insertRecommendation(tx *sql.Tx, rec *models.Recommendation) error {
	sequence, err := nextSequenceIn(tx, "recommendations")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	rec.SetID(id)
	rec.SetSequence(sequence)

	if err := rec.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO recommendations (id, sequence, user_id, track_id, reason, score, viewed, liked, dismissed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		id,
		sequence,
		rec.UserID(),
		rec.TrackID(),
		rec.Reason(),
		rec.Score(),
		rec.Viewed(),
		rec.Liked(),
		rec.Dismissed(),
		rec.CreatedAt(),
		rec.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert recommendation: %w", err)
	}

	return nil
}

// Get retrieves a recommendation by ID
func (r *RecommendationRepository) Get(id string) (*models.Recommendation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM recommendations
		WHERE id = ?
	`, recommendationColumns)

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetForUser retrieves a recommendation by ID only if it belongs to the given user.
//
// Returns [shared.ErrRecommendationNotFound] when the id does not exist or is
// owned by someone else; callers treat that as a no-op, not a failure.
func (r *RecommendationRepository) GetForUser(id, userID string) (*models.Recommendation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM recommendations
		WHERE id = ? AND user_id = ?
	`, recommendationColumns)

	return r.scanOne(r.db.QueryRow(query, id, userID))
}

// Update persists flag mutations (viewed/liked/dismissed) for an existing recommendation.
//
// The user, track, reason, score, and creation time columns are never updated.
func (r *RecommendationRepository) Update(rec *models.Recommendation) error {
	now := time.Now()
	rec.SetUpdatedAt(now)

	query := `
		UPDATE recommendations
		SET viewed = ?, liked = ?, dismissed = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, rec.Viewed(), rec.Liked(), rec.Dismissed(), now, rec.ID())
	if err != nil {
		return fmt.Errorf("failed to update recommendation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRecommendationNotFound, rec.ID())
	}

	return nil
}

// Delete removes a recommendation by ID
func (r *RecommendationRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM recommendations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete recommendation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRecommendationNotFound, id)
	}

	return nil
}

// List retrieves all recommendations matching the given criteria
func (r *RecommendationRepository) List(criteria map[string]any) ([]*models.Recommendation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM recommendations
		WHERE 1 = 1
	`, recommendationColumns)

	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	if reason, ok := criteria["reason"].(string); ok && reason != "" {
		query += " AND reason = ?"
		args = append(args, reason)
	}

	query += " ORDER BY sequence ASC"

	return r.queryRecommendations(query, args...)
}

// HasRecentRecommendation reports whether a recommendation for the (user, track)
// pair was created within the last days, regardless of its flag state.
//
// This is the sole gate against re-suggesting the same track. It is a
// point-in-time check with no locking (see the type comment).
func (r *RecommendationRepository) HasRecentRecommendation(userID, trackID string, days int) (bool, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	var count int
	query := `
		SELECT COUNT(id)
		FROM recommendations
		WHERE user_id = ? AND track_id = ? AND created_at > ?
	`

	if err := r.db.QueryRow(query, userID, trackID, cutoff).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check recent recommendations: %w", err)
	}

	return count > 0, nil
}

// ListActiveForUser retrieves up to limit non-dismissed recommendations for a user,
// ordered by score (desc) then creation date (desc).
func (r *RecommendationRepository) ListActiveForUser(userID string, limit int) ([]*models.Recommendation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM recommendations
		WHERE user_id = ? AND dismissed = 0
		ORDER BY CAST(score AS REAL) DESC, created_at DESC
		LIMIT ?
	`, recommendationColumns)

	return r.queryRecommendations(query, userID, limit)
}

// ListActiveForUserByReason is the reason-filtered variant of [RecommendationRepository.ListActiveForUser].
func (r *RecommendationRepository) ListActiveForUserByReason(userID, reason string, limit int) ([]*models.Recommendation, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM recommendations
		WHERE user_id = ? AND reason = ? AND dismissed = 0
		ORDER BY CAST(score AS REAL) DESC, created_at DESC
		LIMIT ?
	`, recommendationColumns)

	return r.queryRecommendations(query, userID, reason, limit)
}

// CountUnviewedForUser counts a user's unviewed, non-dismissed recommendations.
func (r *RecommendationRepository) CountUnviewedForUser(userID string) (int, error) {
	var count int
	query := `
		SELECT COUNT(id)
		FROM recommendations
		WHERE user_id = ? AND viewed = 0 AND dismissed = 0
	`

	if err := r.db.QueryRow(query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unviewed recommendations: %w", err)
	}

	return count, nil
}

// MarkAllViewedForUser marks all of a user's unviewed recommendations as viewed,
// returning the number of rows changed.
func (r *RecommendationRepository) MarkAllViewedForUser(userID string) (int, error) {
	query := `
		UPDATE recommendations
		SET viewed = 1, updated_at = ?
		WHERE user_id = ? AND viewed = 0
	`

	result, err := r.db.Exec(query, time.Now(), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark recommendations viewed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(rows), nil
}

// DeleteOlderThan hard-deletes recommendations created more than days ago,
// returning the number of rows removed. Run as housekeeping, never by the engine.
func (r *RecommendationRepository) DeleteOlderThan(days int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	result, err := r.db.Exec("DELETE FROM recommendations WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old recommendations: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(rows), nil
}

// queryRecommendations runs a recommendation query and scans all rows.
func (r *RecommendationRepository) queryRecommendations(query string, args ...any) ([]*models.Recommendation, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendations: %w", err)
	}
	defer rows.Close()

	var recs []*models.Recommendation
	for rows.Next() {
		rec, err := scanRecommendationRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return recs, nil
}

// scanOne scans a single [sql.Row] into a [models.Recommendation]
func (r *RecommendationRepository) scanOne(row *sql.Row) (*models.Recommendation, error) {
	rec, err := scanRecommendationRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, shared.ErrRecommendationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan recommendation: %w", err)
	}
	return rec, nil
}

// scanRecommendationRow scans recommendation columns through the given scan function.
func scanRecommendationRow(scan func(dest ...any) error) (*models.Recommendation, error) {
	var (
		id        string
		sequence  int
		userID    string
		trackID   string
		reason    string
		score     string
		viewed    bool
		liked     bool
		dismissed bool
		createdAt time.Time
		updatedAt time.Time
	)

	err := scan(&id, &sequence, &userID, &trackID, &reason, &score, &viewed, &liked, &dismissed, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	rec := models.NewRecommendation(sequence, userID, trackID, reason, 0)
	rec.SetID(id)
	rec.SetScore(score)
	rec.SetViewed(viewed)
	rec.SetLiked(liked)
	rec.SetDismissed(dismissed)
	rec.SetCreatedAt(createdAt)
	rec.SetUpdatedAt(updatedAt)

	return rec, nil
}
