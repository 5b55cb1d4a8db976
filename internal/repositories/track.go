package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/encorefm/encore/internal/models"
	"github.com/encorefm/encore/internal/shared"
)

// trackColumns is the shared select list for track queries.
const trackColumns = `id, sequence, title, artist, album, description, genre, duration, audio_file, cover_image, play_count, uploaded_by, created_at, updated_at, deleted_at`

// TrackRepository implements [models.Repository] for [models.Track] persistence.
//
// Beyond CRUD it provides the catalog queries the recommendation engine
// generates candidates from: per-genre, per-artist, and recency windows,
// each excluding a user's own uploads.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new [TrackRepository] with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Create inserts a new [models.Track] into the database with generated ID and sequence
func (r *TrackRepository) Create(track *models.Track) error {
	sequence, err := NextSequence(r.db, "tracks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	track.SetID(id)
	track.SetSequence(sequence)

	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tracks (id, sequence, title, artist, album, description, genre, duration, audio_file, cover_image, play_count, uploaded_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		track.Title(),
		track.Artist(),
		nullable(track.Album()),
		nullable(track.Description()),
		nullable(track.Genre()),
		track.Duration(),
		nullable(track.AudioFile()),
		nullable(track.CoverImage()),
		track.PlayCount(),
		track.UploadedBy(),
		track.CreatedAt(),
		track.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}

	return nil
}

// Get retrieves a track by ID, excluding soft-deleted tracks
func (r *TrackRepository) Get(id string) (*models.Track, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tracks
		WHERE id = ? AND deleted_at IS NULL
	`, trackColumns)

	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing track in the database
func (r *TrackRepository) Update(track *models.Track) error {
	if err := track.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	track.SetUpdatedAt(now)

	query := `
		UPDATE tracks
		SET title = ?, artist = ?, album = ?, description = ?, genre = ?, duration = ?, audio_file = ?, cover_image = ?, play_count = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		track.Title(),
		track.Artist(),
		nullable(track.Album()),
		nullable(track.Description()),
		nullable(track.Genre()),
		track.Duration(),
		nullable(track.AudioFile()),
		nullable(track.CoverImage()),
		track.PlayCount(),
		now,
		track.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, track.ID())
	}

	return nil
}

// Delete soft-deletes a track by ID
func (r *TrackRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE tracks
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete track: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}

	return nil
}

// List retrieves all tracks matching the given criteria, excluding soft-deleted tracks
func (r *TrackRepository) List(criteria map[string]any) ([]*models.Track, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tracks
		WHERE deleted_at IS NULL
	`, trackColumns)

	args := []any{}

	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		query += " AND genre = ?"
		args = append(args, genre)
	}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	if uploadedBy, ok := criteria["uploaded_by"].(string); ok && uploadedBy != "" {
		query += " AND uploaded_by = ?"
		args = append(args, uploadedBy)
	}

	query += " ORDER BY sequence ASC"

	return r.queryTracks(query, args...)
}

// ListByUploader retrieves all tracks uploaded by the given user in upload order.
//
// The engine derives a user's favorite genres and artists from this set.
func (r *TrackRepository) ListByUploader(userID string) ([]*models.Track, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tracks
		WHERE uploaded_by = ? AND deleted_at IS NULL
		ORDER BY sequence ASC
	`, trackColumns)

	return r.queryTracks(query, userID)
}

// ListByGenreExcludingUser retrieves up to limit tracks of a genre not uploaded by the user,
// ordered by play count (desc) then creation date (desc).
func (r *TrackRepository) ListByGenreExcludingUser(genre, userID string, limit int) ([]*models.Track, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tracks
		WHERE genre = ? AND uploaded_by != ? AND deleted_at IS NULL
		ORDER BY play_count DESC, created_at DESC
		LIMIT ?
	`, trackColumns)

	return r.queryTracks(query, genre, userID, limit)
}

// ListByArtistExcludingUser retrieves up to limit tracks by an artist not uploaded by the user,
// ordered by play count (desc) then creation date (desc).
func (r *TrackRepository) ListByArtistExcludingUser(artist, userID string, limit int) ([]*models.Track, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tracks
		WHERE artist = ? AND uploaded_by != ? AND deleted_at IS NULL
		ORDER BY play_count DESC, created_at DESC
		LIMIT ?
	`, trackColumns)

	return r.queryTracks(query, artist, userID, limit)
}

// ListRecentExcludingUser retrieves up to limit tracks created within the last
// days not uploaded by the user, newest first.
func (r *TrackRepository) ListRecentExcludingUser(userID string, days, limit int) ([]*models.Track, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	query := fmt.Sprintf(`
		SELECT %s
		FROM tracks
		WHERE created_at > ? AND uploaded_by != ? AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT ?
	`, trackColumns)

	return r.queryTracks(query, cutoff, userID, limit)
}

// IncrementPlayCount bumps a track's play counter by one.
func (r *TrackRepository) IncrementPlayCount(id string) error {
	query := `
		UPDATE tracks
		SET play_count = play_count + 1, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to increment play count: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrTrackNotFound, id)
	}

	return nil
}

// queryTracks runs a track query and scans all rows.
func (r *TrackRepository) queryTracks(query string, args ...any) ([]*models.Track, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*models.Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return tracks, nil
}

// scanOne scans a single [sql.Row] into a [models.Track]
func (r *TrackRepository) scanOne(row *sql.Row) (*models.Track, error) {
	track, err := scanTrackRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, shared.ErrTrackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}
	return track, nil
}

// scanTrack scans a row from [sql.Rows] into a [models.Track]
func scanTrack(rows *sql.Rows) (*models.Track, error) {
	track, err := scanTrackRow(rows.Scan)
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}
	return track, nil
}

// scanTrackRow scans track columns through the given scan function.
func scanTrackRow(scan func(dest ...any) error) (*models.Track, error) {
	var (
		id          string
		sequence    int
		title       string
		artist      string
		album       sql.NullString
		description sql.NullString
		genre       sql.NullString
		duration    int
		audioFile   sql.NullString
		coverImage  sql.NullString
		playCount   int
		uploadedBy  string
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := scan(&id, &sequence, &title, &artist, &album, &description, &genre, &duration, &audioFile, &coverImage, &playCount, &uploadedBy, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	track := models.NewTrack(sequence, title, artist, uploadedBy)
	track.SetID(id)
	track.SetAlbum(album.String)
	track.SetDescription(description.String)
	track.SetGenre(genre.String)
	track.SetDuration(duration)
	track.SetAudioFile(audioFile.String)
	track.SetCoverImage(coverImage.String)
	track.SetPlayCount(playCount)
	track.SetCreatedAt(createdAt)
	track.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		track.SetDeletedAt(&deletedAt.Time)
	}

	return track, nil
}

// nullable converts an empty string to NULL for optional columns.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
