// package testing contains shared testing utilities
package testing

import (
	"errors"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/encorefm/encore/internal/models"
	"github.com/encorefm/encore/internal/shared"
)

// MemoryCatalog is a slice-backed test double for the engine's catalog dependency
type MemoryCatalog struct {
	Tracks []*models.Track
	Err    error // When set, every method returns it
}

func (c *MemoryCatalog) Get(id string) (*models.Track, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	for _, track := range c.Tracks {
		if track.ID() == id {
			return track, nil
		}
	}
	return nil, shared.ErrTrackNotFound
}

func (c *MemoryCatalog) ListByUploader(userID string) ([]*models.Track, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	var out []*models.Track
	for _, track := range c.Tracks {
		if track.UploadedBy() == userID {
			out = append(out, track)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence() < out[j].Sequence() })
	return out, nil
}

func (c *MemoryCatalog) ListByGenreExcludingUser(genre, userID string, limit int) ([]*models.Track, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.popular(limit, func(t *models.Track) bool {
		return t.Genre() == genre && t.UploadedBy() != userID
	}), nil
}

func (c *MemoryCatalog) ListByArtistExcludingUser(artist, userID string, limit int) ([]*models.Track, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.popular(limit, func(t *models.Track) bool {
		return t.Artist() == artist && t.UploadedBy() != userID
	}), nil
}

func (c *MemoryCatalog) ListRecentExcludingUser(userID string, days, limit int) ([]*models.Track, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	var out []*models.Track
	for _, track := range c.Tracks {
		if track.UploadedBy() != userID && track.CreatedAt().After(cutoff) {
			out = append(out, track)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return clip(out, limit), nil
}

// popular filters tracks and orders them by play count (desc) then creation date (desc)
func (c *MemoryCatalog) popular(limit int, keep func(*models.Track) bool) []*models.Track {
	var out []*models.Track
	for _, track := range c.Tracks {
		if keep(track) {
			out = append(out, track)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PlayCount() != out[j].PlayCount() {
			return out[i].PlayCount() > out[j].PlayCount()
		}
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return clip(out, limit)
}

// MemoryStore is a slice-backed test double for the engine's recommendation store
type MemoryStore struct {
	Recs    []*models.Recommendation
	SaveErr error // When set, SaveBatch returns it
}

func (s *MemoryStore) SaveBatch(recs []*models.Recommendation) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Recs = append(s.Recs, recs...)
	return nil
}

func (s *MemoryStore) GetForUser(id, userID string) (*models.Recommendation, error) {
	for _, rec := range s.Recs {
		if rec.ID() == id && rec.UserID() == userID {
			return rec, nil
		}
	}
	return nil, shared.ErrRecommendationNotFound
}

func (s *MemoryStore) Update(rec *models.Recommendation) error {
	for i, existing := range s.Recs {
		if existing.ID() == rec.ID() {
			s.Recs[i] = rec
			return nil
		}
	}
	return shared.ErrRecommendationNotFound
}

func (s *MemoryStore) HasRecentRecommendation(userID, trackID string, days int) (bool, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	for _, rec := range s.Recs {
		if rec.UserID() == userID && rec.TrackID() == trackID && rec.CreatedAt().After(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) ListActiveForUser(userID string, limit int) ([]*models.Recommendation, error) {
	return s.listActive(userID, "", limit), nil
}

func (s *MemoryStore) ListActiveForUserByReason(userID, reason string, limit int) ([]*models.Recommendation, error) {
	return s.listActive(userID, reason, limit), nil
}

func (s *MemoryStore) listActive(userID, reason string, limit int) []*models.Recommendation {
	var out []*models.Recommendation
	for _, rec := range s.Recs {
		if rec.UserID() != userID || rec.Dismissed() {
			continue
		}
		if reason != "" && rec.Reason() != reason {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ScoreValue() != out[j].ScoreValue() {
			return out[i].ScoreValue() > out[j].ScoreValue()
		}
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return clip(out, limit)
}

func (s *MemoryStore) CountUnviewedForUser(userID string) (int, error) {
	count := 0
	for _, rec := range s.Recs {
		if rec.UserID() == userID && !rec.Viewed() && !rec.Dismissed() {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) MarkAllViewedForUser(userID string) (int, error) {
	count := 0
	for _, rec := range s.Recs {
		if rec.UserID() == userID && !rec.Viewed() {
			rec.SetViewed(true)
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) DeleteOlderThan(days int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	kept := s.Recs[:0]
	deleted := 0
	for _, rec := range s.Recs {
		if rec.CreatedAt().Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, rec)
	}
	s.Recs = kept
	return deleted, nil
}

// MemoryUsers is a slice-backed test double for the engine's user lookup
type MemoryUsers struct {
	Users []*models.User
	Err   error // When set, every method returns it
}

func (u *MemoryUsers) Get(id string) (*models.User, error) {
	if u.Err != nil {
		return nil, u.Err
	}
	for _, user := range u.Users {
		if user.ID() == id {
			return user, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (u *MemoryUsers) List(criteria map[string]any) ([]*models.User, error) {
	if u.Err != nil {
		return nil, u.Err
	}
	return u.Users, nil
}

func clip[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
