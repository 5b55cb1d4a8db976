package models

import (
	"fmt"
	"strings"
	"time"
)

// Track represents a catalog entry uploaded by a user.
//
// Tracks are consumed read-only by the recommendation engine; the uploader
// reference is always set for stored tracks.
type Track struct {
	id          string
	sequence    int
	title       string
	artist      string
	album       string
	description string
	genre       string
	duration    int
	audioFile   string
	coverImage  string
	playCount   int
	uploadedBy  string
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewTrack creates a new Track with the given sequence, metadata, and uploader.
//
// Genre is optional and may be empty; the ID is assigned on persistence.
func NewTrack(sequence int, title, artist, uploadedBy string) *Track {
	now := time.Now()
	return &Track{
		sequence:   sequence,
		title:      title,
		artist:     artist,
		uploadedBy: uploadedBy,
		createdAt:  now,
		updatedAt:  now,
	}
}

func (t *Track) ID() string            { return t.id }
func (t *Track) Sequence() int         { return t.sequence }
func (t *Track) Title() string         { return t.title }
func (t *Track) Artist() string        { return t.artist }
func (t *Track) Album() string         { return t.album }
func (t *Track) Description() string   { return t.description }
func (t *Track) Genre() string         { return t.genre }
func (t *Track) Duration() int         { return t.duration }
func (t *Track) AudioFile() string     { return t.audioFile }
func (t *Track) CoverImage() string    { return t.coverImage }
func (t *Track) PlayCount() int        { return t.playCount }
func (t *Track) UploadedBy() string    { return t.uploadedBy }
func (t *Track) CreatedAt() time.Time  { return t.createdAt }
func (t *Track) UpdatedAt() time.Time  { return t.updatedAt }
func (t *Track) DeletedAt() *time.Time { return t.deletedAt }

func (t *Track) SetID(id string)             { t.id = id }
func (t *Track) SetSequence(sequence int)    { t.sequence = sequence }
func (t *Track) SetTitle(title string)       { t.title = title }
func (t *Track) SetArtist(artist string)     { t.artist = artist }
func (t *Track) SetAlbum(album string)       { t.album = album }
func (t *Track) SetDescription(d string)     { t.description = d }
func (t *Track) SetGenre(genre string)       { t.genre = genre }
func (t *Track) SetDuration(duration int)    { t.duration = duration }
func (t *Track) SetAudioFile(path string)    { t.audioFile = path }
func (t *Track) SetCoverImage(path string)   { t.coverImage = path }
func (t *Track) SetPlayCount(count int)      { t.playCount = count }
func (t *Track) SetUploadedBy(userID string) { t.uploadedBy = userID }
func (t *Track) SetCreatedAt(ts time.Time)   { t.createdAt = ts }
func (t *Track) SetUpdatedAt(ts time.Time)   { t.updatedAt = ts }
func (t *Track) SetDeletedAt(ts *time.Time)  { t.deletedAt = ts }

// AgeInDays returns the number of whole days since the track was uploaded,
// relative to now. Never negative.
func (t *Track) AgeInDays(now time.Time) int {
	days := int(now.Sub(t.createdAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// Validate checks that the track has a title, an artist, and an uploader.
func (t *Track) Validate() error {
	if strings.TrimSpace(t.title) == "" {
		return fmt.Errorf("track title is required")
	}
	if strings.TrimSpace(t.artist) == "" {
		return fmt.Errorf("track artist is required")
	}
	if strings.TrimSpace(t.uploadedBy) == "" {
		return fmt.Errorf("track uploader is required")
	}
	if t.duration < 0 {
		return fmt.Errorf("track duration cannot be negative: %d", t.duration)
	}
	if t.playCount < 0 {
		return fmt.Errorf("track play count cannot be negative: %d", t.playCount)
	}
	return nil
}
