package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Recommendation reasons form a closed set of strategy tags.
const (
	ReasonGenre    = "genre"
	ReasonArtist   = "artist"
	ReasonTrending = "trending"
)

// Recommendation represents a scored track suggestion for a user.
//
// The (user, track, reason, score, createdAt) quintuple is immutable once
// constructed; only the viewed/liked/dismissed flags mutate afterwards.
// Score is stored as a two-decimal fixed-point string so persisted values
// stay bit-comparable for identical inputs.
type Recommendation struct {
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
}

// NewRecommendation creates a Recommendation for the given user and track.
//
// The score is rounded to two decimals at construction and never recomputed.
// The ID is assigned on persistence by the repository.
func NewRecommendation(sequence int, userID, trackID, reason string, score float64) *Recommendation {
	now := time.Now()
	return &Recommendation{
		sequence:  sequence,
		userID:    userID,
		trackID:   trackID,
		reason:    reason,
		score:     FormatScore(score),
		createdAt: now,
		updatedAt: now,
	}
}

// FormatScore rounds a score to two decimals and renders it as a fixed-point
// string, e.g. 0.9 -> "0.90".
func FormatScore(score float64) string {
	return fmt.Sprintf("%.2f", math.Round(score*100)/100)
}

func (r *Recommendation) ID() string           { return r.id }
func (r *Recommendation) Sequence() int        { return r.sequence }
func (r *Recommendation) UserID() string       { return r.userID }
func (r *Recommendation) TrackID() string      { return r.trackID }
func (r *Recommendation) Reason() string       { return r.reason }
func (r *Recommendation) Score() string        { return r.score }
func (r *Recommendation) Viewed() bool         { return r.viewed }
func (r *Recommendation) Liked() bool          { return r.liked }
func (r *Recommendation) Dismissed() bool      { return r.dismissed }
func (r *Recommendation) CreatedAt() time.Time { return r.createdAt }
func (r *Recommendation) UpdatedAt() time.Time { return r.updatedAt }

func (r *Recommendation) SetID(id string)          { r.id = id }
func (r *Recommendation) SetSequence(sequence int) { r.sequence = sequence }
func (r *Recommendation) SetViewed(viewed bool)    { r.viewed = viewed }
func (r *Recommendation) SetLiked(liked bool)      { r.liked = liked }
func (r *Recommendation) SetDismissed(d bool)      { r.dismissed = d }
func (r *Recommendation) SetScore(score string)    { r.score = score }
func (r *Recommendation) SetReason(reason string)  { r.reason = reason }
func (r *Recommendation) SetCreatedAt(t time.Time) { r.createdAt = t }
func (r *Recommendation) SetUpdatedAt(t time.Time) { r.updatedAt = t }

// ScoreValue parses the stored score back into a float64.
// A malformed score reads as 0; Validate rejects it.
func (r *Recommendation) ScoreValue() float64 {
	v, err := strconv.ParseFloat(r.score, 64)
	if err != nil {
		return 0
	}
	return v
}

// Validate checks referential fields, the reason tag, and the score range.
func (r *Recommendation) Validate() error {
	if strings.TrimSpace(r.userID) == "" {
		return fmt.Errorf("recommendation user is required")
	}
	if strings.TrimSpace(r.trackID) == "" {
		return fmt.Errorf("recommendation track is required")
	}
	switch r.reason {
	case ReasonGenre, ReasonArtist, ReasonTrending:
	default:
		return fmt.Errorf("unknown recommendation reason: %s", r.reason)
	}
	v, err := strconv.ParseFloat(r.score, 64)
	if err != nil {
		return fmt.Errorf("malformed recommendation score: %s", r.score)
	}
	if v < 0.0 || v > 1.0 {
		return fmt.Errorf("recommendation score out of range [0.0, 1.0]: %s", r.score)
	}
	return nil
}
