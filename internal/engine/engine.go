package engine

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/encorefm/encore/internal/models"
	"github.com/encorefm/encore/internal/shared"
)

// Per-strategy candidate caps, applied during generation before the overall
// maxCount truncation.
const (
	genreSubLimit    = 4
	artistSubLimit   = 3
	trendingSubLimit = 3
)

// Scoring weights. Scores are clamped to [0.0, 1.0] and rounded to two
// decimals at construction.
const (
	genreBaseScore   = 0.6
	genreMatchBonus  = 0.3
	genreFreshBonus  = 0.1
	freshTrackDays   = 7
	artistScore      = 0.8
	trendingBase     = 0.5
	trendingMaxBoost = 0.4
)

// Defaults for the cooldown and trending windows, overridable via [Opts].
const (
	DefaultCooldownDays = 7
	DefaultTrendingDays = 30
)

// Catalog provides read-only access to the track catalog.
// Implemented by [repositories.TrackRepository].
type Catalog interface {
	Get(id string) (*models.Track, error)
	ListByUploader(userID string) ([]*models.Track, error)
	ListByGenreExcludingUser(genre, userID string, limit int) ([]*models.Track, error)
	ListByArtistExcludingUser(artist, userID string, limit int) ([]*models.Track, error)
	ListRecentExcludingUser(userID string, days, limit int) ([]*models.Track, error)
}

// Store persists and queries recommendation records.
// Implemented by [repositories.RecommendationRepository].
type Store interface {
	SaveBatch(recs []*models.Recommendation) error
	GetForUser(id, userID string) (*models.Recommendation, error)
	Update(rec *models.Recommendation) error
	HasRecentRecommendation(userID, trackID string, days int) (bool, error)
	ListActiveForUser(userID string, limit int) ([]*models.Recommendation, error)
	ListActiveForUserByReason(userID, reason string, limit int) ([]*models.Recommendation, error)
	CountUnviewedForUser(userID string) (int, error)
	MarkAllViewedForUser(userID string) (int, error)
	DeleteOlderThan(days int) (int, error)
}

// Users resolves recommendation recipients.
// Implemented by [repositories.UserRepository].
type Users interface {
	Get(id string) (*models.User, error)
	List(criteria map[string]any) ([]*models.User, error)
}

// Engine generates, persists, and mutates recommendations.
type Engine struct {
	catalog      Catalog
	store        Store
	users        Users
	cooldownDays int
	trendingDays int
}

// Opts contains configuration options for creating an [Engine].
type Opts struct {
	Catalog      Catalog
	Store        Store
	Users        Users
	CooldownDays int // Days a (user, track) pair is suppressed; default 7
	TrendingDays int // Window for trending candidates; default 30
}

// NewEngine creates a new Engine with the provided collaborators.
func NewEngine(opts Opts) *Engine {
	if opts.CooldownDays <= 0 {
		opts.CooldownDays = DefaultCooldownDays
	}
	if opts.TrendingDays <= 0 {
		opts.TrendingDays = DefaultTrendingDays
	}

	return &Engine{
		catalog:      opts.Catalog,
		store:        opts.Store,
		users:        opts.Users,
		cooldownDays: opts.CooldownDays,
		trendingDays: opts.TrendingDays,
	}
}

// Generate produces up to maxCount recommendations for a user without persisting them.
//
// Strategies run in fixed priority order: genre, artist, trending. The merged
// list is deduplicated by track (first occurrence wins, so genre-sourced
// entries beat artist- and trending-sourced ones) and truncated from the end.
// Score never reorders the result.
func (e *Engine) Generate(ctx context.Context, userID string, maxCount int) ([]*models.Recommendation, error) {
	if maxCount <= 0 {
		return nil, fmt.Errorf("%w: max count must be positive, got %d", shared.ErrInvalidArgument, maxCount)
	}

	var recs []*models.Recommendation

	genreRecs, err := e.genreRecommendations(userID, genreSubLimit)
	if err != nil {
		return nil, err
	}
	recs = append(recs, genreRecs...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	artistRecs, err := e.artistRecommendations(userID, artistSubLimit)
	if err != nil {
		return nil, err
	}
	recs = append(recs, artistRecs...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trendingRecs, err := e.trendingRecommendations(userID, trendingSubLimit)
	if err != nil {
		return nil, err
	}
	recs = append(recs, trendingRecs...)

	unique := dedupeByTrack(recs)
	if len(unique) > maxCount {
		unique = unique[:maxCount]
	}

	return unique, nil
}

// genreRecommendations scores candidates drawn from the genres of the user's own uploads.
//
// Genres iterate in first-seen upload order. The limit applies globally across
// all genres, not per genre.
func (e *Engine) genreRecommendations(userID string, limit int) ([]*models.Recommendation, error) {
	uploads, err := e.catalog.ListByUploader(userID)
	if err != nil {
		return nil, err
	}

	var genres []string
	for _, track := range uploads {
		if track.Genre() != "" {
			genres = append(genres, track.Genre())
		}
	}

	favoriteGenres := uniqueStrings(genres)
	if len(favoriteGenres) == 0 {
		return nil, nil
	}

	now := time.Now()
	var recs []*models.Recommendation

	for _, genre := range favoriteGenres {
		candidates, err := e.catalog.ListByGenreExcludingUser(genre, userID, limit)
		if err != nil {
			return nil, err
		}

		for _, track := range candidates {
			cooled, err := e.alreadyRecommended(userID, track)
			if err != nil {
				return nil, err
			}
			if cooled {
				continue
			}
			score := genreScore(track, favoriteGenres, now)
			recs = append(recs, models.NewRecommendation(0, userID, track.ID(), models.ReasonGenre, score))
		}
	}

	if len(recs) > limit {
		recs = recs[:limit]
	}

	return recs, nil
}

// artistRecommendations scores candidates drawn from the artists of the user's own uploads.
//
// Every artist match carries the same fixed score; there is no recency bonus.
func (e *Engine) artistRecommendations(userID string, limit int) ([]*models.Recommendation, error) {
	uploads, err := e.catalog.ListByUploader(userID)
	if err != nil {
		return nil, err
	}

	var artists []string
	for _, track := range uploads {
		if track.Artist() != "" {
			artists = append(artists, track.Artist())
		}
	}

	favoriteArtists := uniqueStrings(artists)
	if len(favoriteArtists) == 0 {
		return nil, nil
	}

	var recs []*models.Recommendation

	for _, artist := range favoriteArtists {
		candidates, err := e.catalog.ListByArtistExcludingUser(artist, userID, limit)
		if err != nil {
			return nil, err
		}

		for _, track := range candidates {
			cooled, err := e.alreadyRecommended(userID, track)
			if err != nil {
				return nil, err
			}
			if cooled {
				continue
			}
			recs = append(recs, models.NewRecommendation(0, userID, track.ID(), models.ReasonArtist, artistScore))
		}
	}

	if len(recs) > limit {
		recs = recs[:limit]
	}

	return recs, nil
}

// trendingRecommendations scores recently uploaded tracks with a linear decay bonus.
//
// The fetch overshoots to 2x the limit so cooldown-suppressed candidates do
// not starve the strategy.
func (e *Engine) trendingRecommendations(userID string, limit int) ([]*models.Recommendation, error) {
	candidates, err := e.catalog.ListRecentExcludingUser(userID, e.trendingDays, limit*2)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var recs []*models.Recommendation

	for _, track := range candidates {
		cooled, err := e.alreadyRecommended(userID, track)
		if err != nil {
			return nil, err
		}
		if cooled {
			continue
		}
		score := trendingScore(track, e.trendingDays, now)
		recs = append(recs, models.NewRecommendation(0, userID, track.ID(), models.ReasonTrending, score))
	}

	if len(recs) > limit {
		recs = recs[:limit]
	}

	return recs, nil
}

// alreadyRecommended checks the cooldown gate for a single candidate.
//
// The check runs against the store, not the in-flight batch, so a track can
// still surface from two strategies within one generation call.
func (e *Engine) alreadyRecommended(userID string, track *models.Track) (bool, error) {
	return e.store.HasRecentRecommendation(userID, track.ID(), e.cooldownDays)
}

// genreScore computes the genre-strategy score for a candidate.
//
// Base 0.6, +0.3 when the track's genre is one of the user's favorites
// (always true for candidates fetched by favorite genre), +0.1 for tracks
// younger than a week, clamped to 1.0.
func genreScore(track *models.Track, favoriteGenres []string, now time.Time) float64 {
	score := genreBaseScore

	if slices.Contains(favoriteGenres, track.Genre()) {
		score += genreMatchBonus
	}

	if track.AgeInDays(now) < freshTrackDays {
		score += genreFreshBonus
	}

	return math.Min(score, 1.0)
}

// trendingScore computes the trending-strategy score for a candidate.
//
// Base 0.5 plus a bonus decaying linearly from 0.4 at age zero to zero at the
// window edge, clamped to [0.5, 1.0] for any non-negative age.
func trendingScore(track *models.Track, windowDays int, now time.Time) float64 {
	age := track.AgeInDays(now)
	boost := math.Max(0, float64(windowDays-age)/float64(windowDays)*trendingMaxBoost)
	return math.Min(trendingBase+boost, 1.0)
}

// dedupeByTrack removes duplicate recommendations by track identity, keeping
// the first occurrence.
func dedupeByTrack(recs []*models.Recommendation) []*models.Recommendation {
	seen := make(map[string]struct{}, len(recs))
	unique := make([]*models.Recommendation, 0, len(recs))

	for _, rec := range recs {
		if _, ok := seen[rec.TrackID()]; ok {
			continue
		}
		seen[rec.TrackID()] = struct{}{}
		unique = append(unique, rec)
	}

	return unique
}

// uniqueStrings removes duplicates while preserving first-seen order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var unique []string

	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}

	return unique
}
