package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/encorefm/encore/internal/models"
	"github.com/encorefm/encore/internal/shared"
	"github.com/urfave/cli/v3"
)

// seedFile is the JSON shape accepted by catalog import.
type seedFile struct {
	Users  []seedUser  `json:"users"`
	Tracks []seedTrack `json:"tracks"`
}

type seedUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type seedTrack struct {
	Title           string `json:"title"`
	Artist          string `json:"artist"`
	Album           string `json:"album"`
	Genre           string `json:"genre"`
	Duration        int    `json:"duration"`
	PlayCount       int    `json:"play_count"`
	AudioFile       string `json:"audio_file"`
	CoverImage      string `json:"cover_image"`
	UploadedByEmail string `json:"uploaded_by_email"`
}

// CatalogImport loads users and tracks from a JSON seed file.
//
// Users already present (by email) are reused rather than duplicated, so the
// command is safe to re-run against the same file. Tracks are always created.
func (r *Runner) CatalogImport(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	path := cmd.String("file")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	r.logger.Info("importing catalog", "file", path, "users", len(seed.Users), "tracks", len(seed.Tracks))

	usersByEmail := map[string]*models.User{}
	created := 0
	for _, su := range seed.Users {
		existing, err := r.users.GetByEmail(su.Email)
		if err == nil {
			usersByEmail[su.Email] = existing
			continue
		}
		if !errors.Is(err, shared.ErrUserNotFound) {
			return err
		}

		user := models.NewUser(0, su.Email, su.Name)
		if err := r.users.Create(user); err != nil {
			return fmt.Errorf("failed to create user %s: %w", su.Email, err)
		}
		usersByEmail[su.Email] = user
		created++
	}

	imported := 0
	for _, st := range seed.Tracks {
		uploader, ok := usersByEmail[st.UploadedByEmail]
		if !ok {
			existing, err := r.users.GetByEmail(st.UploadedByEmail)
			if err != nil {
				return fmt.Errorf("track %q: unknown uploader %q: %w", st.Title, st.UploadedByEmail, err)
			}
			uploader = existing
			usersByEmail[st.UploadedByEmail] = existing
		}

		track := models.NewTrack(0, st.Title, st.Artist, uploader.ID())
		track.SetAlbum(st.Album)
		track.SetGenre(st.Genre)
		track.SetDuration(st.Duration)
		track.SetPlayCount(st.PlayCount)
		track.SetAudioFile(st.AudioFile)
		track.SetCoverImage(st.CoverImage)

		if err := r.tracks.Create(track); err != nil {
			return fmt.Errorf("failed to create track %q: %w", st.Title, err)
		}
		imported++
	}

	r.writePlain("✓ Imported %d users (%d new) and %d tracks\n", len(usersByEmail), created, imported)
	return nil
}

// CatalogList prints tracks in the catalog, optionally filtered by genre or artist.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	criteria := map[string]any{}
	if genre := cmd.String("genre"); genre != "" {
		criteria["genre"] = genre
	}
	if artist := cmd.String("artist"); artist != "" {
		criteria["artist"] = artist
	}

	tracks, err := r.tracks.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		rows := make([]map[string]any, len(tracks))
		for i, track := range tracks {
			rows[i] = map[string]any{
				"id":         track.ID(),
				"title":      track.Title(),
				"artist":     track.Artist(),
				"album":      track.Album(),
				"genre":      track.Genre(),
				"duration":   track.Duration(),
				"play_count": track.PlayCount(),
			}
		}
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	if len(tracks) == 0 {
		r.writePlain("Catalog is empty\n")
		return nil
	}

	for i, track := range tracks {
		genrePart := ""
		if track.Genre() != "" {
			genrePart = fmt.Sprintf(" (%s)", track.Genre())
		}
		r.writePlain("%2d. %s - %s%s [%s] %d plays\n",
			i+1, track.Artist(), track.Title(), genrePart,
			shared.FormatDuration(track.Duration()), track.PlayCount())
	}
	return nil
}
