package models

import (
	"testing"
	"time"
)

func TestUser(t *testing.T) {
	t.Run("NewUser sets fields and timestamps", func(t *testing.T) {
		user := NewUser(1, "ada@example.com", "Ada")

		if user.Email() != "ada@example.com" {
			t.Errorf("expected email ada@example.com, got %s", user.Email())
		}
		if user.Name() != "Ada" {
			t.Errorf("expected name Ada, got %s", user.Name())
		}
		if user.Sequence() != 1 {
			t.Errorf("expected sequence 1, got %d", user.Sequence())
		}
		if user.CreatedAt().IsZero() || user.UpdatedAt().IsZero() {
			t.Error("expected timestamps to be set")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		cases := []struct {
			name    string
			email   string
			user    string
			wantErr bool
		}{
			{"valid", "ada@example.com", "Ada", false},
			{"missing email", "", "Ada", true},
			{"malformed email", "not-an-email", "Ada", true},
			{"missing name", "ada@example.com", "", true},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				user := NewUser(1, c.email, c.user)
				err := user.Validate()
				if (err != nil) != c.wantErr {
					t.Errorf("Validate() error = %v, wantErr %v", err, c.wantErr)
				}
			})
		}
	})
}

func TestTrack(t *testing.T) {
	t.Run("AgeInDays", func(t *testing.T) {
		now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

		cases := []struct {
			name    string
			created time.Time
			want    int
		}{
			{"same instant", now, 0},
			{"under a day", now.Add(-23 * time.Hour), 0},
			{"exactly three days", now.AddDate(0, 0, -3), 3},
			{"three and a half days", now.Add(-84 * time.Hour), 3},
			{"future creation clamps to zero", now.Add(48 * time.Hour), 0},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				track := NewTrack(1, "Song", "Artist", "user1")
				track.SetCreatedAt(c.created)
				if got := track.AgeInDays(now); got != c.want {
					t.Errorf("AgeInDays() = %d, want %d", got, c.want)
				}
			})
		}
	})

	t.Run("Validate", func(t *testing.T) {
		valid := func() *Track {
			return NewTrack(1, "Song", "Artist", "user1")
		}

		t.Run("valid track passes", func(t *testing.T) {
			if err := valid().Validate(); err != nil {
				t.Errorf("expected valid track, got %v", err)
			}
		})

		t.Run("missing title fails", func(t *testing.T) {
			track := valid()
			track.SetTitle("")
			if err := track.Validate(); err == nil {
				t.Error("expected error for missing title")
			}
		})

		t.Run("missing uploader fails", func(t *testing.T) {
			track := valid()
			track.SetUploadedBy("")
			if err := track.Validate(); err == nil {
				t.Error("expected error for missing uploader")
			}
		})

		t.Run("negative duration fails", func(t *testing.T) {
			track := valid()
			track.SetDuration(-1)
			if err := track.Validate(); err == nil {
				t.Error("expected error for negative duration")
			}
		})
	})
}

func TestRecommendation(t *testing.T) {
	t.Run("FormatScore rounds to two decimals", func(t *testing.T) {
		cases := []struct {
			score float64
			want  string
		}{
			{0.9, "0.90"},
			{1.0, "1.00"},
			{0.8, "0.80"},
			{0.666, "0.67"},
			{0.5 + 0.4*29.0/30.0, "0.89"},
			{0, "0.00"},
		}

		for _, c := range cases {
			if got := FormatScore(c.score); got != c.want {
				t.Errorf("FormatScore(%v) = %q, want %q", c.score, got, c.want)
			}
		}
	})

	t.Run("NewRecommendation stores formatted score", func(t *testing.T) {
		rec := NewRecommendation(1, "user1", "track1", ReasonGenre, 0.9)

		if rec.Score() != "0.90" {
			t.Errorf("expected score 0.90, got %s", rec.Score())
		}
		if rec.ScoreValue() != 0.9 {
			t.Errorf("expected score value 0.9, got %v", rec.ScoreValue())
		}
		if rec.Viewed() || rec.Liked() || rec.Dismissed() {
			t.Error("expected fresh recommendation flags to be false")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		t.Run("valid recommendation passes", func(t *testing.T) {
			rec := NewRecommendation(1, "user1", "track1", ReasonTrending, 0.75)
			if err := rec.Validate(); err != nil {
				t.Errorf("expected valid recommendation, got %v", err)
			}
		})

		t.Run("unknown reason fails", func(t *testing.T) {
			rec := NewRecommendation(1, "user1", "track1", "collaborative", 0.75)
			if err := rec.Validate(); err == nil {
				t.Error("expected error for unknown reason")
			}
		})

		t.Run("missing track reference fails", func(t *testing.T) {
			rec := NewRecommendation(1, "user1", "", ReasonGenre, 0.75)
			if err := rec.Validate(); err == nil {
				t.Error("expected error for missing track reference")
			}
		})

		t.Run("out of range score fails", func(t *testing.T) {
			rec := NewRecommendation(1, "user1", "track1", ReasonGenre, 0.75)
			rec.SetScore("1.20")
			if err := rec.Validate(); err == nil {
				t.Error("expected error for score above 1.0")
			}
		})

		t.Run("malformed score fails", func(t *testing.T) {
			rec := NewRecommendation(1, "user1", "track1", ReasonGenre, 0.75)
			rec.SetScore("high")
			if err := rec.Validate(); err == nil {
				t.Error("expected error for unparseable score")
			}
			if rec.ScoreValue() != 0 {
				t.Errorf("expected malformed score to read as 0, got %v", rec.ScoreValue())
			}
		})
	})
}
