package main

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/encorefm/encore/internal/models"
	"github.com/encorefm/encore/internal/shared"
	tu "github.com/encorefm/encore/internal/testing"
	"github.com/urfave/cli/v3"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// newTestRunner builds a Runner over an in-memory database, returning the
// runner, its output buffer, and the app command tree.
func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer, *cli.Command) {
	t.Helper()

	db := setupTestDB(t)
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		DB:     db,
		Output: output,
	})

	app := &cli.Command{
		Name:     "encore",
		Commands: runner.register(),
	}

	return runner, output, app
}

// seedCatalog creates a listener with Rock uploads plus another user whose
// tracks are generation candidates.
func seedCatalog(t *testing.T, r *Runner) (listener *models.User) {
	t.Helper()

	listener = models.NewUser(0, "listener@example.com", "Listener")
	if err := r.users.Create(listener); err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}
	uploader := models.NewUser(0, "uploader@example.com", "Uploader")
	if err := r.users.Create(uploader); err != nil {
		t.Fatalf("failed to create uploader: %v", err)
	}

	mine := models.NewTrack(0, "My Rock Song", "My Band", listener.ID())
	mine.SetGenre("Rock")
	if err := r.tracks.Create(mine); err != nil {
		t.Fatalf("failed to create upload: %v", err)
	}

	for _, title := range []string{"Candidate One", "Candidate Two"} {
		track := models.NewTrack(0, title, "Other Band", uploader.ID())
		track.SetGenre("Rock")
		track.SetPlayCount(10)
		track.SetCreatedAt(time.Now().AddDate(0, 0, -2))
		if err := r.tracks.Create(track); err != nil {
			t.Fatalf("failed to create candidate: %v", err)
		}
	}

	return listener
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			db := setupTestDB(t)

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
				DB:     db,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.db != db {
				t.Error("expected db to be set")
			}
			if runner.engine == nil || runner.users == nil || runner.tracks == nil || runner.recs == nil {
				t.Error("expected repositories and engine wired from db")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("without db defers wiring", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.engine != nil {
				t.Error("expected engine unwired until connect")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes compact JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("writeJSON failed: %v", err)
			}
			if output.String() != "{\"key\":\"value\"}\n" {
				t.Errorf("unexpected output: %q", output.String())
			}
		})

		t.Run("writes pretty JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("writeJSON failed: %v", err)
			}
			if !strings.Contains(output.String(), "  \"key\": \"value\"") {
				t.Errorf("expected indented output, got %q", output.String())
			}
		})

		t.Run("propagates writer failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlain("hello %s\n", "world"); err != nil {
			t.Fatalf("writePlain failed: %v", err)
		}
		if output.String() != "hello world\n" {
			t.Errorf("unexpected output: %q", output.String())
		}
	})
}

func TestCommands(t *testing.T) {
	ctx := context.Background()

	t.Run("generate then list then like", func(t *testing.T) {
		runner, output, app := newTestRunner(t)
		listener := seedCatalog(t, runner)

		if err := app.Run(ctx, []string{"encore", "generate", "--user-id", listener.ID()}); err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if !strings.Contains(output.String(), "Generation Complete!") {
			t.Errorf("expected completion banner, got %q", output.String())
		}

		output.Reset()
		if err := app.Run(ctx, []string{"encore", "recommendations", "list", "--user-id", listener.ID()}); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(output.String(), "Candidate One") {
			t.Errorf("expected candidate in listing, got %q", output.String())
		}
		if !strings.Contains(output.String(), "Based on your favorite genres") {
			t.Errorf("expected reason text in listing, got %q", output.String())
		}

		recs, err := runner.recs.List(map[string]any{"user_id": listener.ID()})
		if err != nil {
			t.Fatalf("failed to read stored recommendations: %v", err)
		}
		if len(recs) == 0 {
			t.Fatal("expected stored recommendations")
		}

		output.Reset()
		if err := app.Run(ctx, []string{"encore", "recommendations", "like",
			"--id", recs[0].ID(), "--user-id", listener.ID()}); err != nil {
			t.Fatalf("like failed: %v", err)
		}
		if !strings.Contains(output.String(), "✓ Liked") {
			t.Errorf("expected like confirmation, got %q", output.String())
		}

		liked, err := runner.recs.Get(recs[0].ID())
		if err != nil {
			t.Fatalf("failed to reload recommendation: %v", err)
		}
		if !liked.Liked() || !liked.Viewed() {
			t.Error("expected liked and viewed flags persisted")
		}
	})

	t.Run("generate dry run persists nothing", func(t *testing.T) {
		runner, output, app := newTestRunner(t)
		listener := seedCatalog(t, runner)

		if err := app.Run(ctx, []string{"encore", "generate", "--user-id", listener.ID(), "--dry-run"}); err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if !strings.Contains(output.String(), "Dry run") {
			t.Errorf("expected dry run notice, got %q", output.String())
		}

		recs, err := runner.recs.List(map[string]any{"user_id": listener.ID()})
		if err != nil {
			t.Fatalf("failed to read stored recommendations: %v", err)
		}
		if len(recs) != 0 {
			t.Errorf("expected nothing persisted, got %d", len(recs))
		}
	})

	t.Run("generate unknown user fails", func(t *testing.T) {
		_, _, app := newTestRunner(t)

		if err := app.Run(ctx, []string{"encore", "generate", "--user-id", "missing"}); err == nil {
			t.Error("expected error for unknown user")
		}
	})

	t.Run("like unknown recommendation is a no-op", func(t *testing.T) {
		runner, output, app := newTestRunner(t)
		listener := seedCatalog(t, runner)

		if err := app.Run(ctx, []string{"encore", "recommendations", "like",
			"--id", "missing", "--user-id", listener.ID()}); err != nil {
			t.Fatalf("like failed: %v", err)
		}
		if !strings.Contains(output.String(), "nothing to do") {
			t.Errorf("expected no-op message, got %q", output.String())
		}
	})

	t.Run("list rejects unknown reason", func(t *testing.T) {
		runner, _, app := newTestRunner(t)
		listener := seedCatalog(t, runner)

		err := app.Run(ctx, []string{"encore", "recommendations", "list",
			"--user-id", listener.ID(), "--reason", "collaborative"})
		if err == nil {
			t.Error("expected error for unknown reason")
		}
	})

	t.Run("count reports unviewed", func(t *testing.T) {
		runner, output, app := newTestRunner(t)
		listener := seedCatalog(t, runner)

		if err := app.Run(ctx, []string{"encore", "generate", "--user-id", listener.ID()}); err != nil {
			t.Fatalf("generate failed: %v", err)
		}

		output.Reset()
		if err := app.Run(ctx, []string{"encore", "recommendations", "count",
			"--user-id", listener.ID(), "--json"}); err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if !strings.Contains(output.String(), "\"count\":") {
			t.Errorf("expected JSON count, got %q", output.String())
		}
	})

	t.Run("cleanup sweeps backdated recommendations", func(t *testing.T) {
		runner, output, app := newTestRunner(t)
		listener := seedCatalog(t, runner)

		if err := app.Run(ctx, []string{"encore", "generate", "--user-id", listener.ID()}); err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if _, err := runner.db.Exec("UPDATE recommendations SET created_at = ?",
			time.Now().AddDate(0, 0, -40)); err != nil {
			t.Fatalf("backdate failed: %v", err)
		}

		output.Reset()
		if err := app.Run(ctx, []string{"encore", "cleanup"}); err != nil {
			t.Fatalf("cleanup failed: %v", err)
		}
		if !strings.Contains(output.String(), "older than 30 days") {
			t.Errorf("expected cleanup summary, got %q", output.String())
		}

		recs, err := runner.recs.List(map[string]any{"user_id": listener.ID()})
		if err != nil {
			t.Fatalf("failed to read stored recommendations: %v", err)
		}
		if len(recs) != 0 {
			t.Errorf("expected all recommendations swept, got %d", len(recs))
		}
	})

	t.Run("catalog list shows seeded tracks", func(t *testing.T) {
		runner, output, app := newTestRunner(t)
		seedCatalog(t, runner)

		if err := app.Run(ctx, []string{"encore", "catalog", "list"}); err != nil {
			t.Fatalf("catalog list failed: %v", err)
		}
		if !strings.Contains(output.String(), "Candidate One") {
			t.Errorf("expected track in listing, got %q", output.String())
		}
	})
}

func TestCatalogImport(t *testing.T) {
	ctx := context.Background()

	t.Run("imports users and tracks from seed file", func(t *testing.T) {
		runner, output, app := newTestRunner(t)

		seed := `{
  "users": [
    {"email": "ada@example.com", "name": "Ada"}
  ],
  "tracks": [
    {"title": "Song One", "artist": "Artist", "genre": "Rock", "duration": 200, "play_count": 4, "uploaded_by_email": "ada@example.com"}
  ]
}`
		path := t.TempDir() + "/seed.json"
		if err := os.WriteFile(path, []byte(seed), 0644); err != nil {
			t.Fatalf("failed to write seed file: %v", err)
		}

		if err := app.Run(ctx, []string{"encore", "catalog", "import", "--file", path}); err != nil {
			t.Fatalf("import failed: %v", err)
		}
		if !strings.Contains(output.String(), "Imported 1 users (1 new) and 1 tracks") {
			t.Errorf("expected import summary, got %q", output.String())
		}

		user, err := runner.users.GetByEmail("ada@example.com")
		if err != nil {
			t.Fatalf("expected user created: %v", err)
		}
		uploads, err := runner.tracks.ListByUploader(user.ID())
		if err != nil {
			t.Fatalf("failed to list uploads: %v", err)
		}
		if len(uploads) != 1 || uploads[0].Title() != "Song One" {
			t.Errorf("expected imported track, got %d uploads", len(uploads))
		}
	})

	t.Run("reimport reuses existing users", func(t *testing.T) {
		runner, output, app := newTestRunner(t)

		seed := `{"users": [{"email": "ada@example.com", "name": "Ada"}], "tracks": []}`
		path := t.TempDir() + "/seed.json"
		if err := os.WriteFile(path, []byte(seed), 0644); err != nil {
			t.Fatalf("failed to write seed file: %v", err)
		}

		for i := 0; i < 2; i++ {
			if err := app.Run(ctx, []string{"encore", "catalog", "import", "--file", path}); err != nil {
				t.Fatalf("import %d failed: %v", i, err)
			}
		}

		users, err := runner.users.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(users) != 1 {
			t.Errorf("expected 1 user after reimport, got %d", len(users))
		}
		if !strings.Contains(output.String(), "(0 new)") {
			t.Errorf("expected second import to report no new users, got %q", output.String())
		}
	})

	t.Run("unknown uploader fails", func(t *testing.T) {
		_, _, app := newTestRunner(t)

		seed := `{"users": [], "tracks": [{"title": "Orphan", "artist": "A", "uploaded_by_email": "nobody@example.com"}]}`
		path := t.TempDir() + "/seed.json"
		if err := os.WriteFile(path, []byte(seed), 0644); err != nil {
			t.Fatalf("failed to write seed file: %v", err)
		}

		if err := app.Run(ctx, []string{"encore", "catalog", "import", "--file", path}); err == nil {
			t.Error("expected error for unknown uploader")
		}
	})
}
