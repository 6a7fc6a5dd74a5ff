package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/guessify/internal/models"
	"github.com/desertthunder/guessify/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "track_cache")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	if _, err := NextSequence(db, "missing"); err == nil {
		t.Error("expected error for table without sequence")
	}
}

func TestTrackCacheRepository(t *testing.T) {
	track := models.Track{
		ID:         "t1",
		Title:      "Song",
		Artist:     "Band",
		Album:      "LP",
		AlbumImage: "https://img/1",
		PreviewURL: "https://preview/1",
		Duration:   200,
	}

	t.Run("Put and Get", func(t *testing.T) {
		repo := NewTrackCacheRepository(setupTestDB(t))

		if err := repo.Put("Spotify", track); err != nil {
			t.Fatalf("failed to put track: %v", err)
		}

		cached, err := repo.Get("Spotify", "t1")
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}

		if cached.Track != track {
			t.Errorf("expected %+v, got %+v", track, cached.Track)
		}
		if cached.ID == "" || cached.Sequence != 1 {
			t.Errorf("expected generated id and sequence 1, got %q/%d", cached.ID, cached.Sequence)
		}
	})

	t.Run("Put upserts", func(t *testing.T) {
		repo := NewTrackCacheRepository(setupTestDB(t))
		created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		repo.now = func() time.Time { return created }

		if err := repo.Put("Spotify", track); err != nil {
			t.Fatalf("failed to put track: %v", err)
		}

		updated := track
		updated.Title = "Song (Remastered)"
		repo.now = func() time.Time { return created.Add(time.Hour) }
		if err := repo.Put("Spotify", updated); err != nil {
			t.Fatalf("failed to upsert track: %v", err)
		}

		cached, err := repo.Get("Spotify", "t1")
		if err != nil {
			t.Fatalf("failed to get track: %v", err)
		}
		if cached.Track.Title != "Song (Remastered)" {
			t.Errorf("expected refreshed title, got %s", cached.Track.Title)
		}
		if cached.Sequence != 1 {
			t.Errorf("upsert should keep the original sequence, got %d", cached.Sequence)
		}
		if !cached.UpdatedAt.After(cached.CreatedAt) {
			t.Errorf("expected updated_at after created_at, got %v / %v", cached.UpdatedAt, cached.CreatedAt)
		}

		counts, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count: %v", err)
		}
		if counts["Spotify"] != 1 {
			t.Errorf("expected 1 row, got %d", counts["Spotify"])
		}
	})

	t.Run("Put validates input", func(t *testing.T) {
		repo := NewTrackCacheRepository(setupTestDB(t))

		tc := []struct {
			name    string
			service string
			track   models.Track
		}{
			{"empty service", "", track},
			{"empty id", "Spotify", models.Track{Title: "x"}},
			{"empty title", "Spotify", models.Track{ID: "x"}},
		}
		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if err := repo.Put(tt.service, tt.track); !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			})
		}
	})

	t.Run("Get missing", func(t *testing.T) {
		repo := NewTrackCacheRepository(setupTestDB(t))

		if _, err := repo.Get("Spotify", "nope"); !errors.Is(err, shared.ErrTrackNotFound) {
			t.Errorf("expected ErrTrackNotFound, got %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewTrackCacheRepository(setupTestDB(t))

		other := track
		other.ID = "t2"
		for _, put := range []struct {
			service string
			track   models.Track
		}{{"Spotify", track}, {"Spotify", other}, {"mock", track}} {
			if err := repo.Put(put.service, put.track); err != nil {
				t.Fatalf("failed to put track: %v", err)
			}
		}

		n, err := repo.Clear("Spotify")
		if err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if n != 2 {
			t.Errorf("expected 2 deleted rows, got %d", n)
		}

		counts, _ := repo.Count()
		if counts["mock"] != 1 || counts["Spotify"] != 0 {
			t.Errorf("unexpected counts after clear: %v", counts)
		}

		if n, _ := repo.Clear(""); n != 1 {
			t.Errorf("expected 1 deleted row, got %d", n)
		}
	})
}

func TestTrackCacheAdapter(t *testing.T) {
	repo := NewTrackCacheRepository(setupTestDB(t))
	spotify := NewTrackCacheAdapter(repo, "Spotify")
	mock := NewTrackCacheAdapter(repo, "mock")

	if err := spotify.PutTrack(models.Track{ID: "t1", Title: "Song"}); err != nil {
		t.Fatalf("failed to put track: %v", err)
	}

	got, err := spotify.GetTrack("t1")
	if err != nil {
		t.Fatalf("failed to get track: %v", err)
	}
	if got.Title != "Song" {
		t.Errorf("expected Song, got %s", got.Title)
	}

	if _, err := mock.GetTrack("t1"); !errors.Is(err, shared.ErrTrackNotFound) {
		t.Errorf("adapters should be scoped by service, got %v", err)
	}
}
