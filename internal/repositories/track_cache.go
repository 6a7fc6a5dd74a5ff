package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/guessify/internal/models"
	"github.com/desertthunder/guessify/internal/shared"
)

// CachedTrack is a track row with its cache bookkeeping.
type CachedTrack struct {
	ID        string
	Sequence  int
	Service   string
	Track     models.Track
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TrackCacheRepository stores provider track metadata in the track_cache table.
type TrackCacheRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewTrackCacheRepository creates a new TrackCacheRepository with the given database connection
func NewTrackCacheRepository(db *sql.DB) *TrackCacheRepository {
	return &TrackCacheRepository{db: db, now: time.Now}
}

// Put inserts track for service, or refreshes the metadata of an existing (service, track id) row.
func (r *TrackCacheRepository) Put(service string, track models.Track) error {
	if service == "" || track.ID == "" {
		return fmt.Errorf("%w: service and track id are required", shared.ErrInvalidInput)
	}
	if track.Title == "" {
		return fmt.Errorf("%w: track %s has no title", shared.ErrInvalidInput, track.ID)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := r.now()
	res, err := tx.Exec(`
		UPDATE track_cache
		SET title = ?, artist = ?, album = ?, album_image = ?, preview_url = ?, duration = ?, updated_at = ?
		WHERE service = ? AND service_id = ?
	`, track.Title, track.Artist, track.Album, track.AlbumImage, track.PreviewURL, track.Duration, now, service, track.ID)
	if err != nil {
		return fmt.Errorf("failed to update cached track: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		sequence, err := nextSequence(tx, "track_cache")
		if err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO track_cache (id, sequence, service, service_id, title, artist, album, album_image, preview_url, duration, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, shared.GenerateID(), sequence, service, track.ID, track.Title, track.Artist, track.Album, track.AlbumImage, track.PreviewURL, track.Duration, now, now)
		if err != nil {
			return fmt.Errorf("failed to insert cached track: %w", err)
		}
	}

	return tx.Commit()
}

// Get retrieves the cached track for service and track id.
//
// Returns [shared.ErrTrackNotFound] when the track is not cached.
func (r *TrackCacheRepository) Get(service, trackID string) (*CachedTrack, error) {
	row := r.db.QueryRow(`
		SELECT id, sequence, service, service_id, title, artist, album, album_image, preview_url, duration, created_at, updated_at
		FROM track_cache
		WHERE service = ? AND service_id = ?
	`, service, trackID)

	var c CachedTrack
	err := row.Scan(
		&c.ID, &c.Sequence, &c.Service,
		&c.Track.ID, &c.Track.Title, &c.Track.Artist, &c.Track.Album, &c.Track.AlbumImage, &c.Track.PreviewURL, &c.Track.Duration,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrTrackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan cached track: %w", err)
	}

	return &c, nil
}

// Count returns the number of cached tracks per service.
func (r *TrackCacheRepository) Count() (map[string]int, error) {
	rows, err := r.db.Query("SELECT service, COUNT(*) FROM track_cache GROUP BY service")
	if err != nil {
		return nil, fmt.Errorf("failed to count cached tracks: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var service string
		var n int
		if err := rows.Scan(&service, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[service] = n
	}

	return counts, rows.Err()
}

// Clear removes every cached track of service, or of all services when service is empty.
// Returns the number of deleted rows.
func (r *TrackCacheRepository) Clear(service string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if service == "" {
		res, err = r.db.Exec("DELETE FROM track_cache")
	} else {
		res, err = r.db.Exec("DELETE FROM track_cache WHERE service = ?", service)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to clear track cache: %w", err)
	}

	return res.RowsAffected()
}

// TrackCacheAdapter implements services.TrackStore using TrackCacheRepository for a single service.
type TrackCacheAdapter struct {
	repo    *TrackCacheRepository
	service string
}

// NewTrackCacheAdapter creates a new TrackCacheAdapter bound to service
func NewTrackCacheAdapter(repo *TrackCacheRepository, service string) *TrackCacheAdapter {
	return &TrackCacheAdapter{repo: repo, service: service}
}

func (a *TrackCacheAdapter) GetTrack(trackID string) (*models.Track, error) {
	cached, err := a.repo.Get(a.service, trackID)
	if err != nil {
		return nil, err
	}
	return &cached.Track, nil
}

func (a *TrackCacheAdapter) PutTrack(track models.Track) error {
	return a.repo.Put(a.service, track)
}
