package services

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/guessify/internal/models"
	"github.com/desertthunder/guessify/internal/shared"
)

var _ Service = (*CachedService)(nil)

// CachedService wraps a [Service] with a read-through [TrackStore].
//
// Store errors never fail a request: they are logged and the upstream service is used instead.
type CachedService struct {
	upstream Service
	store    TrackStore
	logger   *log.Logger
}

// NewCachedService creates a CachedService. A nil logger discards cache warnings.
func NewCachedService(upstream Service, store TrackStore, logger *log.Logger) *CachedService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CachedService{upstream: upstream, store: store, logger: logger}
}

func (c *CachedService) Name() string { return c.upstream.Name() }

// GetPlaylists is not cached; playlists change between sessions.
func (c *CachedService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return c.upstream.GetPlaylists(ctx)
}

// GetPlaylistTracks fetches from upstream and writes every track through to the store.
func (c *CachedService) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	tracks, err := c.upstream.GetPlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	for _, t := range tracks {
		if err := c.store.PutTrack(t); err != nil {
			c.logger.Warn("failed to cache track", "track", t.ID, "error", err)
		}
	}

	return tracks, nil
}

// GetTrack serves from the store when possible and caches upstream hits.
func (c *CachedService) GetTrack(ctx context.Context, trackID string) (*models.Track, error) {
	if cached, err := c.store.GetTrack(trackID); err == nil && cached != nil {
		c.logger.Debug("track cache hit", "track", trackID)
		return cached, nil
	}

	track, err := c.upstream.GetTrack(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if track == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, trackID)
	}

	if err := c.store.PutTrack(*track); err != nil {
		c.logger.Warn("failed to cache track", "track", track.ID, "error", err)
	}

	return track, nil
}
