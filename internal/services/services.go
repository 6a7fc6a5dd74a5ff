// package services defines interface Service for the track provider
package services

import (
	"context"

	"github.com/desertthunder/guessify/internal/models"
)

// Service defines the track provider consumed by the game session.
type Service interface {
	// GetPlaylists retrieves all playlists for the authenticated user.
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)

	// GetPlaylistTracks retrieves every playable track of a playlist, in playlist order.
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// GetTrack retrieves a single track by ID.
	GetTrack(ctx context.Context, trackID string) (*models.Track, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// TrackStore persists track metadata for a single service.
type TrackStore interface {
	GetTrack(trackID string) (*models.Track, error)
	PutTrack(track models.Track) error
}
