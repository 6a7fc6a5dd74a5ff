// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"sync"

	"github.com/desertthunder/guessify/internal/models"
	"github.com/desertthunder/guessify/internal/shared"
)

// MockService is a test double for [services.Service].
//
// Tracks are served from Playlists/Tracks maps; the *Err fields force failures. Calls are counted per method.
type MockService struct {
	mu sync.Mutex

	Playlists      []models.Playlist
	PlaylistTracks map[string][]models.Track
	Tracks         map[string]models.Track

	PlaylistsErr error
	TracksErr    error
	TrackErr     error

	calls map[string]int
}

// NewMockService creates a MockService whose single-track lookups are backed by every track in playlistTracks.
func NewMockService(playlists []models.Playlist, playlistTracks map[string][]models.Track) *MockService {
	m := &MockService{
		Playlists:      playlists,
		PlaylistTracks: playlistTracks,
		Tracks:         map[string]models.Track{},
	}
	for _, tracks := range playlistTracks {
		for _, t := range tracks {
			m.Tracks[t.ID] = t
		}
	}
	return m
}

func (m *MockService) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[name]++
}

// Calls returns how many times the named method was invoked.
func (m *MockService) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *MockService) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	m.record("GetPlaylists")
	if m.PlaylistsErr != nil {
		return nil, m.PlaylistsErr
	}
	return m.Playlists, nil
}

func (m *MockService) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	m.record("GetPlaylistTracks")
	if m.TracksErr != nil {
		return nil, m.TracksErr
	}
	tracks, ok := m.PlaylistTracks[playlistID]
	if !ok {
		return nil, shared.ErrPlaylistNotFound
	}
	return tracks, nil
}

func (m *MockService) GetTrack(ctx context.Context, trackID string) (*models.Track, error) {
	m.record("GetTrack")
	if m.TrackErr != nil {
		return nil, m.TrackErr
	}
	track, ok := m.Tracks[trackID]
	if !ok {
		return nil, shared.ErrTrackNotFound
	}
	return &track, nil
}

func (m *MockService) Name() string { return "mock" }

// MockStore is an in-memory [services.TrackStore].
type MockStore struct {
	Items  map[string]models.Track
	PutErr error
	Puts   int
}

func NewMockStore() *MockStore {
	return &MockStore{Items: map[string]models.Track{}}
}

func (s *MockStore) GetTrack(trackID string) (*models.Track, error) {
	t, ok := s.Items[trackID]
	if !ok {
		return nil, shared.ErrTrackNotFound
	}
	return &t, nil
}

func (s *MockStore) PutTrack(track models.Track) error {
	s.Puts++
	if s.PutErr != nil {
		return s.PutErr
	}
	s.Items[track.ID] = track
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}
