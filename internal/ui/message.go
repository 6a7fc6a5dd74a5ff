package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/guessify/internal/game"
	"github.com/desertthunder/guessify/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistsFetched MsgKind = iota
	MsgTracksFetched
	MsgTrackFetched
	MsgPreviewOpened
)

type playlistsFetched struct {
	request   game.RequestID
	playlists []models.Playlist
	err       error
}

type tracksFetched struct {
	request game.RequestID
	tracks  []models.Track
	err     error
}

type trackFetched struct {
	request game.RequestID
	track   *models.Track
	err     error
}

// playlistsFetchedMsg is the constructor for [MsgPlaylistsFetched]
func playlistsFetchedMsg(request game.RequestID, playlists []models.Playlist, err error) Msg {
	return Msg{kind: MsgPlaylistsFetched, data: playlistsFetched{request, playlists, err}}
}

// tracksFetchedMsg is the constructor for [MsgTracksFetched]
func tracksFetchedMsg(request game.RequestID, tracks []models.Track, err error) Msg {
	return Msg{kind: MsgTracksFetched, data: tracksFetched{request, tracks, err}}
}

// trackFetchedMsg is the constructor for [MsgTrackFetched]
func trackFetchedMsg(request game.RequestID, track *models.Track, err error) Msg {
	return Msg{kind: MsgTrackFetched, data: trackFetched{request, track, err}}
}

// previewOpenedMsg is the constructor for [MsgPreviewOpened]
func previewOpenedMsg(err error) Msg {
	return Msg{kind: MsgPreviewOpened, data: err}
}
