package game

// Mode is the derived UI mode of a [Session].
type Mode int

const (
	ModeLoading Mode = iota
	ModeSelecting
	ModePlaying
	ModeShowingResults
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeSelecting:
		return "selecting"
	case ModePlaying:
		return "playing"
	case ModeShowingResults:
		return "results"
	default:
		return "unknown"
	}
}

// RequestID identifies one fetch issued by a [Session]. Zero means no request.
type RequestID uint64

// EffectKind enumerates the fetches a [Session] can ask its host to perform.
type EffectKind int

const (
	NoEffect EffectKind = iota
	FetchPlaylists
	FetchPlaylistTracks
	FetchTrack
)

func (k EffectKind) String() string {
	switch k {
	case FetchPlaylists:
		return "fetch-playlists"
	case FetchPlaylistTracks:
		return "fetch-playlist-tracks"
	case FetchTrack:
		return "fetch-track"
	default:
		return "none"
	}
}

// Effect is a fetch the host must perform and report back with the same Request.
type Effect struct {
	Kind       EffectKind
	Request    RequestID
	PlaylistID string // FetchPlaylistTracks
	TrackID    string // FetchTrack
}

// None reports whether there is nothing to do.
func (e Effect) None() bool { return e.Kind == NoEffect }
