package game

import (
	"maps"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/desertthunder/guessify/internal/models"
	"github.com/desertthunder/guessify/internal/shared"
)

// Picker returns an index in [0, n). It selects the next free-play track.
type Picker func(n int) int

// RandomPicker picks uniformly at random.
func RandomPicker(n int) int { return rand.IntN(n) }

// Session is the state of one game. The zero value is not usable; see [NewSession].
//
// Sessions are immutable: transitions return a new Session and never modify the receiver,
// so earlier snapshots stay valid.
type Session struct {
	challenge []models.GameResult // nil in free-play
	playlists []models.Playlist

	currentTrack    *models.Track
	currentPlaylist *models.Playlist
	pendingPlaylist *models.Playlist

	played  map[string]struct{}
	ready   bool
	results []models.GameResult // challenge rounds, in play order
	history []models.GameResult // free-play rounds, in play order
	last    *models.GameResult
	err     *Failure

	roundComplete bool
	showResults   bool

	pending     RequestID
	pendingKind EffectKind
	lastRequest RequestID
}

// NewSession creates a session. A nil challenge starts free-play; otherwise the rounds are replayed in order.
func NewSession(challenge []models.GameResult) Session {
	return Session{
		challenge: slices.Clone(challenge),
		played:    map[string]struct{}{},
		ready:     true,
	}
}

// Start performs the initial fetch: the playlist list in free-play, the first challenge track otherwise.
func (s Session) Start() (Session, Effect) {
	if s.IsChallenge() {
		return s.advance()
	}
	return s.issue(FetchPlaylists, "", "")
}

// PlaylistsLoaded applies the response to a [FetchPlaylists] effect.
func (s Session) PlaylistsLoaded(id RequestID, playlists []models.Playlist, err error) Session {
	if !s.accepts(id, FetchPlaylists) {
		return s
	}
	s = s.settle()

	if err != nil {
		s.err = fetchFailure(MsgPlaylistsFailed, err)
		return s
	}

	s.playlists = slices.Clone(playlists)
	return s
}

// SelectPlaylist chooses the playlist to play from.
//
// In challenge mode the track order is fixed, so selecting only arms readiness for the next challenge track.
// In free-play it requests the playlist's tracks; see [Session.TracksLoaded].
func (s Session) SelectPlaylist(p models.Playlist) (Session, Effect) {
	if s.IsChallenge() {
		s.currentPlaylist = &p
		s.ready = true
		s.err = nil
		return s.advance()
	}

	s.pendingPlaylist = &p
	return s.issue(FetchPlaylistTracks, p.ID, "")
}

// TracksLoaded applies the response to a [FetchPlaylistTracks] effect.
//
// A random unplayed track becomes current and is marked played immediately. When every track has been
// played the session reports [shared.ErrNoUnplayedTracks] and the current track is left as it was.
// A nil pick uses [RandomPicker].
func (s Session) TracksLoaded(id RequestID, tracks []models.Track, err error, pick Picker) Session {
	if !s.accepts(id, FetchPlaylistTracks) {
		return s
	}
	playlist := s.pendingPlaylist
	s = s.settle()

	if err != nil {
		s.err = fetchFailure(MsgTracksFailed, err)
		return s
	}
	s.currentPlaylist = playlist

	candidates := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if !s.HasPlayed(t.ID) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		s.err = noUnplayedTracks()
		return s
	}

	if pick == nil {
		pick = RandomPicker
	}
	i := 0
	if len(candidates) > 1 {
		i = min(max(pick(len(candidates)), 0), len(candidates)-1)
	}

	track := candidates[i]
	s.currentTrack = &track
	s.played = withPlayed(s.played, track.ID)
	s.roundComplete = false
	s.last = nil
	s.err = nil
	return s
}

// TrackLoaded applies the response to a [FetchTrack] effect (challenge mode).
func (s Session) TrackLoaded(id RequestID, track *models.Track, err error) Session {
	if !s.accepts(id, FetchTrack) {
		return s
	}
	s = s.settle()

	if err == nil && track == nil {
		err = shared.ErrTrackNotFound
	}
	if err != nil {
		s.err = fetchFailure(MsgChallengeTrackFailed, err)
		return s
	}

	t := *track
	s.currentTrack = &t
	s.ready = false
	s.roundComplete = false
	s.last = nil
	s.err = nil
	return s
}

// CompleteGame records the outcome of the current round.
//
// elapsed comes from the host's round timer and now stamps the result. Nothing happens without a current
// track or when the round was already completed.
func (s Session) CompleteGame(score int, elapsed time.Duration, now time.Time) Session {
	if s.currentTrack == nil || s.roundComplete {
		return s
	}

	result := models.NewGameResult(*s.currentTrack, score, elapsed, now)
	s.played = withPlayed(s.played, result.TrackID)
	s.roundComplete = true
	s.last = &result

	if s.IsChallenge() {
		if len(s.results) < len(s.challenge) {
			s.results = append(slices.Clip(s.results), result)
		}
	} else {
		s.history = append(slices.Clip(s.history), result)
	}

	return s
}

// PlayAgain moves on to the next round: another random unplayed track from the current playlist in free-play,
// the next challenge track (or the results once the sequence is exhausted) in challenge mode.
func (s Session) PlayAgain() (Session, Effect) {
	s.ready = true

	if !s.IsChallenge() {
		if s.currentPlaylist == nil {
			return s, Effect{}
		}
		return s.SelectPlaylist(*s.currentPlaylist)
	}

	return s.advance()
}

// NewGame discards all progress and starts over. Fetched playlists are kept; responses to requests issued
// before the reset are ignored.
func (s Session) NewGame() (Session, Effect) {
	next := NewSession(nil)
	next.challenge = s.challenge
	next.playlists = s.playlists
	next.lastRequest = s.lastRequest
	return next.Start()
}

// advance is the challenge-mode readiness check: fetch the next challenge track, or reveal the results
// once every round has been played. The finished track is dropped while the next one loads.
func (s Session) advance() (Session, Effect) {
	if !s.IsChallenge() || !s.ready || s.showResults {
		return s, Effect{}
	}
	if s.pending != 0 && s.pendingKind == FetchTrack {
		return s, Effect{}
	}

	next := len(s.results)
	if next < len(s.challenge) {
		s.currentTrack = nil
		s.roundComplete = false
		s.last = nil
		return s.issue(FetchTrack, "", s.challenge[next].TrackID)
	}

	s.showResults = true
	s.currentTrack = nil
	s.roundComplete = false
	return s, Effect{}
}

func (s Session) issue(kind EffectKind, playlistID, trackID string) (Session, Effect) {
	s.lastRequest++
	s.pending = s.lastRequest
	s.pendingKind = kind
	return s, Effect{Kind: kind, Request: s.pending, PlaylistID: playlistID, TrackID: trackID}
}

func (s Session) accepts(id RequestID, kind EffectKind) bool {
	return id != 0 && id == s.pending && kind == s.pendingKind
}

func (s Session) settle() Session {
	s.pending = 0
	s.pendingKind = NoEffect
	s.pendingPlaylist = nil
	return s
}

func withPlayed(played map[string]struct{}, id string) map[string]struct{} {
	if _, ok := played[id]; ok {
		return played
	}
	next := maps.Clone(played)
	if next == nil {
		next = map[string]struct{}{}
	}
	next[id] = struct{}{}
	return next
}

// Mode derives the UI mode from the session state.
func (s Session) Mode() Mode {
	switch {
	case s.showResults:
		return ModeShowingResults
	case s.currentTrack != nil:
		return ModePlaying
	case s.pending != 0:
		return ModeLoading
	default:
		return ModeSelecting
	}
}

// IsChallenge reports whether the session replays a challenge.
func (s Session) IsChallenge() bool { return s.challenge != nil }

// Challenge returns a copy of the challenge rounds.
func (s Session) Challenge() []models.GameResult { return slices.Clone(s.challenge) }

// Playlists returns the playlists fetched on start.
func (s Session) Playlists() []models.Playlist { return slices.Clone(s.playlists) }

// CurrentTrack returns the track being played.
func (s Session) CurrentTrack() (models.Track, bool) {
	if s.currentTrack == nil {
		return models.Track{}, false
	}
	return *s.currentTrack, true
}

// CurrentPlaylist returns the selected playlist.
func (s Session) CurrentPlaylist() (models.Playlist, bool) {
	if s.currentPlaylist == nil {
		return models.Playlist{}, false
	}
	return *s.currentPlaylist, true
}

// HasPlayed reports whether trackID is in the played set.
func (s Session) HasPlayed(trackID string) bool {
	_, ok := s.played[trackID]
	return ok
}

// PlayedCount is the size of the played set.
func (s Session) PlayedCount() int { return len(s.played) }

// Ready reports whether the next challenge track may be fetched.
func (s Session) Ready() bool { return s.ready }

// RoundComplete reports whether the current track's round has been scored.
func (s Session) RoundComplete() bool { return s.roundComplete }

// Results returns the player's challenge results in play order.
func (s Session) Results() []models.GameResult { return slices.Clone(s.results) }

// History returns the completed free-play rounds in play order.
func (s Session) History() []models.GameResult { return slices.Clone(s.history) }

// LastResult returns the result of the most recently completed round, if the current round is complete.
func (s Session) LastResult() (models.GameResult, bool) {
	if s.last == nil {
		return models.GameResult{}, false
	}
	return *s.last, true
}

// Err returns the current error as a [*Failure], or nil.
func (s Session) Err() error {
	if s.err == nil {
		return nil
	}
	return s.err
}

// ErrorMessage returns the user-facing error message, or "".
func (s Session) ErrorMessage() string {
	if s.err == nil {
		return ""
	}
	return s.err.Message
}

// Pending returns the outstanding request, or zero.
func (s Session) Pending() RequestID { return s.pending }

// Progress returns the number of completed and total challenge rounds.
func (s Session) Progress() (completed, total int) { return len(s.results), len(s.challenge) }

// Comparisons pairs each challenge round with the player's result at the same position.
func (s Session) Comparisons() []Comparison { return Pair(s.challenge, s.results) }
