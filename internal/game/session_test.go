package game

import (
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/guessify/internal/models"
	"github.com/desertthunder/guessify/internal/shared"
)

var (
	now       = time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	errRemote = errors.New("remote exploded")
	rock      = models.Playlist{ID: "pl-rock", Name: "Rock", TrackCount: 3}
	jazz      = models.Playlist{ID: "pl-jazz", Name: "Jazz", TrackCount: 1}
)

func firstPick(int) int { return 0 }

func testTracks(ids ...string) []models.Track {
	tracks := make([]models.Track, len(ids))
	for i, id := range ids {
		tracks[i] = models.Track{ID: id, Title: "Song " + id, Artist: "Artist " + id, AlbumImage: "https://img/" + id}
	}
	return tracks
}

func testChallenge(ids ...string) []models.GameResult {
	rounds := make([]models.GameResult, len(ids))
	for i, id := range ids {
		rounds[i] = models.GameResult{TrackID: id, TrackName: "Song " + id, ArtistName: "Artist " + id, Score: 80 - 10*i, Time: 4.5}
	}
	return rounds
}

func startFreePlay(t *testing.T) Session {
	t.Helper()

	s, eff := NewSession(nil).Start()
	if eff.Kind != FetchPlaylists {
		t.Fatalf("expected %v effect, got %v", FetchPlaylists, eff.Kind)
	}
	if s.Mode() != ModeLoading {
		t.Fatalf("expected loading mode, got %v", s.Mode())
	}
	return s.PlaylistsLoaded(eff.Request, []models.Playlist{rock, jazz}, nil)
}

func choose(t *testing.T, s Session, p models.Playlist, tracks []models.Track) Session {
	t.Helper()

	s, eff := s.SelectPlaylist(p)
	if eff.Kind != FetchPlaylistTracks || eff.PlaylistID != p.ID {
		t.Fatalf("expected tracks fetch for %s, got %+v", p.ID, eff)
	}
	return s.TracksLoaded(eff.Request, tracks, nil, firstPick)
}

func currentID(t *testing.T, s Session) string {
	t.Helper()
	track, ok := s.CurrentTrack()
	if !ok {
		t.Fatal("expected a current track")
	}
	return track.ID
}

func TestSession_FreePlayStart(t *testing.T) {
	t.Run("loads playlists", func(t *testing.T) {
		s := startFreePlay(t)

		if s.Mode() != ModeSelecting {
			t.Errorf("expected selecting mode, got %v", s.Mode())
		}
		if got := len(s.Playlists()); got != 2 {
			t.Errorf("expected 2 playlists, got %d", got)
		}
		if s.IsChallenge() {
			t.Error("free-play session reports challenge mode")
		}
	})

	t.Run("playlist failure", func(t *testing.T) {
		s, eff := NewSession(nil).Start()
		s = s.PlaylistsLoaded(eff.Request, nil, errRemote)

		if s.ErrorMessage() != MsgPlaylistsFailed {
			t.Errorf("unexpected message %q", s.ErrorMessage())
		}
		if !errors.Is(s.Err(), shared.ErrFetchFailure) {
			t.Errorf("expected fetch failure, got %v", s.Err())
		}
		if !errors.Is(s.Err(), errRemote) {
			t.Errorf("expected cause to be preserved, got %v", s.Err())
		}
		if s.Mode() != ModeSelecting {
			t.Errorf("expected selecting mode, got %v", s.Mode())
		}
	})
}

func TestSession_SelectPlaylist(t *testing.T) {
	t.Run("picks an unplayed track and marks it played", func(t *testing.T) {
		s := startFreePlay(t)
		s = choose(t, s, rock, testTracks("a", "b", "c"))

		if s.Mode() != ModePlaying {
			t.Fatalf("expected playing mode, got %v", s.Mode())
		}
		if id := currentID(t, s); id != "a" {
			t.Errorf("expected track a, got %s", id)
		}
		if !s.HasPlayed("a") {
			t.Error("selected track should be marked played before the round completes")
		}
		if p, ok := s.CurrentPlaylist(); !ok || p.ID != rock.ID {
			t.Errorf("expected current playlist %s, got %+v", rock.ID, p)
		}
		if s.Err() != nil {
			t.Errorf("unexpected error %v", s.Err())
		}
	})

	t.Run("uses the picker over the unplayed candidates", func(t *testing.T) {
		s := startFreePlay(t)
		s, eff := s.SelectPlaylist(rock)

		var offered int
		s = s.TracksLoaded(eff.Request, testTracks("a", "b", "c"), nil, func(n int) int {
			offered = n
			return 2
		})
		if offered != 3 {
			t.Errorf("expected picker over 3 candidates, got %d", offered)
		}
		if id := currentID(t, s); id != "c" {
			t.Errorf("expected track c, got %s", id)
		}
	})

	t.Run("out of range picks are clamped", func(t *testing.T) {
		s := startFreePlay(t)
		s, eff := s.SelectPlaylist(rock)
		s = s.TracksLoaded(eff.Request, testTracks("a", "b"), nil, func(int) int { return 9 })

		if id := currentID(t, s); id != "b" {
			t.Errorf("expected track b, got %s", id)
		}
	})

	t.Run("never repeats a played track", func(t *testing.T) {
		s := startFreePlay(t)
		tracks := testTracks("a", "b", "c")

		var seen []string
		for range 3 {
			s = choose(t, s, rock, tracks)
			seen = append(seen, currentID(t, s))
			s = s.CompleteGame(50, time.Second, now)
		}

		if seen[0] != "a" || seen[1] != "b" || seen[2] != "c" {
			t.Errorf("expected a, b, c, got %v", seen)
		}
		if s.PlayedCount() != 3 {
			t.Errorf("expected 3 played tracks, got %d", s.PlayedCount())
		}
	})

	t.Run("no unplayed tracks left", func(t *testing.T) {
		s := startFreePlay(t)
		s = choose(t, s, rock, testTracks("a"))
		s = s.CompleteGame(90, time.Second, now)
		s = choose(t, s, rock, testTracks("a"))

		if !errors.Is(s.Err(), shared.ErrNoUnplayedTracks) {
			t.Fatalf("expected no unplayed tracks, got %v", s.Err())
		}
		if s.ErrorMessage() != MsgNoUnplayedTracks {
			t.Errorf("unexpected message %q", s.ErrorMessage())
		}
		if id := currentID(t, s); id != "a" {
			t.Errorf("current track should be unchanged, got %s", id)
		}
		if !s.RoundComplete() {
			t.Error("round state should be unchanged")
		}
	})

	t.Run("empty playlist", func(t *testing.T) {
		s := startFreePlay(t)
		s = choose(t, s, jazz, nil)

		if !errors.Is(s.Err(), shared.ErrNoUnplayedTracks) {
			t.Errorf("expected no unplayed tracks, got %v", s.Err())
		}
		if _, ok := s.CurrentTrack(); ok {
			t.Error("expected no current track")
		}
	})

	t.Run("failed fetch keeps track and playlist", func(t *testing.T) {
		s := startFreePlay(t)
		s = choose(t, s, rock, testTracks("a", "b"))

		s, eff := s.SelectPlaylist(jazz)
		s = s.TracksLoaded(eff.Request, nil, errRemote, firstPick)

		if s.ErrorMessage() != MsgTracksFailed {
			t.Errorf("unexpected message %q", s.ErrorMessage())
		}
		if id := currentID(t, s); id != "a" {
			t.Errorf("current track changed to %s", id)
		}
		if p, _ := s.CurrentPlaylist(); p.ID != rock.ID {
			t.Errorf("current playlist changed to %s", p.ID)
		}
	})

	t.Run("successful selection clears the error", func(t *testing.T) {
		s, eff := NewSession(nil).Start()
		s = s.PlaylistsLoaded(eff.Request, nil, errRemote)
		s = choose(t, s, rock, testTracks("a"))

		if s.Err() != nil {
			t.Errorf("expected error to be cleared, got %v", s.Err())
		}
	})
}

func TestSession_StaleResponses(t *testing.T) {
	t.Run("older selection loses", func(t *testing.T) {
		s := startFreePlay(t)
		s, first := s.SelectPlaylist(rock)
		s, second := s.SelectPlaylist(jazz)

		s = s.TracksLoaded(first.Request, testTracks("a"), nil, firstPick)
		if _, ok := s.CurrentTrack(); ok {
			t.Fatal("stale response was applied")
		}
		if s.Mode() != ModeLoading {
			t.Errorf("expected loading mode, got %v", s.Mode())
		}

		s = s.TracksLoaded(second.Request, testTracks("z"), nil, firstPick)
		if id := currentID(t, s); id != "z" {
			t.Errorf("expected track z, got %s", id)
		}
		if p, _ := s.CurrentPlaylist(); p.ID != jazz.ID {
			t.Errorf("expected jazz playlist, got %s", p.ID)
		}
	})

	t.Run("responses after new game are dropped", func(t *testing.T) {
		s := startFreePlay(t)
		s, eff := s.SelectPlaylist(rock)
		s, _ = s.NewGame()

		s = s.TracksLoaded(eff.Request, testTracks("a"), nil, firstPick)
		if _, ok := s.CurrentTrack(); ok {
			t.Error("response from before the reset was applied")
		}
		if s.HasPlayed("a") {
			t.Error("stale track was marked played")
		}
	})

	t.Run("mismatched kind is dropped", func(t *testing.T) {
		s, eff := NewSession(nil).Start()
		s = s.TracksLoaded(eff.Request, testTracks("a"), nil, firstPick)

		if _, ok := s.CurrentTrack(); ok {
			t.Error("tracks applied against a playlists request")
		}
		if s.Pending() != eff.Request {
			t.Error("pending request should remain outstanding")
		}
	})

	t.Run("duplicate delivery is applied once", func(t *testing.T) {
		s := startFreePlay(t)
		s, eff := s.SelectPlaylist(rock)
		s = s.TracksLoaded(eff.Request, testTracks("a", "b"), nil, firstPick)
		s = s.TracksLoaded(eff.Request, testTracks("a", "b"), nil, func(int) int { return 1 })

		if id := currentID(t, s); id != "a" {
			t.Errorf("expected track a, got %s", id)
		}
		if s.PlayedCount() != 1 {
			t.Errorf("expected 1 played track, got %d", s.PlayedCount())
		}
	})
}

func TestSession_CompleteGame(t *testing.T) {
	t.Run("records a free-play round", func(t *testing.T) {
		s := startFreePlay(t)
		s = choose(t, s, rock, testTracks("a"))
		s = s.CompleteGame(85, 3140*time.Millisecond, now)

		history := s.History()
		if len(history) != 1 {
			t.Fatalf("expected 1 history entry, got %d", len(history))
		}
		want := models.GameResult{
			TrackID:    "a",
			TrackName:  "Song a",
			ArtistName: "Artist a",
			AlbumImage: "https://img/a",
			Score:      85,
			Time:       3.1,
			Timestamp:  now.UnixMilli(),
		}
		if history[0] != want {
			t.Errorf("got %+v, want %+v", history[0], want)
		}
		if last, ok := s.LastResult(); !ok || last != want {
			t.Errorf("unexpected last result %+v", last)
		}
		if len(s.Results()) != 0 {
			t.Error("free-play must not record challenge results")
		}
	})

	t.Run("second completion is ignored", func(t *testing.T) {
		s := startFreePlay(t)
		s = choose(t, s, rock, testTracks("a"))
		s = s.CompleteGame(85, time.Second, now)
		s = s.CompleteGame(10, 9*time.Second, now)

		history := s.History()
		if len(history) != 1 || history[0].Score != 85 {
			t.Errorf("expected the first result only, got %+v", history)
		}
	})

	t.Run("without a track", func(t *testing.T) {
		s := startFreePlay(t)
		next := s.CompleteGame(85, time.Second, now)

		if len(next.History()) != 0 || next.RoundComplete() {
			t.Error("completion without a current track should be a no-op")
		}
	})
}

func TestSession_Immutability(t *testing.T) {
	s := startFreePlay(t)
	before := choose(t, s, rock, testTracks("a", "b"))

	after := before.CompleteGame(70, time.Second, now)
	after, eff := after.PlayAgain()
	after = after.TracksLoaded(eff.Request, testTracks("a", "b"), nil, firstPick)

	if before.RoundComplete() {
		t.Error("earlier snapshot was marked complete")
	}
	if len(before.History()) != 0 {
		t.Error("earlier snapshot gained history")
	}
	if before.HasPlayed("b") {
		t.Error("earlier snapshot gained a played track")
	}
	if id := currentID(t, after); id != "b" {
		t.Errorf("expected track b, got %s", id)
	}
}

func TestSession_PlayAgain(t *testing.T) {
	t.Run("re-selects the current playlist", func(t *testing.T) {
		s := startFreePlay(t)
		s = choose(t, s, rock, testTracks("a", "b"))
		s = s.CompleteGame(70, time.Second, now)

		s, eff := s.PlayAgain()
		if eff.Kind != FetchPlaylistTracks || eff.PlaylistID != rock.ID {
			t.Fatalf("expected refetch of %s, got %+v", rock.ID, eff)
		}
		s = s.TracksLoaded(eff.Request, testTracks("a", "b"), nil, firstPick)
		if id := currentID(t, s); id != "b" {
			t.Errorf("expected track b, got %s", id)
		}
		if s.RoundComplete() {
			t.Error("new round should not be complete")
		}
		if _, ok := s.LastResult(); ok {
			t.Error("last result belongs to the previous round")
		}
	})

	t.Run("without a playlist", func(t *testing.T) {
		s := startFreePlay(t)
		_, eff := s.PlayAgain()
		if !eff.None() {
			t.Errorf("expected no effect, got %+v", eff)
		}
	})
}

func TestSession_NewGame(t *testing.T) {
	s := startFreePlay(t)
	s = choose(t, s, rock, testTracks("a", "b"))
	s = s.CompleteGame(70, time.Second, now)

	s, eff := s.NewGame()
	if eff.Kind != FetchPlaylists {
		t.Errorf("expected playlists fetch, got %v", eff.Kind)
	}
	if s.PlayedCount() != 0 {
		t.Errorf("expected empty played set, got %d", s.PlayedCount())
	}
	if len(s.History()) != 0 || len(s.Results()) != 0 {
		t.Error("expected results to be cleared")
	}
	if _, ok := s.CurrentTrack(); ok {
		t.Error("expected no current track")
	}
	if _, ok := s.CurrentPlaylist(); ok {
		t.Error("expected no current playlist")
	}
	if len(s.Playlists()) != 2 {
		t.Error("fetched playlists should survive a new game")
	}
	if s.Err() != nil {
		t.Errorf("unexpected error %v", s.Err())
	}
}

func TestSession_Challenge(t *testing.T) {
	t.Run("replays the sequence in order", func(t *testing.T) {
		challenge := testChallenge("x", "y", "z")
		s, eff := NewSession(challenge).Start()

		for i, want := range []string{"x", "y", "z"} {
			if eff.Kind != FetchTrack || eff.TrackID != want {
				t.Fatalf("round %d: expected fetch of %s, got %+v", i, want, eff)
			}
			if s.Mode() != ModeLoading {
				t.Errorf("round %d: expected loading mode, got %v", i, s.Mode())
			}

			s = s.TrackLoaded(eff.Request, &testTracks(want)[0], nil)
			if id := currentID(t, s); id != want {
				t.Errorf("round %d: expected %s, got %s", i, want, id)
			}
			if s.Ready() {
				t.Errorf("round %d: readiness should be consumed", i)
			}
			if s.HasPlayed(want) {
				t.Errorf("round %d: challenge tracks are marked on completion", i)
			}

			s = s.CompleteGame(50+i, time.Duration(i+1)*time.Second, now)
			if !s.HasPlayed(want) {
				t.Errorf("round %d: track not marked played", i)
			}
			if done, total := s.Progress(); done != i+1 || total != 3 {
				t.Errorf("round %d: progress %d/%d", i, done, total)
			}

			s, eff = s.PlayAgain()
		}

		if !eff.None() {
			t.Errorf("expected no fetch after the last round, got %+v", eff)
		}
		if s.Mode() != ModeShowingResults {
			t.Fatalf("expected results, got %v", s.Mode())
		}
		if _, ok := s.CurrentTrack(); ok {
			t.Error("expected no current track on the results screen")
		}
		if len(s.History()) != 0 {
			t.Error("challenge rounds must not go to free-play history")
		}

		comparisons := s.Comparisons()
		if len(comparisons) != 3 {
			t.Fatalf("expected 3 comparisons, got %d", len(comparisons))
		}
		for i, c := range comparisons {
			if c.Original.TrackID != challenge[i].TrackID || c.Player.TrackID != challenge[i].TrackID {
				t.Errorf("comparison %d paired %s with %s", i, c.Original.TrackID, c.Player.TrackID)
			}
		}
	})

	t.Run("finished track is dropped while the next one loads", func(t *testing.T) {
		s, eff := NewSession(testChallenge("x", "y")).Start()
		s = s.TrackLoaded(eff.Request, &testTracks("x")[0], nil)
		s = s.CompleteGame(70, 2*time.Second, now)

		s, eff = s.PlayAgain()
		if eff.Kind != FetchTrack || eff.TrackID != "y" {
			t.Fatalf("expected fetch of y, got %+v", eff)
		}
		if s.Mode() != ModeLoading {
			t.Errorf("expected loading mode, got %v", s.Mode())
		}
		if _, ok := s.CurrentTrack(); ok {
			t.Error("finished track should be cleared")
		}
		if _, ok := s.LastResult(); ok {
			t.Error("last result should be cleared")
		}
		if s.RoundComplete() {
			t.Error("round should not be complete while loading")
		}

		s = s.CompleteGame(99, time.Second, now)
		if got := len(s.Results()); got != 1 {
			t.Errorf("completing while loading should be ignored, got %d results", got)
		}

		s = s.TrackLoaded(eff.Request, &testTracks("y")[0], nil)
		if id := currentID(t, s); id != "y" {
			t.Errorf("expected y, got %s", id)
		}
	})

	t.Run("results never exceed the sequence", func(t *testing.T) {
		s, eff := NewSession(testChallenge("x")).Start()
		s = s.TrackLoaded(eff.Request, &testTracks("x")[0], nil)
		s = s.CompleteGame(80, time.Second, now)
		s, _ = s.PlayAgain()
		s = s.CompleteGame(80, time.Second, now)
		s, _ = s.PlayAgain()

		if got := len(s.Results()); got != 1 {
			t.Errorf("expected 1 result, got %d", got)
		}
	})

	t.Run("repeated track ids are replayed", func(t *testing.T) {
		s, eff := NewSession(testChallenge("x", "x")).Start()
		for range 2 {
			if eff.TrackID != "x" {
				t.Fatalf("expected fetch of x, got %+v", eff)
			}
			s = s.TrackLoaded(eff.Request, &testTracks("x")[0], nil)
			s = s.CompleteGame(80, time.Second, now)
			s, eff = s.PlayAgain()
		}

		if got := len(s.Results()); got != 2 {
			t.Errorf("expected 2 results, got %d", got)
		}
		if s.PlayedCount() != 1 {
			t.Errorf("played set should hold x once, got %d", s.PlayedCount())
		}
		if s.Mode() != ModeShowingResults {
			t.Errorf("expected results, got %v", s.Mode())
		}
	})

	t.Run("empty sequence shows results", func(t *testing.T) {
		s, eff := NewSession([]models.GameResult{}).Start()

		if !eff.None() {
			t.Errorf("expected no effect, got %+v", eff)
		}
		if s.Mode() != ModeShowingResults {
			t.Errorf("expected results, got %v", s.Mode())
		}
	})

	t.Run("track failure and retry", func(t *testing.T) {
		s, eff := NewSession(testChallenge("x")).Start()
		s = s.TrackLoaded(eff.Request, nil, errRemote)

		if s.ErrorMessage() != MsgChallengeTrackFailed {
			t.Errorf("unexpected message %q", s.ErrorMessage())
		}
		if s.Mode() != ModeSelecting {
			t.Errorf("expected selecting mode, got %v", s.Mode())
		}

		s, eff = s.SelectPlaylist(rock)
		if eff.Kind != FetchTrack || eff.TrackID != "x" {
			t.Fatalf("expected retry of x, got %+v", eff)
		}
		if s.Err() != nil {
			t.Errorf("selection should clear the error, got %v", s.Err())
		}
		s = s.TrackLoaded(eff.Request, &testTracks("x")[0], nil)
		if id := currentID(t, s); id != "x" {
			t.Errorf("expected track x, got %s", id)
		}
	})

	t.Run("missing track is a failure", func(t *testing.T) {
		s, eff := NewSession(testChallenge("x")).Start()
		s = s.TrackLoaded(eff.Request, nil, nil)

		if !errors.Is(s.Err(), shared.ErrTrackNotFound) {
			t.Errorf("expected track not found cause, got %v", s.Err())
		}
	})

	t.Run("selecting while a track is loading does not refetch", func(t *testing.T) {
		s, first := NewSession(testChallenge("x")).Start()
		s, eff := s.SelectPlaylist(rock)

		if !eff.None() {
			t.Errorf("expected no effect, got %+v", eff)
		}
		if p, ok := s.CurrentPlaylist(); !ok || p.ID != rock.ID {
			t.Error("playlist should be recorded")
		}
		s = s.TrackLoaded(first.Request, &testTracks("x")[0], nil)
		if _, ok := s.CurrentTrack(); !ok {
			t.Error("original request should still apply")
		}
	})

	t.Run("comparisons before playing", func(t *testing.T) {
		s := NewSession(testChallenge("x", "y"))
		comparisons := s.Comparisons()

		if len(comparisons) != 2 {
			t.Fatalf("expected 2 comparisons, got %d", len(comparisons))
		}
		if comparisons[0].Played() || comparisons[0].ScoreLine() != "80 vs 0" {
			t.Errorf("unexpected comparison %+v", comparisons[0])
		}
	})

	t.Run("new game keeps the challenge", func(t *testing.T) {
		s, eff := NewSession(testChallenge("x", "y")).Start()
		s = s.TrackLoaded(eff.Request, &testTracks("x")[0], nil)
		s = s.CompleteGame(80, time.Second, now)

		s, eff = s.NewGame()
		if eff.Kind != FetchTrack || eff.TrackID != "x" {
			t.Errorf("expected restart at x, got %+v", eff)
		}
		if len(s.Results()) != 0 || s.PlayedCount() != 0 {
			t.Error("expected progress to be cleared")
		}
	})
}

func TestMode_String(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeLoading, "loading"},
		{ModeSelecting, "selecting"},
		{ModePlaying, "playing"},
		{ModeShowingResults, "results"},
		{Mode(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}
