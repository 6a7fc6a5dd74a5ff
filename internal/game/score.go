package game

import (
	"time"

	"github.com/desertthunder/guessify/internal/models"
	"github.com/desertthunder/guessify/internal/shared"
)

const (
	MaxScore         = 100
	MinScore         = 10 // floor for a correct title guess
	ArtistScore      = 20
	PenaltyPerSecond = 5
)

// Verdict classifies a guess.
type Verdict int

const (
	Miss Verdict = iota
	ArtistMatch
	TitleMatch
)

// Judge compares a guess with track, ignoring case, punctuation and decorations such as "(feat. X)" or "- Remastered".
func Judge(guess string, track models.Track) Verdict {
	g := shared.NormalizeTitle(guess)
	if g == "" {
		return Miss
	}

	if g == shared.NormalizeTitle(track.Title) || shared.NormalizeText(guess) == shared.NormalizeText(track.Title) {
		return TitleMatch
	}
	if track.Artist != "" && shared.NormalizeText(guess) == shared.NormalizeText(track.Artist) {
		return ArtistMatch
	}
	return Miss
}

// ScoreGuess scores a guess for track after elapsed: [TimedScore] for the title, [ArtistScore] for the artist alone.
func ScoreGuess(guess string, track models.Track, elapsed time.Duration) int {
	switch Judge(guess, track) {
	case TitleMatch:
		return TimedScore(elapsed)
	case ArtistMatch:
		return ArtistScore
	default:
		return 0
	}
}

// TimedScore loses [PenaltyPerSecond] points per whole second, never dropping below [MinScore].
func TimedScore(elapsed time.Duration) int {
	seconds := max(int(elapsed/time.Second), 0)
	return max(MaxScore-PenaltyPerSecond*seconds, MinScore)
}
