// package models defines the data model for the guessing game
package models

import (
	"math"
	"time"
)

// Playlist represents a music playlist from the track provider
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"trackCount"`
	Public      bool   `json:"public"`
}

// Track represents a playable track
type Track struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	AlbumImage string `json:"albumImage,omitempty"`
	PreviewURL string `json:"previewUrl,omitempty"`
	Duration   int    `json:"duration"` // Duration in seconds
}

// GameResult is the outcome of a single round. It is created once, when the round completes, and never mutated.
type GameResult struct {
	TrackID    string  `json:"trackId"`
	TrackName  string  `json:"trackName"`
	ArtistName string  `json:"artistName"`
	AlbumImage string  `json:"albumImage"`
	Score      int     `json:"score"`
	Time       float64 `json:"time"`      // Seconds elapsed, one decimal place
	Timestamp  int64   `json:"timestamp"` // Milliseconds since epoch
}

// NewGameResult builds the result of a round played on track.
//
// Negative scores and elapsed times are clamped to zero; the elapsed time is rounded to one decimal place.
func NewGameResult(track Track, score int, elapsed time.Duration, at time.Time) GameResult {
	if score < 0 {
		score = 0
	}
	seconds := elapsed.Seconds()
	if seconds < 0 {
		seconds = 0
	}

	return GameResult{
		TrackID:    track.ID,
		TrackName:  track.Title,
		ArtistName: track.Artist,
		AlbumImage: track.AlbumImage,
		Score:      score,
		Time:       math.Round(seconds*10) / 10,
		Timestamp:  at.UnixMilli(),
	}
}

// Challenge is an ordered sequence of rounds played by one player, replayed by another in challenge mode.
type Challenge struct {
	ID        string       `json:"id"`
	Player    string       `json:"player,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	Rounds    []GameResult `json:"rounds"`
}

// TrackIDs returns the track ids of the challenge rounds in play order.
func (c Challenge) TrackIDs() []string {
	ids := make([]string, len(c.Rounds))
	for i, r := range c.Rounds {
		ids[i] = r.TrackID
	}
	return ids
}

// TotalScore sums the scores of all rounds.
func (c Challenge) TotalScore() int {
	total := 0
	for _, r := range c.Rounds {
		total += r.Score
	}
	return total
}
