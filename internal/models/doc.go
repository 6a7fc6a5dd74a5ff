// Package models defines the value types shared by the track provider, the game session and the host UI.
//
// Provider data:
//   - [Playlist] : Basic playlist metadata from the music service
//   - [Track] : Song metadata including album art and the preview URL
//
// Game data:
//   - [GameResult] : The immutable record of one completed round
//   - [Challenge] : A shareable, ordered sequence of rounds another player replays
//
// JSON field names on [GameResult] match the share format used by challenge codes (trackId, trackName, ...).
package models
