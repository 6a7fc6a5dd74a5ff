// Package game implements the guessing-game session: track selection, played-track deduplication,
// challenge replay sequencing and result comparison.
//
// # Session
//
// A [Session] is an immutable snapshot. Every transition is a value-receiver method that returns the next
// snapshot and, when the transition needs data from the track provider, an [Effect] describing the fetch.
// The host performs the fetch and feeds the outcome back through the matching *Loaded transition together with
// the effect's [RequestID]. Only the response to the outstanding request is applied; anything else is stale and
// dropped, so a slow response can never overwrite the state produced by a newer selection or by [Session.NewGame].
//
// The UI mode is derived, never stored: see [Session.Mode].
//
// # Played tracks
//
// Free-play marks a track as played the moment it is selected, so a round that is abandoned still counts.
// Challenge mode marks a track when its round completes. Both modes go through the same set, and
// [Session.CompleteGame] records the id again idempotently.
//
// # Comparison
//
// [Compare] and [Pair] line original challenge rounds up against the player's, by position.
package game
