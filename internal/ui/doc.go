// Package ui implements the interactive guessing game using bubbletea's Elm architecture.
//
// The (view) [Model] hosts a [game.Session] and renders its derived mode:
//   - loading : a fetch is outstanding
//   - selecting : browse and pick a Spotify playlist
//   - playing : type a guess while the stopwatch runs, then reveal the track and score
//   - results : per-track comparison against the challenge being replayed
//
// Session transitions return an [game.Effect]; the model turns it into a [tea.Cmd] that calls the track provider
// and reports back through the Msg union, tagged with the effect's request id.
//
// The stopwatch (charmbracelet/bubbles/stopwatch) measures elapsed time for scoring and enforces the optional round limit.
package ui
