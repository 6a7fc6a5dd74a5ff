package game

import (
	"fmt"

	"github.com/desertthunder/guessify/internal/shared"
)

// User-facing messages.
const (
	MsgPlaylistsFailed      = "Failed to load playlists. Please try again."
	MsgTracksFailed         = "Failed to load tracks. Please try again."
	MsgChallengeTrackFailed = "Failed to load challenge track"
	MsgNoUnplayedTracks     = "No more unplayed tracks in this playlist!"
)

// Failure is a recoverable session error: a message for the player, the error kind
// ([shared.ErrFetchFailure] or [shared.ErrNoUnplayedTracks]) and the underlying cause, if any.
type Failure struct {
	Kind    error
	Message string
	Cause   error
}

func (f *Failure) Error() string { return f.Message }

// Unwrap exposes both the kind and the cause to [errors.Is].
func (f *Failure) Unwrap() []error {
	if f.Cause == nil {
		return []error{f.Kind}
	}
	return []error{f.Kind, f.Cause}
}

// Detail renders the message together with the cause for logging.
func (f *Failure) Detail() string {
	if f.Cause == nil {
		return f.Message
	}
	return fmt.Sprintf("%s: %v", f.Message, f.Cause)
}

func fetchFailure(message string, cause error) *Failure {
	return &Failure{Kind: shared.ErrFetchFailure, Message: message, Cause: cause}
}

func noUnplayedTracks() *Failure {
	return &Failure{Kind: shared.ErrNoUnplayedTracks, Message: MsgNoUnplayedTracks}
}
