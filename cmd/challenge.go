package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/guessify/internal/game"
	"github.com/desertthunder/guessify/internal/models"
	"github.com/desertthunder/guessify/internal/shared"
	"github.com/urfave/cli/v3"
)

// readChallenge loads a challenge from exactly one of a share code or a file.
func readChallenge(code, file string) (*models.Challenge, error) {
	switch {
	case code == "" && file == "":
		return nil, fmt.Errorf("%w: either --code or --file must be provided", shared.ErrMissingArgument)
	case code != "" && file != "":
		return nil, fmt.Errorf("%w: cannot specify both --code and --file", shared.ErrInvalidArgument)
	case file != "":
		return game.LoadChallenge(file)
	default:
		return game.DecodeChallenge(code)
	}
}

// resolveChallenge treats ref as a file path when such a file exists, otherwise as a share code.
func resolveChallenge(ref string) (*models.Challenge, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return game.LoadChallenge(ref)
	}
	return game.DecodeChallenge(ref)
}

// ChallengeShow prints the rounds of a challenge.
func (r *Runner) ChallengeShow(ctx context.Context, cmd *cli.Command) error {
	challenge, err := readChallenge(cmd.String("code"), cmd.String("file"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(challenge, cmd.Bool("pretty"))
	}

	player := challenge.Player
	if player == "" {
		player = "anonymous"
	}
	r.writePlainHeader(fmt.Sprintf("Challenge by %s", player))
	if !challenge.CreatedAt.IsZero() {
		r.writePlain("Created: %s\n", challenge.CreatedAt.Format(time.RFC1123))
	}
	r.writePlain("Total score: %d\n\n", challenge.TotalScore())

	for i, round := range challenge.Rounds {
		r.writePlain("%d. %s - %s\n", i+1, round.ArtistName, round.TrackName)
		r.writePlain("   Score: %d  Time: %s  ID: %s\n", round.Score, shared.FormatSeconds(round.Time), round.TrackID)
	}
	return nil
}

// ChallengeCompare compares a replay with the original challenge, round by round.
//
// Rounds are paired by position; a replay with fewer rounds leaves the rest unplayed.
func (r *Runner) ChallengeCompare(ctx context.Context, cmd *cli.Command) error {
	original, err := resolveChallenge(cmd.String("original"))
	if err != nil {
		return fmt.Errorf("failed to read original challenge: %w", err)
	}
	replay, err := resolveChallenge(cmd.String("replay"))
	if err != nil {
		return fmt.Errorf("failed to read replay: %w", err)
	}

	for i := range min(len(original.Rounds), len(replay.Rounds)) {
		o, p := original.Rounds[i], replay.Rounds[i]
		if o.TrackID != p.TrackID && shared.NormalizeTrackKey(o.TrackName, o.ArtistName) != shared.NormalizeTrackKey(p.TrackName, p.ArtistName) {
			r.logger.Warn("round tracks differ", "round", i+1, "original", o.TrackID, "replay", p.TrackID)
		}
	}

	return r.report(gameReport{
		Player:    replay.Player,
		Rounds:    replay.Rounds,
		Challenge: original,
	}, cmd.String("format"), cmd.String("out"))
}
