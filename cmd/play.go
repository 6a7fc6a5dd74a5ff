package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/guessify/internal/formatter"
	"github.com/desertthunder/guessify/internal/game"
	"github.com/desertthunder/guessify/internal/models"
	"github.com/desertthunder/guessify/internal/shared"
	"github.com/desertthunder/guessify/internal/ui"
	"github.com/urfave/cli/v3"
)

// gameReport is what a finished TUI session leaves behind.
type gameReport struct {
	Player    string
	Rounds    []models.GameResult
	Challenge *models.Challenge // set when a challenge was replayed
	ShareCode string
}

// Play launches the free-play TUI.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	return r.runGame(ctx, cmd, nil)
}

// ChallengePlay replays a challenge given as a share code or file.
func (r *Runner) ChallengePlay(ctx context.Context, cmd *cli.Command) error {
	challenge, err := readChallenge(cmd.String("code"), cmd.String("file"))
	if err != nil {
		return err
	}

	r.logger.Info("replaying challenge", "id", challenge.ID, "player", challenge.Player, "rounds", len(challenge.Rounds))
	r.logger.Debug("challenge tracks", "ids", challenge.TrackIDs())
	return r.runGame(ctx, cmd, challenge)
}

func (r *Runner) runGame(ctx context.Context, cmd *cli.Command, challenge *models.Challenge) error {
	if err := r.requireSpotify(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	player := cmd.String("player")
	if player == "" {
		player = r.config.Game.Player
	}

	limit := r.config.Game.RoundLimit()
	if seconds := cmd.Int("round-seconds"); seconds >= 0 {
		limit = time.Duration(seconds) * time.Second
	}

	model := ui.NewModel(ctx, r.spotify, ui.Options{
		Player:     player,
		RoundLimit: limit,
		Challenge:  challenge,
		Logger:     shared.WithLogger(fileLogger, "component", "ui"),
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	r.saveToken()

	report := gameReport{Player: player, Rounds: model.Rounds(), Challenge: challenge}
	if code, err := model.ShareCode(); err == nil {
		report.ShareCode = code
	}

	if path := cmd.String("save"); path != "" && len(report.Rounds) > 0 {
		if err := game.SaveChallenge(path, game.NewChallenge(player, report.Rounds, time.Now())); err != nil {
			return err
		}
		r.logger.Info("challenge saved", "path", path)
	}

	return r.report(report, cmd.String("format"), cmd.String("out"))
}

// report prints the rounds of a finished game, or writes them to out.
func (r *Runner) report(rep gameReport, format, out string) error {
	if len(rep.Rounds) == 0 {
		return r.writePlain("No rounds played.\n")
	}

	f, err := formatter.ParseFormat(format)
	if err != nil {
		return err
	}

	var data []byte
	if rep.Challenge != nil {
		data, err = formatter.ExportComparisons(rep.Challenge.Player, game.Pair(rep.Challenge.Rounds, rep.Rounds), f)
	} else {
		data, err = formatter.ExportResults(rep.Rounds, f)
	}
	if err != nil {
		return fmt.Errorf("failed to render results: %w", err)
	}

	if out != "" {
		if err := formatter.WriteExport(out, data); err != nil {
			return err
		}
		r.writePlain("✓ Results written to %s\n", out)
	} else {
		r.writePlainHeader(fmt.Sprintf("%s • %d rounds", rep.Player, len(rep.Rounds)))
		r.writePlain("%s", data)
	}

	if rep.ShareCode != "" {
		r.writePlainln("Challenge a friend with:")
		r.writePlain("guessify challenge play --code %s\n", rep.ShareCode)
	}
	return nil
}
