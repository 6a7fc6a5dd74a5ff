package game

import (
	"fmt"

	"github.com/desertthunder/guessify/internal/models"
	"github.com/desertthunder/guessify/internal/shared"
)

// Outcome of a comparison from the challenger's point of view.
type Outcome int

const (
	OutcomeTie Outcome = iota
	OutcomeWin
	OutcomeLoss
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "win"
	case OutcomeLoss:
		return "loss"
	default:
		return "tie"
	}
}

// Comparison pairs an original challenge round with the player's attempt at the same track.
type Comparison struct {
	Original models.GameResult  `json:"original"`
	Player   *models.GameResult `json:"player"` // nil until the round has been played
}

// Compare builds a comparison. player may be nil.
func Compare(original models.GameResult, player *models.GameResult) Comparison {
	c := Comparison{Original: original}
	if player != nil {
		p := *player
		c.Player = &p
	}
	return c
}

// Played reports whether the player has a result for this round.
func (c Comparison) Played() bool { return c.Player != nil }

// PlayerScore is the player's score, or 0 when unplayed.
func (c Comparison) PlayerScore() int {
	if c.Player == nil {
		return 0
	}
	return c.Player.Score
}

// PlayerTime is the player's time in seconds, or 0 when unplayed.
func (c Comparison) PlayerTime() float64 {
	if c.Player == nil {
		return 0
	}
	return c.Player.Time
}

// ScoreLine renders "<original> vs <player>".
func (c Comparison) ScoreLine() string {
	return fmt.Sprintf("%d vs %d", c.Original.Score, c.PlayerScore())
}

// TimeLine renders "<original>s vs <player>s" with one decimal place.
func (c Comparison) TimeLine() string {
	return fmt.Sprintf("%s vs %s", shared.FormatSeconds(c.Original.Time), shared.FormatSeconds(c.PlayerTime()))
}

// Outcome decides the round on score, then on time when both sides played and scored equally.
func (c Comparison) Outcome() Outcome {
	return decide(c.PlayerScore(), c.Original.Score, c.PlayerTime(), c.Original.Time, c.Played())
}

func decide(playerScore, originalScore int, playerTime, originalTime float64, timed bool) Outcome {
	switch {
	case playerScore > originalScore:
		return OutcomeWin
	case playerScore < originalScore:
		return OutcomeLoss
	case !timed || playerTime == originalTime:
		return OutcomeTie
	case playerTime < originalTime:
		return OutcomeWin
	default:
		return OutcomeLoss
	}
}

// Pair matches originals and players by position. Rounds without a player result get a nil Player;
// player results beyond the originals are ignored.
func Pair(originals, players []models.GameResult) []Comparison {
	out := make([]Comparison, len(originals))
	for i, o := range originals {
		var p *models.GameResult
		if i < len(players) {
			p = &players[i]
		}
		out[i] = Compare(o, p)
	}
	return out
}

// Summary totals a set of comparisons.
type Summary struct {
	Rounds        int
	Played        int
	OriginalScore int
	PlayerScore   int
	OriginalTime  float64
	PlayerTime    float64
	Wins          int
	Losses        int
	Ties          int
}

// Summarize totals scores and times and counts per-round outcomes. Unplayed rounds count toward the original's
// totals only and are not decided.
func Summarize(comparisons []Comparison) Summary {
	var s Summary
	s.Rounds = len(comparisons)
	for _, c := range comparisons {
		s.OriginalScore += c.Original.Score
		s.OriginalTime += c.Original.Time
		if !c.Played() {
			continue
		}
		s.Played++
		s.PlayerScore += c.PlayerScore()
		s.PlayerTime += c.PlayerTime()

		switch c.Outcome() {
		case OutcomeWin:
			s.Wins++
		case OutcomeLoss:
			s.Losses++
		default:
			s.Ties++
		}
	}
	return s
}

// Outcome decides the whole challenge on total score, then total time.
func (s Summary) Outcome() Outcome {
	return decide(s.PlayerScore, s.OriginalScore, s.PlayerTime, s.OriginalTime, s.Played == s.Rounds && s.Rounds > 0)
}

// ScoreLine renders the totals as "<original> vs <player>".
func (s Summary) ScoreLine() string {
	return fmt.Sprintf("%d vs %d", s.OriginalScore, s.PlayerScore)
}

// TimeLine renders the total times as "<original>s vs <player>s".
func (s Summary) TimeLine() string {
	return fmt.Sprintf("%s vs %s", shared.FormatSeconds(s.OriginalTime), shared.FormatSeconds(s.PlayerTime))
}
