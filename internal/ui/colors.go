package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/guessify/internal/game"
)

var styles = NewPalette(Colors{
	Title:   "#1DB954",
	Success: "#04B575",
	Error:   "#FF5F56",
	Warning: "#FFA500",
	Muted:   "#626262",
	Accent:  "#7D56F4",
})

// Colors names the hex colors of a [Palette].
type Colors struct {
	Title, Success, Error, Warning, Muted, Accent string
}

// Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	muted  lipgloss.Style
	score  lipgloss.Style
	header lipgloss.Style
	border lipgloss.Style
}

func NewPalette(c Colors) *Palette {
	return &Palette{
		title:  NewBold(c.Title).MarginBottom(1),
		ok:     NewBold(c.Success),
		err:    NewBold(c.Error),
		warn:   NewStyle(c.Warning),
		help:   NewEm(c.Muted),
		muted:  NewStyle(c.Muted),
		score:  NewBold(c.Accent),
		header: NewBold(c.Accent).Padding(0, 1),
		border: NewStyle(c.Muted),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// outcomeStyle colors a round by who won it.
func (p *Palette) outcomeStyle(o game.Outcome) lipgloss.Style {
	switch o {
	case game.OutcomeWin:
		return p.ok
	case game.OutcomeLoss:
		return p.err
	default:
		return p.warn
	}
}

// comparisonTable renders comparisons as a bordered table.
func (p *Palette) comparisonTable(comparisons []game.Comparison) string {
	rows := make([][]string, len(comparisons))
	for i, c := range comparisons {
		rows[i] = []string{
			c.Original.TrackName,
			c.Original.ArtistName,
			c.ScoreLine(),
			c.TimeLine(),
		}
	}

	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.border).
		Headers("Track", "Artist", "Score", "Time").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header
			}
			if col == 2 && row >= 0 && row < len(comparisons) && comparisons[row].Played() {
				return p.outcomeStyle(comparisons[row].Outcome()).Padding(0, 1)
			}
			return cell
		}).
		Render()
}
