// package formatter renders game results and challenge comparisons as CSV, Markdown, plain text or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/guessify/internal/game"
	"github.com/desertthunder/guessify/internal/models"
	"github.com/desertthunder/guessify/internal/shared"
)

// Format is an export format
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name or common alias ("text", "markdown")
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "txt", "text":
		return FormatText, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, name)
	}
}

// ResultsToCSV converts results to CSV with columns: Round, Track ID, Track, Artist, Score, Time, Played At
func ResultsToCSV(results []models.GameResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Round", "Track ID", "Track", "Artist", "Score", "Time", "Played At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, r := range results {
		record := []string{
			strconv.Itoa(i + 1),
			r.TrackID,
			r.TrackName,
			r.ArtistName,
			strconv.Itoa(r.Score),
			strconv.FormatFloat(r.Time, 'f', 1, 64),
			playedAt(r.Timestamp),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ResultsToMarkdown converts results to a Markdown document with a numbered round list
func ResultsToMarkdown(title string, results []models.GameResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Rounds**: %d\n", len(results))
	fmt.Fprintf(&buf, "**Total score**: %d\n\n", totalScore(results))

	buf.WriteString("## Rounds\n\n")
	for i, r := range results {
		fmt.Fprintf(&buf, "%d. %s - %s: **%d** in %s\n", i+1, r.ArtistName, r.TrackName, r.Score, shared.FormatSeconds(r.Time))
	}

	return buf.Bytes(), nil
}

// ResultsToText converts results to plain text
func ResultsToText(results []models.GameResult) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Rounds: %d\n", len(results))
	fmt.Fprintf(&buf, "Total score: %d\n\n", totalScore(results))

	for i, r := range results {
		fmt.Fprintf(&buf, "%d. %s - %s  %d (%s)\n", i+1, r.ArtistName, r.TrackName, r.Score, shared.FormatSeconds(r.Time))
	}

	return buf.Bytes(), nil
}

// ComparisonsToCSV converts comparisons to CSV, one row per challenge round
func ComparisonsToCSV(comparisons []game.Comparison) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Round", "Track ID", "Track", "Artist", "Original Score", "Your Score", "Original Time", "Your Time", "Outcome"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, c := range comparisons {
		record := []string{
			strconv.Itoa(i + 1),
			c.Original.TrackID,
			c.Original.TrackName,
			c.Original.ArtistName,
			strconv.Itoa(c.Original.Score),
			strconv.Itoa(c.PlayerScore()),
			strconv.FormatFloat(c.Original.Time, 'f', 1, 64),
			strconv.FormatFloat(c.PlayerTime(), 'f', 1, 64),
			outcome(c),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ComparisonsToMarkdown renders a comparison table followed by the totals
func ComparisonsToMarkdown(player string, comparisons []game.Comparison) ([]byte, error) {
	var buf bytes.Buffer
	summary := game.Summarize(comparisons)

	if player == "" {
		player = "Challenge"
	}
	fmt.Fprintf(&buf, "# %s\n\n", player)

	buf.WriteString("| # | Track | Artist | Score | Time | Outcome |\n")
	buf.WriteString("|---|---|---|---|---|---|\n")
	for i, c := range comparisons {
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s | %s |\n",
			i+1, escapeCell(c.Original.TrackName), escapeCell(c.Original.ArtistName), c.ScoreLine(), c.TimeLine(), outcome(c))
	}

	fmt.Fprintf(&buf, "\n**Total score**: %s\n", summary.ScoreLine())
	fmt.Fprintf(&buf, "**Total time**: %s\n", summary.TimeLine())
	fmt.Fprintf(&buf, "**Rounds won/lost/tied**: %d/%d/%d\n", summary.Wins, summary.Losses, summary.Ties)

	return buf.Bytes(), nil
}

// ComparisonsToText renders comparisons as aligned plain text
func ComparisonsToText(comparisons []game.Comparison) ([]byte, error) {
	var buf bytes.Buffer
	summary := game.Summarize(comparisons)

	width := len("Track")
	for _, c := range comparisons {
		width = max(width, len([]rune(label(c.Original))))
	}

	fmt.Fprintf(&buf, "%-3s %-*s  %-12s  %-16s  %s\n", "#", width, "Track", "Score", "Time", "Outcome")
	for i, c := range comparisons {
		fmt.Fprintf(&buf, "%-3d %-*s  %-12s  %-16s  %s\n", i+1, width, label(c.Original), c.ScoreLine(), c.TimeLine(), outcome(c))
	}

	fmt.Fprintf(&buf, "\nTotal: %s (%s)\n", summary.ScoreLine(), summary.TimeLine())
	fmt.Fprintf(&buf, "Result: %s\n", summary.Outcome())

	return buf.Bytes(), nil
}

// ExportResults renders results in the given format
func ExportResults(results []models.GameResult, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ResultsToCSV(results)
	case FormatMarkdown:
		return ResultsToMarkdown("Guessify results", results)
	case FormatJSON:
		return shared.MarshalJSON(results, true)
	default:
		return ResultsToText(results)
	}
}

// ExportComparisons renders comparisons in the given format
func ExportComparisons(player string, comparisons []game.Comparison, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ComparisonsToCSV(comparisons)
	case FormatMarkdown:
		return ComparisonsToMarkdown(player, comparisons)
	case FormatJSON:
		return shared.MarshalJSON(comparisons, true)
	default:
		return ComparisonsToText(comparisons)
	}
}

// WriteExport writes data to path. An empty path is a no-op.
func WriteExport(path string, data []byte) error {
	if path == "" {
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

func label(r models.GameResult) string {
	if r.ArtistName == "" {
		return r.TrackName
	}
	return r.ArtistName + " - " + r.TrackName
}

func outcome(c game.Comparison) string {
	if !c.Played() {
		return "-"
	}
	return c.Outcome().String()
}

func totalScore(results []models.GameResult) int {
	total := 0
	for _, r := range results {
		total += r.Score
	}
	return total
}

func playedAt(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
