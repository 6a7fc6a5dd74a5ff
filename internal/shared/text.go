package shared

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	parenthetical = regexp.MustCompile(`\s*[\(\[][^\)\]]*[\)\]]`)
	dashSuffix    = regexp.MustCompile(`\s+-\s+.*$`)
)

// NormalizeText lowercases s, replaces punctuation with spaces and collapses whitespace.
func NormalizeText(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return unicode.ToLower(r)
		}
		if r == '\'' || r == '’' {
			return -1
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// NormalizeTitle strips decorations such as "(feat. X)", "[Live]" or "- Remastered 2011" before normalizing.
func NormalizeTitle(title string) string {
	stripped := parenthetical.ReplaceAllString(title, "")
	stripped = dashSuffix.ReplaceAllString(stripped, "")
	if n := NormalizeText(stripped); n != "" {
		return n
	}
	return NormalizeText(title)
}

// NormalizeTrackKey builds a comparable "title|artist" key.
func NormalizeTrackKey(title, artist string) string {
	return NormalizeText(title) + "|" + NormalizeText(artist)
}

// FormatSeconds renders seconds with one decimal place and an "s" suffix, e.g. "12.3s".
func FormatSeconds(seconds float64) string {
	return fmt.Sprintf("%.1fs", seconds)
}

// MarshalJSON encodes data, indented when pretty is set.
func MarshalJSON(data any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}
