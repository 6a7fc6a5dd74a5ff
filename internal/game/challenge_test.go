package game

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/guessify/internal/models"
	"github.com/desertthunder/guessify/internal/shared"
)

func TestChallengeCodec(t *testing.T) {
	rounds := testChallenge("x", "y")

	t.Run("round trip", func(t *testing.T) {
		c := NewChallenge("ada", rounds, now)
		if c.ID == "" {
			t.Fatal("expected a challenge id")
		}

		code, err := EncodeChallenge(c)
		if err != nil {
			t.Fatalf("EncodeChallenge() error = %v", err)
		}
		if strings.ContainsAny(code, "+/=") {
			t.Errorf("share code is not url safe: %s", code)
		}

		got, err := DecodeChallenge("  " + code + "\n")
		if err != nil {
			t.Fatalf("DecodeChallenge() error = %v", err)
		}
		if got.ID != c.ID || got.Player != "ada" || !got.CreatedAt.Equal(now) {
			t.Errorf("unexpected header %+v", got)
		}
		if len(got.Rounds) != 2 || got.Rounds[0] != rounds[0] || got.Rounds[1] != rounds[1] {
			t.Errorf("rounds did not survive: %+v", got.Rounds)
		}
	})

	t.Run("padded code", func(t *testing.T) {
		code, _ := EncodeChallenge(NewChallenge("ada", rounds[:1], now))
		for len(code)%4 != 0 {
			code += "="
		}
		if _, err := DecodeChallenge(code); err != nil {
			t.Errorf("DecodeChallenge() error = %v", err)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name string
			code string
		}{
			{"empty", ""},
			{"not base64", "!!!"},
			{"not json", "bm90IGpzb24"},
			{"no rounds", "eyJpZCI6IngiLCJyb3VuZHMiOltdfQ"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := DecodeChallenge(tt.code); !errors.Is(err, shared.ErrInvalidChallenge) {
					t.Errorf("expected invalid challenge, got %v", err)
				}
			})
		}
	})

	t.Run("encode rejects missing track ids", func(t *testing.T) {
		c := NewChallenge("ada", []models.GameResult{{TrackName: "nameless"}}, now)
		if _, err := EncodeChallenge(c); !errors.Is(err, shared.ErrInvalidChallenge) {
			t.Errorf("expected invalid challenge, got %v", err)
		}
	})
}

func TestLoadChallenge(t *testing.T) {
	dir := t.TempDir()

	t.Run("bare results array", func(t *testing.T) {
		path := filepath.Join(dir, "array.json")
		data := `[{"trackId":"x","trackName":"X","artistName":"A","albumImage":"","score":80,"time":12.3,"timestamp":1}]`
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}

		c, err := LoadChallenge(path)
		if err != nil {
			t.Fatalf("LoadChallenge() error = %v", err)
		}
		if len(c.Rounds) != 1 || c.Rounds[0].TrackID != "x" || c.Rounds[0].Time != 12.3 {
			t.Errorf("unexpected rounds %+v", c.Rounds)
		}
	})

	t.Run("saved challenge", func(t *testing.T) {
		path := filepath.Join(dir, "challenge.json")
		want := NewChallenge("ada", testChallenge("x", "y", "z"), now)
		if err := SaveChallenge(path, want); err != nil {
			t.Fatalf("SaveChallenge() error = %v", err)
		}

		got, err := LoadChallenge(path)
		if err != nil {
			t.Fatalf("LoadChallenge() error = %v", err)
		}
		if got.ID != want.ID || len(got.Rounds) != 3 {
			t.Errorf("unexpected challenge %+v", got)
		}
	})

	t.Run("empty array", func(t *testing.T) {
		path := filepath.Join(dir, "empty.json")
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadChallenge(path); !errors.Is(err, shared.ErrInvalidChallenge) {
			t.Errorf("expected invalid challenge, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadChallenge(filepath.Join(dir, "nope.json")); err == nil {
			t.Error("expected an error")
		}
	})
}
