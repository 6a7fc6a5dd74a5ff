package game

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/guessify/internal/models"
	"github.com/desertthunder/guessify/internal/shared"
	"github.com/google/uuid"
)

// NewChallenge packages completed rounds for another player to replay.
func NewChallenge(player string, rounds []models.GameResult, now time.Time) models.Challenge {
	return models.Challenge{
		ID:        uuid.New().String(),
		Player:    player,
		CreatedAt: now.UTC(),
		Rounds:    slices.Clone(rounds),
	}
}

// ValidateChallenge requires at least one round and a track id on every round.
func ValidateChallenge(c models.Challenge) error {
	if len(c.Rounds) == 0 {
		return fmt.Errorf("%w: no rounds", shared.ErrInvalidChallenge)
	}
	for i, r := range c.Rounds {
		if strings.TrimSpace(r.TrackID) == "" {
			return fmt.Errorf("%w: round %d has no track id", shared.ErrInvalidChallenge, i+1)
		}
	}
	return nil
}

// EncodeChallenge renders c as a share code (unpadded base64url JSON).
func EncodeChallenge(c models.Challenge) (string, error) {
	if err := ValidateChallenge(c); err != nil {
		return "", err
	}

	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode challenge: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeChallenge parses a share code produced by [EncodeChallenge]. Padding and surrounding whitespace are tolerated.
func DecodeChallenge(code string) (*models.Challenge, error) {
	code = strings.TrimRight(strings.TrimSpace(code), "=")
	if code == "" {
		return nil, fmt.Errorf("%w: empty share code", shared.ErrInvalidChallenge)
	}

	data, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidChallenge, err)
	}
	return ParseChallenge(data)
}

// ParseChallenge reads a challenge from JSON: either a challenge object or a bare array of results.
func ParseChallenge(data []byte) (*models.Challenge, error) {
	data = bytes.TrimSpace(data)

	var c models.Challenge
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &c.Rounds); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidChallenge, err)
		}
	} else if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidChallenge, err)
	}

	if err := ValidateChallenge(c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadChallenge reads a challenge JSON file.
func LoadChallenge(path string) (*models.Challenge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read challenge file: %w", err)
	}

	c, err := ParseChallenge(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// SaveChallenge writes c as indented JSON.
func SaveChallenge(path string, c models.Challenge) error {
	if err := ValidateChallenge(c); err != nil {
		return err
	}

	data, err := shared.MarshalJSON(c, true)
	if err != nil {
		return fmt.Errorf("failed to encode challenge: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write challenge file: %w", err)
	}
	return nil
}
