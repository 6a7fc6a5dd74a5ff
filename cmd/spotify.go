package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/guessify/internal/models"
	"github.com/desertthunder/guessify/internal/shared"
	"github.com/urfave/cli/v3"
)

// spotifyError annotates provider failures with an authorization hint where one applies.
func (r *Runner) spotifyError(err error) error {
	if errors.Is(err, shared.ErrTokenExpired) {
		r.logger.Warn("spotify token rejected", "hint", "refresh the tokens in "+configFile)
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
}

// SpotifyPlaylists lists Spotify playlists with optional limit.
func (r *Runner) SpotifyPlaylists(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.requireSpotify(); err != nil {
		return err
	}

	r.logger.Infof("listing spotify playlists with limit %v", limit)

	playlists, err := r.spotify.GetPlaylists(ctx)
	if err != nil {
		return r.spotifyError(err)
	}
	defer r.saveToken()

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   Tracks: %d | ID: %s\n", p.TrackCount, p.ID)
	}

	return nil
}

// SpotifyTracks lists the tracks of a playlist and whether each one has a preview clip.
func (r *Runner) SpotifyTracks(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	if playlistID == "" {
		return fmt.Errorf("%w: playlist ID is required", shared.ErrMissingArgument)
	}

	if err := r.requireSpotify(); err != nil {
		return err
	}

	tracks, err := r.spotify.GetPlaylistTracks(ctx, playlistID)
	if err != nil {
		return r.spotifyError(err)
	}
	defer r.saveToken()

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d tracks (%d with previews):\n\n", len(tracks), countPreviews(tracks))
	for i, t := range tracks {
		marker := " "
		if t.PreviewURL != "" {
			marker = "♪"
		}
		r.writePlain("%s %d. %s - %s\n", marker, i+1, t.Artist, t.Title)
	}

	return nil
}

func countPreviews(tracks []models.Track) int {
	n := 0
	for _, t := range tracks {
		if t.PreviewURL != "" {
			n++
		}
	}
	return n
}
