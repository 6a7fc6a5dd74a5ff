// Package services defines the [Service] interface for the track provider and implements it for Spotify.
//
// # Service Interface
//
// The game consumes three read operations: the user's playlists, the tracks of one playlist, and a single track by id.
// Every failure is returned as a wrapped error; callers treat any of them as a fetch failure.
//
// # Spotify Implementation
//
// [SpotifyService] talks to the Spotify Web API using an [oauth2] token source built from the configured access and refresh tokens.
// Expired access tokens are refreshed transparently by the [oauth2.Client].
// Requests are paced with a [rate.Limiter] so paging through large playlists stays under the API rate limits.
//
// # Caching
//
// [CachedService] decorates any [Service] with a [TrackStore]: tracks seen while listing playlists are written through,
// and single-track lookups (used by challenge replays) are served from the store when possible.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrNotAuthenticated] : no token configured
//   - [shared.ErrTokenExpired] : the API rejected the token (401)
//   - [shared.ErrAPIRequest] : HTTP request failed
//   - [shared.ErrPlaylistNotFound] / [shared.ErrTrackNotFound] : 404 responses
package services
