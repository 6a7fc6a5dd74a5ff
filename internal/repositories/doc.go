// Package repositories implements SQLite persistence for provider track metadata.
//
// [TrackCacheRepository] stores one row per (service, service_id) pair and upserts on conflict,
// so repeated playlist fetches refresh metadata without duplicating rows.
// [TrackCacheAdapter] binds the repository to a single service name and satisfies services.TrackStore.
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
