package main

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/guessify/internal/repositories"
	"github.com/desertthunder/guessify/internal/services"
	"github.com/desertthunder/guessify/internal/shared"
	"github.com/urfave/cli/v3"
)

// openCache opens the track cache database, applying migrations.
func (r *Runner) openCache() (*repositories.TrackCacheRepository, func() error, error) {
	db, err := shared.OpenCache(r.config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open track cache: %w", err)
	}
	return repositories.NewTrackCacheRepository(db), db.Close, nil
}

// withTrackCache wraps svc with the SQLite track cache. The returned func closes the database and must be
// called before the process exits.
func withTrackCache(svc services.Service, cfg shared.DatabaseConfig, logger *log.Logger) (services.Service, func() error, error) {
	db, err := shared.OpenCache(cfg)
	if err != nil {
		return nil, nil, err
	}
	store := repositories.NewTrackCacheAdapter(repositories.NewTrackCacheRepository(db), cacheService)
	return services.NewCachedService(svc, store, shared.WithLogger(logger, "component", "cache")), db.Close, nil
}

// CacheStats prints the number of cached tracks per service.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.openCache()
	if err != nil {
		return err
	}
	defer closeDB()

	counts, err := repo.Count()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(counts, false)
	}

	if len(counts) == 0 {
		return r.writePlain("Track cache is empty (%s)\n", r.config.Database.Path)
	}

	total := 0
	r.writePlain("Track cache (%s):\n", r.config.Database.Path)
	for _, service := range slices.Sorted(maps.Keys(counts)) {
		r.writePlain("  %s: %d\n", service, counts[service])
		total += counts[service]
	}
	r.writePlain("  total: %d\n", total)
	return nil
}

// CacheClear removes cached tracks, optionally for a single service.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	repo, closeDB, err := r.openCache()
	if err != nil {
		return err
	}
	defer closeDB()

	service := cmd.String("service")
	n, err := repo.Clear(service)
	if err != nil {
		return err
	}

	r.logger.Info("track cache cleared", "service", service, "rows", n)
	return r.writePlain("✓ Removed %d cached tracks\n", n)
}
