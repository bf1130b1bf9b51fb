package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tunedeck/tunedeck/internal/repositories"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/tunedeck/tunedeck/internal/tasks"
)

// openCacheDB opens the configured cache database.
func (r *Runner) openCacheDB() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// CacheSync mirrors the server's songs and playlists into the local database
// so they can be browsed offline.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	db, err := r.openCacheDB()
	if err != nil {
		return err
	}
	defer db.Close()

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.Sync(ctx, progressCh, db)
	close(progressCh)

	if err != nil {
		return err
	}

	r.logger.Info("cache synced", "created", result.Created, "updated", result.Updated, "removed", result.Removed)

	r.writePlain("\n✓ Cache synced\n")
	r.writePlain("Songs: %d, Playlists: %d\n", result.Songs, result.Playlists)
	r.writePlain("Created: %d, Updated: %d, Removed: %d\n", result.Created, result.Updated, result.Removed)
	return nil
}

// CacheClear removes the cache database file entirely.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Database.Path

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return r.writePlain("Cache is already empty\n")
		}
		return fmt.Errorf("failed to remove cache database: %w", err)
	}

	r.logger.Info("cache cleared", "path", path)
	return r.writePlain("✓ Cache cleared\n")
}

// CacheSongs lists cached songs, optionally filtered by genre or artist.
func (r *Runner) CacheSongs(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openCacheDB()
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if genre := cmd.String("genre"); genre != "" {
		criteria["genre"] = genre
	}
	if artist := cmd.String("artist"); artist != "" {
		criteria["artist"] = artist
	}

	cached, err := repositories.NewSongRepository(db).List(criteria)
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Cached songs (%d)", len(cached)))
	for _, entry := range cached {
		r.writePlain("%s\n", formatSongLine(entry.Song()))
	}
	return nil
}

// CachePlaylists lists cached playlists with their song counts.
func (r *Runner) CachePlaylists(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openCacheDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cached, err := repositories.NewPlaylistRepository(db).List(nil)
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Cached playlists (%d)", len(cached)))
	for _, entry := range cached {
		ids := entry.SongIDs()
		labels := make([]string, len(ids))
		for i, id := range ids {
			labels[i] = fmt.Sprintf("%d", id)
		}
		r.writePlain("[%d] %s (%d songs: %s)\n", entry.ServerID(), entry.Name(), len(ids), strings.Join(labels, ", "))
	}
	return nil
}
