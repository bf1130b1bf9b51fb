// package tasks implements long-running library operations.
//
// The core type is Engine, which orchestrates offline cache syncs and bulk
// playlist exports. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tunedeck/tunedeck/internal/api"
	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/repositories"
)

// Engine orchestrates multi-step library operations against the server.
type Engine struct {
	client *api.Client
}

// NewEngine creates an Engine backed by the given API client.
func NewEngine(client *api.Client) *Engine {
	return &Engine{client: client}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// SyncResult summarizes a cache sync run.
type SyncResult struct {
	Songs     int // Songs currently on the server
	Playlists int // Playlists currently on the server
	Created   int // Cache rows created
	Updated   int // Cache rows refreshed
	Removed   int // Cache rows soft-deleted because the server no longer has them
}

// Sync mirrors the server's songs and playlists into the local cache
// database. Entries the server no longer has are soft-deleted locally.
func (e *Engine) Sync(ctx context.Context, progress chan<- ProgressUpdate, db *sql.DB) (*SyncResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("API client not initialized")
	}

	e.sendProgress(progress, fetchSongsUpdate(1, 2))
	songs, err := e.client.Songs(ctx)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchPlaylistsUpdate(2, 2))
	playlists, err := e.client.Playlists(ctx)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Songs: len(songs), Playlists: len(playlists)}

	if err := e.syncSongs(progress, db, songs, result); err != nil {
		return nil, err
	}
	if err := e.syncPlaylists(progress, db, playlists, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (e *Engine) syncSongs(progress chan<- ProgressUpdate, db *sql.DB, songs []models.Song, result *SyncResult) error {
	repo := repositories.NewSongRepository(db)

	live := make(map[int]bool, len(songs))
	for i, song := range songs {
		live[song.ID] = true
		e.sendProgress(progress, syncSongUpdate(i+1, len(songs), song.Name))

		cached, err := repo.GetByServerID(song.ID)
		if err != nil {
			if err := repo.Create(models.NewCachedSong(0, song.ID, song)); err != nil {
				return fmt.Errorf("failed to cache song %d: %w", song.ID, err)
			}
			result.Created++
			continue
		}
		cached.SetSong(song)
		if err := repo.Update(cached); err != nil {
			return fmt.Errorf("failed to update cached song %d: %w", song.ID, err)
		}
		result.Updated++
	}

	cached, err := repo.List(nil)
	if err != nil {
		return err
	}
	for _, entry := range cached {
		if live[entry.ServerID()] {
			continue
		}
		if err := repo.Delete(entry.ID()); err != nil {
			return fmt.Errorf("failed to prune cached song %d: %w", entry.ServerID(), err)
		}
		result.Removed++
	}

	return nil
}

func (e *Engine) syncPlaylists(progress chan<- ProgressUpdate, db *sql.DB, playlists []models.Playlist, result *SyncResult) error {
	repo := repositories.NewPlaylistRepository(db)

	live := make(map[int]bool, len(playlists))
	for i, playlist := range playlists {
		live[playlist.ID] = true
		e.sendProgress(progress, syncPlaylistUpdate(i+1, len(playlists), playlist.Name))

		cached, err := repo.GetByServerID(playlist.ID)
		if err != nil {
			if err := repo.Create(models.NewCachedPlaylist(0, playlist)); err != nil {
				return fmt.Errorf("failed to cache playlist %d: %w", playlist.ID, err)
			}
			result.Created++
			continue
		}
		cached.SetName(playlist.Name)
		cached.SetSongIDs(playlist.SongIDs())
		if err := repo.Update(cached); err != nil {
			return fmt.Errorf("failed to update cached playlist %d: %w", playlist.ID, err)
		}
		result.Updated++
	}

	cached, err := repo.List(nil)
	if err != nil {
		return err
	}
	for _, entry := range cached {
		if live[entry.ServerID()] {
			continue
		}
		if err := repo.Delete(entry.ID()); err != nil {
			return fmt.Errorf("failed to prune cached playlist %d: %w", entry.ServerID(), err)
		}
		result.Removed++
	}

	return nil
}
