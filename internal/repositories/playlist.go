package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// PlaylistRepository implements models.Repository[*models.CachedPlaylist]
// for the offline playlist cache.
//
// The song order column stores the server's order verbatim as a JSON array;
// it is never re-derived locally.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new cached playlist into the database with generated ID and sequence
func (r *PlaylistRepository) Create(playlist *models.CachedPlaylist) error {
	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	playlist.SetSequence(sequence)

	id := shared.GenerateID()
	playlist.SetID(id)

	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	order, err := encodeOrder(playlist.SongIDs())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO playlists (id, sequence, server_id, name, song_ids, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		playlist.ServerID(),
		playlist.Name(),
		order,
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a cached playlist by ID, excluding soft-deleted playlists
func (r *PlaylistRepository) Get(id string) (*models.CachedPlaylist, error) {
	query := `
		SELECT id, sequence, server_id, name, song_ids, created_at, updated_at, deleted_at
		FROM playlists
		WHERE id = ? AND deleted_at IS NULL
	`

	return scanPlaylist(r.db.QueryRow(query, id))
}

// GetByServerID retrieves a cached playlist by its server-side identifier
func (r *PlaylistRepository) GetByServerID(serverID int) (*models.CachedPlaylist, error) {
	query := `
		SELECT id, sequence, server_id, name, song_ids, created_at, updated_at, deleted_at
		FROM playlists
		WHERE server_id = ? AND deleted_at IS NULL
	`

	return scanPlaylist(r.db.QueryRow(query, serverID))
}

// Update modifies an existing cached playlist in the database
func (r *PlaylistRepository) Update(playlist *models.CachedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	playlist.SetUpdatedAt(now)

	order, err := encodeOrder(playlist.SongIDs())
	if err != nil {
		return err
	}

	query := `
		UPDATE playlists
		SET name = ?, song_ids = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, playlist.Name(), order, now, playlist.ID())
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist not found or already deleted: %s", playlist.ID())
	}

	return nil
}

// Delete soft-deletes a cached playlist by ID
func (r *PlaylistRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE playlists
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all cached playlists, excluding soft-deleted playlists
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.CachedPlaylist, error) {
	query := `
		SELECT id, sequence, server_id, name, song_ids, created_at, updated_at, deleted_at
		FROM playlists
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name = ?"
		args = append(args, name)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.CachedPlaylist
	for rows.Next() {
		playlist, err := scanPlaylistRow(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

func encodeOrder(ids []int) (string, error) {
	if ids == nil {
		ids = []int{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode song order: %w", err)
	}
	return string(data), nil
}

func decodeOrder(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode song order: %w", err)
	}
	return ids, nil
}

// scanPlaylist scans a single row into a [models.CachedPlaylist]
func scanPlaylist(row *sql.Row) (*models.CachedPlaylist, error) {
	var (
		id        string
		sequence  int
		serverID  int
		name      string
		order     string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &serverID, &name, &order, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("playlist not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	return buildCachedPlaylist(id, sequence, serverID, name, order, createdAt, updatedAt, deletedAt)
}

// scanPlaylistRow scans a row from [sql.Rows] into a [models.CachedPlaylist]
func scanPlaylistRow(rows *sql.Rows) (*models.CachedPlaylist, error) {
	var (
		id        string
		sequence  int
		serverID  int
		name      string
		order     string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &serverID, &name, &order, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	return buildCachedPlaylist(id, sequence, serverID, name, order, createdAt, updatedAt, deletedAt)
}

func buildCachedPlaylist(id string, sequence, serverID int, name, order string, createdAt, updatedAt time.Time, deletedAt sql.NullTime) (*models.CachedPlaylist, error) {
	ids, err := decodeOrder(order)
	if err != nil {
		return nil, err
	}

	playlist := models.NewCachedPlaylist(sequence, models.Playlist{ID: serverID, Name: name})
	playlist.SetID(id)
	playlist.SetSongIDs(ids)
	playlist.SetCreatedAt(createdAt)
	playlist.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		playlist.SetDeletedAt(&deletedAt.Time)
	}

	return playlist, nil
}
