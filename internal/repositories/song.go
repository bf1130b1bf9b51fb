package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// SongRepository implements models.Repository[*models.CachedSong] for the
// offline song cache.
//
// Handles song CRUD operations with soft delete support and server-ID lookups.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new cached song into the database with generated ID and sequence
func (r *SongRepository) Create(song *models.CachedSong) error {
	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	song.SetSequence(sequence)

	id := shared.GenerateID()
	song.SetID(id)

	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	snapshot := song.Song()
	query := `
		INSERT INTO songs (id, sequence, server_id, name, artist, album, release_year, genre, cover_path, audio_path, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		song.ServerID(),
		snapshot.Name,
		snapshot.ArtistName,
		snapshot.AlbumName,
		snapshot.AlbumReleaseYear,
		snapshot.Genre,
		snapshot.AlbumCoverPath,
		snapshot.AudioFilePath,
		song.CreatedAt(),
		song.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Get retrieves a cached song by ID, excluding soft-deleted songs
func (r *SongRepository) Get(id string) (*models.CachedSong, error) {
	query := `
		SELECT id, sequence, server_id, name, artist, album, release_year, genre, cover_path, audio_path, created_at, updated_at, deleted_at
		FROM songs
		WHERE id = ? AND deleted_at IS NULL
	`

	return scanSong(r.db.QueryRow(query, id))
}

// GetByServerID retrieves a cached song by its server-side identifier
func (r *SongRepository) GetByServerID(serverID int) (*models.CachedSong, error) {
	query := `
		SELECT id, sequence, server_id, name, artist, album, release_year, genre, cover_path, audio_path, created_at, updated_at, deleted_at
		FROM songs
		WHERE server_id = ? AND deleted_at IS NULL
	`

	return scanSong(r.db.QueryRow(query, serverID))
}

// Update modifies an existing cached song in the database
func (r *SongRepository) Update(song *models.CachedSong) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	song.SetUpdatedAt(now)

	snapshot := song.Song()
	query := `
		UPDATE songs
		SET name = ?, artist = ?, album = ?, release_year = ?, genre = ?, cover_path = ?, audio_path = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		snapshot.Name,
		snapshot.ArtistName,
		snapshot.AlbumName,
		snapshot.AlbumReleaseYear,
		snapshot.Genre,
		snapshot.AlbumCoverPath,
		snapshot.AudioFilePath,
		now,
		song.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("song not found or already deleted: %s", song.ID())
	}

	return nil
}

// Delete soft-deletes a cached song by ID
func (r *SongRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE songs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("song not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all cached songs matching the given criteria, excluding soft-deleted songs
func (r *SongRepository) List(criteria map[string]any) ([]*models.CachedSong, error) {
	query := `
		SELECT id, sequence, server_id, name, artist, album, release_year, genre, cover_path, audio_path, created_at, updated_at, deleted_at
		FROM songs
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		query += " AND genre = ?"
		args = append(args, genre)
	}

	if artist, ok := criteria["artist"].(string); ok && artist != "" {
		query += " AND artist = ?"
		args = append(args, artist)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.CachedSong
	for rows.Next() {
		song, err := scanSongRow(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

// scanSong scans a single row into a [models.CachedSong]
func scanSong(row *sql.Row) (*models.CachedSong, error) {
	var (
		id          string
		sequence    int
		serverID    int
		name        string
		artist      string
		album       string
		releaseYear int
		genre       string
		coverPath   string
		audioPath   string
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &serverID, &name, &artist, &album, &releaseYear, &genre, &coverPath, &audioPath, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("song not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	return buildCachedSong(id, sequence, serverID, name, artist, album, releaseYear, genre, coverPath, audioPath, createdAt, updatedAt, deletedAt), nil
}

// scanSongRow scans a row from [sql.Rows] into a [models.CachedSong]
func scanSongRow(rows *sql.Rows) (*models.CachedSong, error) {
	var (
		id          string
		sequence    int
		serverID    int
		name        string
		artist      string
		album       string
		releaseYear int
		genre       string
		coverPath   string
		audioPath   string
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &serverID, &name, &artist, &album, &releaseYear, &genre, &coverPath, &audioPath, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	return buildCachedSong(id, sequence, serverID, name, artist, album, releaseYear, genre, coverPath, audioPath, createdAt, updatedAt, deletedAt), nil
}

func buildCachedSong(id string, sequence, serverID int, name, artist, album string, releaseYear int, genre, coverPath, audioPath string, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.CachedSong {
	snapshot := models.Song{
		ID:               serverID,
		Name:             name,
		ArtistName:       artist,
		AlbumName:        album,
		AlbumReleaseYear: releaseYear,
		Genre:            genre,
		AlbumCoverPath:   coverPath,
		AudioFilePath:    audioPath,
	}

	song := models.NewCachedSong(sequence, serverID, snapshot)
	song.SetID(id)
	song.SetCreatedAt(createdAt)
	song.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		song.SetDeletedAt(&deletedAt.Time)
	}

	return song
}
