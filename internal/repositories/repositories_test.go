package repositories

import (
	"database/sql"
	"testing"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func testSong(serverID int, name string) *models.CachedSong {
	return models.NewCachedSong(0, serverID, models.Song{
		ID:               serverID,
		Name:             name,
		ArtistName:       "Miles Davis",
		AlbumName:        "Kind of Blue",
		AlbumReleaseYear: 1959,
		Genre:            "Jazz",
		AudioFilePath:    "/audio/1.mp3",
	})
}

func TestSongRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := testSong(10, "So What")

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if song.ID() == "" {
			t.Error("song ID should be set after creation")
		}
		if song.Sequence() == 0 {
			t.Error("song sequence should be assigned after creation")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := testSong(10, "So What")

		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		retrieved, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}

		if retrieved.Song().Name != "So What" {
			t.Errorf("expected name So What, got %s", retrieved.Song().Name)
		}
		if retrieved.Song().AlbumReleaseYear != 1959 {
			t.Errorf("expected year 1959, got %d", retrieved.Song().AlbumReleaseYear)
		}
	})

	t.Run("GetByServerID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		if err := repo.Create(testSong(42, "Blue in Green")); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		retrieved, err := repo.GetByServerID(42)
		if err != nil {
			t.Fatalf("failed to get song by server ID: %v", err)
		}
		if retrieved.ServerID() != 42 {
			t.Errorf("expected server ID 42, got %d", retrieved.ServerID())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := testSong(10, "So What")
		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		snapshot := song.Song()
		snapshot.Name = "So What (Remastered)"
		song.SetSong(snapshot)

		if err := repo.Update(song); err != nil {
			t.Fatalf("failed to update song: %v", err)
		}

		retrieved, err := repo.Get(song.ID())
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if retrieved.Song().Name != "So What (Remastered)" {
			t.Errorf("update not persisted: %s", retrieved.Song().Name)
		}
	})

	t.Run("SoftDelete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		song := testSong(10, "So What")
		if err := repo.Create(song); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		if err := repo.Delete(song.ID()); err != nil {
			t.Fatalf("failed to delete song: %v", err)
		}

		if _, err := repo.Get(song.ID()); err == nil {
			t.Error("deleted song should not be retrievable")
		}
		if err := repo.Delete(song.ID()); err == nil {
			t.Error("second delete should report not found")
		}
	})

	t.Run("ListWithCriteria", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		jazz := testSong(1, "So What")
		rock := models.NewCachedSong(0, 2, models.Song{ID: 2, Name: "Paranoid", Genre: "Rock"})

		if err := repo.Create(jazz); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}
		if err := repo.Create(rock); err != nil {
			t.Fatalf("failed to create song: %v", err)
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 songs, got %d", len(all))
		}

		jazzOnly, err := repo.List(map[string]any{"genre": "Jazz"})
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		if len(jazzOnly) != 1 || jazzOnly[0].Song().Name != "So What" {
			t.Errorf("genre filter returned wrong rows: %d", len(jazzOnly))
		}
	})

	t.Run("SequenceOrdering", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSongRepository(db)
		for i, name := range []string{"First", "Second", "Third"} {
			if err := repo.Create(testSong(i+1, name)); err != nil {
				t.Fatalf("failed to create song: %v", err)
			}
		}

		songs, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list songs: %v", err)
		}
		for i, song := range songs {
			if song.Sequence() != i+1 {
				t.Errorf("song %d has sequence %d", i, song.Sequence())
			}
		}
	})
}

func TestPlaylistRepository(t *testing.T) {
	newPlaylist := func(serverID int, name string, songIDs []int) *models.CachedPlaylist {
		p := models.NewCachedPlaylist(0, models.Playlist{ID: serverID, Name: name})
		p.SetSongIDs(songIDs)
		return p
	}

	t.Run("CreateAndGet", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		playlist := newPlaylist(7, "Road Trip", []int{3, 1, 2})

		if err := repo.Create(playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		retrieved, err := repo.Get(playlist.ID())
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}
		if retrieved.Name() != "Road Trip" {
			t.Errorf("expected name Road Trip, got %s", retrieved.Name())
		}
	})

	t.Run("OrderSurvivesRoundTrip", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		playlist := newPlaylist(7, "Road Trip", []int{3, 1, 2})

		if err := repo.Create(playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		retrieved, err := repo.GetByServerID(7)
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}

		got := retrieved.SongIDs()
		want := []int{3, 1, 2}
		if len(got) != len(want) {
			t.Fatalf("expected %d song IDs, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("song order changed at %d: got %v", i, got)
			}
		}
	})

	t.Run("UpdateOrder", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		playlist := newPlaylist(7, "Road Trip", []int{1, 2, 3})

		if err := repo.Create(playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		playlist.SetSongIDs([]int{2, 3, 1})
		if err := repo.Update(playlist); err != nil {
			t.Fatalf("failed to update playlist: %v", err)
		}

		retrieved, err := repo.Get(playlist.ID())
		if err != nil {
			t.Fatalf("failed to get playlist: %v", err)
		}
		if ids := retrieved.SongIDs(); ids[0] != 2 || ids[2] != 1 {
			t.Errorf("order update not persisted: %v", ids)
		}
	})

	t.Run("SoftDelete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		playlist := newPlaylist(7, "Road Trip", nil)

		if err := repo.Create(playlist); err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}
		if err := repo.Delete(playlist.ID()); err != nil {
			t.Fatalf("failed to delete playlist: %v", err)
		}

		remaining, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list playlists: %v", err)
		}
		if len(remaining) != 0 {
			t.Errorf("deleted playlist still listed: %d", len(remaining))
		}
	})

	t.Run("ValidationRejectsEmptyName", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewPlaylistRepository(db)
		playlist := newPlaylist(7, "", nil)

		if err := repo.Create(playlist); err == nil {
			t.Error("expected validation failure for empty name")
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for want := 1; want <= 3; want++ {
		got, err := NextSequence(db, "songs")
		if err != nil {
			t.Fatalf("failed to get sequence: %v", err)
		}
		if got != want {
			t.Errorf("expected sequence %d, got %d", want, got)
		}
	}

	// each table counts independently
	got, err := NextSequence(db, "playlists")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}
	if got != 1 {
		t.Errorf("expected playlist sequence 1, got %d", got)
	}
}
