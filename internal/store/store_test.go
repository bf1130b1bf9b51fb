package store

import (
	"path/filepath"
	"testing"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/session"
)

func countEvents(s *Store, types ...EventType) map[EventType]*int {
	counts := map[EventType]*int{}
	for _, t := range types {
		n := 0
		counts[t] = &n
		event := t
		s.Subscribe(func(EventType) { *counts[event]++ }, event)
	}
	return counts
}

func TestSubscriptions(t *testing.T) {
	t.Run("FiltersByType", func(t *testing.T) {
		s := New(nil)
		counts := countEvents(s, EventUser, EventPlaylists)

		s.SetUser(&models.User{ID: 1, Username: "ada"})
		s.SetPlaylists([]models.Playlist{{ID: 1, Name: "Focus"}})
		s.SetGenres([]string{"Jazz"})

		if *counts[EventUser] != 1 || *counts[EventPlaylists] != 1 {
			t.Errorf("expected one event each, got user=%d playlists=%d",
				*counts[EventUser], *counts[EventPlaylists])
		}
	})

	t.Run("NoTypesMeansAll", func(t *testing.T) {
		s := New(nil)
		total := 0
		s.Subscribe(func(EventType) { total++ })

		s.SetUser(nil)
		s.SetGenres(nil)
		s.SetSongs(nil)

		if total != 3 {
			t.Errorf("expected 3 events, got %d", total)
		}
	})

	t.Run("CancelStopsDelivery", func(t *testing.T) {
		s := New(nil)
		fired := 0
		sub := s.Subscribe(func(EventType) { fired++ }, EventSongs)

		s.SetSongs([]models.Song{{ID: 1}})
		sub.Cancel()
		sub.Cancel() // second cancel is a no-op
		s.SetSongs(nil)

		if fired != 1 {
			t.Errorf("expected 1 event before cancel, got %d", fired)
		}
	})

	t.Run("DeliversInRegistrationOrder", func(t *testing.T) {
		s := New(nil)
		var order []int
		for i := 0; i < 30; i++ {
			n := i
			s.Subscribe(func(EventType) { order = append(order, n) }, EventSongs)
		}

		s.SetSongs(nil)

		if len(order) != 30 {
			t.Fatalf("expected 30 deliveries, got %d", len(order))
		}
		for i, n := range order {
			if n != i {
				t.Fatalf("delivery out of registration order: %v", order)
			}
		}
	})

	t.Run("HandlerMayReadStore", func(t *testing.T) {
		s := New(nil)
		var seen int
		s.Subscribe(func(EventType) { seen = len(s.Songs()) }, EventSongs)

		s.SetSongs([]models.Song{{ID: 1}, {ID: 2}})

		if seen != 2 {
			t.Errorf("handler saw stale state: %d", seen)
		}
	})
}

func TestUpserts(t *testing.T) {
	t.Run("UpsertPlaylistReplacesInPlace", func(t *testing.T) {
		s := New(nil)
		s.SetPlaylists([]models.Playlist{{ID: 1, Name: "Old"}, {ID: 2, Name: "Other"}})

		s.UpsertPlaylist(models.Playlist{ID: 1, Name: "Renamed"})

		playlists := s.Playlists()
		if len(playlists) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(playlists))
		}
		if playlists[0].Name != "Renamed" {
			t.Errorf("playlist not replaced in place: %+v", playlists)
		}
	})

	t.Run("UpsertPlaylistAppendsNew", func(t *testing.T) {
		s := New(nil)
		s.SetPlaylists([]models.Playlist{{ID: 1, Name: "A"}})

		s.UpsertPlaylist(models.Playlist{ID: 2, Name: "B"})

		if len(s.Playlists()) != 2 {
			t.Errorf("new playlist not appended")
		}
	})

	t.Run("UpsertPlaylistRefreshesCurrent", func(t *testing.T) {
		s := New(nil)
		s.SetCurrentPlaylist(&models.Playlist{ID: 3, Name: "Stale"})
		counts := countEvents(s, EventCurrentPlaylist)

		s.UpsertPlaylist(models.Playlist{ID: 3, Name: "Fresh"})

		if s.CurrentPlaylist().Name != "Fresh" {
			t.Errorf("open playlist not refreshed")
		}
		if *counts[EventCurrentPlaylist] != 1 {
			t.Errorf("expected 1 current event, got %d", *counts[EventCurrentPlaylist])
		}
	})

	t.Run("UpsertSongPatchesPlaylistCopies", func(t *testing.T) {
		s := New(nil)
		song := models.Song{ID: 5, Name: "Old Title"}
		s.SetSongs([]models.Song{song})
		s.SetPlaylists([]models.Playlist{{ID: 1, Songs: []models.Song{song}}})
		s.SetCurrentPlaylist(&models.Playlist{ID: 1, Songs: []models.Song{song}})

		s.UpsertSong(models.Song{ID: 5, Name: "New Title"})

		if s.Songs()[0].Name != "New Title" {
			t.Error("library copy not updated")
		}
		if s.Playlists()[0].Songs[0].Name != "New Title" {
			t.Error("playlist copy not updated")
		}
		if s.CurrentPlaylist().Songs[0].Name != "New Title" {
			t.Error("open playlist copy not updated")
		}
	})
}

func TestRemovals(t *testing.T) {
	t.Run("RemoveSongDropsFromEverywhere", func(t *testing.T) {
		s := New(nil)
		keep := models.Song{ID: 1, Name: "Keep"}
		drop := models.Song{ID: 2, Name: "Drop"}
		s.SetSongs([]models.Song{keep, drop})
		s.SetPlaylists([]models.Playlist{
			{ID: 1, Songs: []models.Song{keep, drop}},
			{ID: 2, Songs: []models.Song{keep}},
		})
		counts := countEvents(s, EventSongs, EventPlaylists)

		s.RemoveSong(2)

		if len(s.Songs()) != 1 || s.Songs()[0].ID != 1 {
			t.Errorf("song not removed from library: %+v", s.Songs())
		}
		if len(s.Playlists()[0].Songs) != 1 {
			t.Errorf("song not removed from playlist: %+v", s.Playlists()[0].Songs)
		}
		if *counts[EventSongs] != 1 || *counts[EventPlaylists] != 1 {
			t.Errorf("expected exactly one event per slice, got songs=%d playlists=%d",
				*counts[EventSongs], *counts[EventPlaylists])
		}
	})

	t.Run("RemoveSongUntouchedPlaylistsNoEvent", func(t *testing.T) {
		s := New(nil)
		s.SetSongs([]models.Song{{ID: 9}})
		s.SetPlaylists([]models.Playlist{{ID: 1, Songs: []models.Song{{ID: 1}}}})
		counts := countEvents(s, EventPlaylists)

		s.RemoveSong(9)

		if *counts[EventPlaylists] != 0 {
			t.Errorf("playlists event fired without a change")
		}
	})

	t.Run("RemoveSongClearsCurrentSong", func(t *testing.T) {
		s := New(nil)
		s.SetSongs([]models.Song{{ID: 3, Name: "Playing"}, {ID: 4}})
		s.SetCurrentSong(&models.Song{ID: 3, Name: "Playing"})
		counts := countEvents(s, EventCurrentSong)

		s.RemoveSong(3)

		if s.CurrentSong() != nil {
			t.Error("playing song should have been cleared")
		}
		if *counts[EventCurrentSong] != 1 {
			t.Errorf("expected 1 current song event, got %d", *counts[EventCurrentSong])
		}
	})

	t.Run("RemoveSongKeepsUnrelatedCurrentSong", func(t *testing.T) {
		s := New(nil)
		s.SetSongs([]models.Song{{ID: 3}, {ID: 4}})
		s.SetCurrentSong(&models.Song{ID: 4})

		s.RemoveSong(3)

		if s.CurrentSong() == nil || s.CurrentSong().ID != 4 {
			t.Error("playing song should have survived")
		}
	})

	t.Run("RemovePlaylistClearsCurrent", func(t *testing.T) {
		s := New(nil)
		s.SetPlaylists([]models.Playlist{{ID: 1}, {ID: 2}})
		s.SetCurrentPlaylist(&models.Playlist{ID: 2})

		s.RemovePlaylist(2)

		if len(s.Playlists()) != 1 {
			t.Errorf("playlist not removed")
		}
		if s.CurrentPlaylist() != nil {
			t.Errorf("open playlist should have been cleared")
		}
	})
}

func TestCurrentSongAndView(t *testing.T) {
	t.Run("CurrentSong", func(t *testing.T) {
		s := New(nil)
		counts := countEvents(s, EventCurrentSong)

		s.SetCurrentSong(&models.Song{ID: 7, Name: "So What"})

		if s.CurrentSong() == nil || s.CurrentSong().ID != 7 {
			t.Errorf("unexpected current song: %+v", s.CurrentSong())
		}
		if *counts[EventCurrentSong] != 1 {
			t.Errorf("expected 1 event, got %d", *counts[EventCurrentSong])
		}
	})

	t.Run("View", func(t *testing.T) {
		s := New(nil)
		counts := countEvents(s, EventView)

		s.SetView("player")

		if s.View() != "player" {
			t.Errorf("unexpected view %q", s.View())
		}
		if *counts[EventView] != 1 {
			t.Errorf("expected 1 event, got %d", *counts[EventView])
		}
	})
}

func TestReset(t *testing.T) {
	dir := t.TempDir()
	manager := session.NewManager(filepath.Join(dir, "session.json"), nil)
	manager.Save(session.Record{User: models.User{ID: 1, Username: "ada"}})

	s := New(manager)
	s.SetUser(&models.User{ID: 1, Username: "ada"})
	s.SetPlaylists([]models.Playlist{{ID: 1}})
	s.SetSongs([]models.Song{{ID: 1}})
	s.SetGenres([]string{"Jazz"})
	s.SetCurrentPlaylist(&models.Playlist{ID: 1})
	s.SetCurrentSong(&models.Song{ID: 1})
	counts := countEvents(s, EventReset)

	s.Reset()

	if s.User() != nil || s.Playlists() != nil || s.Songs() != nil ||
		s.Genres() != nil || s.CurrentPlaylist() != nil || s.CurrentSong() != nil {
		t.Error("state not fully cleared")
	}
	if manager.Load() != nil {
		t.Error("persisted session not cleared")
	}
	if *counts[EventReset] != 1 {
		t.Errorf("expected 1 reset event, got %d", *counts[EventReset])
	}
}
