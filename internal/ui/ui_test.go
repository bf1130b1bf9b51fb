package ui

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tunedeck/tunedeck/internal/api"
	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/tunedeck/tunedeck/internal/store"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()

	client, err := api.NewClient("http://localhost:1", nil)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return NewModel(context.Background(), client, store.New(nil), nil)
}

func newServerModel(t *testing.T, handler http.Handler) *Model {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := api.NewClient(server.URL, nil)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return NewModel(context.Background(), client, store.New(nil), nil)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNavigation(t *testing.T) {
	t.Run("UnknownViewLandsOnErrorView", func(t *testing.T) {
		m := newTestModel(t)

		m.navigate(ViewState(99))

		if m.view != ErrorView {
			t.Errorf("expected ErrorView, got %d", m.view)
		}
		if m.err == nil {
			t.Error("expected an error to be recorded")
		}
	})

	t.Run("PlaylistViewNeedsAnOpenPlaylist", func(t *testing.T) {
		m := newTestModel(t)

		m.navigate(PlaylistView)

		if m.view != ErrorView {
			t.Errorf("expected ErrorView, got %d", m.view)
		}
	})

	t.Run("ViewIsRecordedInStore", func(t *testing.T) {
		m := newTestModel(t)

		m.navigate(AccountView)

		if m.store.View() != "account" {
			t.Errorf("store view not updated, got %q", m.store.View())
		}

		m.navigate(HomeView)
		if m.store.View() != "home" {
			t.Errorf("store view not updated, got %q", m.store.View())
		}
	})

	t.Run("OpeningASongRecordsItAsCurrent", func(t *testing.T) {
		m := newTestModel(t)
		playlist := models.Playlist{ID: 1, Name: "Mix", Songs: []models.Song{{ID: 4, Name: "So What"}}}
		m.store.SetCurrentPlaylist(&playlist)
		m.navigate(PlaylistView)

		m.Update(keyMsg("enter"))

		if m.view != PlayerView {
			t.Fatalf("expected PlayerView, got %d", m.view)
		}
		if m.store.View() != "player" {
			t.Errorf("store view not updated, got %q", m.store.View())
		}
		current := m.store.CurrentSong()
		if current == nil || current.ID != 4 {
			t.Errorf("current song not recorded: %+v", current)
		}
	})

	t.Run("ErrorViewRecovers", func(t *testing.T) {
		m := newTestModel(t)
		m.navigate(ViewState(99))

		next, _ := m.Update(keyMsg("enter"))

		if next.(*Model).view != HomeView {
			t.Errorf("expected HomeView after recovery, got %d", next.(*Model).view)
		}
	})
}

func TestAuthFlow(t *testing.T) {
	t.Run("NoSessionStaysOnAuthView", func(t *testing.T) {
		m := newTestModel(t)

		m.Update(authCheckedMsg{user: nil})

		if m.view != AuthView {
			t.Errorf("expected AuthView, got %d", m.view)
		}
	})

	t.Run("ValidSessionGoesHome", func(t *testing.T) {
		m := newTestModel(t)

		m.Update(authCheckedMsg{user: &models.User{ID: 1, Username: "ada"}})

		if m.view != HomeView {
			t.Errorf("expected HomeView, got %d", m.view)
		}
		if m.store.User() == nil {
			t.Error("user not recorded in store")
		}
	})

	t.Run("FailedLoginShowsFormError", func(t *testing.T) {
		m := newTestModel(t)

		m.Update(loggedInMsg{err: fmt.Errorf("%w: bad credentials", shared.ErrAuthFailed)})

		if m.view != AuthView {
			t.Errorf("expected AuthView, got %d", m.view)
		}
		if m.auth.err == "" {
			t.Error("form error not set")
		}
		if m.auth.busy {
			t.Error("form should accept input again after a failure")
		}
	})

	t.Run("RegisterValidatesPasswordMatch", func(t *testing.T) {
		m := newTestModel(t)
		m.auth.switchMode()
		m.auth.register[regUsername].SetValue("grace")
		m.auth.register[regName].SetValue("Grace")
		m.auth.register[regSurname].SetValue("Hopper")
		m.auth.register[regPassword].SetValue("one")
		m.auth.register[regConfirm].SetValue("two")

		if problem := m.auth.validate(); problem != "passwords do not match" {
			t.Errorf("unexpected validation result %q", problem)
		}
	})
}

func TestSessionExpiry(t *testing.T) {
	m := newTestModel(t)
	m.store.SetUser(&models.User{ID: 1, Username: "ada"})
	m.store.SetPlaylists([]models.Playlist{{ID: 1}})
	m.view = PlaylistView

	m.Update(songsAddedMsg{err: fmt.Errorf("%w: session expired", shared.ErrNotAuthenticated)})

	if m.view != AuthView {
		t.Errorf("expected AuthView after expiry, got %d", m.view)
	}
	if m.store.User() != nil || m.store.Playlists() != nil {
		t.Error("store not reset after expiry")
	}
}

func TestStatusLine(t *testing.T) {
	t.Run("StaleTimerDoesNotClearNewerStatus", func(t *testing.T) {
		m := newTestModel(t)
		m.setStatus("first", false)
		staleGen := m.statusGen
		m.setStatus("second", false)

		m.Update(statusExpiredMsg{gen: staleGen})

		if m.status != "second" {
			t.Errorf("newer status wiped by stale timer: %q", m.status)
		}

		m.Update(statusExpiredMsg{gen: m.statusGen})
		if m.status != "" {
			t.Errorf("status not cleared by its own timer: %q", m.status)
		}
	})

	t.Run("StatusTextIsSanitized", func(t *testing.T) {
		m := newTestModel(t)
		m.setStatus("done\x1b[31m!", false)

		if m.status != "done!" {
			t.Errorf("status not sanitized: %q", m.status)
		}
	})
}

func TestPlaylistMutations(t *testing.T) {
	songs := []models.Song{
		{ID: 1, Name: "One"}, {ID: 2, Name: "Two"}, {ID: 3, Name: "Three"},
	}

	t.Run("ReorderWorksOnACopy", func(t *testing.T) {
		m := newTestModel(t)
		playlist := models.Playlist{ID: 1, Name: "Mix", Songs: songs}
		m.store.SetCurrentPlaylist(&playlist)
		m.navigate(PlaylistView)

		m.Update(keyMsg("r"))
		m.Update(keyMsg("J")) // move first song down

		if m.playlist.working[0].ID != 2 || m.playlist.working[1].ID != 1 {
			t.Errorf("move did not reorder the working copy: %+v", m.playlist.working)
		}
		if m.playlist.playlist.Songs[0].ID != 1 {
			t.Error("reorder leaked into the real playlist before save")
		}

		m.Update(keyMsg("esc"))
		if m.playlist.working != nil {
			t.Error("discarded reorder buffer not dropped")
		}
	})

	t.Run("SavedOrderReplacesPlaylist", func(t *testing.T) {
		m := newTestModel(t)
		m.store.SetPlaylists([]models.Playlist{{ID: 1, Name: "Mix", Songs: songs}})
		m.view = PlaylistView

		reordered := models.Playlist{ID: 1, Name: "Mix", Songs: []models.Song{songs[2], songs[0], songs[1]}}
		m.Update(orderSavedMsg{playlist: &reordered})

		if got := m.store.Playlists()[0].SongIDs(); got[0] != 3 {
			t.Errorf("store playlist not updated: %v", got)
		}
		if m.playlist.pager.Page() != 1 {
			t.Errorf("pager should reset after mutation, got page %d", m.playlist.pager.Page())
		}
	})

	t.Run("DeletedPlaylistReturnsHome", func(t *testing.T) {
		m := newTestModel(t)
		m.store.SetPlaylists([]models.Playlist{{ID: 1}, {ID: 2}})
		m.store.SetCurrentPlaylist(&models.Playlist{ID: 2})
		m.view = PlaylistView

		m.Update(playlistDeletedMsg{id: 2})

		if m.view != HomeView {
			t.Errorf("expected HomeView after deletion, got %d", m.view)
		}
		if len(m.store.Playlists()) != 1 {
			t.Errorf("playlist not removed from store")
		}
	})

	t.Run("AddSongsOffersOnlyMissingSongs", func(t *testing.T) {
		m := newTestModel(t)
		m.store.SetSongs(songs)
		playlist := models.Playlist{ID: 1, Name: "Mix", Songs: songs[:1]}
		m.store.SetCurrentPlaylist(&playlist)
		m.navigate(PlaylistView)

		m.Update(keyMsg("a"))

		if len(m.playlist.addPick.songs) != 2 {
			t.Errorf("expected 2 candidates, got %d", len(m.playlist.addPick.songs))
		}
		for _, song := range m.playlist.addPick.songs {
			if song.ID == 1 {
				t.Error("song already in playlist offered again")
			}
		}
	})
}

func TestStoreDrivenRefresh(t *testing.T) {
	t.Run("DashboardFollowsStoreMutations", func(t *testing.T) {
		m := newTestModel(t)
		m.store.SetPlaylists([]models.Playlist{{ID: 1, Name: "Focus"}})

		if got := len(m.home.list.Items()); got != 1 {
			t.Fatalf("expected 1 item after store update, got %d", got)
		}

		m.store.UpsertPlaylist(models.Playlist{ID: 2, Name: "Road Trip"})
		if got := len(m.home.list.Items()); got != 2 {
			t.Errorf("expected 2 items, got %d", got)
		}
	})

	t.Run("CloseStopsRefresh", func(t *testing.T) {
		m := newTestModel(t)
		m.store.SetPlaylists([]models.Playlist{{ID: 1, Name: "Focus"}})
		m.Close()

		m.store.UpsertPlaylist(models.Playlist{ID: 2, Name: "Road Trip"})
		if got := len(m.home.list.Items()); got != 1 {
			t.Errorf("expected list frozen after close, got %d items", got)
		}
	})
}

func TestSongUpload(t *testing.T) {
	t.Run("ServerRejectionKeepsFormOpen", func(t *testing.T) {
		m := newServerModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"status":"error","message":"validation failed","errors":{"genreName":"unknown genre"}}`))
		}))
		m.store.SetSongs([]models.Song{{ID: 1, Name: "Keep"}})
		m.home.overlay = overlayUpload
		m.home.upload = newUploadForm(nil)
		m.home.upload.busy = true

		audioPath := filepath.Join(t.TempDir(), "song.mp3")
		if err := os.WriteFile(audioPath, []byte("not really audio"), 0o644); err != nil {
			t.Fatalf("failed to write audio file: %v", err)
		}

		msg := m.uploadSong(models.SongUpload{Title: "New Song"}, audioPath, "")()
		m.Update(msg)

		if songs := m.store.Songs(); len(songs) != 1 || songs[0].Name != "Keep" {
			t.Errorf("library changed by a failed upload: %+v", songs)
		}
		if m.home.overlay != overlayUpload {
			t.Error("upload form should stay open on failure")
		}
		if m.home.upload.busy {
			t.Error("form should accept a retry after a failure")
		}
		if !strings.Contains(m.home.upload.err, "validation failed") ||
			!strings.Contains(m.home.upload.err, "genreName: unknown genre") {
			t.Errorf("field errors not surfaced: %q", m.home.upload.err)
		}
	})
}
