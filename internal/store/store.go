// In-memory client state shared between views, with change notifications
package store

import (
	"sync"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/session"
)

// EventType names a slice of client state that changed.
type EventType string

const (
	EventUser            EventType = "user"
	EventPlaylists       EventType = "playlists"
	EventSongs           EventType = "songs"
	EventGenres          EventType = "genres"
	EventCurrentPlaylist EventType = "current_playlist"
	EventCurrentSong     EventType = "current_song"
	EventView            EventType = "view"
	EventReset           EventType = "reset"
)

// Store holds the signed-in user's state. All access is safe for
// concurrent use; notifications run outside the lock so handlers may
// read the store freely.
type Store struct {
	mu        sync.Mutex
	user      *models.User
	playlists []models.Playlist
	songs     []models.Song
	genres    []string
	current   *models.Playlist
	playing   *models.Song
	view      string

	sessions *session.Manager
	handlers []*handler
	nextID   int
}

type handler struct {
	id    int
	types map[EventType]bool
	fn    func(EventType)
}

// Subscription is a live registration on the store. Cancel detaches it;
// cancelling twice is a no-op.
type Subscription struct {
	store *Store
	id    int
}

// Cancel removes the subscription so its handler fires no further events.
func (s *Subscription) Cancel() {
	if s.store == nil {
		return
	}
	s.store.mu.Lock()
	for i, h := range s.store.handlers {
		if h.id == s.id {
			s.store.handlers = append(s.store.handlers[:i], s.store.handlers[i+1:]...)
			break
		}
	}
	s.store.mu.Unlock()
	s.store = nil
}

// New creates an empty store. The session manager may be nil; when set,
// Reset clears the persisted session along with the in-memory state.
func New(sessions *session.Manager) *Store {
	return &Store{sessions: sessions}
}

// Subscribe registers fn for the given event types. With no types, fn
// fires on every event.
func (s *Store) Subscribe(fn func(EventType), types ...EventType) *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	h := &handler{id: s.nextID, fn: fn}
	if len(types) > 0 {
		h.types = make(map[EventType]bool, len(types))
		for _, t := range types {
			h.types[t] = true
		}
	}

	s.handlers = append(s.handlers, h)
	return &Subscription{store: s, id: h.id}
}

// publish runs matching handlers outside the lock, synchronously and in
// registration order. Callers must not hold the mutex.
func (s *Store) publish(events ...EventType) {
	s.mu.Lock()
	matched := make([]func(EventType), 0, len(s.handlers))
	pairs := make([]EventType, 0, len(s.handlers))
	for _, event := range events {
		for _, h := range s.handlers {
			if h.types == nil || h.types[event] {
				matched = append(matched, h.fn)
				pairs = append(pairs, event)
			}
		}
	}
	s.mu.Unlock()

	for i, fn := range matched {
		fn(pairs[i])
	}
}

// User returns the signed-in user, or nil when signed out.
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// SetUser records the signed-in user.
func (s *Store) SetUser(user *models.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.publish(EventUser)
}

// Playlists returns the cached playlist list.
func (s *Store) Playlists() []models.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playlists
}

// SetPlaylists replaces the cached playlist list.
func (s *Store) SetPlaylists(playlists []models.Playlist) {
	s.mu.Lock()
	s.playlists = playlists
	s.mu.Unlock()
	s.publish(EventPlaylists)
}

// Songs returns the cached song library.
func (s *Store) Songs() []models.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.songs
}

// SetSongs replaces the cached song library.
func (s *Store) SetSongs(songs []models.Song) {
	s.mu.Lock()
	s.songs = songs
	s.mu.Unlock()
	s.publish(EventSongs)
}

// Genres returns the server's genre list.
func (s *Store) Genres() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.genres
}

// SetGenres records the server's genre list.
func (s *Store) SetGenres(genres []string) {
	s.mu.Lock()
	s.genres = genres
	s.mu.Unlock()
	s.publish(EventGenres)
}

// CurrentPlaylist returns the playlist open in the detail view, or nil.
func (s *Store) CurrentPlaylist() *models.Playlist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetCurrentPlaylist records the playlist open in the detail view.
func (s *Store) SetCurrentPlaylist(playlist *models.Playlist) {
	s.mu.Lock()
	s.current = playlist
	s.mu.Unlock()
	s.publish(EventCurrentPlaylist)
}

// CurrentSong returns the song loaded in the player, or nil.
func (s *Store) CurrentSong() *models.Song {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// SetCurrentSong records the song loaded in the player.
func (s *Store) SetCurrentSong(song *models.Song) {
	s.mu.Lock()
	s.playing = song
	s.mu.Unlock()
	s.publish(EventCurrentSong)
}

// View returns the name of the screen on display.
func (s *Store) View() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SetView records the screen on display.
func (s *Store) SetView(view string) {
	s.mu.Lock()
	s.view = view
	s.mu.Unlock()
	s.publish(EventView)
}

// UpsertPlaylist replaces the playlist with the same ID in the cached
// list, or appends it when new. When it is the open playlist, the open
// copy is refreshed as well.
func (s *Store) UpsertPlaylist(playlist models.Playlist) {
	s.mu.Lock()
	replaced := false
	for i := range s.playlists {
		if s.playlists[i].ID == playlist.ID {
			s.playlists[i] = playlist
			replaced = true
			break
		}
	}
	if !replaced {
		s.playlists = append(s.playlists, playlist)
	}

	refreshCurrent := s.current != nil && s.current.ID == playlist.ID
	if refreshCurrent {
		copied := playlist
		s.current = &copied
	}
	s.mu.Unlock()

	if refreshCurrent {
		s.publish(EventPlaylists, EventCurrentPlaylist)
		return
	}
	s.publish(EventPlaylists)
}

// UpsertSong replaces the song with the same ID in the library, or
// appends it, and patches embedded copies inside cached playlists.
func (s *Store) UpsertSong(song models.Song) {
	s.mu.Lock()
	replaced := false
	for i := range s.songs {
		if s.songs[i].ID == song.ID {
			s.songs[i] = song
			replaced = true
			break
		}
	}
	if !replaced {
		s.songs = append(s.songs, song)
	}

	playlistsChanged := false
	for i := range s.playlists {
		for j := range s.playlists[i].Songs {
			if s.playlists[i].Songs[j].ID == song.ID {
				s.playlists[i].Songs[j] = song
				playlistsChanged = true
			}
		}
	}
	currentChanged := false
	if s.current != nil {
		for j := range s.current.Songs {
			if s.current.Songs[j].ID == song.ID {
				s.current.Songs[j] = song
				currentChanged = true
			}
		}
	}
	s.mu.Unlock()

	events := []EventType{EventSongs}
	if playlistsChanged {
		events = append(events, EventPlaylists)
	}
	if currentChanged {
		events = append(events, EventCurrentPlaylist)
	}
	s.publish(events...)
}

// RemovePlaylist drops a playlist from the cache. When it is the open
// playlist, the open slot is cleared too.
func (s *Store) RemovePlaylist(id int) {
	s.mu.Lock()
	kept := s.playlists[:0]
	for _, p := range s.playlists {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.playlists = kept

	clearedCurrent := s.current != nil && s.current.ID == id
	if clearedCurrent {
		s.current = nil
	}
	s.mu.Unlock()

	if clearedCurrent {
		s.publish(EventPlaylists, EventCurrentPlaylist)
		return
	}
	s.publish(EventPlaylists)
}

// RemoveSong drops a song from the library and from every cached
// playlist that held it. Each affected slice fires exactly one event.
func (s *Store) RemoveSong(id int) {
	s.mu.Lock()
	keptSongs := s.songs[:0]
	for _, song := range s.songs {
		if song.ID != id {
			keptSongs = append(keptSongs, song)
		}
	}
	s.songs = keptSongs

	playlistsChanged := false
	for i := range s.playlists {
		if removeSongFrom(&s.playlists[i], id) {
			playlistsChanged = true
		}
	}
	currentChanged := s.current != nil && removeSongFrom(s.current, id)

	playingCleared := s.playing != nil && s.playing.ID == id
	if playingCleared {
		s.playing = nil
	}
	s.mu.Unlock()

	events := []EventType{EventSongs}
	if playlistsChanged {
		events = append(events, EventPlaylists)
	}
	if currentChanged {
		events = append(events, EventCurrentPlaylist)
	}
	if playingCleared {
		events = append(events, EventCurrentSong)
	}
	s.publish(events...)
}

func removeSongFrom(playlist *models.Playlist, id int) bool {
	kept := playlist.Songs[:0]
	changed := false
	for _, song := range playlist.Songs {
		if song.ID == id {
			changed = true
			continue
		}
		kept = append(kept, song)
	}
	playlist.Songs = kept
	return changed
}

// Reset clears all state and the persisted session. Used on logout and
// when the server reports the session expired.
func (s *Store) Reset() {
	s.mu.Lock()
	s.user = nil
	s.playlists = nil
	s.songs = nil
	s.genres = nil
	s.current = nil
	s.playing = nil
	sessions := s.sessions
	s.mu.Unlock()

	if sessions != nil {
		sessions.Clear()
	}
	s.publish(EventReset)
}
