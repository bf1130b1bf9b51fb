package models

import (
	"fmt"
	"time"
)

// CachedSong is a locally persisted snapshot of a library song, kept in the
// offline cache so the library can be browsed without a server round trip.
type CachedSong struct {
	id        string
	sequence  int
	serverID  int
	song      Song
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewCachedSong creates a CachedSong from a server song snapshot.
func NewCachedSong(sequence, serverID int, song Song) *CachedSong {
	now := time.Now()
	return &CachedSong{
		sequence:  sequence,
		serverID:  serverID,
		song:      song,
		createdAt: now,
		updatedAt: now,
	}
}

func (s *CachedSong) ID() string           { return s.id }
func (s *CachedSong) Sequence() int        { return s.sequence }
func (s *CachedSong) ServerID() int        { return s.serverID }
func (s *CachedSong) Song() Song           { return s.song }
func (s *CachedSong) CreatedAt() time.Time { return s.createdAt }
func (s *CachedSong) UpdatedAt() time.Time { return s.updatedAt }
func (s *CachedSong) DeletedAt() *time.Time {
	return s.deletedAt
}

func (s *CachedSong) SetID(id string)           { s.id = id }
func (s *CachedSong) SetSong(song Song)         { s.song = song }
func (s *CachedSong) SetUpdatedAt(t time.Time)  { s.updatedAt = t }
func (s *CachedSong) SetDeletedAt(t *time.Time) { s.deletedAt = t }
func (s *CachedSong) SetCreatedAt(t time.Time)  { s.createdAt = t }
func (s *CachedSong) SetSequence(sequence int)  { s.sequence = sequence }
func (s *CachedSong) SetServerID(serverID int)  { s.serverID = serverID }

// Validate checks that the cached song carries the fields the cache schema requires.
func (s *CachedSong) Validate() error {
	if s.serverID <= 0 {
		return fmt.Errorf("cached song requires a server ID")
	}
	if s.song.Name == "" {
		return fmt.Errorf("cached song requires a name")
	}
	return nil
}

// CachedPlaylist is a locally persisted snapshot of a playlist. The song
// order is stored as the server returned it.
type CachedPlaylist struct {
	id        string
	sequence  int
	serverID  int
	name      string
	songIDs   []int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewCachedPlaylist creates a CachedPlaylist from a server playlist snapshot.
func NewCachedPlaylist(sequence int, playlist Playlist) *CachedPlaylist {
	now := time.Now()
	return &CachedPlaylist{
		sequence:  sequence,
		serverID:  playlist.ID,
		name:      playlist.Name,
		songIDs:   playlist.SongIDs(),
		createdAt: now,
		updatedAt: now,
	}
}

func (p *CachedPlaylist) ID() string            { return p.id }
func (p *CachedPlaylist) Sequence() int         { return p.sequence }
func (p *CachedPlaylist) ServerID() int         { return p.serverID }
func (p *CachedPlaylist) Name() string          { return p.name }
func (p *CachedPlaylist) SongIDs() []int        { return p.songIDs }
func (p *CachedPlaylist) CreatedAt() time.Time  { return p.createdAt }
func (p *CachedPlaylist) UpdatedAt() time.Time  { return p.updatedAt }
func (p *CachedPlaylist) DeletedAt() *time.Time { return p.deletedAt }

func (p *CachedPlaylist) SetID(id string)           { p.id = id }
func (p *CachedPlaylist) SetName(name string)       { p.name = name }
func (p *CachedPlaylist) SetSongIDs(ids []int)      { p.songIDs = ids }
func (p *CachedPlaylist) SetUpdatedAt(t time.Time)  { p.updatedAt = t }
func (p *CachedPlaylist) SetCreatedAt(t time.Time)  { p.createdAt = t }
func (p *CachedPlaylist) SetDeletedAt(t *time.Time) { p.deletedAt = t }
func (p *CachedPlaylist) SetSequence(sequence int)  { p.sequence = sequence }

// Validate checks that the cached playlist carries the fields the cache schema requires.
func (p *CachedPlaylist) Validate() error {
	if p.serverID <= 0 {
		return fmt.Errorf("cached playlist requires a server ID")
	}
	if p.name == "" {
		return fmt.Errorf("cached playlist requires a name")
	}
	return nil
}
