package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/tunedeck/tunedeck/internal/models"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = songItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return Sanitize(i.playlist.Name) }
func (i playlistItem) Title() string       { return Sanitize(i.playlist.Name) }
func (i playlistItem) Description() string {
	return fmt.Sprintf("%d songs • created %s",
		len(i.playlist.Songs), i.playlist.CreationDate.Format("Jan 2, 2006"))
}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song models.Song
}

func (i songItem) FilterValue() string { return Sanitize(i.song.Name) }
func (i songItem) Title() string       { return Sanitize(i.song.Name) }
func (i songItem) Description() string {
	desc := Sanitize(i.song.ArtistName)
	if i.song.AlbumName != "" {
		desc = fmt.Sprintf("%s • %s", desc, Sanitize(i.song.AlbumName))
	}
	if i.song.AlbumReleaseYear != 0 {
		desc = fmt.Sprintf("%s (%d)", desc, i.song.AlbumReleaseYear)
	}
	return desc
}

// picker is a minimal multi-select over songs, used when creating a
// playlist or adding songs to one.
type picker struct {
	songs    []models.Song
	selected map[int]bool // keyed by song ID
	cursor   int
}

func newPicker(songs []models.Song) picker {
	return picker{songs: songs, selected: map[int]bool{}}
}

func (p *picker) up() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *picker) down() {
	if p.cursor < len(p.songs)-1 {
		p.cursor++
	}
}

func (p *picker) toggle() {
	if len(p.songs) == 0 {
		return
	}
	id := p.songs[p.cursor].ID
	if p.selected[id] {
		delete(p.selected, id)
	} else {
		p.selected[id] = true
	}
}

// chosen returns the selected song IDs in list order.
func (p *picker) chosen() []int {
	ids := make([]int, 0, len(p.selected))
	for _, song := range p.songs {
		if p.selected[song.ID] {
			ids = append(ids, song.ID)
		}
	}
	return ids
}
