package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tunedeck/tunedeck/internal/models"
)

type playlistMode int

const (
	playlistBrowse playlistMode = iota
	playlistReorder
	playlistAddSongs
)

// playlistModel is the playlist detail view: a paged song list with a
// reorder overlay and an add-songs picker.
type playlistModel struct {
	playlist models.Playlist
	pager    Pager
	cursor   int // absolute index into playlist.Songs
	mode     playlistMode

	// reorder works on a copy; esc throws it away, save commits the
	// whole order in one request
	working       []models.Song
	reorderCursor int

	addPick picker
}

func newPlaylistModel(playlist models.Playlist) playlistModel {
	pm := playlistModel{playlist: playlist, pager: NewPager(songsPerPage)}
	pm.pager.SetTotal(len(playlist.Songs))
	return pm
}

// visible returns the songs on the current page.
func (p *playlistModel) visible() []models.Song {
	start, end := p.pager.Bounds()
	return p.playlist.Songs[start:end]
}

func (p *playlistModel) clampCursor() {
	start, end := p.pager.Bounds()
	if p.cursor < start {
		p.cursor = start
	}
	if p.cursor >= end && end > start {
		p.cursor = end - 1
	}
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.playlist

	switch p.mode {
	case playlistReorder:
		return m.handleReorderKeys(msg)
	case playlistAddSongs:
		return m.handleAddSongsKeys(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.store.SetCurrentPlaylist(nil)
		return m, m.navigate(HomeView)

	case "up", "k":
		start, _ := p.pager.Bounds()
		if p.cursor > start {
			p.cursor--
		}
		return m, nil

	case "down", "j":
		_, end := p.pager.Bounds()
		if p.cursor < end-1 {
			p.cursor++
		}
		return m, nil

	case "left", "h":
		p.pager.Prev()
		start, _ := p.pager.Bounds()
		p.cursor = start
		return m, nil

	case "right", "l":
		p.pager.Next()
		start, _ := p.pager.Bounds()
		p.cursor = start
		return m, nil

	case "enter":
		if len(p.playlist.Songs) == 0 {
			return m, nil
		}
		song := p.playlist.Songs[p.cursor]
		m.store.SetCurrentSong(&song)
		m.nowPlaying = newPlayerModel(song)
		return m, m.navigate(PlayerView)

	case "r":
		if len(p.playlist.Songs) < 2 {
			return m, nil
		}
		p.mode = playlistReorder
		p.working = append([]models.Song(nil), p.playlist.Songs...)
		p.reorderCursor = 0
		return m, nil

	case "a":
		// only songs not already in the playlist are offered
		var candidates []models.Song
		for _, song := range m.store.Songs() {
			if !p.playlist.Contains(song.ID) {
				candidates = append(candidates, song)
			}
		}
		p.mode = playlistAddSongs
		p.addPick = newPicker(candidates)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleReorderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.playlist

	switch msg.String() {
	case "esc":
		p.mode = playlistBrowse
		p.working = nil
		return m, nil

	case "up", "k":
		if p.reorderCursor > 0 {
			p.reorderCursor--
		}
		return m, nil

	case "down", "j":
		if p.reorderCursor < len(p.working)-1 {
			p.reorderCursor++
		}
		return m, nil

	case "K", "shift+up":
		if p.reorderCursor > 0 {
			i := p.reorderCursor
			p.working[i-1], p.working[i] = p.working[i], p.working[i-1]
			p.reorderCursor--
		}
		return m, nil

	case "J", "shift+down":
		if p.reorderCursor < len(p.working)-1 {
			i := p.reorderCursor
			p.working[i], p.working[i+1] = p.working[i+1], p.working[i]
			p.reorderCursor++
		}
		return m, nil

	case "s", "enter":
		ids := make([]int, len(p.working))
		for i, song := range p.working {
			ids[i] = song.ID
		}
		return m, m.saveOrder(p.playlist.ID, ids)
	}

	return m, nil
}

func (m *Model) handleAddSongsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := &m.playlist

	switch msg.String() {
	case "esc":
		p.mode = playlistBrowse
		return m, nil
	case "up", "k":
		p.addPick.up()
	case "down", "j":
		p.addPick.down()
	case " ":
		p.addPick.toggle()
	case "enter":
		chosen := p.addPick.chosen()
		if len(chosen) == 0 {
			p.mode = playlistBrowse
			return m, nil
		}
		return m, m.addSongs(p.playlist.ID, chosen)
	}
	return m, nil
}

func (m *Model) renderPlaylist() string {
	p := &m.playlist

	switch p.mode {
	case playlistReorder:
		return m.renderReorder()
	case playlistAddSongs:
		return m.renderAddSongs()
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(Sanitize(p.playlist.Name)))
	b.WriteString("\n")

	if len(p.playlist.Songs) == 0 {
		b.WriteString(styles.subtle.Render("This playlist is empty."))
		b.WriteString("\n")
	}

	start, _ := p.pager.Bounds()
	for i, song := range p.visible() {
		line := fmt.Sprintf("%2d. %s — %s", start+i+1, Sanitize(song.Name), Sanitize(song.ArtistName))
		if start+i == p.cursor {
			line = styles.selected.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if p.pager.ShowControls() {
		var controls []string
		if p.pager.HasPrev() {
			controls = append(controls, "← prev")
		}
		controls = append(controls, fmt.Sprintf("page %d/%d", p.pager.Page(), p.pager.TotalPages()))
		if p.pager.HasNext() {
			controls = append(controls, "next →")
		}
		b.WriteString(fmt.Sprintf("\n%s\n", styles.subtle.Render(strings.Join(controls, "  "))))
	}

	b.WriteString(fmt.Sprintf("\n%s", styles.help.Render(
		"enter: open song • a: add songs • r: reorder • esc: back • q: quit")))
	return b.String()
}

func (m *Model) renderReorder() string {
	p := &m.playlist
	var b strings.Builder

	b.WriteString(styles.title.Render(fmt.Sprintf("Reorder %s", Sanitize(p.playlist.Name))))
	b.WriteString("\n")

	for i, song := range p.working {
		line := fmt.Sprintf("%2d. %s — %s", i+1, Sanitize(song.Name), Sanitize(song.ArtistName))
		if i == p.reorderCursor {
			line = styles.selected.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(fmt.Sprintf("\n%s", styles.help.Render(
		"K/J: move song • s: save order • esc: discard")))
	return b.String()
}

func (m *Model) renderAddSongs() string {
	p := &m.playlist
	var b strings.Builder

	b.WriteString(styles.title.Render(fmt.Sprintf("Add songs to %s", Sanitize(p.playlist.Name))))
	b.WriteString("\n")

	if len(p.addPick.songs) == 0 {
		b.WriteString(styles.subtle.Render("Every song you have is already in this playlist."))
		b.WriteString("\n")
	}
	for i, song := range p.addPick.songs {
		marker := "[ ]"
		if p.addPick.selected[song.ID] {
			marker = "[x]"
		}
		line := fmt.Sprintf("%s %s — %s", marker, Sanitize(song.Name), Sanitize(song.ArtistName))
		if i == p.addPick.cursor {
			line = styles.selected.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString(fmt.Sprintf("\n%s", styles.help.Render(
		"space: toggle • enter: add • esc: cancel")))
	return b.String()
}
