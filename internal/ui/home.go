package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/store"
)

type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayCreate
	overlayUpload
	overlayConfirmDelete
)

const (
	uploadTitle = iota
	uploadArtist
	uploadAlbum
	uploadYear
	uploadAudioPath
	uploadImagePath
	uploadFieldCount
)

// homeModel is the dashboard: the playlist list plus the create-playlist
// and upload-song overlays.
type homeModel struct {
	list    list.Model
	ready   bool
	overlay overlayKind

	createName  textinput.Model
	createPick  picker
	createFocus int // 0 name, 1 picker
	createErr   string

	upload uploadForm

	deleteTarget models.Playlist
}

// uploadForm collects song metadata and file paths. The genre comes from
// the server's fixed list and cycles with left/right.
type uploadForm struct {
	inputs   []textinput.Model
	genres   []string
	genreIdx int
	focus    int
	err      string
	busy     bool
}

func newUploadForm(genres []string) uploadForm {
	inputs := make([]textinput.Model, uploadFieldCount)
	inputs[uploadTitle] = newInput("title", false)
	inputs[uploadArtist] = newInput("artist", false)
	inputs[uploadAlbum] = newInput("album", false)
	inputs[uploadYear] = newInput("release year", false)
	inputs[uploadAudioPath] = newInput("path to mp3 file", false)
	inputs[uploadImagePath] = newInput("path to cover image (optional)", false)
	inputs[uploadAudioPath].CharLimit = 256
	inputs[uploadImagePath].CharLimit = 256
	inputs[uploadTitle].Focus()

	return uploadForm{inputs: inputs, genres: genres}
}

func (f *uploadForm) setFocus(i int) {
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	f.focus = i
}

func (f *uploadForm) genre() string {
	if len(f.genres) == 0 {
		return ""
	}
	return f.genres[f.genreIdx]
}

func (f *uploadForm) cycleGenre(delta int) {
	if len(f.genres) == 0 {
		return
	}
	f.genreIdx = (f.genreIdx + delta + len(f.genres)) % len(f.genres)
}

func (f *uploadForm) validate() (models.SongUpload, string) {
	meta := models.SongUpload{
		Title:      strings.TrimSpace(f.inputs[uploadTitle].Value()),
		ArtistName: strings.TrimSpace(f.inputs[uploadArtist].Value()),
		AlbumName:  strings.TrimSpace(f.inputs[uploadAlbum].Value()),
		Genre:      f.genre(),
	}

	if meta.Title == "" {
		return meta, "title is required"
	}
	if f.inputs[uploadAudioPath].Value() == "" {
		return meta, "an mp3 file is required"
	}
	if raw := f.inputs[uploadYear].Value(); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return meta, "release year must be a number"
		}
		meta.ReleaseYear = year
	}
	return meta, ""
}

// rebuild refreshes the playlist list from the store. Selection survives
// rebuilds when the cursor is still in range.
func (h *homeModel) rebuild(st *store.Store, width, height int) {
	playlists := st.Playlists()
	items := make([]list.Item, len(playlists))
	for i, playlist := range playlists {
		items[i] = playlistItem{playlist: playlist}
	}

	if !h.ready {
		h.list = list.New(items, list.NewDefaultDelegate(), 0, 0)
		h.list.Title = "Your playlists"
		h.list.SetShowHelp(false)
		h.ready = true
	} else {
		h.list.SetItems(items)
	}
	h.resize(width, height)
}

func (h *homeModel) resize(width, height int) {
	if h.ready && width > 0 {
		h.list.SetSize(width-4, height-8)
	}
}

func (h *homeModel) closeOverlay() {
	h.overlay = overlayNone
	h.createErr = ""
	h.upload.busy = false
}

func (h *homeModel) selected() (models.Playlist, bool) {
	item, ok := h.list.SelectedItem().(playlistItem)
	if !ok {
		return models.Playlist{}, false
	}
	return item.playlist, true
}

func (h *homeModel) update(msg tea.Msg) tea.Cmd {
	if !h.ready || h.overlay != overlayNone {
		return nil
	}
	var cmd tea.Cmd
	h.list, cmd = h.list.Update(msg)
	return cmd
}

func (m *Model) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h := &m.home

	switch h.overlay {
	case overlayCreate:
		return m.handleCreateKeys(msg)
	case overlayUpload:
		return m.handleUploadKeys(msg)
	case overlayConfirmDelete:
		return m.handleHomeDeleteKeys(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "enter":
		if playlist, ok := h.selected(); ok {
			return m, m.fetchPlaylist(playlist.ID)
		}
		return m, nil

	case "c":
		h.overlay = overlayCreate
		h.createName = newInput("playlist name", false)
		h.createName.Focus()
		h.createPick = newPicker(m.store.Songs())
		h.createFocus = 0
		h.createErr = ""
		return m, textinput.Blink

	case "u":
		h.overlay = overlayUpload
		h.upload = newUploadForm(m.store.Genres())
		return m, textinput.Blink

	case "x":
		if playlist, ok := h.selected(); ok {
			h.overlay = overlayConfirmDelete
			h.deleteTarget = playlist
		}
		return m, nil

	case "A":
		return m, m.navigate(AccountView)
	}

	var cmd tea.Cmd
	if h.ready {
		h.list, cmd = h.list.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleCreateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h := &m.home

	switch msg.String() {
	case "esc":
		h.closeOverlay()
		return m, nil

	case "tab":
		h.createFocus = 1 - h.createFocus
		if h.createFocus == 0 {
			h.createName.Focus()
			return m, textinput.Blink
		}
		h.createName.Blur()
		return m, nil

	case "enter":
		name := strings.TrimSpace(h.createName.Value())
		if name == "" {
			h.createErr = "name is required"
			return m, nil
		}
		return m, m.createPlaylist(name, h.createPick.chosen())
	}

	if h.createFocus == 0 {
		var cmd tea.Cmd
		h.createName, cmd = h.createName.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "up", "k":
		h.createPick.up()
	case "down", "j":
		h.createPick.down()
	case " ":
		h.createPick.toggle()
	}
	return m, nil
}

func (m *Model) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h := &m.home
	f := &h.upload

	switch msg.String() {
	case "esc":
		h.closeOverlay()
		return m, nil

	case "up", "shift+tab":
		if f.focus > 0 {
			f.setFocus(f.focus - 1)
		}
		return m, nil

	case "down", "tab":
		if f.focus < len(f.inputs)-1 {
			f.setFocus(f.focus + 1)
		}
		return m, nil

	case "left":
		f.cycleGenre(-1)
		return m, nil

	case "right":
		f.cycleGenre(1)
		return m, nil

	case "enter":
		if f.focus < len(f.inputs)-1 {
			f.setFocus(f.focus + 1)
			return m, nil
		}
		if f.busy {
			return m, nil
		}
		meta, problem := f.validate()
		if problem != "" {
			f.err = problem
			return m, nil
		}
		f.err = ""
		f.busy = true
		return m, m.uploadSong(meta, f.inputs[uploadAudioPath].Value(), f.inputs[uploadImagePath].Value())
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleHomeDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h := &m.home

	switch msg.String() {
	case "y":
		return m, m.deletePlaylist(h.deleteTarget.ID)
	case "n", "esc":
		h.closeOverlay()
	}
	return m, nil
}

func (m *Model) renderHome() string {
	h := &m.home

	switch h.overlay {
	case overlayCreate:
		return m.renderCreateOverlay()
	case overlayUpload:
		return m.renderUploadOverlay()
	case overlayConfirmDelete:
		return fmt.Sprintf("%s\n\n%s",
			styles.warn.Render(fmt.Sprintf("Delete playlist %q? Its songs stay in your library.",
				Sanitize(h.deleteTarget.Name))),
			styles.help.Render("y: delete • n: keep"))
	}

	var b strings.Builder
	if user := m.store.User(); user != nil {
		b.WriteString(styles.title.Render(fmt.Sprintf("Welcome, %s", Sanitize(user.DisplayName()))))
		b.WriteString("\n")
	}

	if h.ready {
		b.WriteString(h.list.View())
	} else {
		b.WriteString(styles.subtle.Render("Loading library..."))
	}

	b.WriteString(fmt.Sprintf("\n\n%s", styles.help.Render(
		"enter: open • c: new playlist • u: upload song • x: delete • A: account • q: quit")))
	return b.String()
}

func (m *Model) renderCreateOverlay() string {
	h := &m.home
	var b strings.Builder

	b.WriteString(styles.title.Render("New playlist"))
	b.WriteString("\n")
	b.WriteString(h.createName.View())
	b.WriteString("\n\nSongs:\n")

	if len(h.createPick.songs) == 0 {
		b.WriteString(styles.subtle.Render("  (no songs uploaded yet)"))
		b.WriteString("\n")
	}
	for i, song := range h.createPick.songs {
		marker := "[ ]"
		if h.createPick.selected[song.ID] {
			marker = "[x]"
		}
		line := fmt.Sprintf("%s %s — %s", marker, Sanitize(song.Name), Sanitize(song.ArtistName))
		if h.createFocus == 1 && i == h.createPick.cursor {
			line = styles.selected.Render(line)
		}
		b.WriteString("  " + line + "\n")
	}

	if h.createErr != "" {
		b.WriteString(fmt.Sprintf("\n%s", styles.err.Render(h.createErr)))
	}
	b.WriteString(fmt.Sprintf("\n%s", styles.help.Render(
		"tab: name/songs • space: toggle • enter: create • esc: cancel")))
	return b.String()
}

func (m *Model) renderUploadOverlay() string {
	f := &m.home.upload
	var b strings.Builder

	b.WriteString(styles.title.Render("Upload song"))
	b.WriteString("\n")
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	genre := f.genre()
	if genre == "" {
		genre = "(none)"
	}
	b.WriteString(fmt.Sprintf("\ngenre: %s\n", styles.ok.Render(genre)))

	if f.busy {
		b.WriteString(styles.subtle.Render("\nUploading..."))
	}
	if f.err != "" {
		b.WriteString(fmt.Sprintf("\n%s", styles.err.Render(Sanitize(f.err))))
	}
	b.WriteString(fmt.Sprintf("\n%s", styles.help.Render(
		"enter: next/submit • ←/→: genre • esc: cancel")))
	return b.String()
}
