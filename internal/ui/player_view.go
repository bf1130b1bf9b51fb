package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/player"
)

// playerModel is the song detail view with playback controls and the
// delete confirmation.
type playerModel struct {
	song          models.Song
	confirmDelete bool
}

func newPlayerModel(song models.Song) playerModel {
	return playerModel{song: song}
}

func (m *Model) handlePlayerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pv := &m.nowPlaying

	if pv.confirmDelete {
		switch msg.String() {
		case "y":
			pv.confirmDelete = false
			return m, m.deleteSong(pv.song.ID)
		case "n", "esc":
			pv.confirmDelete = false
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.audio.Stop()
		return m, tea.Quit

	case "esc":
		if m.store.CurrentPlaylist() != nil {
			return m, m.navigate(PlaylistView)
		}
		return m, m.navigate(HomeView)

	case "p":
		if m.audio.Track() == pv.song.Name && m.audio.State() != player.StateStopped {
			m.audio.TogglePause()
			return m, nil
		}
		return m, m.fetchAudio(pv.song)

	case "x":
		pv.confirmDelete = true
		return m, nil
	}

	return m, nil
}

func (m *Model) renderPlayer() string {
	pv := &m.nowPlaying
	song := pv.song

	if pv.confirmDelete {
		return fmt.Sprintf("%s\n\n%s",
			styles.warn.Render(fmt.Sprintf(
				"Delete %q? It will disappear from every playlist.", Sanitize(song.Name))),
			styles.help.Render("y: delete • n: keep"))
	}

	var b strings.Builder
	b.WriteString(styles.title.Render(Sanitize(song.Name)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Artist:  %s\n", Sanitize(song.ArtistName)))
	b.WriteString(fmt.Sprintf("Album:   %s", Sanitize(song.AlbumName)))
	if song.AlbumReleaseYear != 0 {
		b.WriteString(fmt.Sprintf(" (%d)", song.AlbumReleaseYear))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Genre:   %s\n", Sanitize(song.Genre)))

	b.WriteString("\n")
	if !player.AudioAvailable {
		b.WriteString(styles.warn.Render("Audio playback is not available in this build."))
		b.WriteString("\n")
	} else if m.audio.Track() == song.Name && m.audio.State() != player.StateStopped {
		b.WriteString(fmt.Sprintf("%s  %s / %s\n",
			styles.ok.Render(m.audio.State().String()),
			player.FormatDuration(m.audio.Position()),
			player.FormatDuration(m.audio.Duration())))
	} else {
		b.WriteString(styles.subtle.Render("Press p to play."))
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("\n%s", styles.help.Render(
		"p: play/pause • x: delete song • esc: back • q: quit")))
	return b.String()
}
