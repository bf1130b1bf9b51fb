package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tunedeck/tunedeck/internal/models"
)

// Server calls run as tea commands so Update never blocks on the network.

func (m *Model) checkAuth() tea.Cmd {
	return func() tea.Msg {
		user, err := m.client.CheckAuth(m.ctx)
		return authCheckedMsg{user: user, err: err}
	}
}

func (m *Model) login(username, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := m.client.Login(m.ctx, username, password)
		return loggedInMsg{user: user, err: err}
	}
}

func (m *Model) register(form registerFields) tea.Cmd {
	return func() tea.Msg {
		user, err := m.client.Register(m.ctx, form.toAPI())
		return registeredMsg{user: user, err: err}
	}
}

func (m *Model) logout() tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: m.client.Logout(m.ctx)}
	}
}

// loadLibrary fetches everything the home view needs in one command.
func (m *Model) loadLibrary() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.client.Playlists(m.ctx)
		if err != nil {
			return libraryLoadedMsg{err: err}
		}
		songs, err := m.client.Songs(m.ctx)
		if err != nil {
			return libraryLoadedMsg{err: err}
		}
		genres, err := m.client.Genres(m.ctx)
		if err != nil {
			return libraryLoadedMsg{err: err}
		}
		return libraryLoadedMsg{playlists: playlists, songs: songs, genres: genres}
	}
}

func (m *Model) fetchPlaylist(id int) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.client.Playlist(m.ctx, id)
		return playlistFetchedMsg{playlist: playlist, err: err}
	}
}

func (m *Model) createPlaylist(name string, songIDs []int) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.client.CreatePlaylist(m.ctx, name, songIDs)
		return playlistCreatedMsg{playlist: playlist, err: err}
	}
}

func (m *Model) addSongs(playlistID int, songIDs []int) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.client.AddSongs(m.ctx, playlistID, songIDs)
		return songsAddedMsg{playlist: playlist, err: err}
	}
}

func (m *Model) saveOrder(playlistID int, songIDs []int) tea.Cmd {
	return func() tea.Msg {
		playlist, err := m.client.SaveOrder(m.ctx, playlistID, songIDs)
		return orderSavedMsg{playlist: playlist, err: err}
	}
}

func (m *Model) deletePlaylist(id int) tea.Cmd {
	return func() tea.Msg {
		return playlistDeletedMsg{id: id, err: m.client.DeletePlaylist(m.ctx, id)}
	}
}

func (m *Model) uploadSong(meta models.SongUpload, audioPath, imagePath string) tea.Cmd {
	return func() tea.Msg {
		song, err := m.client.UploadSong(m.ctx, meta, audioPath, imagePath)
		return songUploadedMsg{song: song, err: err}
	}
}

func (m *Model) deleteSong(id int) tea.Cmd {
	return func() tea.Msg {
		return songDeletedMsg{id: id, err: m.client.DeleteSong(m.ctx, id)}
	}
}

func (m *Model) deleteAccount(password string) tea.Cmd {
	return func() tea.Msg {
		return accountDeletedMsg{err: m.client.DeleteAccount(m.ctx, password)}
	}
}

func (m *Model) fetchAudio(song models.Song) tea.Cmd {
	return func() tea.Msg {
		data, err := m.client.FetchFile(m.ctx, song.AudioFilePath)
		return audioFetchedMsg{song: song, data: data, err: err}
	}
}
