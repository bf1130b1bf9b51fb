package ui

import (
	"github.com/tunedeck/tunedeck/internal/models"
)

// Messages delivered to [Model.Update] by tea commands. Each server call
// gets its own message type so Update can route on the Go type.

type authCheckedMsg struct {
	user *models.User
	err  error
}

type loggedInMsg struct {
	user *models.User
	err  error
}

type registeredMsg struct {
	user *models.User
	err  error
}

type loggedOutMsg struct {
	err error
}

type libraryLoadedMsg struct {
	playlists []models.Playlist
	songs     []models.Song
	genres    []string
	err       error
}

type playlistFetchedMsg struct {
	playlist *models.Playlist
	err      error
}

type playlistCreatedMsg struct {
	playlist *models.Playlist
	err      error
}

type songsAddedMsg struct {
	playlist *models.Playlist
	err      error
}

type orderSavedMsg struct {
	playlist *models.Playlist
	err      error
}

type playlistDeletedMsg struct {
	id  int
	err error
}

type songUploadedMsg struct {
	song *models.Song
	err  error
}

type songDeletedMsg struct {
	id  int
	err error
}

type accountDeletedMsg struct {
	err error
}

type audioFetchedMsg struct {
	song models.Song
	data []byte
	err  error
}

// statusExpiredMsg clears the status line. The generation guards against
// an old timer wiping a newer message.
type statusExpiredMsg struct {
	gen int
}
