package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// RegisterForm carries the fields of a new account request.
type RegisterForm struct {
	Username string
	Name     string
	Surname  string
	Password string
}

// CheckAuth asks the server whether the current cookies identify a user.
// A missing or expired session is not an error; it returns a nil user.
func (c *Client) CheckAuth(ctx context.Context) (*models.User, error) {
	resp, err := c.Do(ctx, http.MethodGet, "/api/checkAuth", EmptyBody())
	if err != nil {
		return nil, err
	}
	if !resp.Success() {
		return nil, nil
	}

	var user models.User
	if err := resp.DecodeData(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates with the server and returns the signed-in user. The
// session cookie lands in the client's jar.
func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.Do(ctx, http.MethodPost, "/api/login", FormBody(form))
	if err != nil {
		return nil, err
	}
	if !resp.Success() {
		return nil, fmt.Errorf("%w: %s", shared.ErrAuthFailed, resp.ErrorMessage())
	}

	var user models.User
	if err := resp.DecodeData(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Register creates an account and returns the new user. The server signs
// the user in as part of registration.
func (c *Client) Register(ctx context.Context, reg RegisterForm) (*models.User, error) {
	form := url.Values{}
	form.Set("username", reg.Username)
	form.Set("name", reg.Name)
	form.Set("surname", reg.Surname)
	form.Set("password", reg.Password)

	resp, err := c.Do(ctx, http.MethodPost, "/api/register", FormBody(form))
	if err != nil {
		return nil, err
	}
	if !resp.Success() {
		return nil, fmt.Errorf("%w: %s", shared.ErrAuthFailed, resp.ErrorMessage())
	}

	var user models.User
	if err := resp.DecodeData(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout ends the server session.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.Do(ctx, http.MethodPost, "/api/logout", EmptyBody())
	if err != nil {
		return err
	}
	return resp.Err()
}

// Genres returns the server's fixed genre list.
func (c *Client) Genres(ctx context.Context) ([]string, error) {
	resp, err := c.Do(ctx, http.MethodGet, "/api/genres", EmptyBody())
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var genres []string
	if err := resp.DecodeData(&genres); err != nil {
		return nil, err
	}
	return genres, nil
}

// Playlists returns the user's playlists, newest first as the server
// orders them.
func (c *Client) Playlists(ctx context.Context) ([]models.Playlist, error) {
	resp, err := c.Do(ctx, http.MethodGet, "/api/playlists", EmptyBody())
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var playlists []models.Playlist
	if err := resp.DecodeData(&playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// Playlist returns one playlist with its songs in the user's saved order.
func (c *Client) Playlist(ctx context.Context, id int) (*models.Playlist, error) {
	resp, err := c.Do(ctx, http.MethodGet, "/api/playlists/"+strconv.Itoa(id), EmptyBody())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: playlist %d", shared.ErrPlaylistNotFound, id)
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var playlist models.Playlist
	if err := resp.DecodeData(&playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// CreatePlaylist creates a playlist with the given songs and returns it.
func (c *Client) CreatePlaylist(ctx context.Context, name string, songIDs []int) (*models.Playlist, error) {
	if songIDs == nil {
		songIDs = []int{}
	}
	body, err := JSONBody(map[string]any{"name": name, "songIDs": songIDs})
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(ctx, http.MethodPost, "/api/playlists", body)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var playlist models.Playlist
	if err := resp.DecodeData(&playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// AddSongs appends songs to a playlist and returns the updated playlist.
func (c *Client) AddSongs(ctx context.Context, id int, songIDs []int) (*models.Playlist, error) {
	body, err := JSONBody(map[string]any{"songIDs": songIDs})
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(ctx, http.MethodPost, "/api/playlists/"+strconv.Itoa(id)+"/songs", body)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var playlist models.Playlist
	if err := resp.DecodeData(&playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// SaveOrder replaces a playlist's song order with the full ID list as it
// should appear, and returns the updated playlist.
func (c *Client) SaveOrder(ctx context.Context, id int, songIDs []int) (*models.Playlist, error) {
	body, err := JSONBody(map[string]any{"songIDs": songIDs})
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(ctx, http.MethodPut, "/api/playlists/"+strconv.Itoa(id)+"/order", body)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var playlist models.Playlist
	if err := resp.DecodeData(&playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// DeletePlaylist removes a playlist. The songs themselves survive.
func (c *Client) DeletePlaylist(ctx context.Context, id int) error {
	resp, err := c.Do(ctx, http.MethodDelete, "/api/playlists/"+strconv.Itoa(id), EmptyBody())
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: playlist %d", shared.ErrPlaylistNotFound, id)
	}
	return resp.Err()
}

// Songs returns every song the user has uploaded.
func (c *Client) Songs(ctx context.Context) ([]models.Song, error) {
	resp, err := c.Do(ctx, http.MethodGet, "/api/songs", EmptyBody())
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var songs []models.Song
	if err := resp.DecodeData(&songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// UploadSong sends the song metadata plus its audio file and optional
// cover image as one multipart request.
func (c *Client) UploadSong(ctx context.Context, meta models.SongUpload, audioPath, imagePath string) (*models.Song, error) {
	if meta.Title == "" || audioPath == "" {
		return nil, fmt.Errorf("%w: a song needs a title and an audio file", shared.ErrInvalidInput)
	}

	fields := map[string]string{
		"title":      meta.Title,
		"albumName":  meta.AlbumName,
		"artistName": meta.ArtistName,
		"genreName":  meta.Genre,
	}
	if meta.ReleaseYear != 0 {
		fields["albumReleaseYear"] = strconv.Itoa(meta.ReleaseYear)
	}

	files := []FilePart{{Field: "audioFile", Path: audioPath}}
	if imagePath != "" {
		files = append(files, FilePart{Field: "imageFile", Path: imagePath})
	}

	resp, err := c.Do(ctx, http.MethodPost, "/api/songs", MultipartBody(fields, files...))
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var song models.Song
	if err := resp.DecodeData(&song); err != nil {
		return nil, err
	}
	return &song, nil
}

// DeleteSong removes a song and drops it from every playlist that held it.
func (c *Client) DeleteSong(ctx context.Context, id int) error {
	resp, err := c.Do(ctx, http.MethodDelete, "/api/songs/"+strconv.Itoa(id), EmptyBody())
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: song %d", shared.ErrSongNotFound, id)
	}
	return resp.Err()
}

// DeleteAccount removes the account after the server re-checks the
// password. All of the user's songs and playlists go with it.
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	form := url.Values{}
	form.Set("password", password)

	resp, err := c.Do(ctx, http.MethodPost, "/api/deleteUser", FormBody(form))
	if err != nil {
		return err
	}
	if !resp.Success() {
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, resp.ErrorMessage())
	}
	return nil
}

// FetchFile downloads a server-hosted asset such as an album cover or an
// audio track by its stored path.
func (c *Client) FetchFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty file path", shared.ErrInvalidInput)
	}
	if path[0] != '/' {
		path = "/" + path
	}
	return c.Fetch(ctx, "/GetFile"+path)
}
