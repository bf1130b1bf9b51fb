// package models defines the data model for the music library client
package models

import (
	"encoding/json"
	"time"
)

// serverDateLayout is the layout the server uses for date fields, e.g.
// "Aug 29, 2026 10:15:04 AM".
const serverDateLayout = "Jan 2, 2006 3:04:05 PM"

// Timestamp wraps time.Time to speak the server's date serialization,
// accepting RFC3339 as a fallback.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(serverDateLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}

	parsed, err := time.Parse(serverDateLayout, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	t.Time = parsed
	return nil
}

// User represents the authenticated account as returned by the server.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
}

// DisplayName returns the friendliest non-empty identifier for the user.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// Song represents a track in the user's library. The same song may appear
// both in the global library list and inside a playlist's song list; the two
// copies are independent and must be updated separately.
type Song struct {
	ID               int    `json:"ID"`
	Name             string `json:"name"`
	ArtistName       string `json:"artistName"`
	AlbumName        string `json:"albumName"`
	AlbumReleaseYear int    `json:"albumReleaseYear"`
	Genre            string `json:"genre"`
	AlbumCoverPath   string `json:"albumCoverPath"`
	AudioFilePath    string `json:"audioFilePath"`
}

// Playlist represents a named, ordered collection of songs. Song order is
// server-determined and preserved verbatim; the client never re-derives it
// from song metadata.
type Playlist struct {
	ID           int       `json:"ID"`
	Name         string    `json:"name"`
	CreationDate Timestamp `json:"creationDate"`
	Songs        []Song    `json:"songs"`
}

// SongIDs returns the playlist's song identifiers in playlist order.
func (p Playlist) SongIDs() []int {
	ids := make([]int, len(p.Songs))
	for i, s := range p.Songs {
		ids[i] = s.ID
	}
	return ids
}

// Contains reports whether the playlist holds a song with the given ID.
func (p Playlist) Contains(songID int) bool {
	for _, s := range p.Songs {
		if s.ID == songID {
			return true
		}
	}
	return false
}

// SongUpload carries the metadata fields of a song upload request. File
// contents travel separately as multipart parts.
type SongUpload struct {
	Title       string
	AlbumName   string
	ArtistName  string
	ReleaseYear int
	Genre       string
}

// Model defines the base interface for entities cached locally.
// Implementations include CachedSong and CachedPlaylist.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for local cache data access.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}
