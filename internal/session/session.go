// package session persists the authenticated user and the server session
// cookies across process restarts.
//
// The accessor never lets storage errors escape: a corrupt session file is
// treated as "no session" and cleared on the next read.
package session

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/tunedeck/tunedeck/internal/models"
)

// Cookie is the serializable subset of [http.Cookie] the server session needs.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Path  string `json:"path,omitempty"`
}

// Record is the session file payload: the mirrored user record plus the
// ambient cookies the server issued.
type Record struct {
	User    models.User `json:"user"`
	Cookies []Cookie    `json:"cookies,omitempty"`
}

// Manager reads and writes the session file.
type Manager struct {
	path   string
	logger *log.Logger
}

// NewManager creates a Manager writing to the given path.
func NewManager(path string, logger *log.Logger) *Manager {
	return &Manager{path: path, logger: logger}
}

// Save serializes the record to the session file. Write errors are reported
// to the logger and swallowed.
func (m *Manager) Save(record Record) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		m.logf("failed to serialize session", "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0700); err != nil {
		m.logf("failed to create session directory", "error", err)
		return
	}
	if err := os.WriteFile(m.path, data, 0600); err != nil {
		m.logf("failed to save session", "error", err)
	}
}

// Load reads the session file. A missing file returns nil; a corrupt file is
// cleared and also returns nil, so the caller always sees either a parsed
// record or "no session".
func (m *Manager) Load() *Record {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		m.logf("corrupt session file, clearing", "error", err)
		m.Clear()
		return nil
	}

	return &record
}

// Clear removes the session file.
func (m *Manager) Clear() {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		m.logf("failed to clear session", "error", err)
	}
}

// Valid reports whether a stored session carries the fields a usable user
// record requires.
func (m *Manager) Valid() bool {
	record := m.Load()
	return record != nil && record.User.Username != "" && record.User.ID != 0
}

func (m *Manager) logf(msg string, kv ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, kv...)
	}
}

// FromHTTP converts server-issued cookies into their serializable form.
func FromHTTP(cookies []*http.Cookie) []Cookie {
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, Cookie{Name: c.Name, Value: c.Value, Path: c.Path})
	}
	return out
}

// ToHTTP converts stored cookies back into [http.Cookie] values.
func ToHTTP(cookies []Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value, Path: c.Path})
	}
	return out
}
