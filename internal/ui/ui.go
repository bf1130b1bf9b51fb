package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tunedeck/tunedeck/internal/api"
	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/player"
	"github.com/tunedeck/tunedeck/internal/session"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/tunedeck/tunedeck/internal/store"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	AuthView ViewState = iota
	HomeView
	PlaylistView
	PlayerView
	AccountView
	ErrorView
)

func (v ViewState) String() string {
	switch v {
	case AuthView:
		return "auth"
	case HomeView:
		return "home"
	case PlaylistView:
		return "playlist"
	case PlayerView:
		return "player"
	case AccountView:
		return "account"
	default:
		return "error"
	}
}

// statusTTL is how long a transient status line stays on screen.
const statusTTL = 3 * time.Second

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	client   *api.Client
	store    *store.Store
	storeSub *store.Subscription
	sessions *session.Manager
	audio    *player.Player

	view   ViewState
	width  int
	height int
	keys   keyMap
	help   help.Model

	err       error
	status    string
	statusErr bool
	statusGen int

	auth       authModel
	home       homeModel
	playlist   playlistModel
	nowPlaying playerModel
	account    accountModel
}

// NewModel creates the TUI model with its injected dependencies. A stored
// session, when present, is loaded into the client's cookie jar so the
// initial auth check can reuse it.
func NewModel(ctx context.Context, client *api.Client, st *store.Store, sessions *session.Manager) *Model {
	m := &Model{
		ctx:      ctx,
		client:   client,
		store:    st,
		sessions: sessions,
		view:     AuthView,
		keys:     newKeyMap(),
		help:     help.New(),
		auth:     newAuthModel(),
	}
	m.audio = player.New(nil)

	// library mutations land in the store; the dashboard list follows
	// them instead of each message handler refreshing it by hand
	m.storeSub = st.Subscribe(func(store.EventType) {
		m.home.rebuild(m.store, m.width, m.height)
	}, store.EventPlaylists, store.EventSongs)

	if sessions != nil {
		if record := sessions.Load(); record != nil {
			client.RestoreCookies(session.ToHTTP(record.Cookies))
		}
	}

	return m
}

// Close detaches the model from the store. Call it once the program has
// exited.
func (m *Model) Close() {
	m.storeSub.Cancel()
}

// Init kicks off the session check; the server decides whether the stored
// cookies still identify a user.
func (m *Model) Init() tea.Cmd {
	return m.checkAuth()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.home.resize(msg.Width, msg.Height)
		return m, nil

	case statusExpiredMsg:
		if msg.gen == m.statusGen {
			m.status = ""
			m.statusErr = false
		}
		return m, nil

	case authCheckedMsg:
		if msg.err != nil || msg.user == nil {
			m.setView(AuthView)
			return m, m.auth.focusCmd()
		}
		m.store.SetUser(msg.user)
		m.setView(HomeView)
		return m, m.loadLibrary()

	case loggedInMsg:
		return m.handleSignIn(msg.user, msg.err)

	case registeredMsg:
		return m.handleSignIn(msg.user, msg.err)

	case loggedOutMsg:
		m.audio.Stop()
		m.store.Reset()
		m.setView(AuthView)
		m.auth = newAuthModel()
		return m, tea.Batch(m.auth.focusCmd(), m.setStatus("Signed out", false))

	case libraryLoadedMsg:
		if cmd, handled := m.checkSessionErr(msg.err); handled {
			return m, cmd
		}
		if msg.err != nil {
			m.err = msg.err
			m.setView(ErrorView)
			return m, nil
		}
		m.store.SetPlaylists(msg.playlists)
		m.store.SetSongs(msg.songs)
		m.store.SetGenres(msg.genres)
		return m, nil

	case playlistFetchedMsg:
		if cmd, handled := m.checkSessionErr(msg.err); handled {
			return m, cmd
		}
		if msg.err != nil {
			m.setView(HomeView)
			return m, m.setStatus(msg.err.Error(), true)
		}
		m.store.SetCurrentPlaylist(msg.playlist)
		m.playlist = newPlaylistModel(*msg.playlist)
		m.setView(PlaylistView)
		return m, nil

	case playlistCreatedMsg:
		if cmd, handled := m.checkSessionErr(msg.err); handled {
			return m, cmd
		}
		if msg.err != nil {
			return m, m.setStatus(msg.err.Error(), true)
		}
		m.store.UpsertPlaylist(*msg.playlist)
		m.home.closeOverlay()
		return m, m.setStatus(fmt.Sprintf("Created %q", Sanitize(msg.playlist.Name)), false)

	case songsAddedMsg:
		return m.handlePlaylistUpdate(msg.playlist, msg.err, "Songs added")

	case orderSavedMsg:
		return m.handlePlaylistUpdate(msg.playlist, msg.err, "Order saved")

	case playlistDeletedMsg:
		if cmd, handled := m.checkSessionErr(msg.err); handled {
			return m, cmd
		}
		if msg.err != nil {
			return m, m.setStatus(msg.err.Error(), true)
		}
		m.store.RemovePlaylist(msg.id)
		m.home.closeOverlay()
		if m.view == PlaylistView {
			m.setView(HomeView)
		}
		return m, m.setStatus("Playlist deleted", false)

	case songUploadedMsg:
		if cmd, handled := m.checkSessionErr(msg.err); handled {
			return m, cmd
		}
		if msg.err != nil {
			m.home.upload.err = msg.err.Error()
			m.home.upload.busy = false
			return m, nil
		}
		m.store.UpsertSong(*msg.song)
		m.home.closeOverlay()
		return m, m.setStatus(fmt.Sprintf("Uploaded %q", Sanitize(msg.song.Name)), false)

	case songDeletedMsg:
		if cmd, handled := m.checkSessionErr(msg.err); handled {
			return m, cmd
		}
		if msg.err != nil {
			return m, m.setStatus(msg.err.Error(), true)
		}
		m.audio.Stop()
		m.store.RemoveSong(msg.id)
		if m.view == PlayerView {
			if current := m.store.CurrentPlaylist(); current != nil {
				m.playlist = newPlaylistModel(*current)
				m.setView(PlaylistView)
			} else {
				m.setView(HomeView)
			}
		}
		return m, m.setStatus("Song deleted", false)

	case accountDeletedMsg:
		if msg.err != nil {
			m.account.err = msg.err.Error()
			return m, nil
		}
		m.audio.Stop()
		m.store.Reset()
		m.setView(AuthView)
		m.auth = newAuthModel()
		return m, tea.Batch(m.auth.focusCmd(), m.setStatus("Account deleted", false))

	case audioFetchedMsg:
		if msg.err != nil {
			return m, m.setStatus(msg.err.Error(), true)
		}
		if err := m.audio.Play(msg.song.Name, msg.data); err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, m.home.update(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case AuthView:
		body = m.renderAuth()
	case HomeView:
		body = m.renderHome()
	case PlaylistView:
		body = m.renderPlaylist()
	case PlayerView:
		body = m.renderPlayer()
	case AccountView:
		body = m.renderAccount()
	case ErrorView:
		body = m.renderError()
	default:
		body = m.renderError()
	}

	if m.status != "" {
		line := styles.ok.Render(m.status)
		if m.statusErr {
			line = styles.err.Render(m.status)
		}
		body = fmt.Sprintf("%s\n\n%s", body, line)
	}
	return body
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case AuthView:
		return m.handleAuthKeys(msg)
	case HomeView:
		return m.handleHomeKeys(msg)
	case PlaylistView:
		return m.handlePlaylistKeys(msg)
	case PlayerView:
		return m.handlePlayerKeys(msg)
	case AccountView:
		return m.handleAccountKeys(msg)
	case ErrorView:
		return m.handleErrorKeys(msg)
	}
	return m, nil
}

// navigate switches views, routing unknown targets to the error view so a
// bad transition is visible instead of leaving a stale page on screen.
func (m *Model) navigate(view ViewState) tea.Cmd {
	switch view {
	case AuthView:
		m.auth = newAuthModel()
		m.setView(AuthView)
		return m.auth.focusCmd()
	case HomeView:
		m.home.rebuild(m.store, m.width, m.height)
		m.setView(HomeView)
		return nil
	case AccountView:
		m.account = newAccountModel()
		m.setView(AccountView)
		return nil
	case PlaylistView:
		current := m.store.CurrentPlaylist()
		if current == nil {
			m.err = fmt.Errorf("%w: no playlist selected", shared.ErrInvalidArgument)
			m.setView(ErrorView)
			return nil
		}
		m.playlist = newPlaylistModel(*current)
		m.setView(PlaylistView)
		return nil
	case PlayerView:
		m.setView(PlayerView)
		return nil
	default:
		m.err = fmt.Errorf("%w: unknown view %d", shared.ErrInvalidArgument, view)
		m.setView(ErrorView)
		return nil
	}
}

// setView records the active screen in the store before switching to it.
func (m *Model) setView(view ViewState) {
	m.store.SetView(view.String())
	m.view = view
}

func (m *Model) handleSignIn(user *models.User, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.auth.err = err.Error()
		m.auth.busy = false
		return m, nil
	}

	if m.sessions != nil {
		m.sessions.Save(session.Record{
			User:    *user,
			Cookies: session.FromHTTP(m.client.ExportCookies()),
		})
	}
	m.store.SetUser(user)
	m.setView(HomeView)
	return m, m.loadLibrary()
}

func (m *Model) handlePlaylistUpdate(playlist *models.Playlist, err error, status string) (tea.Model, tea.Cmd) {
	if cmd, handled := m.checkSessionErr(err); handled {
		return m, cmd
	}
	if err != nil {
		return m, m.setStatus(err.Error(), true)
	}

	m.store.UpsertPlaylist(*playlist)
	m.playlist = newPlaylistModel(*playlist)
	return m, m.setStatus(status, false)
}

// checkSessionErr intercepts an expired-session error: all state is
// cleared and the user lands back on the sign-in page.
func (m *Model) checkSessionErr(err error) (tea.Cmd, bool) {
	if err == nil || !errors.Is(err, shared.ErrNotAuthenticated) {
		return nil, false
	}

	m.audio.Stop()
	m.store.Reset()
	m.setView(AuthView)
	m.auth = newAuthModel()
	return tea.Batch(m.auth.focusCmd(), m.setStatus("Session expired, sign in again", true)), true
}

// setStatus shows a transient status line and schedules its expiry. The
// generation counter keeps an old timer from clearing a newer message.
func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.status = Sanitize(text)
	m.statusErr = isErr
	m.statusGen++
	gen := m.statusGen

	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg{gen: gen}
	})
}

func (m *Model) renderError() string {
	msg := "Something went wrong"
	if m.err != nil {
		msg = m.err.Error()
	}
	return fmt.Sprintf("%s\n\n%s",
		styles.err.Render(fmt.Sprintf("Error: %s", Sanitize(msg))),
		styles.help.Render("enter: home • q: quit"))
}

func (m *Model) handleErrorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		m.err = nil
		return m, m.navigate(HomeView)
	}
	return m, nil
}
