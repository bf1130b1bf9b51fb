// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the music library's page flow:
//  1. [AuthView] : Sign in or create an account
//  2. [HomeView] : Browse playlists, create playlists, upload songs
//  3. [PlaylistView] : Page through a playlist's songs, reorder them, add more
//  4. [PlayerView] : Song details with playback and deletion
//  5. [AccountView] : Sign out or delete the account
//
// The [Model] implements bubbletea's standard Init/Update/View pattern. All
// server calls run as tea commands so the interface never blocks; each
// response arrives as its own message type. View changes go through
// navigate, which routes unknown targets to [ErrorView] rather than
// leaving the interface in a half-rendered state.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
