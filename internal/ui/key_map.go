package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	left    key.Binding
	right   key.Binding
	enter   key.Binding
	back    key.Binding
	tab     key.Binding
	space   key.Binding
	yes     key.Binding
	no      key.Binding
	create  key.Binding
	upload  key.Binding
	add     key.Binding
	reorder key.Binding
	save    key.Binding
	delete  key.Binding
	play    key.Binding
	account key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch")),
		space:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		create:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new playlist")),
		upload:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload song")),
		add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add songs")),
		reorder: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reorder")),
		save:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		delete:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		play:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play/pause")),
		account: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "account")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.left, k.right, k.back},
		{k.create, k.upload, k.add},
		{k.reorder, k.save, k.delete},
		{k.play, k.account, k.quit},
	}
}
