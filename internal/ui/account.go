package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type accountStage int

const (
	accountMenu accountStage = iota
	accountConfirm
	accountPassword
)

// accountModel is the account view. Deletion is double-gated: an explicit
// confirmation first, then the password, which the server re-checks.
type accountModel struct {
	stage    accountStage
	password textinput.Model
	err      string
}

func newAccountModel() accountModel {
	return accountModel{}
}

func (m *Model) handleAccountKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := &m.account

	switch a.stage {
	case accountConfirm:
		switch msg.String() {
		case "y":
			a.stage = accountPassword
			a.password = newInput("password", true)
			a.password.Focus()
			return m, textinput.Blink
		case "n", "esc":
			a.stage = accountMenu
		}
		return m, nil

	case accountPassword:
		switch msg.String() {
		case "esc":
			a.stage = accountMenu
			a.err = ""
			return m, nil
		case "enter":
			if a.password.Value() == "" {
				a.err = "password is required"
				return m, nil
			}
			a.err = ""
			return m, m.deleteAccount(a.password.Value())
		}
		var cmd tea.Cmd
		a.password, cmd = a.password.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		return m, m.navigate(HomeView)
	case "L":
		return m, m.logout()
	case "x":
		a.stage = accountConfirm
		return m, nil
	}
	return m, nil
}

func (m *Model) renderAccount() string {
	a := &m.account

	switch a.stage {
	case accountConfirm:
		return fmt.Sprintf("%s\n\n%s",
			styles.warn.Render("Delete your account? Your songs and playlists go with it."),
			styles.help.Render("y: continue • n: cancel"))

	case accountPassword:
		var b strings.Builder
		b.WriteString(styles.warn.Render("Enter your password to confirm deletion."))
		b.WriteString("\n\n")
		b.WriteString(a.password.View())
		if a.err != "" {
			b.WriteString(fmt.Sprintf("\n%s", styles.err.Render(Sanitize(a.err))))
		}
		b.WriteString(fmt.Sprintf("\n\n%s", styles.help.Render("enter: delete • esc: cancel")))
		return b.String()
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("Account"))
	b.WriteString("\n")
	if user := m.store.User(); user != nil {
		b.WriteString(fmt.Sprintf("Username: %s\n", Sanitize(user.Username)))
		b.WriteString(fmt.Sprintf("Name:     %s %s\n", Sanitize(user.Name), Sanitize(user.Surname)))
	}
	b.WriteString(fmt.Sprintf("\n%s", styles.help.Render(
		"L: sign out • x: delete account • esc: back • q: quit")))
	return b.String()
}
