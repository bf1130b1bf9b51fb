package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tunedeck/tunedeck/internal/api"
)

// authMode selects which of the two sign-in page forms is active.
type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

const (
	loginUsername = iota
	loginPassword
	loginFieldCount
)

const (
	regUsername = iota
	regName
	regSurname
	regPassword
	regConfirm
	regFieldCount
)

// authModel holds both sign-in page forms; tab flips between them.
type authModel struct {
	mode     authMode
	login    []textinput.Model
	register []textinput.Model
	focus    int
	err      string
	busy     bool
}

type registerFields struct {
	username string
	name     string
	surname  string
	password string
	confirm  string
}

func (f registerFields) toAPI() api.RegisterForm {
	return api.RegisterForm{
		Username: f.username,
		Name:     f.name,
		Surname:  f.surname,
		Password: f.password,
	}
}

func newAuthModel() authModel {
	login := make([]textinput.Model, loginFieldCount)
	login[loginUsername] = newInput("username", false)
	login[loginPassword] = newInput("password", true)

	register := make([]textinput.Model, regFieldCount)
	register[regUsername] = newInput("username", false)
	register[regName] = newInput("name", false)
	register[regSurname] = newInput("surname", false)
	register[regPassword] = newInput("password", true)
	register[regConfirm] = newInput("confirm password", true)

	m := authModel{login: login, register: register}
	m.login[0].Focus()
	return m
}

func newInput(placeholder string, masked bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 64
	if masked {
		in.EchoMode = textinput.EchoPassword
	}
	return in
}

func (a *authModel) fields() []textinput.Model {
	if a.mode == modeRegister {
		return a.register
	}
	return a.login
}

func (a *authModel) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (a *authModel) setFocus(i int) {
	fields := a.fields()
	for j := range fields {
		if j == i {
			fields[j].Focus()
		} else {
			fields[j].Blur()
		}
	}
	a.focus = i
}

func (a *authModel) switchMode() {
	if a.mode == modeLogin {
		a.mode = modeRegister
	} else {
		a.mode = modeLogin
	}
	a.err = ""
	a.setFocus(0)
}

// validate checks the active form before anything is sent.
func (a *authModel) validate() string {
	if a.mode == modeLogin {
		if a.login[loginUsername].Value() == "" || a.login[loginPassword].Value() == "" {
			return "username and password are required"
		}
		return ""
	}

	for i, field := range a.register {
		if field.Value() == "" && i != regSurname {
			return "all fields except surname are required"
		}
	}
	if a.register[regPassword].Value() != a.register[regConfirm].Value() {
		return "passwords do not match"
	}
	return ""
}

func (m *Model) handleAuthKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := &m.auth

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		a.switchMode()
		return m, textinput.Blink

	case "up", "shift+tab":
		if a.focus > 0 {
			a.setFocus(a.focus - 1)
		}
		return m, nil

	case "down":
		if a.focus < len(a.fields())-1 {
			a.setFocus(a.focus + 1)
		}
		return m, nil

	case "enter":
		if a.focus < len(a.fields())-1 {
			a.setFocus(a.focus + 1)
			return m, nil
		}
		if a.busy {
			return m, nil
		}
		if problem := a.validate(); problem != "" {
			a.err = problem
			return m, nil
		}
		a.err = ""
		a.busy = true
		if a.mode == modeLogin {
			return m, m.login(a.login[loginUsername].Value(), a.login[loginPassword].Value())
		}
		return m, m.register(registerFields{
			username: a.register[regUsername].Value(),
			name:     a.register[regName].Value(),
			surname:  a.register[regSurname].Value(),
			password: a.register[regPassword].Value(),
			confirm:  a.register[regConfirm].Value(),
		})
	}

	fields := a.fields()
	var cmd tea.Cmd
	fields[a.focus], cmd = fields[a.focus].Update(msg)
	return m, cmd
}

func (m *Model) renderAuth() string {
	a := &m.auth
	var b strings.Builder

	if a.mode == modeLogin {
		b.WriteString(styles.title.Render("Sign in"))
	} else {
		b.WriteString(styles.title.Render("Create account"))
	}
	b.WriteString("\n")

	for _, field := range a.fields() {
		b.WriteString(field.View())
		b.WriteString("\n")
	}

	if a.busy {
		b.WriteString(styles.subtle.Render("\nWorking..."))
	}
	if a.err != "" {
		b.WriteString(fmt.Sprintf("\n%s", styles.err.Render(Sanitize(a.err))))
	}

	b.WriteString(fmt.Sprintf("\n\n%s",
		styles.help.Render("enter: next/submit • tab: login/register • ctrl+c: quit")))
	return b.String()
}
