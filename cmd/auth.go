package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tunedeck/tunedeck/internal/api"
	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/session"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// AuthLogin signs in with username and password and persists the session.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	password := cmd.String("password")

	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	r.logger.Infof("signing in as %v", username)

	user, err := r.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	r.saveSession(*user)
	r.logger.Info("authentication successful", "user", user.Username)

	return r.writePlain("✓ Signed in as %s\n", user.DisplayName())
}

// AuthRegister creates a new account. The server signs the new user in, so
// the session is persisted the same way login does.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	form := api.RegisterForm{
		Username: cmd.String("username"),
		Name:     cmd.String("name"),
		Surname:  cmd.String("surname"),
		Password: cmd.String("password"),
	}

	r.logger.Infof("registering account %v", form.Username)

	user, err := r.client.Register(ctx, form)
	if err != nil {
		return err
	}

	r.saveSession(*user)
	r.logger.Info("registration successful", "user", user.Username)

	return r.writePlain("✓ Account created, signed in as %s\n", user.DisplayName())
}

// AuthLogout invalidates the server session and clears the saved one. The
// local session is cleared even when the server call fails, so a dead cookie
// never wedges the CLI.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.client.Logout(ctx); err != nil && !errors.Is(err, shared.ErrNotAuthenticated) {
		r.logger.Warnf("logout request failed: %v", err)
	}

	if r.sessions != nil {
		r.sessions.Clear()
	}

	return r.writePlain("✓ Signed out\n")
}

// AuthStatus asks the server whether the saved session is still valid.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	user, err := r.client.CheckAuth(ctx)
	if err != nil {
		return err
	}

	if user == nil {
		if r.sessions != nil {
			r.sessions.Clear()
		}
		return r.writePlain("✗ Not signed in\n")
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlain("✓ Signed in\n")
	r.writePlain("Username: %s\n", user.Username)
	r.writePlain("Name: %s %s\n", user.Name, user.Surname)
	return nil
}

// saveSession persists the user together with the client's current cookies.
func (r *Runner) saveSession(user models.User) {
	if r.sessions == nil {
		return
	}
	r.sessions.Save(session.Record{
		User:    user,
		Cookies: session.FromHTTP(r.client.ExportCookies()),
	})
}
