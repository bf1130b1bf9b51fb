package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tunedeck/tunedeck/internal/shared"
)

// AccountDelete permanently deletes the signed-in account, its songs and its
// playlists. The password is required and the --yes guard keeps a stray
// shell-history replay from wiping an account.
func (r *Runner) AccountDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: account deletion is permanent, re-run with --yes to confirm", shared.ErrInvalidArgument)
	}

	r.logger.Warn("deleting account")

	if err := r.client.DeleteAccount(ctx, cmd.String("password")); err != nil {
		return err
	}

	if r.sessions != nil {
		r.sessions.Clear()
	}

	return r.writePlain("✓ Account deleted\n")
}
