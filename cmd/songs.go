package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
)

// SongsList prints every song in the library.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	songs, err := r.client.Songs(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Library (%d songs)", len(songs)))
	for _, song := range songs {
		r.writePlain("%s\n", formatSongLine(song))
	}
	return nil
}

// SongsUpload uploads an audio file together with its metadata and optional cover.
func (r *Runner) SongsUpload(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	meta := models.SongUpload{
		Title:       cmd.String("title"),
		ArtistName:  cmd.String("artist"),
		AlbumName:   cmd.String("album"),
		ReleaseYear: int(cmd.Int("year")),
		Genre:       cmd.String("genre"),
	}

	r.logger.Info("uploading song", "title", meta.Title, "audio", cmd.String("audio"))

	song, err := r.client.UploadSong(ctx, meta, cmd.String("audio"), cmd.String("cover"))
	if err != nil {
		return err
	}

	return r.writePlain("✓ Uploaded %s (ID %d)\n", song.Name, song.ID)
}

// SongsDelete removes a song from the library. The server also drops it from
// every playlist that contains it.
func (r *Runner) SongsDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd, "id")
	if err != nil {
		return err
	}

	r.logger.Info("deleting song", "id", id)

	if err := r.client.DeleteSong(ctx, id); err != nil {
		return err
	}

	return r.writePlain("✓ Song %d deleted\n", id)
}

// SongsGenres lists the genres the server accepts for uploads.
func (r *Runner) SongsGenres(ctx context.Context, cmd *cli.Command) error {
	genres, err := r.client.Genres(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(genres, true)
	}

	r.writePlain("%s\n", strings.Join(genres, "\n"))
	return nil
}

// parseIDArg reads a positional argument as a numeric server ID.
func parseIDArg(cmd *cli.Command, name string) (int, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number, got %q", shared.ErrInvalidArgument, name, raw)
	}
	return id, nil
}

// formatSongLine renders one song as a single display line.
func formatSongLine(song models.Song) string {
	line := fmt.Sprintf("[%d] %s", song.ID, song.Name)
	if song.ArtistName != "" {
		line += " by " + song.ArtistName
	}
	if song.AlbumName != "" {
		line += fmt.Sprintf(" (%s", song.AlbumName)
		if song.AlbumReleaseYear > 0 {
			line += fmt.Sprintf(", %d", song.AlbumReleaseYear)
		}
		line += ")"
	}
	return line
}
