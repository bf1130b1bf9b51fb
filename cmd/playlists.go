package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tunedeck/tunedeck/internal/formatter"
	"github.com/tunedeck/tunedeck/internal/models"
	"github.com/tunedeck/tunedeck/internal/shared"
	"github.com/tunedeck/tunedeck/internal/tasks"
)

// PlaylistsList prints the signed-in user's playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	playlists, err := r.client.Playlists(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	for _, playlist := range playlists {
		r.writePlain("[%d] %s (%d songs)\n", playlist.ID, playlist.Name, len(playlist.Songs))
	}
	return nil
}

// PlaylistsShow prints a playlist with its songs in server order.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd, "id")
	if err != nil {
		return err
	}

	playlist, err := r.client.Playlist(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d songs)", playlist.Name, len(playlist.Songs)))
	for i, song := range playlist.Songs {
		r.writePlain("%d. %s\n", i+1, formatSongLine(song))
	}
	return nil
}

// PlaylistsCreate creates a playlist, optionally seeded with songs.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	name := strings.TrimSpace(cmd.StringArg("name"))
	if name == "" {
		return fmt.Errorf("%w: name", shared.ErrMissingArgument)
	}

	songIDs, err := parseIDList(cmd.String("songs"))
	if err != nil {
		return err
	}

	r.logger.Info("creating playlist", "name", name, "songs", len(songIDs))

	playlist, err := r.client.CreatePlaylist(ctx, name, songIDs)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Created playlist %s (ID %d)\n", playlist.Name, playlist.ID)
}

// PlaylistsAddSongs appends songs to the end of an existing playlist.
func (r *Runner) PlaylistsAddSongs(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd, "id")
	if err != nil {
		return err
	}

	songIDs, err := parseIDList(cmd.String("songs"))
	if err != nil {
		return err
	}
	if len(songIDs) == 0 {
		return fmt.Errorf("%w: songs", shared.ErrMissingArgument)
	}

	playlist, err := r.client.AddSongs(ctx, id, songIDs)
	if err != nil {
		return err
	}

	return r.writePlain("✓ %s now has %d songs\n", playlist.Name, len(playlist.Songs))
}

// PlaylistsSetOrder replaces a playlist's song order. The new order must list
// every current song exactly once, which is checked locally before the server
// is asked to persist it.
func (r *Runner) PlaylistsSetOrder(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd, "id")
	if err != nil {
		return err
	}

	order, err := parseIDList(cmd.String("order"))
	if err != nil {
		return err
	}

	playlist, err := r.client.Playlist(ctx, id)
	if err != nil {
		return err
	}

	if err := validateOrder(playlist, order); err != nil {
		return err
	}

	updated, err := r.client.SaveOrder(ctx, id, order)
	if err != nil {
		return err
	}

	r.writePlain("✓ Order saved for %s\n", updated.Name)
	for i, song := range updated.Songs {
		r.writePlain("%d. %s\n", i+1, song.Name)
	}
	return nil
}

// PlaylistsDelete deletes a playlist. The songs themselves stay in the library.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd, "id")
	if err != nil {
		return err
	}

	r.logger.Info("deleting playlist", "id", id)

	if err := r.client.DeletePlaylist(ctx, id); err != nil {
		return err
	}

	return r.writePlain("✓ Playlist %d deleted\n", id)
}

// PlaylistsExport writes a playlist to disk as CSV, Markdown or plain text.
// Markdown export fetches the first song's album cover when one exists.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	id, err := parseIDArg(cmd, "id")
	if err != nil {
		return err
	}

	playlist, err := r.client.Playlist(ctx, id)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	format := strings.ToLower(cmd.String("format"))

	switch format {
	case "csv":
		result, err := formatter.WriteCSVExport(playlist, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %s\n", playlist.Name)
		r.writePlain("Songs: %s\n", result.SongsFile)
		r.writePlain("Metadata: %s\n", result.MetadataFile)
	case "markdown", "md":
		result, err := formatter.WriteMarkdownExport(playlist, output, r.fetchCover(ctx, playlist))
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %s\n", playlist.Name)
		for _, file := range result.Files {
			r.writePlain("  %s\n", file)
		}
	case "text", "txt":
		file, err := formatter.WriteTextExport(playlist, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %s to %s\n", playlist.Name, file)
	default:
		return fmt.Errorf("%w: format must be csv, markdown or text, got %q", shared.ErrInvalidArgument, format)
	}

	return nil
}

// PlaylistsExportAll exports every playlist (or a chosen subset) concurrently.
func (r *Runner) PlaylistsExportAll(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	ids, err := parseIDList(cmd.String("ids"))
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		playlists, err := r.client.Playlists(ctx)
		if err != nil {
			return err
		}
		for _, playlist := range playlists {
			ids = append(ids, playlist.ID)
		}
	}
	if len(ids) == 0 {
		return r.writePlain("No playlists to export\n")
	}

	r.writePlain("Exporting %d playlists...\n\n", len(ids))

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.BulkExport(ctx, progressCh, ids, tasks.BulkExportOpts{
		Format:     strings.ToLower(cmd.String("format")),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		WithCovers: cmd.Bool("covers"),
	})
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n✓ Export finished\n")
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Succeeded: %d, Failed: %d\n", result.SuccessfulExports, result.FailedExports)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}
	return nil
}

// fetchCover downloads the first available album cover in the playlist.
// Export still works without one, so failures only log.
func (r *Runner) fetchCover(ctx context.Context, playlist *models.Playlist) []byte {
	for _, song := range playlist.Songs {
		if song.AlbumCoverPath == "" {
			continue
		}
		data, err := r.client.FetchFile(ctx, song.AlbumCoverPath)
		if err != nil {
			r.logger.Warnf("failed to fetch cover %v: %v", song.AlbumCoverPath, err)
			continue
		}
		return data
	}
	return nil
}

// parseIDList parses a comma-separated list of server IDs. An empty string
// yields an empty list.
func parseIDList(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []int{}, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %q is not a valid song ID", shared.ErrInvalidArgument, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// validateOrder checks that order is a permutation of the playlist's songs.
func validateOrder(playlist *models.Playlist, order []int) error {
	current := playlist.SongIDs()
	if len(order) != len(current) {
		return fmt.Errorf("%w: playlist has %d songs but %d IDs were given", shared.ErrInvalidArgument, len(current), len(order))
	}

	seen := make(map[int]bool, len(order))
	for _, id := range order {
		if seen[id] {
			return fmt.Errorf("%w: song %d appears more than once", shared.ErrInvalidArgument, id)
		}
		seen[id] = true
	}
	for _, id := range current {
		if !seen[id] {
			return fmt.Errorf("%w: song %d is missing from the new order", shared.ErrInvalidArgument, id)
		}
	}
	return nil
}
