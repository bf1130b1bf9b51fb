package formatter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tunedeck/tunedeck/internal/models"
)

func samplePlaylist() *models.Playlist {
	return &models.Playlist{
		ID:           7,
		Name:         "Road Trip",
		CreationDate: models.Timestamp{Time: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)},
		Songs: []models.Song{
			{ID: 1, Name: "So What", ArtistName: "Miles Davis", AlbumName: "Kind of Blue", AlbumReleaseYear: 1959, Genre: "Jazz"},
			{ID: 2, Name: "Paranoid", ArtistName: "Black Sabbath", AlbumName: "Paranoid", AlbumReleaseYear: 1970, Genre: "Rock"},
		},
	}
}

func TestExportToCSV(t *testing.T) {
	t.Run("WritesHeaderAndRows", func(t *testing.T) {
		data, err := ExportToCSV(samplePlaylist())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header + 2 rows, got %d", len(records))
		}
		if records[0][1] != "Title" {
			t.Errorf("unexpected header: %v", records[0])
		}
		if records[1][1] != "So What" || records[1][4] != "1959" {
			t.Errorf("unexpected row: %v", records[1])
		}
	})

	t.Run("QuotesEmbeddedCommas", func(t *testing.T) {
		playlist := &models.Playlist{
			ID:    1,
			Name:  "Test",
			Songs: []models.Song{{ID: 1, Name: `Hello, "World"`, ArtistName: "A"}},
		}

		data, err := ExportToCSV(playlist)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if records[1][1] != `Hello, "World"` {
			t.Errorf("embedded punctuation mangled: %q", records[1][1])
		}
	})

	t.Run("EmptyPlaylist", func(t *testing.T) {
		data, err := ExportToCSV(&models.Playlist{ID: 1, Name: "Empty"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 1 {
			t.Errorf("expected header only, got %d lines", len(lines))
		}
	})
}

func TestExportToMarkdown(t *testing.T) {
	t.Run("Layout", func(t *testing.T) {
		data, err := ExportToMarkdown(samplePlaylist(), "cover.jpg")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		md := string(data)
		for _, want := range []string{
			"# Road Trip",
			"![Cover](cover.jpg)",
			"**Songs**: 2",
			"1. Miles Davis - So What (Kind of Blue, 1959)",
			"2. Black Sabbath - Paranoid (Paranoid, 1970)",
		} {
			if !strings.Contains(md, want) {
				t.Errorf("markdown missing %q:\n%s", want, md)
			}
		}
	})

	t.Run("EscapesHTMLInNames", func(t *testing.T) {
		playlist := &models.Playlist{
			ID:   1,
			Name: `<script>alert("x")</script>`,
			Songs: []models.Song{
				{ID: 1, Name: "a <b> c", ArtistName: "Tom & Jerry"},
			},
		}

		data, err := ExportToMarkdown(playlist, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		md := string(data)
		if strings.Contains(md, "<script>") || strings.Contains(md, "<b>") {
			t.Errorf("raw HTML leaked into markdown:\n%s", md)
		}
		if !strings.Contains(md, "Tom &amp; Jerry") {
			t.Errorf("ampersand not escaped:\n%s", md)
		}
	})
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(samplePlaylist())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Playlist: Road Trip") {
		t.Errorf("missing playlist header:\n%s", text)
	}
	if !strings.Contains(text, "2. Black Sabbath - Paranoid") {
		t.Errorf("missing numbered song line:\n%s", text)
	}
}

func TestWriteCSVExport(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "export")

	result, err := WriteCSVExport(samplePlaylist(), base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(result.SongsFile); err != nil {
		t.Errorf("songs file not written: %v", err)
	}

	metadata, err := os.ReadFile(result.MetadataFile)
	if err != nil {
		t.Fatalf("metadata file not written: %v", err)
	}
	if strings.Contains(string(metadata), "So What") {
		t.Error("metadata JSON should not include songs")
	}
	if !strings.Contains(string(metadata), "Road Trip") {
		t.Errorf("metadata JSON missing playlist name:\n%s", metadata)
	}
}

func TestWriteMarkdownExport(t *testing.T) {
	t.Run("WithCover", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")

		result, err := WriteMarkdownExport(samplePlaylist(), dir, []byte("jpeg bytes"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.CoverImage == "" {
			t.Error("cover image not recorded")
		}
		md, err := os.ReadFile(filepath.Join(dir, "README.md"))
		if err != nil {
			t.Fatalf("README not written: %v", err)
		}
		if !strings.Contains(string(md), "![Cover](cover.jpg)") {
			t.Error("README missing cover reference")
		}
	})

	t.Run("WithoutCover", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "out")

		result, err := WriteMarkdownExport(samplePlaylist(), dir, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.CoverImage != "" {
			t.Error("unexpected cover image without data")
		}
		if len(result.Files) != 1 {
			t.Errorf("expected 1 file, got %v", result.Files)
		}
	})
}

func TestWriteTextExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mix.txt")

	written, err := WriteTextExport(samplePlaylist(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written != path {
		t.Errorf("unexpected path %q", written)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not written: %v", err)
	}
}
