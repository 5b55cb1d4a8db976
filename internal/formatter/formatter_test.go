package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleRows() []Recommendation {
	return []Recommendation{
		{
			ID:         "rec1",
			Title:      "Song One",
			Artist:     "Artist One",
			Album:      "Album One",
			Genre:      "Rock",
			Duration:   180,
			Reason:     "genre",
			ReasonText: "Based on your favorite genres",
			Score:      "0.90",
		},
		{
			ID:         "rec2",
			Title:      "Song Two",
			Artist:     "Artist Two",
			Album:      "",
			Genre:      "Jazz",
			Duration:   240,
			Reason:     "trending",
			ReasonText: "Trending now",
			Score:      "0.75",
		},
	}
}

func TestReasonText(t *testing.T) {
	cases := []struct {
		reason string
		want   string
	}{
		{"genre", "Based on your favorite genres"},
		{"artist", "From artists you like"},
		{"trending", "Trending now"},
		{"collaborative", "Recommended for you"},
		{"", "Recommended for you"},
	}

	for _, c := range cases {
		if got := ReasonText(c.reason); got != c.want {
			t.Errorf("ReasonText(%q) = %q, want %q", c.reason, got, c.want)
		}
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleRows())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Title,Artist,Album,Genre,Duration,Reason,Score") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "rec1") {
			t.Errorf("CSV missing rec1 ID")
		}
		if !strings.Contains(output, "Song One") {
			t.Errorf("CSV missing rec1 title")
		}
		if !strings.Contains(output, "0.90") {
			t.Errorf("CSV missing rec1 score")
		}
		if !strings.Contains(output, "genre") {
			t.Errorf("CSV missing rec1 reason")
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleRows(), "Weekly Picks")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# Weekly Picks") {
			t.Errorf("Markdown missing title, got: %s", output)
		}
		if !strings.Contains(output, "**Tracks**: 2") {
			t.Errorf("Markdown missing track count")
		}
		if !strings.Contains(output, "## Based on your favorite genres") {
			t.Errorf("Markdown missing genre heading")
		}
		if !strings.Contains(output, "## Trending now") {
			t.Errorf("Markdown missing trending heading")
		}
		if !strings.Contains(output, "1. Artist One - Song One (Album One) [3:00] (score 0.90)") {
			t.Errorf("Markdown missing formatted entry, got: %s", output)
		}
		if strings.Contains(output, "Song Two (") {
			t.Errorf("Markdown should omit album parens when album is empty")
		}
	})

	t.Run("ExportToMarkdownDefaultTitle", func(t *testing.T) {
		data, err := ExportToMarkdown(nil, "")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if !strings.Contains(string(data), "# Recommendations") {
			t.Errorf("Markdown missing default title")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleRows())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Recommendations: 2") {
			t.Errorf("Text missing count")
		}
		if !strings.Contains(output, "1. Artist One - Song One [0.90] Based on your favorite genres") {
			t.Errorf("Text missing first entry, got: %s", output)
		}
		if !strings.Contains(output, "2. Artist Two - Song Two [0.75] Trending now") {
			t.Errorf("Text missing second entry, got: %s", output)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("WritesCSVFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.csv")

		written, err := WriteExport(sampleRows(), "csv", path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != path {
			t.Errorf("WriteExport returned %q, want %q", written, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export file: %v", err)
		}
		if !strings.Contains(string(data), "Song One") {
			t.Errorf("export file missing content")
		}
	})

	t.Run("DefaultsFilename", func(t *testing.T) {
		dir := t.TempDir()
		cwd, _ := os.Getwd()
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("failed to chdir: %v", err)
		}
		defer os.Chdir(cwd)

		written, err := WriteExport(sampleRows(), "markdown", "")
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if written != "recommendations.md" {
			t.Errorf("WriteExport returned %q, want recommendations.md", written)
		}
	})

	t.Run("RejectsUnknownFormat", func(t *testing.T) {
		if _, err := WriteExport(sampleRows(), "xml", ""); err == nil {
			t.Error("expected error for unsupported format")
		}
	})
}
