// package formatter turns recommendation records into display-ready rows and
// exports them to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/encorefm/encore/internal/models"
	"github.com/encorefm/encore/internal/shared"
)

// Reason display text. Unknown reasons fall back to a generic line rather
// than failing, so older records survive reason renames.
const defaultReasonText = "Recommended for you"

var reasonText = map[string]string{
	models.ReasonGenre:    "Based on your favorite genres",
	models.ReasonArtist:   "From artists you like",
	models.ReasonTrending: "Trending now",
}

// ReasonText maps a recommendation reason code to its display sentence.
func ReasonText(reason string) string {
	if text, ok := reasonText[reason]; ok {
		return text
	}
	return defaultReasonText
}

// Recommendation is a display-ready recommendation row: the persisted record
// joined with its track's catalog metadata.
type Recommendation struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Album      string    `json:"album"`
	Genre      string    `json:"genre"`
	AudioFile  string    `json:"audio_file"`
	CoverImage string    `json:"cover_image"`
	Duration   int       `json:"duration"`
	Reason     string    `json:"reason"`
	ReasonText string    `json:"reason_text"`
	Score      string    `json:"score"`
	Liked      bool      `json:"liked"`
	Viewed     bool      `json:"viewed"`
	CreatedAt  time.Time `json:"created_at"`
}

// Format joins a recommendation record with its track into a display row.
func Format(rec *models.Recommendation, track *models.Track) Recommendation {
	return Recommendation{
		ID:         rec.ID(),
		Title:      track.Title(),
		Artist:     track.Artist(),
		Album:      track.Album(),
		Genre:      track.Genre(),
		AudioFile:  track.AudioFile(),
		CoverImage: track.CoverImage(),
		Duration:   track.Duration(),
		Reason:     rec.Reason(),
		ReasonText: ReasonText(rec.Reason()),
		Score:      rec.Score(),
		Liked:      rec.Liked(),
		Viewed:     rec.Viewed(),
		CreatedAt:  rec.CreatedAt(),
	}
}

// ExportToCSV converts recommendation rows to CSV format with columns: ID, Title, Artist, Album, Genre, Duration, Reason, Score
func ExportToCSV(recs []Recommendation) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Genre", "Duration", "Reason", "Score"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, rec := range recs {
		record := []string{
			rec.ID,
			rec.Title,
			rec.Artist,
			rec.Album,
			rec.Genre,
			strconv.Itoa(rec.Duration),
			rec.Reason,
			rec.Score,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts recommendation rows to Markdown format with a heading per reason group
func ExportToMarkdown(recs []Recommendation, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Recommendations"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(recs)))

	// Group rows under a heading per reason, in first-seen order.
	var order []string
	groups := make(map[string][]Recommendation)
	for _, rec := range recs {
		if _, ok := groups[rec.ReasonText]; !ok {
			order = append(order, rec.ReasonText)
		}
		groups[rec.ReasonText] = append(groups[rec.ReasonText], rec)
	}

	for _, reason := range order {
		buf.WriteString(fmt.Sprintf("## %s\n\n", reason))
		for i, rec := range groups[reason] {
			duration := shared.FormatDuration(rec.Duration)
			albumPart := ""
			if rec.Album != "" {
				albumPart = fmt.Sprintf(" (%s)", rec.Album)
			}
			buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s] (score %s)\n", i+1, rec.Artist, rec.Title, albumPart, duration, rec.Score))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts recommendation rows to plain text format
func ExportToText(recs []Recommendation) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Recommendations: %d\n\n", len(recs)))

	for i, rec := range recs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s] %s\n", i+1, rec.Artist, rec.Title, rec.Score, rec.ReasonText))
	}

	return buf.Bytes(), nil
}

// WriteExport renders recommendation rows in the requested format and writes
// them to filepath. Supported formats: csv, markdown, text.
func WriteExport(recs []Recommendation, format, filepath string) (string, error) {
	var (
		data []byte
		err  error
		ext  string
	)

	switch format {
	case "csv":
		data, err = ExportToCSV(recs)
		ext = "csv"
	case "markdown", "md":
		data, err = ExportToMarkdown(recs, "")
		ext = "md"
	case "text", "txt":
		data, err = ExportToText(recs)
		ext = "txt"
	default:
		return "", fmt.Errorf("%w: unsupported export format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s export: %w", format, err)
	}

	if filepath == "" {
		filepath = "recommendations." + ext
	}
	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return filepath, nil
}
