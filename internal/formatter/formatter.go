// package formatter provides pure functions rendering a progress snapshot
// to various formats (Markdown, CSV, HTML)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html"
	"strconv"

	"github.com/desertthunder/ripcast/internal/models"
	"github.com/desertthunder/ripcast/internal/progress"
)

// Placeholder is rendered instead of an empty table when no playlists have
// been seen on the stream yet.
const Placeholder = "No active downloads"

// ExportToCSV renders every track row with its playlist context.
func ExportToCSV(store *progress.Store) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Playlist ID", "Playlist", "Track ID", "Title", "Artist", "Status", "Progress"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, pl := range store.Playlists() {
		for _, tr := range store.TracksFor(pl.PlaylistID) {
			record := []string{
				pl.PlaylistID,
				pl.Name,
				tr.TrackID,
				tr.Title,
				tr.Artist,
				tr.Status,
				progressCell(tr),
			}
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders the snapshot as one section per playlist.
func ExportToMarkdown(store *progress.Store) []byte {
	var buf bytes.Buffer

	playlists := store.Playlists()
	if len(playlists) == 0 {
		buf.WriteString(Placeholder + "\n")
		return buf.Bytes()
	}

	for _, pl := range playlists {
		buf.WriteString(fmt.Sprintf("## %s\n\n", pl.Name))
		buf.WriteString(fmt.Sprintf("**Status**: %s · **Progress**: %.0f%% (%d/%d, %d found, %d failed)\n\n",
			pl.Status, pl.Progress(), pl.CompletedTracks, pl.TotalTracks, pl.FoundTracks, pl.FailedTracks))

		tracks := store.TracksFor(pl.PlaylistID)
		if len(tracks) == 0 {
			continue
		}

		buf.WriteString("| Title | Artist | Status | Progress |\n")
		buf.WriteString("|---|---|---|---|\n")
		for _, tr := range tracks {
			buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", tr.Title, tr.Artist, tr.Status, progressCell(tr)))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// ExportToHTML renders the snapshot as nested tables. Every user-supplied
// field is escaped on the way in; playlist names, titles, and artists come
// from the server verbatim and must never reach markup unescaped.
func ExportToHTML(store *progress.Store) []byte {
	var buf bytes.Buffer

	buf.WriteString("<div class=\"downloads\">\n")

	playlists := store.Playlists()
	if len(playlists) == 0 {
		buf.WriteString(fmt.Sprintf("<p class=\"placeholder\">%s</p>\n", html.EscapeString(Placeholder)))
		buf.WriteString("</div>\n")
		return buf.Bytes()
	}

	for _, pl := range playlists {
		buf.WriteString("<section class=\"playlist\">\n")
		buf.WriteString(fmt.Sprintf("<h2>%s</h2>\n", html.EscapeString(pl.Name)))
		buf.WriteString(fmt.Sprintf("<p>%s — %.0f%% (%d/%d)</p>\n",
			html.EscapeString(pl.Status), pl.Progress(), pl.CompletedTracks, pl.TotalTracks))

		tracks := store.TracksFor(pl.PlaylistID)
		if len(tracks) > 0 {
			buf.WriteString("<table>\n<tr><th>Title</th><th>Artist</th><th>Status</th><th>Progress</th></tr>\n")
			for _, tr := range tracks {
				buf.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>\n",
					html.EscapeString(tr.Title),
					html.EscapeString(tr.Artist),
					html.EscapeString(tr.Status),
					htmlProgressCell(tr)))
			}
			buf.WriteString("</table>\n")
		}
		buf.WriteString("</section>\n")
	}

	buf.WriteString("</div>\n")
	return buf.Bytes()
}

// progressCell renders the progress column. The bar appears only while a
// track is downloading; any stored value for other statuses is ignored.
func progressCell(tr models.Track) string {
	if !tr.Downloading() {
		return ""
	}
	return strconv.FormatFloat(tr.Progress, 'f', 0, 64) + "%"
}

func htmlProgressCell(tr models.Track) string {
	if !tr.Downloading() {
		return ""
	}
	width := int(tr.Progress)
	if width < 0 {
		width = 0
	}
	if width > 100 {
		width = 100
	}
	return fmt.Sprintf("<div class=\"bar\" style=\"width:%d%%\">%d%%</div>", width, width)
}
