// Package report renders the session catalogue as a markdown agenda report
// and converts it to a styled standalone HTML document.
package report

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/joelkehle/summit-agenda/internal/catalog"
	"github.com/joelkehle/summit-agenda/internal/session"
)

// BuildMarkdown produces an agenda report grouped by track: one GFM table
// per track, tracks in alphabetical order, sessions in catalogue order.
func BuildMarkdown(sessions []session.Session, title string) string {
	partitions := catalog.Partition(sessions)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%d sessions across %d tracks.\n\n", len(sessions), len(partitions))

	tracks := make([]string, 0, len(partitions))
	for track := range partitions {
		tracks = append(tracks, track)
	}
	sort.Strings(tracks)

	for _, track := range tracks {
		fmt.Fprintf(&b, "## %s\n\n", track)
		b.WriteString("| Session | Type | Level | Time | Room | Speakers |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, s := range partitions[track] {
			timeStr := strings.TrimSpace(s.Schedule.StartTime + " - " + s.Schedule.EndTime)
			if timeStr == "-" {
				timeStr = ""
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				cell(s.Title), cell(s.Type), cell(s.Level),
				cell(timeStr), cell(s.Schedule.Room), cell(strings.Join(s.Speakers, "; ")))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.Join(strings.Fields(s), " ")
}

// RenderHTML converts the markdown report into a self-contained HTML page.
func RenderHTML(markdown, title string) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}

	return "<!doctype html><html><head><meta charset='utf-8'><title>" + html.EscapeString(title) + "</title>" +
		"<style>" +
		"body{font-family:-apple-system,'Segoe UI',sans-serif;max-width:1000px;margin:0 auto;padding:1rem;color:#1c1917;}" +
		"h1{border-bottom:2px solid #a8a29e;padding-bottom:0.3rem;}" +
		"h2{margin-top:2rem;color:#78350f;}" +
		"table{width:100%;border-collapse:collapse;font-size:0.85rem;}" +
		"th,td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;}" +
		"thead th{background:#f1f5f9;font-weight:700;}" +
		"</style></head><body>" + content.String() + "</body></html>", nil
}
