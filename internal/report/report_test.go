package report

import (
	"strings"
	"testing"

	"github.com/joelkehle/summit-agenda/internal/session"
)

func reportFixture() []session.Session {
	return []session.Session{
		{
			SessionID: "b-one",
			Title:     "Streaming at Scale",
			Track:     "Data Engineering",
			Level:     "Advanced",
			Type:      "Deep Dive",
			Speakers:  []string{"Jane Doe", "John Smith"},
			Schedule:  session.Schedule{Room: "2009", StartTime: "10:00 AM", EndTime: "10:40 AM"},
		},
		{
			SessionID: "a-one",
			Title:     "Intro | Pipes",
			Track:     "Analytics",
			Type:      "Breakout",
		},
		{
			SessionID: "c-one",
			Title:     "Untracked",
			Type:      "Breakout",
		},
	}
}

func TestBuildMarkdownGroupsByTrack(t *testing.T) {
	md := BuildMarkdown(reportFixture(), "Agenda")

	if !strings.HasPrefix(md, "# Agenda\n") {
		t.Errorf("missing title heading: %q", md[:40])
	}
	if !strings.Contains(md, "3 sessions across 3 tracks.") {
		t.Errorf("missing summary line in %q", md)
	}

	// Tracks render alphabetically, with the Other group for untracked rows.
	analytics := strings.Index(md, "## Analytics")
	engineering := strings.Index(md, "## Data Engineering")
	other := strings.Index(md, "## Other")
	if analytics < 0 || engineering < 0 || other < 0 {
		t.Fatalf("missing track headings in %q", md)
	}
	if !(analytics < engineering && engineering < other) {
		t.Errorf("tracks out of alphabetical order: %d, %d, %d", analytics, engineering, other)
	}
}

func TestBuildMarkdownRows(t *testing.T) {
	md := BuildMarkdown(reportFixture(), "Agenda")

	if !strings.Contains(md, "| Streaming at Scale | Deep Dive | Advanced | 10:00 AM - 10:40 AM | 2009 | Jane Doe; John Smith |") {
		t.Errorf("session row missing or malformed:\n%s", md)
	}
	// Pipes inside a title must not break the table.
	if !strings.Contains(md, `Intro \| Pipes`) {
		t.Errorf("pipe not escaped in title:\n%s", md)
	}
	// A session with no schedule renders an empty time cell, not a dangling dash.
	if strings.Contains(md, "|  - |") {
		t.Errorf("empty schedule rendered as dash:\n%s", md)
	}
}

func TestBuildMarkdownEmptyCatalogue(t *testing.T) {
	md := BuildMarkdown(nil, "Agenda")
	if !strings.Contains(md, "0 sessions across 0 tracks.") {
		t.Fatalf("got %q", md)
	}
}

func TestRenderHTML(t *testing.T) {
	md := BuildMarkdown(reportFixture(), "Agenda")
	html, err := RenderHTML(md, "Agenda <2026>")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(html, "<title>Agenda &lt;2026&gt;</title>") {
		t.Errorf("title not escaped: %q", html[:120])
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("GFM table not rendered:\n%s", html)
	}
	if !strings.Contains(html, "Streaming at Scale") {
		t.Errorf("session content missing from HTML")
	}
}
