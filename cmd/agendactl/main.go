// agendactl queries the harvested session catalogue and manages per-user
// annotations (ratings, interest levels, tags).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/joelkehle/summit-agenda/internal/catalog"
	"github.com/joelkehle/summit-agenda/internal/config"
	"github.com/joelkehle/summit-agenda/internal/session"
	"github.com/joelkehle/summit-agenda/internal/userdata"
)

const usage = `usage: agendactl [flags] <command> [args]

commands:
  list                       list sessions (-track, -level, -speaker, -search, -details)
  show <id>                  show one session with its annotations
  rate <id> <1-5>            rate a session (-notes)
  unrate <id>                remove a rating
  interest <id> <level>      set interest level; 0 removes (-notes)
  tag <id> <tag> [tag...]    add tags to a session
  untag <id> <tag> [tag...]  remove tags from a session
  tags                       list all tags with usage counts
  recommend                  suggest sessions from highly rated ones (-min-rating, -limit)
`

type app struct {
	sessions []session.Session
	store    *userdata.Store
}

func main() {
	configPath := flag.String("config", "", "Path to config YAML")
	dataDir := flag.String("data-dir", "", "Data directory")
	track := flag.String("track", "", "Filter by track")
	level := flag.String("level", "", "Filter by level")
	speaker := flag.String("speaker", "", "Filter by speaker")
	search := flag.String("search", "", "Search title and description")
	details := flag.Bool("details", false, "Show description and speakers in listings")
	notes := flag.String("notes", "", "Notes to attach to a rating or interest entry")
	minRating := flag.Int("min-rating", 4, "Minimum rating for recommendation seeds")
	limit := flag.Int("limit", 10, "Maximum recommendations to show")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Resolve(*configPath, config.Overrides{DataDir: *dataDir})
	if err != nil {
		log.Fatalf("resolve config: %v", err)
	}

	sessions, err := catalog.NewStore(cfg.SessionsDir()).Load()
	if err != nil {
		log.Fatalf("load catalogue: %v", err)
	}
	store, err := userdata.NewStore(cfg.UserDBPath)
	if err != nil {
		log.Fatalf("open user store: %v", err)
	}
	defer store.Close()

	a := &app{sessions: sessions, store: store}
	args := flag.Args()

	switch args[0] {
	case "list":
		a.list(catalog.Filter{Track: *track, Level: *level, Speaker: *speaker, Search: *search}, *details)
	case "show":
		a.show(requireArgs(args, 2)[1])
	case "rate":
		rest := requireArgs(args, 3)
		rating, err := strconv.Atoi(rest[2])
		if err != nil {
			log.Fatalf("rating must be a number: %v", err)
		}
		a.rate(rest[1], rating, *notes)
	case "unrate":
		a.unrate(requireArgs(args, 2)[1])
	case "interest":
		rest := requireArgs(args, 3)
		levelVal, err := strconv.ParseFloat(rest[2], 64)
		if err != nil {
			log.Fatalf("interest level must be a number: %v", err)
		}
		a.interest(rest[1], levelVal, *notes)
	case "tag":
		rest := requireArgs(args, 3)
		a.tag(rest[1], rest[2:])
	case "untag":
		rest := requireArgs(args, 3)
		a.untag(rest[1], rest[2:])
	case "tags":
		a.tagCounts()
	case "recommend":
		a.recommend(*minRating, *limit)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func requireArgs(args []string, n int) []string {
	if len(args) < n {
		flag.Usage()
		os.Exit(2)
	}
	return args
}

func (a *app) resolveID(id string) string {
	full, err := catalog.ResolveID(a.sessions, id)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return full
}

func (a *app) list(f catalog.Filter, details bool) {
	matches := catalog.Select(a.sessions, f)
	if len(matches) == 0 {
		fmt.Println("no sessions found matching the criteria")
		return
	}
	for _, s := range matches {
		a.printSession(s, details)
	}
	fmt.Printf("\n%d session(s)\n", len(matches))
}

func (a *app) printSession(s session.Session, details bool) {
	timeStr := strings.TrimSpace(s.Schedule.StartTime + " - " + s.Schedule.EndTime)
	if timeStr == "-" {
		timeStr = ""
	}
	line := fmt.Sprintf("%-24s  %s", shorten(s.SessionID, 24), s.Title)
	ann, err := a.store.Annotations(s.SessionID)
	if err == nil {
		if ann.HasRating {
			line += fmt.Sprintf("  (%d*)", ann.Rating)
		}
		if len(ann.Tags) > 0 {
			line += "  #" + strings.Join(ann.Tags, " #")
		}
	}
	fmt.Println(line)
	fmt.Printf("%-24s  %s | %s | %s | %s\n", "", s.Track, s.Level, timeStr, s.Schedule.Room)
	if details {
		if len(s.Speakers) > 0 {
			fmt.Printf("%-24s  speakers: %s\n", "", strings.Join(s.Speakers, "; "))
		}
		if s.Description != "" {
			fmt.Printf("%-24s  %s\n", "", shorten(s.Description, 200))
		}
	}
}

func (a *app) show(id string) {
	full := a.resolveID(id)
	s, ok := catalog.Find(a.sessions, full)
	if !ok {
		log.Fatalf("session not found: %s", full)
	}
	fmt.Printf("id:        %s\n", s.SessionID)
	fmt.Printf("title:     %s\n", s.Title)
	fmt.Printf("track:     %s\n", s.Track)
	fmt.Printf("level:     %s\n", s.Level)
	fmt.Printf("type:      %s\n", s.Type)
	if s.Industry != "" {
		fmt.Printf("industry:  %s\n", s.Industry)
	}
	if s.Category != "" {
		fmt.Printf("category:  %s\n", s.Category)
	}
	if len(s.AreasOfInterest) > 0 {
		fmt.Printf("areas:     %s\n", strings.Join(s.AreasOfInterest, ", "))
	}
	if len(s.Speakers) > 0 {
		fmt.Printf("speakers:  %s\n", strings.Join(s.Speakers, "; "))
	}
	fmt.Printf("schedule:  %s %s-%s %s\n", s.Schedule.Day, s.Schedule.StartTime, s.Schedule.EndTime, s.Schedule.Room)
	if s.Description != "" {
		fmt.Printf("\n%s\n", s.Description)
	}

	ann, err := a.store.Annotations(s.SessionID)
	if err != nil {
		log.Fatalf("load annotations: %v", err)
	}
	if ann.HasRating {
		fmt.Printf("\nrating:    %d/5", ann.Rating)
		if ann.RatingNotes != "" {
			fmt.Printf(" (%s)", ann.RatingNotes)
		}
		fmt.Println()
	}
	if ann.HasInterest {
		fmt.Printf("interest:  %.1f", ann.Interest)
		if ann.InterestNotes != "" {
			fmt.Printf(" (%s)", ann.InterestNotes)
		}
		fmt.Println()
	}
	if len(ann.Tags) > 0 {
		fmt.Printf("tags:      %s\n", strings.Join(ann.Tags, ", "))
	}
}

func (a *app) rate(id string, rating int, notes string) {
	full := a.resolveID(id)
	if err := a.store.SetRating(full, rating, notes); err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf("rated session %s with %d stars\n", full, rating)
}

func (a *app) unrate(id string) {
	full := a.resolveID(id)
	if err := a.store.RemoveRating(full); err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf("removed rating for session %s\n", full)
}

func (a *app) interest(id string, level float64, notes string) {
	full := a.resolveID(id)
	if err := a.store.SetInterest(full, level, notes); err != nil {
		log.Fatalf("%v", err)
	}
	if level == 0 {
		fmt.Printf("removed interest for session %s\n", full)
	} else {
		fmt.Printf("set interest %.1f for session %s\n", level, full)
	}
}

func (a *app) tag(id string, tags []string) {
	full := a.resolveID(id)
	if err := a.store.AddTags(full, tags); err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf("tagged session %s: %s\n", full, strings.Join(tags, ", "))
}

func (a *app) untag(id string, tags []string) {
	full := a.resolveID(id)
	if err := a.store.RemoveTags(full, tags); err != nil {
		log.Fatalf("%v", err)
	}
	fmt.Printf("untagged session %s: %s\n", full, strings.Join(tags, ", "))
}

func (a *app) tagCounts() {
	counts, err := a.store.TagCounts()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if len(counts) == 0 {
		fmt.Println("no tags recorded")
		return
	}
	type tagCount struct {
		tag string
		n   int
	}
	var sorted []tagCount
	for tag, n := range counts {
		sorted = append(sorted, tagCount{tag, n})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].n != sorted[j].n {
			return sorted[i].n > sorted[j].n
		}
		return sorted[i].tag < sorted[j].tag
	})
	for _, tc := range sorted {
		fmt.Printf("%-30s %d\n", tc.tag, tc.n)
	}
}

func (a *app) recommend(minRating, limit int) {
	recs, err := a.store.Recommend(a.sessions, minRating)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if len(recs) == 0 {
		fmt.Println("no recommendations available; rate some sessions first")
		return
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	for _, s := range recs {
		a.printSession(s, false)
	}
}

func shorten(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
