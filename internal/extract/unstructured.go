package extract

import (
	"regexp"
	"strings"

	"github.com/joelkehle/summit-agenda/internal/session"
)

// ExtractUnstructured pulls a Session candidate out of rendered page text for
// a single session view. It is the fallback when no structured document was
// found on the page. The text is expected to be markdown-ish (the acquisition
// layer converts HTML before handing it over), but plain text works too.
// A page without a recognizable title yields no candidate.
func ExtractUnstructured(text, sourceURL string) []session.Session {
	lines := strings.Split(text, "\n")

	title, titleLine := findTitle(lines)
	if title == "" {
		return nil
	}

	id, generated := session.IDFromURL(sourceURL)
	s := session.Session{
		SessionID:   id,
		GeneratedID: generated,
		Title:       title,
	}

	consumed := map[int]bool{titleLine: true}

	meta := scanMetadata(lines, consumed)
	s.Track = meta.track
	s.Level = meta.level
	s.Industry = meta.industry
	s.AreasOfInterest = meta.areas
	s.Schedule = meta.schedule

	s.Speakers = scanSpeakers(lines, consumed)
	s.Description = buildDescription(lines, consumed)

	if len(s.AreasOfInterest) == 0 {
		s.AreasOfInterest = inferAreas(s.Title + " " + s.Description)
	}
	// Downstream grouping needs a non-empty classification, so the defaulting
	// inference policy applies on this path.
	s.Type = InferType(meta.rawType, s.Title, s.Description)
	if s.Category == s.Track {
		s.Category = ""
	}
	return []session.Session{s}
}

// --- title ---

var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^#\s+(.+)$`),
	regexp.MustCompile(`^##\s+(.+)$`),
	regexp.MustCompile(`^###\s+(.+)$`),
	regexp.MustCompile(`(?i)^title\s*:\s*(.+)$`),
}

func findTitle(lines []string) (string, int) {
	for _, re := range titlePatterns {
		for i, line := range lines {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || isBoilerplate(trimmed) {
				continue
			}
			if m := re.FindStringSubmatch(trimmed); m != nil {
				if title := strings.TrimSpace(m[1]); title != "" {
					return title, i
				}
			}
		}
	}
	return "", -1
}

// --- boilerplate ---

// Placeholder and navigation chrome that rendered session pages carry along
// with the content.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^!?\[?image coming soon`),
	regexp.MustCompile(`(?i)return to all sessions`),
	regexp.MustCompile(`(?i)^see details$`),
	regexp.MustCompile(`(?i)^back to agenda`),
	regexp.MustCompile(`(?i)^register now`),
	regexp.MustCompile(`(?i)^add to (?:calendar|schedule)`),
	regexp.MustCompile(`(?i)^share this session`),
	regexp.MustCompile(`(?i)^(?:log in|sign up|sign in)\b`),
	regexp.MustCompile(`(?i)^cookie (?:policy|settings)`),
}

func isBoilerplate(line string) bool {
	for _, re := range boilerplatePatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// --- speakers ---

var (
	speakerNamePattern  = regexp.MustCompile(`^[A-Z][\w.'’-]*(?:\s+[A-Z][\w.'’-]*){1,4}$`)
	speakerTitlePattern = regexp.MustCompile(`^/\s*(.+)$`)
)

// scanSpeakers extracts name/title/company groups from labeled multi-line
// blocks: a display-name line, a slash-prefixed title line, and optionally a
// company line. Consumed lines are marked so they can be stripped from the
// description. Speakers deduplicate by (name, company).
func scanSpeakers(lines []string, consumed map[int]bool) []string {
	var speakers []string
	seen := map[string]bool{}

	for i := 0; i < len(lines); i++ {
		if consumed[i] {
			continue
		}
		name := strings.TrimSpace(lines[i])
		if name == "" || isBoilerplate(name) || !speakerNamePattern.MatchString(name) {
			continue
		}
		j := nextContentLine(lines, i+1, consumed)
		if j < 0 {
			break
		}
		titleMatch := speakerTitlePattern.FindStringSubmatch(strings.TrimSpace(lines[j]))
		if titleMatch == nil {
			continue
		}
		role := strings.TrimSpace(titleMatch[1])

		company := ""
		companyLine := -1
		if k := nextContentLine(lines, j+1, consumed); k >= 0 {
			candidate := strings.TrimSpace(lines[k])
			if !isBoilerplate(candidate) && !isSpeakerBlockStart(lines, k, consumed) &&
				!strings.HasPrefix(candidate, "/") && !strings.HasPrefix(candidate, "#") &&
				!strings.HasPrefix(candidate, "|") {
				company = candidate
				companyLine = k
			}
		}

		key := strings.ToLower(name) + "|" + strings.ToLower(company)
		if !seen[key] {
			seen[key] = true
			speakers = append(speakers, formatSpeaker(name, role, company))
		}
		consumed[i] = true
		consumed[j] = true
		if companyLine >= 0 {
			consumed[companyLine] = true
		}
		i = j
		if companyLine >= 0 {
			i = companyLine
		}
	}
	return speakers
}

func nextContentLine(lines []string, from int, consumed map[int]bool) int {
	for i := from; i < len(lines); i++ {
		if consumed[i] {
			continue
		}
		if strings.TrimSpace(lines[i]) != "" {
			return i
		}
	}
	return -1
}

// isSpeakerBlockStart reports whether the line at idx begins another
// name-then-slash-title block, so it cannot be the previous speaker's company.
func isSpeakerBlockStart(lines []string, idx int, consumed map[int]bool) bool {
	candidate := strings.TrimSpace(lines[idx])
	if !speakerNamePattern.MatchString(candidate) {
		return false
	}
	next := nextContentLine(lines, idx+1, consumed)
	return next >= 0 && speakerTitlePattern.MatchString(strings.TrimSpace(lines[next]))
}

func formatSpeaker(name, role, company string) string {
	switch {
	case role != "" && company != "":
		return name + " (" + role + ", " + company + ")"
	case role != "":
		return name + " (" + role + ")"
	default:
		return name
	}
}

// --- metadata ---

type pageMetadata struct {
	track    string
	level    string
	industry string
	rawType  string
	areas    []string
	schedule session.Schedule
}

var (
	tableRowPattern    = regexp.MustCompile(`^\|\s*([^|]+?)\s*\|\s*([^|]+?)\s*\|$`)
	labeledLinePattern = regexp.MustCompile(`(?i)^\s*(experience|type|session type|track|industry|technologies|level|duration)\s*:\s*(.+)$`)
	timeRangePattern   = regexp.MustCompile(`(?i)^(\d{1,2}:\d{2}\s*(?:AM|PM)?)\s*[-–—]\s*(\d{1,2}:\d{2}\s*(?:AM|PM)?)$`)
)

// scanMetadata walks row-like structures first (markdown tables), then falls
// back to labeled-line scanning over the full text. Consumed metadata rows are
// marked so the description does not re-absorb them.
func scanMetadata(lines []string, consumed map[int]bool) pageMetadata {
	var meta pageMetadata
	matched := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		m := tableRowPattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		if applyMetadataField(&meta, m[1], m[2]) {
			matched = true
		}
		// Table separator and header rows get consumed regardless so the
		// description stays free of table scaffolding.
		consumed[i] = true
	}

	if !matched {
		for i, line := range lines {
			if consumed[i] {
				continue
			}
			m := labeledLinePattern.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil {
				continue
			}
			if applyMetadataField(&meta, m[1], m[2]) {
				consumed[i] = true
			}
		}
	}
	return meta
}

func applyMetadataField(meta *pageMetadata, label, value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || value == "---" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "experience", "level":
		meta.level = value
	case "type", "session type":
		meta.rawType = value
	case "track":
		meta.track = value
	case "industry":
		meta.industry = value
	case "technologies":
		for _, part := range strings.Split(value, ",") {
			if p := strings.TrimSpace(part); p != "" {
				meta.areas = append(meta.areas, p)
			}
		}
	case "duration":
		if m := timeRangePattern.FindStringSubmatch(value); m != nil {
			meta.schedule.StartTime = strings.TrimSpace(m[1])
			meta.schedule.EndTime = strings.TrimSpace(m[2])
		}
	default:
		return false
	}
	return true
}

// --- areas of interest ---

// Closed list of domain topics used for keyword inference when no explicit
// technologies/topics metadata exists on the page.
var areaKeywords = []string{
	"Data Engineering",
	"Data Science",
	"Machine Learning",
	"Generative AI",
	"Data Governance",
	"Data Warehousing",
	"Business Intelligence",
	"Analytics",
	"Streaming",
	"MLOps",
	"Data Sharing",
	"Lakehouse",
	"Apache Spark",
	"Delta Lake",
	"MLflow",
}

func inferAreas(text string) []string {
	haystack := strings.ToLower(text)
	var out []string
	for _, kw := range areaKeywords {
		if strings.Contains(haystack, strings.ToLower(kw)) {
			out = append(out, kw)
		}
	}
	return out
}

// --- description ---

var blankRunPattern = regexp.MustCompile(`\n{3,}`)

// buildDescription keeps whatever body text was not claimed by the title,
// speaker blocks, or metadata rows, drops residual boilerplate, and collapses
// redundant blank lines.
func buildDescription(lines []string, consumed map[int]bool) string {
	var kept []string
	for i, line := range lines {
		if consumed[i] {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if isBoilerplate(trimmed) {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		kept = append(kept, trimmed)
	}
	joined := strings.Join(kept, "\n")
	joined = blankRunPattern.ReplaceAllString(joined, "\n\n")
	return strings.TrimSpace(joined)
}
