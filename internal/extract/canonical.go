package extract

import (
	"regexp"
	"strings"
)

// Canonical session types. Every confident classification lands on one of
// these; unrecognized non-empty labels pass through untouched.
const (
	TypeBreakout        = "Breakout"
	TypeDeepDive        = "Deep Dive"
	TypeEveningEvent    = "Evening Event"
	TypeKeynote         = "Keynote"
	TypeLightningTalk   = "Lightning Talk"
	TypeMeetup          = "Meetup"
	TypePaidTraining    = "Paid Training"
	TypeSpecialInterest = "Special Interest"
)

var canonicalTypes = []string{
	TypeBreakout,
	TypeDeepDive,
	TypeEveningEvent,
	TypeKeynote,
	TypeLightningTalk,
	TypeMeetup,
	TypePaidTraining,
	TypeSpecialInterest,
}

// typeAliasTable maps lowercased free-text labels seen in feeds onto the
// canonical vocabulary. Matched by exact lowercase equality after cleaning.
var typeAliasTable = map[string]string{
	"session":                TypeBreakout,
	"regular session":        TypeBreakout,
	"breakout session":       TypeBreakout,
	"talk":                   TypeBreakout,
	"deep-dive":              TypeDeepDive,
	"deep dive session":      TypeDeepDive,
	"technical deep dive":    TypeDeepDive,
	"keynote session":        TypeKeynote,
	"general session":        TypeKeynote,
	"lightning":              TypeLightningTalk,
	"lightning session":      TypeLightningTalk,
	"meet-up":                TypeMeetup,
	"birds of a feather":     TypeMeetup,
	"networking":             TypeMeetup,
	"training":               TypePaidTraining,
	"paid training course":   TypePaidTraining,
	"workshop":               TypePaidTraining,
	"tutorial":               TypePaidTraining,
	"certification":          TypePaidTraining,
	"party":                  TypeEveningEvent,
	"reception":              TypeEveningEvent,
	"evening reception":      TypeEveningEvent,
	"social":                 TypeEveningEvent,
	"sig":                    TypeSpecialInterest,
	"special interest group": TypeSpecialInterest,
}

// Extraction-artifact noise that leaks into type labels: CMS template
// markers, raw content-type tags, and field-label prefixes.
var typeNoisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\{\{[^}]*\}\}`),
	regexp.MustCompile(`\[\[[^\]]*\]\]`),
	regexp.MustCompile(`%%[^%]*%%`),
	regexp.MustCompile(`(?i)\bcontent[-_]?type\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)^(?:session\s*)?type\s*:\s*`),
}

var residualNoisePattern = regexp.MustCompile(`[{}%\[\]=]`)

// Keyword inference over title+description, in priority order. First match
// wins; specific formats outrank the generic breakout keywords.
var typeKeywordRules = []struct {
	keyword string
	typ     string
}{
	{"keynote", TypeKeynote},
	{"workshop", TypePaidTraining},
	{"tutorial", TypePaidTraining},
	{"training", TypePaidTraining},
	{"certification", TypePaidTraining},
	{"lightning", TypeLightningTalk},
	{"deep dive", TypeDeepDive},
	{"meetup", TypeMeetup},
	{"birds of a feather", TypeMeetup},
	{"reception", TypeEveningEvent},
	{"party", TypeEveningEvent},
	{"happy hour", TypeEveningEvent},
	{"special interest", TypeSpecialInterest},
}

// cleanTypeLabel strips known noise patterns and collapses whitespace.
func cleanTypeLabel(label string) string {
	out := label
	for _, re := range typeNoisePatterns {
		out = re.ReplaceAllString(out, "")
	}
	return strings.Join(strings.Fields(out), " ")
}

// CanonicalizeType maps a free-text session-type label onto the canonical
// vocabulary. Unrecognized but clean labels are returned unchanged; labels
// that are empty, or still carry noise markers after cleaning, resolve to "".
// It never invents a default — see InferType for the defaulting path.
func CanonicalizeType(label string) string {
	cleaned := cleanTypeLabel(label)
	if cleaned == "" || residualNoisePattern.MatchString(cleaned) {
		return ""
	}
	lower := strings.ToLower(cleaned)
	for _, t := range canonicalTypes {
		if lower == strings.ToLower(t) {
			return t
		}
	}
	if t, ok := typeAliasTable[lower]; ok {
		return t
	}
	return cleaned
}

// InferType resolves a session type when a non-empty classification is
// required for downstream grouping. It tries CanonicalizeType on the label,
// then keyword inference over title+description, and finally defaults to
// Breakout — the most common type — so category-based recommendations never
// see an empty type. The default is a deliberate policy, not a data claim.
func InferType(label, title, description string) string {
	if t := CanonicalizeType(label); t != "" {
		return t
	}
	haystack := strings.ToLower(title + " " + description)
	for _, rule := range typeKeywordRules {
		if strings.Contains(haystack, rule.keyword) {
			return rule.typ
		}
	}
	return TypeBreakout
}
