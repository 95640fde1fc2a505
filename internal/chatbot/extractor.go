package chatbot

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minEntityLength is the shortest phrase worth matching against the corpus.
const minEntityLength = 3

// Template captures an entity with Pattern when every Trigger phrase is
// present in the lower-cased message. Pattern group 1 is the entity.
type Template struct {
	Trigger []string
	Pattern *regexp.Regexp
}

func (t Template) applies(lower string) bool {
	for _, trig := range t.Trigger {
		if !strings.Contains(lower, trig) {
			return false
		}
	}
	return true
}

// phrase is one or more whitespace separated words.
const phrase = `(\S+(?:\s+\S+)*)`

// DefaultTemplates holds the templates per entity-bearing intent, in priority order.
var DefaultTemplates = map[Intent][]Template{
	IntentCandidateLookup: {
		{Trigger: []string{"analyze", "profile"}, Pattern: regexp.MustCompile(`(?is)^.*analyze\s+` + phrase + `\s+profile.*$`)},
		{Trigger: []string{"who is"}, Pattern: regexp.MustCompile(`(?is)^.*who is\s+` + phrase + `.*$`)},
		{Trigger: []string{"tell me about"}, Pattern: regexp.MustCompile(`(?is)^.*tell me about\s+` + phrase + `.*$`)},
		{Trigger: []string{"find student"}, Pattern: regexp.MustCompile(`(?is)^.*find student\s+` + phrase + `.*$`)},
	},
	IntentWaitlistQuery: {
		{Trigger: []string{"from the waitlist"}, Pattern: regexp.MustCompile(`(?is)^.*(?:tell me about|about)\s+` + phrase + `\s+from the waitlist.*$`)},
	},
	IntentEmailSearch: {
		{Trigger: nil, Pattern: regexp.MustCompile(`(?is)^.*(?:from|by|find|email|message)\s+(.*)$`)},
	},
}

// Extractor pulls a name or search phrase out of a message.
type Extractor struct {
	templates map[Intent][]Template
}

// NewExtractor uses DefaultTemplates when templates is nil.
func NewExtractor(templates map[Intent][]Template) *Extractor {
	if templates == nil {
		templates = DefaultTemplates
	}
	return &Extractor{templates: templates}
}

// Extract returns the first non-empty capture for intent, or "" when nothing
// usable was found. Captures shorter than minEntityLength count as nothing.
func (x *Extractor) Extract(message string, intent Intent) string {
	lower := strings.ToLower(message)
	for _, t := range x.templates[intent] {
		if !t.applies(lower) {
			continue
		}
		m := t.Pattern.FindStringSubmatch(message)
		if len(m) < 2 {
			continue
		}
		if entity := cleanEntity(m[1]); entity != "" {
			return entity
		}
	}
	return ""
}

func cleanEntity(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, "?!.,;:")
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < minEntityLength {
		return ""
	}
	return s
}
