package chatbot

import "strings"

// Intent is the classified purpose of a message.
type Intent string

const (
	IntentTopCandidates    Intent = "top_candidates"
	IntentRecentEmails     Intent = "recent_emails"
	IntentWaitlistQuery    Intent = "waitlist_query"
	IntentProgressAnalysis Intent = "progress_analysis"
	IntentJobMatchInsights Intent = "job_match_insights"
	IntentSkillLandscape   Intent = "skill_landscape"
	IntentEmailSearch      Intent = "email_search"
	IntentEmailStrategy    Intent = "email_strategy"
	IntentCandidateLookup  Intent = "candidate_lookup"
	IntentFallback         Intent = "fallback"
)

// Rule selects Intent when Match reports true for the lower-cased message.
type Rule struct {
	Intent Intent
	Match  func(lower string) bool
}

// DefaultRules are evaluated top to bottom; the first match wins.
// There is no scoring across rules, so order is behavior.
var DefaultRules = []Rule{
	{IntentTopCandidates, allOf("top", "candidate")},
	{IntentRecentEmails, allOf("recent", "email")},
	{IntentWaitlistQuery, anyOf("waitlist", "from the waitlist")},
	{IntentProgressAnalysis, anyOf("progress", "learning")},
	{IntentJobMatchInsights, func(s string) bool {
		return strings.Contains(s, "job") && anyOf("match", "insight")(s)
	}},
	{IntentSkillLandscape, anyOf("skill")},
	{IntentEmailSearch, func(s string) bool {
		return anyOf("email", "message")(s) && anyOf("from", "by", "find")(s)
	}},
	{IntentEmailStrategy, anyOf("email", "message")},
	{IntentCandidateLookup, anyOf("who is", "tell me about", "find student", "analyze", "profile")},
}

// Classifier routes a message to an intent with an ordered rule list.
type Classifier struct {
	rules []Rule
}

// NewClassifier uses DefaultRules when rules is empty.
func NewClassifier(rules []Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify returns the first matching intent, IntentFallback if none match.
func (c *Classifier) Classify(message string) Intent {
	lower := strings.ToLower(message)
	for _, r := range c.rules {
		if r.Match(lower) {
			return r.Intent
		}
	}
	return IntentFallback
}

func allOf(words ...string) func(string) bool {
	return func(s string) bool {
		for _, w := range words {
			if !strings.Contains(s, w) {
				return false
			}
		}
		return true
	}
}

func anyOf(words ...string) func(string) bool {
	return func(s string) bool {
		for _, w := range words {
			if strings.Contains(s, w) {
				return true
			}
		}
		return false
	}
}
