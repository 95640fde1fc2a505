package chatbot

import (
	"strings"
	"unicode/utf8"
)

// Matchable is any record the fuzzy matcher can resolve a phrase against.
type Matchable interface {
	MatchName() string
	MatchEmail() string
}

// Resolve returns the first record matching phrase, in source order.
//
// A record matches when the phrase is a case-insensitive substring of its name
// or email, or when every phrase token is contained in some name token (or
// contains one). There is no scoring: ties go to the earlier record.
// Records are never modified.
func Resolve[T Matchable](phrase string, records []T) (T, bool) {
	var zero T

	query := strings.ToLower(strings.TrimSpace(phrase))
	if utf8.RuneCountInString(query) < minEntityLength {
		return zero, false
	}
	queryTokens := strings.Fields(query)

	for _, rec := range records {
		if matches(query, queryTokens, rec) {
			return rec, true
		}
	}
	return zero, false
}

func matches(query string, queryTokens []string, rec Matchable) bool {
	name := strings.ToLower(rec.MatchName())
	email := strings.ToLower(rec.MatchEmail())

	if strings.Contains(name, query) || (email != "" && strings.Contains(email, query)) {
		return true
	}

	nameTokens := strings.Fields(name)
	if len(nameTokens) == 0 {
		return false
	}
	for _, qt := range queryTokens {
		if !tokenContained(qt, nameTokens) {
			return false
		}
	}
	return true
}

// tokenContained reports whether qt and some name token contain one another.
func tokenContained(qt string, nameTokens []string) bool {
	for _, nt := range nameTokens {
		if strings.Contains(nt, qt) || strings.Contains(qt, nt) {
			return true
		}
	}
	return false
}
