// Package namematch decides whether a free-text query names a person.
//
// Matching is substring containment, not equality: a two-letter token
// matches every name containing those two letters.
package namematch

import "strings"

// Tokenize lowercases query and splits it on whitespace, dropping empty tokens.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Matches reports whether every token of query matches the person named
// first/last. A query with no tokens matches nothing.
func Matches(first, last, query string) bool {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return false
	}
	first = strings.ToLower(first)
	last = strings.ToLower(last)
	for _, term := range terms {
		if !MatchTerm(first, last, term) {
			return false
		}
	}
	return true
}

// MatchTerm applies the per-token rules. first, last and term must already
// be lowercase.
//
// A term containing a space is treated as a two-part name that may be split
// across the first and last name fields in either order, so "riley nelson"
// matches first="charles riley", last="nelson".
func MatchTerm(first, last, term string) bool {
	if strings.Contains(first+" "+last, term) {
		return true
	}
	if strings.Contains(first, term) || strings.Contains(last, term) {
		return true
	}
	if !strings.Contains(term, " ") {
		return false
	}
	parts := strings.Split(term, " ")
	if len(parts) != 2 {
		return false
	}
	p1, p2 := parts[0], parts[1]
	return (strings.Contains(first, p1) && strings.Contains(last, p2)) ||
		(strings.Contains(first, p2) && strings.Contains(last, p1))
}
