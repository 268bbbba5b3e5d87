// Package search turns a name-sorted contact list and a query into the
// alphabetical sections a list view displays.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/sentiric/sentiric-contacts-service/internal/contact"
)

// SpecialTitle heads the section of contacts whose name does not start with
// a Latin letter.
const SpecialTitle = "★"

// Section is a titled run of contacts.
type Section struct {
	Title string            `json:"title"`
	Data  []contact.Contact `json:"data"`
}

// Matches reports whether c passes query: case-insensitive containment in
// the name, or plain substring of the primary phone. An empty query matches
// everything.
func Matches(c contact.Contact, query string) bool {
	if query == "" {
		return true
	}
	fold := cases.Fold()
	if strings.Contains(fold.String(c.Name), fold.String(query)) {
		return true
	}
	return c.Phone != "" && strings.Contains(c.Phone, query)
}

// Filter returns the contacts matching query, in input order.
func Filter(contacts []contact.Contact, query string) []contact.Contact {
	out := make([]contact.Contact, 0, len(contacts))
	for _, c := range contacts {
		if Matches(c, query) {
			out = append(out, c)
		}
	}
	return out
}

// ComputeSections filters contacts by query and partitions them by the
// upper-cased first letter of their name. Letter sections are sorted by
// title; the SpecialTitle section, when present, comes first. Relative order
// within a section is the input order.
func ComputeSections(contacts []contact.Contact, query string) []Section {
	buckets := make(map[string][]contact.Contact)
	var special []contact.Contact

	for _, c := range Filter(contacts, query) {
		letter, ok := initial(c.Name)
		if !ok {
			special = append(special, c)
			continue
		}
		buckets[letter] = append(buckets[letter], c)
	}

	sections := make([]Section, 0, len(buckets)+1)
	if len(special) > 0 {
		sections = append(sections, Section{Title: SpecialTitle, Data: special})
	}
	letters := make([]string, 0, len(buckets))
	for l := range buckets {
		letters = append(letters, l)
	}
	sort.Strings(letters)
	for _, l := range letters {
		sections = append(sections, Section{Title: l, Data: buckets[l]})
	}
	return sections
}

// initial returns the upper-cased first rune of name when it is A-Z.
func initial(name string) (string, bool) {
	r, _ := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return "", false
	}
	upper := strings.ToUpper(string(r))
	if len(upper) != 1 || upper[0] < 'A' || upper[0] > 'Z' {
		return "", false
	}
	return upper, true
}
