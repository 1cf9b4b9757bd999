// Package catalog filters, searches and sorts rooms and items for display.
//
// Every Apply returns a new slice and leaves its input untouched. Sorts are
// stable, so ties keep their input order and sorting twice is a no-op.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// fold maps s to its Unicode case-folded form ("Straße" and "STRASSE" both
// fold to "strasse").
func fold(s string) string {
	return cases.Fold().String(s)
}

// matcher matches folded text against a search string.
type matcher struct {
	needle string
}

func newMatcher(search string) matcher {
	return matcher{needle: fold(strings.TrimSpace(search))}
}

// match reports whether any field contains the search string. An empty search
// matches everything.
func (m matcher) match(fields ...string) bool {
	if m.needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(fold(f), m.needle) {
			return true
		}
	}
	return false
}
