// Package resolve maps player-typed names to content IDs.
package resolve

import (
	"fmt"
	"strings"
)

// Candidate is something the player can refer to by name.
type Candidate struct {
	ID   string
	Name string
}

// AmbiguityError indicates multiple candidates matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no candidate matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("you don't see %q here", e.Name)
}

// Name resolves a single name string to a candidate ID. An exact ID or
// display-name match wins outright; otherwise any candidate whose name
// contains the query as a whole word matches.
func Name(query string, candidates []Candidate) (string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", &NotFoundError{Name: query}
	}
	normalized := strings.ReplaceAll(q, " ", "_")

	for _, c := range candidates {
		if strings.ToLower(c.ID) == normalized || strings.ToLower(c.Name) == q {
			return c.ID, nil
		}
	}

	var matches []string
	for _, c := range candidates {
		if matchesWord(c.Name, q) {
			matches = append(matches, c.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Name: query}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguityError{Name: query, Candidates: matches}
	}
}

// matchesWord reports whether query equals any word of name,
// e.g. "elder" matches "Village Elder".
func matchesWord(name, query string) bool {
	for _, word := range strings.Fields(strings.ToLower(name)) {
		if word == query {
			return true
		}
	}
	return false
}
