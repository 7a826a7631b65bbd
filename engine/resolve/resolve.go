// Package resolve maps names or list numbers from typed answers to
// positions in a hand or a list of players.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/alleycats/engine/state"
)

// AmbiguityError indicates multiple entries matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates no entry matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("there is no %q here", e.Name)
}

// Card returns the index in hand of the card named by query. A number is
// read as a 1-based position.
func Card(hand []*state.Card, query string) (int, error) {
	names := make([]string, len(hand))
	for i, c := range hand {
		names[i] = c.Title
	}
	return resolveName(names, query)
}

// Player returns the index of the player named by query. A number is read
// as a 1-based position.
func Player(players []*state.Player, query string) (int, error) {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.ID
	}
	return resolveName(names, query)
}

// resolveName resolves a query against a list of display names.
func resolveName(names []string, query string) (int, error) {
	query = strings.TrimSpace(query)
	if n, err := strconv.Atoi(query); err == nil {
		if n < 1 || n > len(names) {
			return -1, &NotFoundError{Name: query}
		}
		return n - 1, nil
	}

	nameLower := strings.ToLower(query)
	var matches []int
	for i, name := range names {
		// Exact match wins outright.
		if strings.ToLower(name) == nameLower {
			return i, nil
		}
		if matchesName(name, nameLower) {
			matches = append(matches, i)
		}
	}

	switch len(matches) {
	case 0:
		return -1, &NotFoundError{Name: query}
	case 1:
		return matches[0], nil
	}
	// Identical copies of one card are interchangeable.
	first := strings.ToLower(names[matches[0]])
	var candidates []string
	same := true
	for _, i := range matches {
		if strings.ToLower(names[i]) != first {
			same = false
		}
		if !containsStr(candidates, names[i]) {
			candidates = append(candidates, names[i])
		}
	}
	if same {
		return matches[0], nil
	}
	return -1, &AmbiguityError{Name: query, Candidates: candidates}
}

// matchesName checks for a word-based partial match: "post" does not match
// "Postman", but "night" matches "Night Postman".
func matchesName(name, nameLower string) bool {
	for _, word := range strings.Fields(strings.ToLower(name)) {
		if word == nameLower {
			return true
		}
	}
	// Underscore normalization: "night_owl" matches "Night Owl".
	return strings.ReplaceAll(nameLower, " ", "_") == strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

func containsStr(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
