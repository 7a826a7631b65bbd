// Package parser converts typed answers into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/alleycats/types"
)

var verbAliases = map[string]string{
	// Play a card
	"p":    "play",
	"use":  "play",
	"cast": "play",

	// Fight
	"f":       "fight",
	"attack":  "fight",
	"hit":     "fight",
	"scratch": "fight",
	"pounce":  "fight",

	// Skip
	"s":       "skip",
	"pass":    "skip",
	"nothing": "skip",
	"wait":    "skip",
	"z":       "skip",

	// Movement
	"m":    "move",
	"go":   "move",
	"walk": "move",
	"run":  "move",
	"stay": "stay",
	"hold": "stay",

	// Answers
	"y":    "yes",
	"yeah": "yes",
	"ok":   "yes",
	"sure": "yes",
	"n":    "no",
	"nope": "no",

	// Loot
	"eat":   "food",
	"steal": "card",

	// Miscellaneous
	"r":       "reveal",
	"h":       "hand",
	"cards":   "hand",
	"i":       "hand",
	"inv":     "hand",
	"l":       "look",
	"map":     "look",
	"board":   "look",
	"st":      "status",
	"stats":   "status",
	"?":       "help",
	"q":       "quit",
	"exit":    "quit",
	"reroll":  "reroll",
	"re-roll": "reroll",
}

var prepositions = map[string]bool{
	"on": true, "at": true, "to": true,
	"with": true, "against": true, "from": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true, "my": true,
}

// Parse converts a raw answer into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	// A bare coordinate is a move, a bare number picks from a list.
	if row, col, err := ParseCoord(input); err == nil {
		return types.Intent{Verb: "move", Object: fmt.Sprintf("%d,%d", row, col)}
	}
	words := stripArticles(strings.Fields(strings.ToLower(input)))
	if len(words) == 0 {
		return types.Intent{}
	}
	if len(words) == 1 && isNumber(words[0]) {
		return types.Intent{Verb: "pick", Object: words[0]}
	}

	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := words[1:]

	// Use the first preposition as a delimiter between object and target.
	object, target := splitOnPreposition(rest)

	return types.Intent{
		Verb:   verb,
		Object: object,
		Target: target,
	}
}

// expandMultiWordVerbs handles "stay put", "move to", "show hand" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "stay", "sit":
		if words[1] == "put" || words[1] == "here" || words[1] == "still" {
			return append([]string{"stay"}, words[2:]...)
		}
	case "move", "go", "walk", "run":
		if words[1] == "to" {
			return append([]string{"move"}, words[2:]...)
		}
	case "show", "list":
		if words[1] == "hand" || words[1] == "cards" {
			return append([]string{"hand"}, words[2:]...)
		}
	case "take":
		if words[1] == "food" || words[1] == "card" {
			return words[1:]
		}
	case "do":
		if words[1] == "nothing" {
			return append([]string{"skip"}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after become the target.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if prepositions[w] {
			object = strings.Join(words[:i], " ")
			target = strings.Join(words[i+1:], " ")
			return object, target
		}
	}
	return strings.Join(words, " "), ""
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// ErrBadCoord is returned for input that is not a "row,col" pair.
var ErrBadCoord = errors.New("expected a coordinate like 2,3")

// ParseCoord reads "row,col", "row col" or "(row, col)".
func ParseCoord(input string) (row, col int, err error) {
	s := strings.Trim(strings.TrimSpace(input), "()[]")
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == ';' })
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%q: %w", input, ErrBadCoord)
	}
	row, err1 := strconv.Atoi(parts[0])
	col, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("%q: %w", input, ErrBadCoord)
	}
	return row, col, nil
}

// ParseYesNo interprets an answer as yes or no. ok is false when the
// answer is neither.
func ParseYesNo(input string) (yes, ok bool) {
	switch Parse(input).Verb {
	case "yes":
		return true, true
	case "no", "skip":
		return false, true
	}
	return false, false
}
