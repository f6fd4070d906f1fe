// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just aliases and pattern matching.
package parser

import (
	"strings"

	"github.com/nathoo/ascend/types"
)

var verbAliases = map[string]string{
	// Look / status
	"l":         "look",
	"where":     "look",
	"stats":     "status",
	"st":        "status",
	"character": "status",
	"sheet":     "status",
	"h":         "help",
	"?":         "help",

	// Movement
	"walk":   "go",
	"travel": "go",
	"move":   "go",
	"head":   "go",
	"return": "go",

	// Wilds
	"hunt":    "explore",
	"venture": "explore",
	"search":  "explore",
	"roam":    "explore",

	// Combat
	"hit":       "attack",
	"fight":     "attack",
	"strike":    "attack",
	"punch":     "attack",
	"kick":      "attack",
	"technique": "qi",
	"palm":      "qi",
	"channel":   "qi",
	"block":     "defend",
	"guard":     "defend",
	"parry":     "defend",
	"run":       "flee",
	"escape":    "flee",
	"retreat":   "flee",

	// Village
	"sleep":    "rest",
	"nap":      "rest",
	"heal":     "rest",
	"store":    "shop",
	"market":   "shop",
	"purchase": "buy",
	"speak":    "talk",
	"ask":      "talk",
	"chat":     "talk",

	// Progression
	"meditate":  "train",
	"cultivate": "train",
	"bt":        "breakthrough",
	"ascend":    "breakthrough",

	// Confirmation
	"y":    "yes",
	"ok":   "yes",
	"sure": "yes",
	"n":    "no",
	"nope": "no",

	// Session
	"q":    "quit",
	"exit": "quit",
}

var prepositions = map[string]bool{
	"to": true, "with": true, "into": true, "at": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripArticles(words[1:])
	rest = stripLeadingPreposition(rest)

	return types.Intent{
		Verb:   verb,
		Object: strings.Join(rest, " "),
	}
}

// expandMultiWordVerbs handles "use qi", "break through", "talk to" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "use":
		if words[1] == "qi" {
			return append([]string{"qi"}, words[2:]...)
		}
	case "break":
		if words[1] == "through" {
			return append([]string{"breakthrough"}, words[2:]...)
		}
	case "run":
		if words[1] == "away" {
			return append([]string{"flee"}, words[2:]...)
		}
	case "look":
		if words[1] == "around" {
			return []string{"look"}
		}
	case "go":
		if words[1] == "explore" || words[1] == "hunting" {
			return append([]string{"explore"}, words[2:]...)
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

// stripLeadingPreposition turns "to village" into "village".
func stripLeadingPreposition(words []string) []string {
	if len(words) > 0 && prepositions[words[0]] {
		return words[1:]
	}
	return words
}
