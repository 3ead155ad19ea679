package rewriting

import (
	"regexp"
	"strings"
)

// Common strong action verbs for resume bullets (heuristic check)
var strongVerbs = map[string]bool{
	"achieved": true, "architected": true, "automated": true, "built": true,
	"created": true, "delivered": true, "designed": true, "developed": true,
	"drove": true, "engineered": true, "implemented": true, "improved": true,
	"increased": true, "launched": true, "led": true, "managed": true,
	"mentored": true, "migrated": true, "optimized": true, "reduced": true,
	"scaled": true, "shipped": true, "spearheaded": true, "transformed": true,
}

var (
	digitPattern  = regexp.MustCompile(`\d`)
	bulletPattern = regexp.MustCompile(`^\s*(?:[-*•·]|\d+[.)])\s+`)
)

// StyleChecksResult summarises how many bullets of a text follow resume conventions.
type StyleChecksResult struct {
	Bullets    int `json:"bullets"`
	StrongVerb int `json:"strong_verb"`
	Quantified int `json:"quantified"`
}

// CheckStyle counts non-empty lines, those opening with a strong action verb and
// those carrying a number or percentage.
func CheckStyle(text string) StyleChecksResult {
	var result StyleChecksResult
	for _, line := range strings.Split(text, "\n") {
		line = bulletPattern.ReplaceAllString(line, "")
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.Bullets++
		if checkStrongVerb(strings.ToLower(line)) {
			result.StrongVerb++
		}
		if checkQuantifiedImpact(line) {
			result.Quantified++
		}
	}
	return result
}

// checkStrongVerb checks if text starts with a strong action verb
func checkStrongVerb(textLower string) bool {
	words := strings.Fields(textLower)
	if len(words) == 0 {
		return false
	}

	firstWord := strings.TrimRight(words[0], ".,!?;:")
	if strongVerbs[firstWord] {
		return true
	}

	// Past-tense words of reasonable length are usually action verbs.
	return strings.HasSuffix(firstWord, "ed") && len(firstWord) > 3
}

// checkQuantifiedImpact checks if text contains numbers or metrics
func checkQuantifiedImpact(text string) bool {
	return digitPattern.MatchString(text) || strings.Contains(text, "%")
}
