package skills

import (
	"fmt"
	"math"
)

// Mode selects how matched skills turn into a score.
type Mode string

const (
	// ModeWeighted scores by the share of the domain's total weight that was matched.
	ModeWeighted Mode = "weighted"
	// ModeUnweighted scores by the share of skills matched, ignoring weights.
	ModeUnweighted Mode = "unweighted"
)

// ParseMode converts a configuration string into a Mode. An empty string means weighted.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeWeighted:
		return ModeWeighted, nil
	case ModeUnweighted:
		return ModeUnweighted, nil
	default:
		return "", fmt.Errorf("unknown scoring mode %q (want %q or %q)", s, ModeWeighted, ModeUnweighted)
	}
}

// WeightedScore returns 100 * matched weight / total weight, rounded to 2 decimals.
// Names not in skills and repeated names are ignored; a zero total scores 0.
func WeightedScore(matched []string, skills []Skill) float64 {
	matchedWeight, totalWeight := weights(matched, skills)
	if totalWeight == 0 {
		return 0
	}
	return round2(100 * float64(matchedWeight) / float64(totalWeight))
}

// UnweightedScore returns 100 * |matched| / |total|, rounded to 2 decimals.
// Only names present in total count, each once; an empty total scores 0.
func UnweightedScore(matched []string, total []string) float64 {
	if len(total) == 0 {
		return 0
	}
	known := make(map[string]bool, len(total))
	for _, name := range total {
		known[name] = true
	}
	hits := 0
	for _, name := range matched {
		if known[name] {
			hits++
			known[name] = false
		}
	}
	return round2(100 * float64(hits) / float64(len(known)))
}

// weights sums the weight of each distinct known matched skill and of all skills.
func weights(matched []string, skills []Skill) (matchedWeight, totalWeight int) {
	byName := make(map[string]int, len(skills))
	for _, s := range skills {
		byName[s.Name] = s.Weight
		totalWeight += s.Weight
	}
	counted := make(map[string]bool, len(matched))
	for _, name := range matched {
		w, ok := byName[name]
		if !ok || counted[name] {
			continue
		}
		counted[name] = true
		matchedWeight += w
	}
	return matchedWeight, totalWeight
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
