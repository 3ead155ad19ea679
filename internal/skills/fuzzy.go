package skills

import (
	"strings"
)

// DefaultThreshold is the similarity score (0-100) a surface form must reach to count as present.
const DefaultThreshold = 80.0

// PartialRatio scores how well the shorter of a and b aligns with any part of the longer one,
// on a 0-100 scale. Comparison is case-insensitive and rune based. Each candidate alignment
// is scored as the normalized indel similarity 100*2*LCS/(len1+len2); the candidates are every
// full-length window of the longer string plus the partial windows hanging off either edge.
// A substring match scores 100 and an empty input scores 0.
func PartialRatio(a, b string) float64 {
	return partialRatio(strings.ToLower(a), strings.ToLower(b))
}

// IsPresent reports whether any surface form of skill reaches threshold against text.
// Empty text never contains a skill, whatever the threshold.
func IsPresent(skill, text string, threshold float64, synonyms SynonymTable) bool {
	return formsPresent(synonyms.Forms(skill), strings.ToLower(text), threshold)
}

// formsPresent expects lowerText already lowercased.
func formsPresent(forms []string, lowerText string, threshold float64) bool {
	if strings.TrimSpace(lowerText) == "" {
		return false
	}
	for _, form := range forms {
		if form == "" {
			continue
		}
		if partialRatio(strings.ToLower(form), lowerText) >= threshold {
			return true
		}
	}
	return false
}

// partialRatio expects both arguments already lowercased.
func partialRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
		a, b = b, a
	}
	if strings.Contains(b, a) {
		return 100
	}

	m, n := len(short), len(long)
	inShort := make(map[rune]bool, m)
	for _, r := range short {
		inShort[r] = true
	}

	lcs := newLCSScratch(m)
	best := 0.0
	consider := func(window []rune) bool {
		if r := ratio(short, window, lcs); r > best {
			best = r
		}
		return best >= 100
	}

	// Windows that start (or, for left-edge windows, end) with a rune absent from the
	// shorter string are dominated by a neighbouring window and can be skipped.
	for i := 1; i < m && i <= n; i++ {
		if inShort[long[i-1]] && consider(long[:i]) {
			return 100
		}
	}
	for i := 0; i+m <= n; i++ {
		if inShort[long[i]] && consider(long[i:i+m]) {
			return 100
		}
	}
	for i := n - m + 1; i < n; i++ {
		if inShort[long[i]] && consider(long[i:]) {
			return 100
		}
	}
	return best
}

// ratio is the normalized indel similarity of two rune slices, 0-100.
func ratio(a, b []rune, scratch *lcsScratch) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 100
	}
	return 100 * float64(2*scratch.length(a, b)) / float64(total)
}

// lcsScratch holds reusable rows for longest-common-subsequence lengths.
type lcsScratch struct {
	prev, cur []int
}

func newLCSScratch(size int) *lcsScratch {
	return &lcsScratch{prev: make([]int, size+1), cur: make([]int, size+1)}
}

// length returns the LCS length of a and b; len(a) must not exceed the scratch size.
func (s *lcsScratch) length(a, b []rune) int {
	prev, cur := s.prev[:len(a)+1], s.cur[:len(a)+1]
	for i := range prev {
		prev[i] = 0
	}
	for _, rb := range b {
		cur[0] = 0
		for i, ra := range a {
			switch {
			case ra == rb:
				cur[i+1] = prev[i] + 1
			case prev[i+1] >= cur[i]:
				cur[i+1] = prev[i+1]
			default:
				cur[i+1] = cur[i]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(a)]
}
