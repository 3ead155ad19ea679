package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedScore(t *testing.T) {
	skills := []Skill{{Name: "SQL", Weight: 2}, {Name: "Python", Weight: 3}}

	tests := []struct {
		name    string
		matched []string
		skills  []Skill
		want    float64
	}{
		{name: "partial", matched: []string{"Python"}, skills: skills, want: 60},
		{name: "all", matched: []string{"SQL", "Python"}, skills: skills, want: 100},
		{name: "none", matched: nil, skills: skills, want: 0},
		{name: "empty vocabulary", matched: []string{"Python"}, skills: nil, want: 0},
		{name: "zero total weight", matched: []string{"A"}, skills: []Skill{{Name: "A"}, {Name: "B"}}, want: 0},
		{name: "unknown names ignored", matched: []string{"Python", "Rust"}, skills: skills, want: 60},
		{name: "duplicates counted once", matched: []string{"Python", "Python"}, skills: skills, want: 60},
		{name: "rounded to two decimals", matched: []string{"A"}, skills: []Skill{{Name: "A", Weight: 1}, {Name: "B", Weight: 2}}, want: 33.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeightedScore(tt.matched, tt.skills))
		})
	}
}

func TestUnweightedScore(t *testing.T) {
	total := []string{"SQL", "Python"}

	tests := []struct {
		name    string
		matched []string
		total   []string
		want    float64
	}{
		{name: "half", matched: []string{"Python"}, total: total, want: 50},
		{name: "all", matched: total, total: total, want: 100},
		{name: "none", matched: []string{}, total: total, want: 0},
		{name: "empty total", matched: []string{"Python"}, total: nil, want: 0},
		{name: "duplicates counted once", matched: []string{"SQL", "SQL"}, total: total, want: 50},
		{name: "unknown names ignored", matched: []string{"Go"}, total: total, want: 0},
		{name: "two thirds", matched: []string{"A", "B"}, total: []string{"A", "B", "C"}, want: 66.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnweightedScore(tt.matched, tt.total))
		})
	}
}

func TestScore_MonotonicInMatchedSet(t *testing.T) {
	skills := []Skill{{Name: "A", Weight: 5}, {Name: "B", Weight: 0}, {Name: "C", Weight: 2}, {Name: "D", Weight: 1}}
	names := []string{"A", "B", "C", "D"}

	var matched []string
	prevWeighted, prevUnweighted := WeightedScore(matched, skills), UnweightedScore(matched, names)
	assert.Equal(t, 0.0, prevWeighted)
	assert.Equal(t, 0.0, prevUnweighted)

	for _, name := range names {
		matched = append(matched, name)
		w, u := WeightedScore(matched, skills), UnweightedScore(matched, names)
		assert.GreaterOrEqual(t, w, prevWeighted)
		assert.GreaterOrEqual(t, u, prevUnweighted)
		assert.LessOrEqual(t, w, 100.0)
		assert.LessOrEqual(t, u, 100.0)
		prevWeighted, prevUnweighted = w, u
	}
	assert.Equal(t, 100.0, prevWeighted)
	assert.Equal(t, 100.0, prevUnweighted)
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeWeighted, mode)

	mode, err = ParseMode("unweighted")
	require.NoError(t, err)
	assert.Equal(t, ModeUnweighted, mode)

	_, err = ParseMode("bayesian")
	assert.Error(t, err)
}
