package skills

import (
	"fmt"
	"strings"
)

// Options configures a Matcher.
type Options struct {
	// Threshold is the minimum partial-ratio score (0-100) for a skill to count as present.
	Threshold float64 `json:"threshold"`
	// Mode selects weighted or unweighted scoring.
	Mode Mode `json:"mode"`
	// DetectDomain makes Analyze pick the best domain when none is given.
	DetectDomain bool `json:"detect_domain"`
}

// DefaultOptions returns threshold 80, weighted scoring, no domain detection.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, Mode: ModeWeighted}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.Threshold < 0 || o.Threshold > 100 {
		return fmt.Errorf("threshold must be between 0 and 100, got %v", o.Threshold)
	}
	if _, err := ParseMode(string(o.Mode)); err != nil {
		return err
	}
	return nil
}

// Result is the outcome of matching one text against one domain.
type Result struct {
	Domain        string   `json:"domain"`
	Matched       []string `json:"matched"`
	Missing       []string `json:"missing"`
	Score         float64  `json:"score"`
	MatchedWeight int      `json:"matched_weight"`
	TotalWeight   int      `json:"total_weight"`
	Mode          Mode     `json:"mode"`
}

// Matcher detects domains, partitions skills and scores resume text.
// It holds only read-only state and is safe for concurrent use.
type Matcher struct {
	vocab    *Vocabulary
	synonyms SynonymTable
	opts     Options
}

// NewMatcher builds a Matcher. A nil synonyms table means every skill matches only its own name.
func NewMatcher(vocab *Vocabulary, synonyms SynonymTable, opts Options) (*Matcher, error) {
	if vocab == nil {
		return nil, fmt.Errorf("vocabulary is required")
	}
	if opts.Mode == "" {
		opts.Mode = ModeWeighted
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matcher options: %w", err)
	}
	table := make(SynonymTable, len(synonyms))
	for skill, forms := range synonyms {
		table[skill] = append([]string(nil), forms...)
	}
	return &Matcher{vocab: vocab, synonyms: table, opts: opts}, nil
}

// Vocabulary returns the matcher's vocabulary.
func (m *Matcher) Vocabulary() *Vocabulary {
	return m.vocab
}

// Options returns the matcher's options.
func (m *Matcher) Options() Options {
	return m.opts
}

// Forms returns the accepted surface forms of skill, canonical name first.
func (m *Matcher) Forms(skill string) []string {
	return append([]string(nil), m.synonyms.Forms(skill)...)
}

// WithOptions returns a Matcher sharing this one's vocabulary and synonyms with different options.
func (m *Matcher) WithOptions(opts Options) (*Matcher, error) {
	if opts.Mode == "" {
		opts.Mode = ModeWeighted
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matcher options: %w", err)
	}
	return &Matcher{vocab: m.vocab, synonyms: m.synonyms, opts: opts}, nil
}

// IsPresent reports whether skill, or any of its synonyms, reaches threshold against text.
func (m *Matcher) IsPresent(skill, text string, threshold float64) bool {
	return m.present(skill, strings.ToLower(text), threshold)
}

// DetectDomain returns the domain whose present skills carry the largest total weight.
// Ties go to the domain declared first. Returns ("", 0) only for a vocabulary with no domains.
func (m *Matcher) DetectDomain(text string) (string, int) {
	return m.detect(strings.ToLower(text))
}

func (m *Matcher) detect(lower string) (string, int) {
	bestDomain, bestWeight := "", -1
	for _, d := range m.vocab.domains {
		weight := 0
		for _, s := range d.Skills {
			if m.present(s.Name, lower, m.opts.Threshold) {
				weight += s.Weight
			}
		}
		if weight > bestWeight {
			bestDomain, bestWeight = d.Name, weight
		}
	}
	if bestWeight < 0 {
		return "", 0
	}
	return bestDomain, bestWeight
}

// Partition splits the domain's skills into matched and missing, both in declared order.
// An unknown domain yields two empty lists.
func (m *Matcher) Partition(text, domain string, threshold float64) (matched, missing []string) {
	return m.partition(strings.ToLower(text), domain, threshold)
}

// Score applies the configured scoring mode to matched skills of domain.
func (m *Matcher) Score(matched []string, domain string) float64 {
	if m.opts.Mode == ModeUnweighted {
		return UnweightedScore(matched, m.vocab.SkillNames(domain))
	}
	return WeightedScore(matched, m.vocab.skillsRef(domain))
}

// Analyze matches text against domain and scores it. With DetectDomain enabled
// and an empty domain, the domain is detected from the text first.
func (m *Matcher) Analyze(text, domain string) Result {
	lower := strings.ToLower(text)
	if domain == "" && m.opts.DetectDomain {
		domain, _ = m.detect(lower)
	}

	matched, missing := m.partition(lower, domain, m.opts.Threshold)
	matchedWeight, totalWeight := weights(matched, m.vocab.skillsRef(domain))
	return Result{
		Domain:        domain,
		Matched:       matched,
		Missing:       missing,
		Score:         m.Score(matched, domain),
		MatchedWeight: matchedWeight,
		TotalWeight:   totalWeight,
		Mode:          m.opts.Mode,
	}
}

// partition evaluates the presence predicate exactly once per skill.
func (m *Matcher) partition(lower, domain string, threshold float64) (matched, missing []string) {
	matched, missing = []string{}, []string{}
	for _, s := range m.vocab.skillsRef(domain) {
		if m.present(s.Name, lower, threshold) {
			matched = append(matched, s.Name)
		} else {
			missing = append(missing, s.Name)
		}
	}
	return matched, missing
}

// present expects lowerText already lowercased.
func (m *Matcher) present(skill, lowerText string, threshold float64) bool {
	return formsPresent(m.synonyms.Forms(skill), lowerText, threshold)
}
