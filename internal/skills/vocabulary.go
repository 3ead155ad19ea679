// Package skills matches resume text against weighted domain skill vocabularies
// and turns the matches into an ATS score.
package skills

import (
	"fmt"
	"strings"

	"github.com/hbollon/go-edlib"
)

// suggestThreshold is the minimum Levenshtein similarity for a domain name suggestion.
const suggestThreshold = 0.6

// Skill is a single weighted skill within a domain.
type Skill struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
}

// Domain is a named job-role category with its skills in declared order.
type Domain struct {
	Name   string  `json:"name"`
	Skills []Skill `json:"skills"`
}

// Vocabulary is an immutable, ordered mapping of domain name to weighted skills.
type Vocabulary struct {
	domains []Domain
	index   map[string]int
}

// VocabularyError describes an invalid vocabulary document or construction.
type VocabularyError struct {
	Source  string
	Message string
	Cause   error
}

func (e *VocabularyError) Error() string {
	msg := e.Message
	if e.Source != "" {
		msg = fmt.Sprintf("%s: %s", e.Source, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("invalid vocabulary: %s: %v", msg, e.Cause)
	}
	return "invalid vocabulary: " + msg
}

func (e *VocabularyError) Unwrap() error {
	return e.Cause
}

// NewVocabulary validates domains and builds an immutable vocabulary.
// Every domain needs a name and at least one skill, weights must be non-negative,
// and names must be unique (domains globally, skills within their domain).
func NewVocabulary(domains []Domain) (*Vocabulary, error) {
	if len(domains) == 0 {
		return nil, &VocabularyError{Message: "at least one domain is required"}
	}

	v := &Vocabulary{
		domains: make([]Domain, 0, len(domains)),
		index:   make(map[string]int, len(domains)),
	}
	for _, d := range domains {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			return nil, &VocabularyError{Message: "domain name is empty"}
		}
		if _, dup := v.index[name]; dup {
			return nil, &VocabularyError{Message: fmt.Sprintf("duplicate domain %q", name)}
		}
		if len(d.Skills) == 0 {
			return nil, &VocabularyError{Message: fmt.Sprintf("domain %q has no skills", name)}
		}

		seen := make(map[string]bool, len(d.Skills))
		skills := make([]Skill, 0, len(d.Skills))
		for _, s := range d.Skills {
			skillName := strings.TrimSpace(s.Name)
			switch {
			case skillName == "":
				return nil, &VocabularyError{Message: fmt.Sprintf("domain %q has a skill with an empty name", name)}
			case s.Weight < 0:
				return nil, &VocabularyError{Message: fmt.Sprintf("skill %q in domain %q has negative weight %d", skillName, name, s.Weight)}
			case seen[skillName]:
				return nil, &VocabularyError{Message: fmt.Sprintf("duplicate skill %q in domain %q", skillName, name)}
			}
			seen[skillName] = true
			skills = append(skills, Skill{Name: skillName, Weight: s.Weight})
		}

		v.index[name] = len(v.domains)
		v.domains = append(v.domains, Domain{Name: name, Skills: skills})
	}
	return v, nil
}

// Domains returns the domain names in declared order.
func (v *Vocabulary) Domains() []string {
	names := make([]string, len(v.domains))
	for i, d := range v.domains {
		names[i] = d.Name
	}
	return names
}

// Has reports whether the domain exists.
func (v *Vocabulary) Has(domain string) bool {
	_, ok := v.index[domain]
	return ok
}

// Skills returns a copy of the domain's skills in declared order, or nil for an unknown domain.
func (v *Vocabulary) Skills(domain string) []Skill {
	i, ok := v.index[domain]
	if !ok {
		return nil
	}
	out := make([]Skill, len(v.domains[i].Skills))
	copy(out, v.domains[i].Skills)
	return out
}

// SkillNames returns the domain's skill names in declared order.
func (v *Vocabulary) SkillNames(domain string) []string {
	i, ok := v.index[domain]
	if !ok {
		return nil
	}
	names := make([]string, len(v.domains[i].Skills))
	for j, s := range v.domains[i].Skills {
		names[j] = s.Name
	}
	return names
}

// TotalWeight returns the sum of all skill weights in the domain (0 if unknown).
func (v *Vocabulary) TotalWeight(domain string) int {
	total := 0
	for _, s := range v.skillsRef(domain) {
		total += s.Weight
	}
	return total
}

// All returns a deep copy of every domain in declared order.
func (v *Vocabulary) All() []Domain {
	out := make([]Domain, len(v.domains))
	for i, d := range v.domains {
		out[i] = Domain{Name: d.Name, Skills: v.Skills(d.Name)}
	}
	return out
}

// Suggest returns the known domain name closest to name, or "" if nothing is close.
// A case-insensitive exact match always wins.
func (v *Vocabulary) Suggest(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	for _, d := range v.domains {
		if strings.EqualFold(d.Name, name) {
			return d.Name
		}
	}

	best, bestScore := "", float32(0)
	for _, d := range v.domains {
		score, err := edlib.StringsSimilarity(strings.ToLower(name), strings.ToLower(d.Name), edlib.Levenshtein)
		if err != nil {
			continue
		}
		if score > bestScore {
			best, bestScore = d.Name, score
		}
	}
	if bestScore < suggestThreshold {
		return ""
	}
	return best
}

// skillsRef returns the internal slice without copying; callers must not mutate it.
func (v *Vocabulary) skillsRef(domain string) []Skill {
	i, ok := v.index[domain]
	if !ok {
		return nil
	}
	return v.domains[i].Skills
}

// SynonymTable maps a canonical skill name to the surface forms accepted as evidence of it.
type SynonymTable map[string][]string

// Forms returns the accepted surface forms for skill, defaulting to the skill name itself.
func (t SynonymTable) Forms(skill string) []string {
	if forms, ok := t[skill]; ok && len(forms) > 0 {
		return forms
	}
	return []string{skill}
}

// Merge returns a new table with other's entries layered over t.
// Forms for the same skill are unioned, keeping first-seen order.
func (t SynonymTable) Merge(other SynonymTable) SynonymTable {
	out := make(SynonymTable, len(t)+len(other))
	for skill, forms := range t {
		out.add(skill, forms...)
	}
	for skill, forms := range other {
		out.add(skill, forms...)
	}
	return out
}

// add appends forms to skill's entry, keeping the canonical name first and skipping duplicates.
func (t SynonymTable) add(skill string, forms ...string) {
	existing := t[skill]
	if len(existing) == 0 {
		existing = []string{skill}
	}
	for _, f := range forms {
		f = strings.TrimSpace(f)
		if f == "" || containsFold(existing, f) {
			continue
		}
		existing = append(existing, f)
	}
	t[skill] = existing
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
