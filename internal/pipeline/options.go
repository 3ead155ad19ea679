package pipeline

import (
	"strings"

	"github.com/jonathan/resume-screener/internal/skills"
	"github.com/jonathan/resume-screener/internal/types"
)

// Overrides carries per-request changes to the configured matcher options.
// Nil or empty fields keep the configured value.
type Overrides struct {
	Threshold    *float64
	Mode         string
	DetectDomain *bool
}

// Apply layers the overrides onto base and validates the result.
func (o Overrides) Apply(base skills.Options) (skills.Options, error) {
	opts := base
	if o.Threshold != nil {
		opts.Threshold = *o.Threshold
	}
	if o.Mode != "" {
		mode, err := skills.ParseMode(o.Mode)
		if err != nil {
			return skills.Options{}, err
		}
		opts.Mode = mode
	}
	if o.DetectDomain != nil {
		opts.DetectDomain = *o.DetectDomain
	}
	if err := opts.Validate(); err != nil {
		return skills.Options{}, err
	}
	return opts, nil
}

// WithOverrides returns a Screener sharing this one's vocabulary, logger and
// concurrency but matching with the overridden options.
func (s *Screener) WithOverrides(o Overrides) (*Screener, error) {
	opts, err := o.Apply(s.matcher.Options())
	if err != nil {
		return nil, err
	}
	if opts == s.matcher.Options() {
		return s, nil
	}
	matcher, err := s.matcher.WithOptions(opts)
	if err != nil {
		return nil, err
	}
	clone := *s
	clone.matcher = matcher
	return &clone, nil
}

// DomainSummaries describes every domain of the matcher's vocabulary in declared order.
func DomainSummaries(m *skills.Matcher) []types.DomainSummary {
	vocab := m.Vocabulary()
	summaries := make([]types.DomainSummary, 0, len(vocab.Domains()))
	for _, domain := range vocab.All() {
		entries := make([]types.SkillEntry, 0, len(domain.Skills))
		for _, skill := range domain.Skills {
			var aliases []string
			for _, form := range m.Forms(skill.Name) {
				if !strings.EqualFold(form, skill.Name) {
					aliases = append(aliases, form)
				}
			}
			entries = append(entries, types.SkillEntry{Name: skill.Name, Weight: skill.Weight, Synonyms: aliases})
		}
		summaries = append(summaries, types.DomainSummary{
			Name:        domain.Name,
			TotalWeight: vocab.TotalWeight(domain.Name),
			Skills:      entries,
		})
	}
	return summaries
}
