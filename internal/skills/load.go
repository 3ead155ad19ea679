package skills

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-screener/internal/schemas"
)

// maxVocabularyBytes caps remote vocabulary documents.
const maxVocabularyBytes = 1 << 20

//go:embed default_vocabulary.yaml
var defaultVocabularyYAML []byte

// Format identifies a vocabulary document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the document format from a file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// skillEntry is the long form of a skill: {weight: N, synonyms: [...]}.
type skillEntry struct {
	Weight   int      `mapstructure:"weight"`
	Synonyms []string `mapstructure:"synonyms"`
}

var loadDefault = sync.OnceValues(func() (*Vocabulary, SynonymTable) {
	vocab, synonyms, err := parseVocabulary("default vocabulary", defaultVocabularyYAML, FormatYAML)
	if err != nil {
		panic(err)
	}
	return vocab, synonyms
})

// DefaultVocabulary returns the built-in vocabulary and its synonym table.
func DefaultVocabulary() (*Vocabulary, SynonymTable) {
	vocab, synonyms := loadDefault()
	return vocab, synonyms.Merge(nil)
}

// DefaultSynonyms returns the built-in synonym table (golang for Go, k8s for Kubernetes, ...).
func DefaultSynonyms() SynonymTable {
	_, synonyms := loadDefault()
	return synonyms.Merge(nil)
}

// LoadVocabulary reads, validates and builds a vocabulary document.
// Domain and skill order follow the document.
func LoadVocabulary(r io.Reader, format Format) (*Vocabulary, SynonymTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read vocabulary: %w", err)
	}
	return parseVocabulary("", data, format)
}

// LoadVocabularyFile loads a YAML or JSON vocabulary from disk.
func LoadVocabularyFile(path string) (*Vocabulary, SynonymTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	return parseVocabulary(path, data, FormatFromPath(path))
}

func parseVocabulary(source string, data []byte, format Format) (*Vocabulary, SynonymTable, error) {
	if format == FormatJSON {
		// JSON only allows tabs as insignificant whitespace, which YAML rejects for indentation.
		data = bytes.ReplaceAll(data, []byte("\t"), []byte(" "))
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, nil, &VocabularyError{Source: source, Message: "failed to parse document", Cause: err}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, nil, &VocabularyError{Source: source, Message: "document is empty"}
	}

	var doc any
	if err := root.Decode(&doc); err != nil {
		return nil, nil, &VocabularyError{Source: source, Message: "failed to decode document", Cause: err}
	}
	if err := schemas.ValidateVocabulary(doc); err != nil {
		return nil, nil, &VocabularyError{Source: source, Message: "schema validation failed", Cause: err}
	}

	top := root.Content[0]
	synonyms := SynonymTable{}
	var domains []Domain
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i].Value, top.Content[i+1]
		var err error
		switch key {
		case "domains":
			domains, err = decodeDomains(value, synonyms)
		case "synonyms":
			err = decodeSynonyms(value, synonyms)
		}
		if err != nil {
			return nil, nil, &VocabularyError{Source: source, Message: fmt.Sprintf("invalid %s section", key), Cause: err}
		}
	}

	vocab, err := NewVocabulary(domains)
	if err != nil {
		if ve, ok := err.(*VocabularyError); ok {
			ve.Source = source
		}
		return nil, nil, err
	}
	return vocab, synonyms, nil
}

// decodeDomains walks the mapping node directly so declared order survives.
func decodeDomains(node *yaml.Node, synonyms SynonymTable) ([]Domain, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of domains")
	}
	domains := make([]Domain, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, skillsNode := node.Content[i].Value, node.Content[i+1]
		if skillsNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("domain %q: expected a mapping of skills", name)
		}

		domain := Domain{Name: name}
		for j := 0; j+1 < len(skillsNode.Content); j += 2 {
			skillName, valueNode := strings.TrimSpace(skillsNode.Content[j].Value), skillsNode.Content[j+1]
			entry, err := decodeSkillEntry(valueNode)
			if err != nil {
				return nil, fmt.Errorf("domain %q, skill %q: %w", name, skillName, err)
			}
			domain.Skills = append(domain.Skills, Skill{Name: skillName, Weight: entry.Weight})
			if len(entry.Synonyms) > 0 {
				synonyms.add(skillName, entry.Synonyms...)
			}
		}
		domains = append(domains, domain)
	}
	return domains, nil
}

func decodeSkillEntry(node *yaml.Node) (skillEntry, error) {
	var entry skillEntry
	if node.Kind == yaml.ScalarNode {
		if err := node.Decode(&entry.Weight); err != nil {
			return entry, fmt.Errorf("weight must be an integer: %w", err)
		}
		return entry, nil
	}

	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return entry, err
	}
	if err := decodeStrict(raw, &entry); err != nil {
		return entry, err
	}
	return entry, nil
}

func decodeSynonyms(node *yaml.Node, synonyms SynonymTable) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	var table map[string][]string
	if err := decodeStrict(raw, &table); err != nil {
		return err
	}
	for skill, forms := range table {
		synonyms.add(strings.TrimSpace(skill), forms...)
	}
	return nil
}

func decodeStrict(input, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      result,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// Provider supplies the vocabulary and synonym table a Matcher is built from.
type Provider interface {
	Load(ctx context.Context) (*Vocabulary, SynonymTable, error)
}

// StaticProvider serves a fixed vocabulary; a nil Vocabulary means the built-in default.
type StaticProvider struct {
	Vocabulary *Vocabulary
	Synonyms   SynonymTable
}

// Load implements Provider.
func (p StaticProvider) Load(context.Context) (*Vocabulary, SynonymTable, error) {
	if p.Vocabulary == nil {
		vocab, synonyms := DefaultVocabulary()
		return vocab, synonyms, nil
	}
	return p.Vocabulary, p.Synonyms, nil
}

// FileProvider loads a vocabulary document from disk.
type FileProvider struct {
	Path string
	// InheritSynonyms layers the document's synonyms over DefaultSynonyms.
	InheritSynonyms bool
}

// Load implements Provider.
func (p FileProvider) Load(context.Context) (*Vocabulary, SynonymTable, error) {
	vocab, synonyms, err := LoadVocabularyFile(p.Path)
	if err != nil {
		return nil, nil, err
	}
	if p.InheritSynonyms {
		synonyms = DefaultSynonyms().Merge(synonyms)
	}
	return vocab, synonyms, nil
}

// HTTPProvider fetches a vocabulary document from a URL with FetchVocabulary.
type HTTPProvider struct {
	URL             string
	Client          *http.Client
	InheritSynonyms bool
}

// Load implements Provider.
func (p HTTPProvider) Load(ctx context.Context) (*Vocabulary, SynonymTable, error) {
	vocab, synonyms, err := FetchVocabulary(ctx, p.Client, p.URL)
	if err != nil {
		return nil, nil, err
	}
	if p.InheritSynonyms {
		synonyms = DefaultSynonyms().Merge(synonyms)
	}
	return vocab, synonyms, nil
}

// FetchVocabulary downloads and validates a vocabulary document.
// JSON is expected unless the response declares a YAML content type.
func FetchVocabulary(ctx context.Context, client *http.Client, url string) (*Vocabulary, SynonymTable, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create vocabulary request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch vocabulary: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("failed to fetch vocabulary: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxVocabularyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read vocabulary response: %w", err)
	}

	format := FormatJSON
	if strings.Contains(resp.Header.Get("Content-Type"), "yaml") {
		format = FormatYAML
	}
	return parseVocabulary(url, data, format)
}

// NewProvider picks a provider: a URL wins over a path, and neither means the built-in default.
func NewProvider(path, url string, inheritSynonyms bool) Provider {
	switch {
	case url != "":
		return HTTPProvider{URL: url, InheritSynonyms: inheritSynonyms}
	case path != "":
		return FileProvider{Path: path, InheritSynonyms: inheritSynonyms}
	default:
		return StaticProvider{}
	}
}
