package skills

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/schemas"
)

const sampleYAML = `
domains:
  Zeta Ops:
    Terraform: 2
    Ansible: 1
  Alpha Data:
    SQL: 2
    Python: 3
    Machine Learning:
      weight: 3
      synonyms: [ML models, machine-learning]
synonyms:
  Python: [py3]
`

func TestLoadVocabulary_YAMLKeepsDocumentOrder(t *testing.T) {
	vocab, synonyms, err := LoadVocabulary(strings.NewReader(sampleYAML), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, []string{"Zeta Ops", "Alpha Data"}, vocab.Domains())
	assert.Equal(t, []string{"SQL", "Python", "Machine Learning"}, vocab.SkillNames("Alpha Data"))
	assert.Equal(t, 8, vocab.TotalWeight("Alpha Data"))

	assert.Equal(t, []string{"Machine Learning", "ML models", "machine-learning"}, synonyms.Forms("Machine Learning"))
	assert.Equal(t, []string{"Python", "py3"}, synonyms.Forms("Python"))
	assert.Equal(t, []string{"SQL"}, synonyms.Forms("SQL"))
}

func TestLoadVocabulary_JSON(t *testing.T) {
	doc := "{\n\t\"domains\": {\n\t\t\"Web\": {\"HTML\": 2, \"CSS\": {\"weight\": 1, \"synonyms\": [\"stylesheets\"]}},\n\t\t\"Data\": {\"SQL\": 1}\n\t}\n}"

	vocab, synonyms, err := LoadVocabulary(strings.NewReader(doc), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, []string{"Web", "Data"}, vocab.Domains())
	assert.Equal(t, []Skill{{Name: "HTML", Weight: 2}, {Name: "CSS", Weight: 1}}, vocab.Skills("Web"))
	assert.Equal(t, []string{"CSS", "stylesheets"}, synonyms.Forms("CSS"))
}

func TestLoadVocabulary_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		wantSchema bool
	}{
		{name: "empty document", doc: ""},
		{name: "not yaml", doc: "domains: [unclosed"},
		{name: "negative weight", doc: "domains:\n  Web:\n    HTML: -2\n", wantSchema: true},
		{name: "domain without skills", doc: "domains:\n  Web: {}\n", wantSchema: true},
		{name: "unknown skill field", doc: "domains:\n  Web:\n    HTML: {weight: 1, level: senior}\n", wantSchema: true},
		{name: "missing domains", doc: "synonyms:\n  Go: [golang]\n", wantSchema: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadVocabulary(strings.NewReader(tt.doc), FormatYAML)
			require.Error(t, err)

			var vocabErr *VocabularyError
			require.ErrorAs(t, err, &vocabErr)
			if tt.wantSchema {
				var validationErr *schemas.ValidationError
				assert.ErrorAs(t, err, &validationErr)
			}
		})
	}
}

func TestLoadVocabularyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	vocab, _, err := LoadVocabularyFile(path)
	require.NoError(t, err)
	assert.True(t, vocab.Has("Alpha Data"))

	_, _, err = LoadVocabularyFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("vocab.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("vocab.yml"))
	assert.Equal(t, FormatYAML, FormatFromPath("vocab"))
}

func TestDefaultVocabulary(t *testing.T) {
	vocab, synonyms := DefaultVocabulary()

	assert.Equal(t, []string{
		"Data Science",
		"Machine Learning",
		"Web Development",
		"Backend Engineering",
		"DevOps",
		"Mobile Development",
	}, vocab.Domains())
	assert.Contains(t, synonyms.Forms("Go"), "golang")
	assert.Contains(t, synonyms.Forms("Kubernetes"), "k8s")
	assert.Contains(t, synonyms.Forms("Data Visualization"), "Tableau")

	// Callers get their own copy of the synonym table.
	synonyms["Go"] = nil
	assert.Contains(t, DefaultSynonyms().Forms("Go"), "golang")
}

func TestProviders(t *testing.T) {
	ctx := context.Background()

	t.Run("static default", func(t *testing.T) {
		vocab, _, err := StaticProvider{}.Load(ctx)
		require.NoError(t, err)
		assert.True(t, vocab.Has("DevOps"))
	})

	t.Run("file inherits default synonyms", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vocab.yaml")
		require.NoError(t, os.WriteFile(path, []byte("domains:\n  Backend:\n    Go: 3\n"), 0o600))

		_, synonyms, err := FileProvider{Path: path, InheritSynonyms: true}.Load(ctx)
		require.NoError(t, err)
		assert.Contains(t, synonyms.Forms("Go"), "golang")

		_, synonyms, err = FileProvider{Path: path}.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Go"}, synonyms.Forms("Go"))
	})

	t.Run("http json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"domains": {"Remote": {"Go": 2, "SQL": 1}}}`))
		}))
		defer srv.Close()

		vocab, _, err := HTTPProvider{URL: srv.URL, Client: srv.Client()}.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Go", "SQL"}, vocab.SkillNames("Remote"))
	})

	t.Run("http yaml", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write([]byte(sampleYAML))
		}))
		defer srv.Close()

		vocab, _, err := HTTPProvider{URL: srv.URL}.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Zeta Ops", "Alpha Data"}, vocab.Domains())
	})

	t.Run("http error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, _, err := HTTPProvider{URL: srv.URL}.Load(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("selection", func(t *testing.T) {
		assert.IsType(t, HTTPProvider{}, NewProvider("vocab.yaml", "http://example.com/v.json", false))
		assert.IsType(t, FileProvider{}, NewProvider("vocab.yaml", "", false))
		assert.IsType(t, StaticProvider{}, NewProvider("", "", false))
	})
}
