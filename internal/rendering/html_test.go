package rendering

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/types"
)

func sampleResume() types.ResumeData {
	return types.ResumeData{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Location: "Berlin",
		Summary:  "Data scientist with 6 years of experience.",
		Skills:   []string{"Python", "SQL", "Tableau"},
		Experience: []types.ExperienceEntry{{
			Title:   "Data Scientist",
			Company: "Acme & Co",
			Period:  "2019 - present",
			Bullets: []string{"Built churn models in Python", "Cut reporting time by 40%"},
		}},
		Education: []types.EducationEntry{{Degree: "MSc Statistics", School: "TU Berlin", Year: "2018"}},
	}
}

func TestTemplates(t *testing.T) {
	assert.Equal(t, []string{"ats", "modern"}, Templates())
}

func TestRenderHTML(t *testing.T) {
	for _, choice := range Templates() {
		t.Run(choice, func(t *testing.T) {
			html, err := RenderHTML(sampleResume(), choice)
			require.NoError(t, err)

			assert.Contains(t, html, "Jane Doe")
			assert.Contains(t, html, "jane@example.com")
			assert.Contains(t, html, "Built churn models in Python")
			assert.Contains(t, html, "MSc Statistics")
			assert.Contains(t, html, "Acme &amp; Co")
			assert.Contains(t, html, "Tableau")
		})
	}
}

func TestRenderHTML_DefaultAndCaseInsensitive(t *testing.T) {
	byDefault, err := RenderHTML(sampleResume(), "")
	require.NoError(t, err)
	explicit, err := RenderHTML(sampleResume(), "ATS")
	require.NoError(t, err)
	assert.Equal(t, explicit, byDefault)
}

func TestRenderHTML_ContactSkipsEmptyFields(t *testing.T) {
	html, err := RenderHTML(types.ResumeData{Name: "Jane", Location: "Berlin"}, "ats")
	require.NoError(t, err)
	assert.Contains(t, html, `<div class="contact">Berlin</div>`)
	assert.NotContains(t, html, "<h2>Experience</h2>")
}

func TestRenderHTML_EscapesMarkup(t *testing.T) {
	data := sampleResume()
	data.Summary = `<script>alert("x")</script>`

	html, err := RenderHTML(data, "modern")
	require.NoError(t, err)
	assert.NotContains(t, html, `<script>alert`)
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderHTML_UnknownTemplate(t *testing.T) {
	_, err := RenderHTML(sampleResume(), "fancy")
	require.Error(t, err)

	var templateErr *TemplateError
	require.ErrorAs(t, err, &templateErr)
	assert.Contains(t, err.Error(), "ats, modern")
}

func TestRenderPDF_Integration(t *testing.T) {
	if os.Getenv("CHROME_AVAILABLE") == "" {
		t.Skip("Skipping browser test: CHROME_AVAILABLE not set")
	}

	html, err := RenderHTML(sampleResume(), "ats")
	require.NoError(t, err)

	pdf, err := NewPDFRenderer(30*time.Second, os.Getenv("CHROME_PATH")).RenderPDF(context.Background(), html)
	require.NoError(t, err)
	assert.True(t, len(pdf) > 4 && string(pdf[:4]) == "%PDF")
}

func TestNewPDFRenderer_DefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultPDFTimeout, NewPDFRenderer(0, "").timeout)
}
