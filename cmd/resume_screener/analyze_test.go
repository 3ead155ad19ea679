package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/types"
)

const dataScienceResume = `Jane Doe
Data Scientist
Python, SQL, Statistics, Machine Learning, Pandas, NumPy, Data Visualization, Excel`

const webResume = `John Roe
Frontend Engineer
HTML, CSS, JavaScript, TypeScript, React, Node.js, REST, Git`

func decodeReports(t *testing.T, out string) []types.AnalysisReport {
	t.Helper()
	var reports []types.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	return reports
}

func TestAnalyzeCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "jane.txt", dataScienceResume)

	out, _, err := execute(t, "", "analyze", "--domain", "Data Science", "--json", path)
	require.NoError(t, err)

	reports := decodeReports(t, out)
	require.Len(t, reports, 1)
	assert.Equal(t, "jane.txt", reports[0].Filename)
	assert.Equal(t, "Data Science", reports[0].Domain)
	assert.Equal(t, 100.0, reports[0].Score)
	assert.Empty(t, reports[0].Missing)
}

func TestAnalyzeCommand_VerboseProgress(t *testing.T) {
	path := writeFile(t, t.TempDir(), "jane.txt", dataScienceResume)

	_, stderr, err := execute(t, "", "analyze", "-d", "Data Science", "-v", "--json", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "[1/1] jane.txt 100.00%")
}

func TestAnalyzeCommand_DetectDomain(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "john.txt", webResume)

	out, _, err := execute(t, "", "analyze", "--detect", "--json", path)
	require.NoError(t, err)

	reports := decodeReports(t, out)
	require.Len(t, reports, 1)
	assert.Equal(t, "Web Development", reports[0].Domain)
	assert.Equal(t, 100.0, reports[0].Score)
}

func TestAnalyzeCommand_BatchKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.txt", webResume)
	second := writeFile(t, dir, "b.txt", dataScienceResume)

	out, _, err := execute(t, "", "analyze", "-d", "Data Science", "--json", first, second)
	require.NoError(t, err)

	reports := decodeReports(t, out)
	require.Len(t, reports, 2)
	assert.Equal(t, "a.txt", reports[0].Filename)
	assert.Equal(t, "b.txt", reports[1].Filename)
	assert.Less(t, reports[0].Score, reports[1].Score)
}

func TestAnalyzeCommand_WritesCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "jane.txt", dataScienceResume)
	csvPath := filepath.Join(dir, "reports.csv")

	out, stderr, err := execute(t, "", "analyze", "-d", "Data Science", "--csv", csvPath, path)
	require.NoError(t, err)
	assert.Contains(t, out, "jane.txt")
	assert.Contains(t, stderr, "Wrote 1 reports")

	content, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Filename,Domain,Score,Matched Skills,Missing Skills", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "jane.txt,Data Science,100.00,"), lines[1])
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "jane.txt", dataScienceResume)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "no files",
			args:    []string{"analyze", "-d", "Data Science"},
			wantErr: "requires at least 1 arg",
		},
		{
			name:    "no domain",
			args:    []string{"analyze", path},
			wantErr: "a domain is required",
		},
		{
			name:    "domain and detect",
			args:    []string{"analyze", "-d", "Data Science", "--detect", path},
			wantErr: "none of the others can be",
		},
		{
			name:    "missing file",
			args:    []string{"analyze", "-d", "Data Science", filepath.Join(dir, "nope.pdf")},
			wantErr: "failed to read",
		},
		{
			name:    "bad mode",
			args:    []string{"analyze", "-d", "Data Science", "--mode", "fancy", path},
			wantErr: "fancy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPrintReports(t *testing.T) {
	reports := []types.AnalysisReport{
		{Filename: "a.txt", Domain: "Web Development", Score: 50, Matched: []string{"HTML"}, Missing: []string{"CSS"}},
		{Filename: "b.txt", Domain: "Web Development", Score: 100, Matched: []string{"HTML", "CSS"}},
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printReports(&buf, reports, false))
		out := buf.String()
		assert.Contains(t, out, "a.txt")
		assert.Contains(t, out, "b.txt")
		assert.Contains(t, out, "SCREENED 2 RESUMES")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printReports(&buf, reports, true))
		assert.Equal(t, reports, decodeReports(t, buf.String()))
	})
}

func TestReadDocuments_UsesBaseNames(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cv.txt", "hello")

	docs, err := readDocuments([]string{path})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "cv.txt", docs[0].Filename)
	assert.Equal(t, []byte("hello"), docs[0].Data)
}
