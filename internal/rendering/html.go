package rendering

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jonathan/resume-screener/internal/types"
)

// DefaultTemplate is used when no template is chosen.
const DefaultTemplate = "ats"

//go:embed templates/template_*.html
var templateFiles embed.FS

var funcs = template.FuncMap{
	"join": strings.Join,
	"joinNonEmpty": func(sep string, parts ...string) string {
		kept := parts[:0:0]
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				kept = append(kept, p)
			}
		}
		return strings.Join(kept, sep)
	},
}

// templates holds every embedded template keyed by choice ("ats", "modern").
var templates = mustParseTemplates()

func mustParseTemplates() map[string]*template.Template {
	matches, err := fs.Glob(templateFiles, "templates/template_*.html")
	if err != nil {
		panic(err)
	}
	parsed := make(map[string]*template.Template, len(matches))
	for _, file := range matches {
		choice := strings.TrimSuffix(strings.TrimPrefix(path.Base(file), "template_"), ".html")
		parsed[choice] = template.Must(template.New(path.Base(file)).Funcs(funcs).ParseFS(templateFiles, file))
	}
	return parsed
}

// Templates returns the available template choices, sorted.
func Templates() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderHTML renders resume data through the named template. An empty choice
// selects DefaultTemplate. All values are HTML-escaped.
func RenderHTML(data types.ResumeData, choice string) (string, error) {
	if choice == "" {
		choice = DefaultTemplate
	}
	tmpl, ok := templates[strings.ToLower(choice)]
	if !ok {
		return "", &TemplateError{Message: fmt.Sprintf("unknown template %q (available: %s)", choice, strings.Join(Templates(), ", "))}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &TemplateError{Message: "failed to execute template " + choice, Cause: err}
	}
	return buf.String(), nil
}
