package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/dashtmpl/dashtmpl/internal/errors"
)

// Config holds the values substituted into scaffold files.
type Config struct {
	// ProjectName becomes the app name in dashtmpl.yaml. Defaults to the
	// base name of the target directory.
	ProjectName string

	// Description is shown under the layout heading.
	Description string

	// Port is the preview server port. Default: 8050.
	Port int
}

// Template is a named set of scaffold files.
type Template struct {
	Name        string
	Description string

	// Files maps slash-separated relative paths to file contents.
	Files map[string]string
}

var templates = map[string]*Template{
	"minimal": minimalTemplate(),
	"full":    fullTemplate(),
}

// Get looks up a scaffold by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.Newf(errors.CategoryCLI, "unknown template %q", name).
			WithSuggestion("Available templates: minimal, full")
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create generates a project in dir. Existing files are never overwritten.
func (t *Template) Create(dir string, cfg Config) error {
	if cfg.Port == 0 {
		cfg.Port = 8050
	}
	if cfg.ProjectName == "" {
		cfg.ProjectName = filepath.Base(dir)
	}

	paths := make([]string, 0, len(t.Files))
	for relPath := range t.Files {
		paths = append(paths, relPath)
	}
	sort.Strings(paths)

	for _, relPath := range paths {
		fullPath := filepath.Join(dir, filepath.FromSlash(relPath))
		if _, err := os.Stat(fullPath); err == nil {
			return errors.Newf(errors.CategoryCLI, "%s already exists", fullPath).
				WithSuggestion("Choose an empty directory")
		}
	}

	for _, relPath := range paths {
		tmpl, err := template.New(relPath).Delims("[[", "]]").Parse(t.Files[relPath])
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "scaffold %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "scaffold %s: %v", relPath, err)
		}

		fullPath := filepath.Join(dir, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
			return err
		}
	}

	return nil
}

func minimalTemplate() *Template {
	return &Template{
		Name:        "minimal",
		Description: "A config file and one layout template",
		Files: map[string]string{
			"dashtmpl.yaml": `name: [[.ProjectName]]
layout: layout.html
templates:
  dir: templates
server:
  port: [[.Port]]
  watch: true
`,
			"templates/layout.html": `<div class="container">
    <h1>[[.ProjectName]]</h1>
    <p>[[.Description]]</p>
</div>
`,
		},
	}
}

func fullTemplate() *Template {
	return &Template{
		Name:        "full",
		Description: "Layout with partials, a context file and an embedded graph",
		Files: map[string]string{
			"dashtmpl.yaml": `name: [[.ProjectName]]
layout: layout.html
context: context.yaml
templates:
  dir: templates
  partials: "partials/*.html"
server:
  port: [[.Port]]
  watch: true
log:
  level: info
`,
			"context.yaml": `title: [[.ProjectName]]
description: [[.Description]]
regions: [North, South, East, West]
graph:
  namespace: dash_core_components
  type: Graph
  props:
    id: revenue
    figure:
      data:
        - type: bar
          x: [North, South, East, West]
          y: [12, 7, 9, 4]
`,
			"templates/layout.html": `<div class="container">
    {{template "partials/header.html" .}}
    <div class="row" style="margin-top: 16px; display: flex">
        <ul class="col-3">
            {{range .regions}}<li>{{.}}</li>{{end}}
        </ul>
        <div class="col-9">
            {{ .graph | plotly }}
        </div>
    </div>
</div>
`,
			"templates/partials/header.html": `<header>
    <h1>{{.title}}</h1>
    <p class="lead">{{.description}}</p>
</header>
`,
		},
	}
}
