package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dashtmpl/dashtmpl/internal/config"
	"github.com/dashtmpl/dashtmpl/internal/errors"
	"github.com/dashtmpl/dashtmpl/pkg/component"
	"github.com/dashtmpl/dashtmpl/pkg/registry"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

const cardTemplate = `<div class="card" style="margin-top: 4px; font-size: 12px">
  <h2>{{.title}}</h2>
  {{ .picker | plotly }}
</div>`

const cardContext = `
title: Revenue
picker:
  namespace: dash_core_components
  type: Dropdown
  props:
    id: region
    value: EU
`

func TestRender_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "card.html"), cardTemplate)
	writeFile(t, filepath.Join(dir, "ctx.yaml"), cardContext)

	stdout, stderr, err := run(t, "render", filepath.Join(dir, "card.html"), "--context", filepath.Join(dir, "ctx.yaml"))
	if err != nil {
		t.Fatalf("render error = %v\n%s", err, stderr)
	}

	var got any
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	want := map[string]any{
		"namespace": "dash_html_components",
		"type":      "Div",
		"props": map[string]any{
			"className": "card",
			"style":     map[string]any{"marginTop": "4px", "fontSize": "12px"},
			"children": []any{
				map[string]any{
					"namespace": "dash_html_components",
					"type":      "H2",
					"props":     map[string]any{"children": []any{"Revenue"}},
				},
				map[string]any{
					"namespace": "dash_core_components",
					"type":      "Dropdown",
					"props":     map[string]any{"id": "region", "value": "EU"},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("render output (-want +got):\n%s", diff)
	}
	if stderr != "" {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestRender_HTMLAndMarkup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	writeFile(t, path, `<section id="s"><label for="x">{{.name}}</label></section>`)
	writeFile(t, filepath.Join(dir, "ctx.yaml"), "name: Region\n")
	ctx := filepath.Join(dir, "ctx.yaml")

	stdout, _, err := run(t, "render", path, "-c", ctx, "--format", "html", "--minify")
	if err != nil {
		t.Fatal(err)
	}
	if want := `<section id=s><label for=x>Region</label></section>`; strings.TrimSpace(stdout) != want {
		t.Errorf("html = %q, want %q", stdout, want)
	}

	stdout, _, err = run(t, "render", path, "-c", ctx, "--format", "markup")
	if err != nil {
		t.Fatal(err)
	}
	if want := `<section id="s"><label for="x">Region</label></section>`; strings.TrimSpace(stdout) != want {
		t.Errorf("markup = %q, want %q", stdout, want)
	}
}

func TestRender_Diagnostics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "two.html")
	writeFile(t, path, `<div id="a"></div><div id="b"></div>`)

	_, stderr, err := run(t, "render", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stderr, "W200") || !strings.Contains(stderr, "Only the first tag is used.") {
		t.Errorf("stderr = %q, want W200 warning", stderr)
	}
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.html")
	writeFile(t, path, `<blink></blink>`)

	if _, _, err := run(t, "render", path); !errors.IsCode(err, errors.CodeUnresolvedTag) {
		t.Errorf("unknown tag: error = %v, want E101", err)
	}
	if _, _, err := run(t, "render", filepath.Join(dir, "missing.html")); !errors.IsCode(err, errors.CodeTemplateNotFound) {
		t.Errorf("missing template: error = %v, want E106", err)
	}
	if _, _, err := run(t, "render", path, "--format", "yaml"); err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("bad format: error = %v", err)
	}
}

func TestLoadContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ctx.yaml")
	writeFile(t, path, cardContext)

	data, err := loadContext(path, registry.Default())
	if err != nil {
		t.Fatal(err)
	}
	if data["title"] != "Revenue" {
		t.Errorf("title = %v", data["title"])
	}
	c, ok := data["picker"].(*component.Component)
	if !ok || c.Type() != "Dropdown" || c.ID() != "region" {
		t.Errorf("picker = %#v", data["picker"])
	}

	writeFile(t, path, "a: [")
	if _, err := loadContext(path, registry.Default()); !errors.IsCode(err, errors.CodeConfigInvalid) {
		t.Errorf("bad yaml: error = %v, want E121", err)
	}

	writeFile(t, path, "x:\n  namespace: nope\n  type: Thing\n")
	if _, err := loadContext(path, registry.Default()); !errors.IsCode(err, errors.CodeUnknownComponentType) {
		t.Errorf("unknown record: error = %v, want E103", err)
	}

	if data, err := loadContext("", registry.Default()); err != nil || len(data) != 0 {
		t.Errorf("empty path: %v, %v", data, err)
	}
}

func TestComponents(t *testing.T) {
	stdout, _, err := run(t, "components")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"dash.html", "dash.dcc", "Div", "Dropdown"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("components output missing %q", want)
		}
	}

	stdout, _, err = run(t, "components", "dash_core_components", "--props")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout, "options") || strings.Contains(stdout, "Div") {
		t.Errorf("dcc listing = %s", stdout)
	}

	if _, _, err := run(t, "components", "nope"); err == nil {
		t.Error("unknown module accepted")
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(stdout) != version {
		t.Errorf("version = %q", stdout)
	}
}

func TestServer_Refresh(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "templates", "layout.html"), `<main>{{template "partials/nav.html" .}}<p>{{.title}}</p></main>`)
	writeFile(t, filepath.Join(dir, "templates", "partials", "nav.html"), `<nav>menu</nav>`)
	writeFile(t, filepath.Join(dir, "ctx.yaml"), "title: Hello\n")
	writeFile(t, filepath.Join(dir, config.ConfigFileName), `
name: preview
context: ctx.yaml
templates:
  partials: "partials/*.html"
server:
  watch: false
log:
  level: error
`)

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	var stderr bytes.Buffer
	s, err := newServer(cfg, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.refresh(context.Background()); err != nil {
		t.Fatalf("refresh() error = %v", err)
	}

	srv := httptest.NewServer(s.app.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/_dash-layout")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{`"type":"Main"`, `"type":"Nav"`, `"Hello"`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("layout missing %s: %s", want, body)
		}
	}

	writeFile(t, filepath.Join(dir, "templates", "layout.html"), `<blink></blink>`)
	s.app.Environment().Invalidate()
	if err := s.refresh(context.Background()); !errors.IsCode(err, errors.CodeUnresolvedTag) {
		t.Errorf("refresh(bad) error = %v, want E101", err)
	}
	if s.app.Layout() == nil || s.app.Layout().Type() != "Main" {
		t.Error("failed refresh replaced the layout")
	}
}

func TestInit_FullProjectRenders(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sales")
	stdout, _, err := run(t, "init", dir, "--template", "full", "--port", "9000")
	if err != nil {
		t.Fatalf("init error = %v", err)
	}
	if !strings.Contains(stdout, "Created full project") {
		t.Errorf("stdout = %q", stdout)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatalf("generated config invalid: %v", err)
	}
	if cfg.Name != "sales" || cfg.Server.Port != 9000 {
		t.Errorf("config = %+v", cfg)
	}

	var stderr bytes.Buffer
	s, err := newServer(cfg, &stderr)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.refresh(context.Background()); err != nil {
		t.Fatalf("refresh() error = %v", err)
	}
	layout := s.app.Layout()
	if layout == nil || layout.Type() != "Div" {
		t.Fatalf("layout = %v", layout)
	}
	data, err := json.Marshal(layout)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"type":"Graph"`, `"type":"Header"`, `"North"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("layout missing %s", want)
		}
	}

	if _, _, err := run(t, "init", dir); err == nil {
		t.Error("init over an existing project succeeded")
	}
	if _, _, err := run(t, "init", t.TempDir(), "--template", "nope"); err == nil {
		t.Error("unknown template accepted")
	}
}

func TestServer_CustomAliases(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "templates", "layout.html"), `<main>{{ .picker | plotly }}</main>`)
	writeFile(t, filepath.Join(dir, "ctx.yaml"), cardContext)
	writeFile(t, filepath.Join(dir, config.ConfigFileName), `
context: ctx.yaml
aliases:
  legacy_core: dash.dcc
log:
  level: error
`)

	cfg, err := config.Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	s, err := newServer(cfg, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.refresh(context.Background()); err != nil {
		t.Fatalf("refresh() error = %v", err)
	}
	picker := s.app.Layout().Children()[0].(*component.Component)
	if picker.Type() != "Dropdown" || picker.ID() != "region" {
		t.Errorf("picker = %s %q", picker.Type(), picker.ID())
	}
	if _, err := s.registry.Resolve("legacy_core", "Dropdown"); err != nil {
		t.Errorf("configured alias: %v", err)
	}
}
