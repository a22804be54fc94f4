package parser

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dashtmpl/dashtmpl/internal/errors"
	"github.com/dashtmpl/dashtmpl/pkg/component"
	"github.com/dashtmpl/dashtmpl/pkg/html"
	"github.com/dashtmpl/dashtmpl/pkg/markup"
)

func newTestParser(t *testing.T) (*Parser, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(WithLogger(logger)), &buf
}

func plain(t *testing.T, v any) any {
	t.Helper()
	out, err := component.PlainJSON(v)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestParse_Text(t *testing.T) {
	p, _ := newTestParser(t)
	tests := []struct {
		name string
		text string
		want []any
	}{
		{"padded", "   hello world \n\t", []any{"hello world"}},
		{"whitespace only", " \n\t ", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, err := p.ParseString("<p>" + tt.text + "</p>")
			if err != nil {
				t.Fatalf("ParseString() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, c.Children()); diff != "" {
				t.Errorf("children mismatch (-want +got):\n%s", diff)
			}
			if _, ok := c.Get("children"); ok != (tt.want != nil) {
				t.Errorf("children set = %v, want %v", ok, tt.want != nil)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	p, _ := newTestParser(t)
	for _, src := range []string{"", "   \n  ", "<!-- only a comment -->"} {
		_, _, err := p.ParseString(src)
		if !errors.IsCode(err, errors.CodeEmptyTemplate) {
			t.Fatalf("ParseString(%q) error = %v, want E100", src, err)
		}
		var e *errors.Error
		if !errorsAs(err, &e) || e.Message != "Empty template in use. Please remove." {
			t.Errorf("message = %q", err)
		}
	}
}

func TestParse_MultipleRoots(t *testing.T) {
	p, logs := newTestParser(t)
	c, diags, err := p.ParseString(`
		<div id="tag1"></div>
		<div id="tag2"></div>
	`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if c.Type() != "Div" || c.ID() != "tag1" {
		t.Errorf("root = %s#%s, want Div#tag1", c.Type(), c.ID())
	}
	if diff := cmp.Diff([]string{errors.CodeMultipleRootTags}, diags.Codes()); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	want := "Template Tag has more than one main tag, which is not supported. Only the first tag is used."
	if diags[0].Message != want {
		t.Errorf("message = %q", diags[0].Message)
	}
	if !strings.Contains(logs.String(), "level=WARN") || !strings.Contains(logs.String(), "code=W200") {
		t.Errorf("warning not logged: %s", logs.String())
	}
}

func TestParse_UnknownTag(t *testing.T) {
	p, _ := newTestParser(t)
	_, _, err := p.ParseString("\n<unknown_tag></unknown_tag>\n")
	if !errors.IsCode(err, errors.CodeUnresolvedTag) {
		t.Fatalf("error = %v, want E101", err)
	}
	want := `Generating dash component from html tag failed. No corresponding dash component found for html tag "unknown_tag".`
	if !strings.Contains(err.Error(), want) {
		t.Errorf("error = %q, want it to contain %q", err, want)
	}
}

func TestParse_UnknownNestedTag(t *testing.T) {
	p, _ := newTestParser(t)
	_, _, err := p.ParseString(`<div><section><blink>x</blink></section></div>`)
	if !errors.IsCode(err, errors.CodeUnresolvedTag) || !strings.Contains(err.Error(), `"blink"`) {
		t.Errorf("error = %v, want E101 naming blink", err)
	}
}

func TestParse_ConstructionFailure(t *testing.T) {
	p, _ := newTestParser(t)
	_, _, err := p.ParseString(`<div bogus="1" class="a"><p>text</p></div>`)
	if !errors.IsCode(err, errors.CodeConstructionFailure) {
		t.Fatalf("error = %v, want E102", err)
	}
	msg := err.Error()
	for _, want := range []string{
		"Generating dash component from html tag failed.\nHTML Tag:\n+ <div",
		"\nDash Failure:\n+ The `Div` component received an unexpected keyword argument: `bogus`",
		"+ Allowed arguments: ",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
	var perr *component.PropError
	if !errorsAs(err, &perr) {
		t.Error("construction failure should wrap the *component.PropError")
	}
}

func TestParse_ConstructionFailureExcerpt(t *testing.T) {
	p, _ := newTestParser(t)
	long := strings.Repeat("word ", 100)
	_, _, err := p.ParseString(`<div bogus="1"><p>` + long + `</p></div>`)
	if err == nil {
		t.Fatal("expected error")
	}
	excerpt := strings.SplitN(strings.SplitN(err.Error(), "HTML Tag:\n", 2)[1], "\nDash Failure:", 2)[0]
	if !strings.HasSuffix(excerpt, markup.Placeholder) {
		t.Errorf("excerpt not shortened: %q", excerpt)
	}
	if len(excerpt) > len("+ ")+excerptWidth {
		t.Errorf("len(excerpt) = %d", len(excerpt))
	}
}

func TestParse_Skipped(t *testing.T) {
	p, logs := newTestParser(t)
	c, diags, err := p.ParseString(`<div>
		<!-- comment -->
		<script>alert(1)</script>
		<style>p { color: red }</style>
		<template><p>later</p></template>
		<ruby>漢<rt>kan</rt></ruby>
		<span>kept</span>
	</div>`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	want := []string{
		errors.CodeUnsupportedNodeKind,
		errors.CodeUnsupportedNodeKind,
		errors.CodeUnsupportedNodeKind,
		errors.CodeUnsupportedNodeKind,
	}
	if diff := cmp.Diff(want, diags.Codes()); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	var types []string
	for _, ch := range c.Children() {
		types = append(types, ch.(*component.Component).Type())
	}
	if diff := cmp.Diff([]string{"Ruby", "Span"}, types); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	ruby := c.Children()[0].(*component.Component)
	rt := ruby.Children()[1].(*component.Component)
	if rt.Type() != "Rt" || rt.Children() != nil {
		t.Errorf("rt = %s with children %v", rt.Type(), rt.Children())
	}
	if strings.Contains(logs.String(), "comment") {
		t.Errorf("comments must not be reported: %s", logs.String())
	}
	if !strings.Contains(diags[0].Message, "script") {
		t.Errorf("diagnostic should name the node kind: %q", diags[0].Message)
	}
}

func TestParse_TextRoot(t *testing.T) {
	p, _ := newTestParser(t)
	_, _, err := p.ParseString(`just text <div></div>`)
	if !errors.IsCode(err, errors.CodeTextRoot) {
		t.Errorf("error = %v, want E110", err)
	}
}

func TestParse_Attributes(t *testing.T) {
	p, _ := newTestParser(t)
	c, _, err := p.ParseString(`<BUTTON TabIndex="3" class="btn  primary" autofocus="true" style="margin-bottom: 50px; margin-top: 25px;" data-x="1">Go</BUTTON>`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if c.Type() != "Button" {
		t.Fatalf("Type() = %q", c.Type())
	}
	checks := map[string]any{
		"tabIndex":  "3",
		"className": "btn primary",
		"autoFocus": "true",
		"data-x":    "1",
	}
	for name, want := range checks {
		if got, _ := c.Get(name); got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
	if diff := cmp.Diff([]string{"marginBottom", "marginTop"}, c.Style().Keys()); diff != "" {
		t.Errorf("style keys mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Serialized(t *testing.T) {
	p, _ := newTestParser(t)
	row := html.Div.MustNew(component.Props{
		"className": "row",
		"children": []any{
			html.Div.MustNew(component.Props{"className": "col-9 col-md-6", "children": "second row - large column"}),
			html.Div.MustNew(component.Props{"className": "col-3", "children": "second row - small column"}),
		},
	})
	data, err := json.Marshal(row)
	if err != nil {
		t.Fatal(err)
	}
	c, diags, err := p.ParseString(`<div class="container"><plotly>` + string(data) + `</plotly></div>`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v", diags)
	}
	got := c.Children()[0]
	if diff := cmp.Diff(plain(t, row), plain(t, got)); diff != "" {
		t.Errorf("serialized child mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_BrokenSerialized(t *testing.T) {
	p, _ := newTestParser(t)
	_, _, err := p.ParseString(`<div><plotly>{"type":</plotly></div>`)
	if !errors.IsCode(err, errors.CodeInvalidRecord) {
		t.Errorf("error = %v, want E104", err)
	}
}

func TestParse_NestedFixture(t *testing.T) {
	p, _ := newTestParser(t)
	src := `
<div class="container">
    <div class="row">
        <div class="col-3 col-md-6">
            first row - small column
        </div>
        <div class="col-9">
            first row - large column
        </div>
    </div>
    <!-- HTML comment -->
</div>
`
	c, diags, err := p.ParseString(src)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v", diags)
	}
	want := map[string]any{
		"namespace": "dash_html_components",
		"type":      "Div",
		"props": map[string]any{
			"className": "container",
			"children": []any{
				map[string]any{
					"namespace": "dash_html_components",
					"type":      "Div",
					"props": map[string]any{
						"className": "row",
						"children": []any{
							map[string]any{
								"namespace": "dash_html_components",
								"type":      "Div",
								"props": map[string]any{
									"className": "col-3 col-md-6",
									"children":  []any{"first row - small column"},
								},
							},
							map[string]any{
								"namespace": "dash_html_components",
								"type":      "Div",
								"props": map[string]any{
									"className": "col-9",
									"children":  []any{"first row - large column"},
								},
							},
						},
					},
				},
			},
		},
	}
	if diff := cmp.Diff(want, plain(t, c)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestDiagnostics(t *testing.T) {
	ds := Diagnostics{
		newDiagnostic(errors.CodeMultipleRootTags, ""),
		newDiagnostic(errors.CodeUnsupportedNodeKind, "stylesheet <style>"),
	}
	if !ds.Has(errors.CodeUnsupportedNodeKind) || ds.Has("W999") {
		t.Error("Has() mismatch")
	}
	want := "W201: Node type stylesheet <style> is not supported in templates yet. Node will be skipped. (stylesheet <style>)"
	if got := strings.Split(ds.String(), "\n")[1]; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParse_TableContent(t *testing.T) {
	row := html.Tr.MustNew(component.Props{
		"children": []any{html.Td.MustNew(component.Props{"children": "7"})},
	})
	data, err := json.Marshal(row)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		markup string
		want   any
	}{
		{
			name:   "row root",
			markup: `<tr><td>x</td></tr>`,
			want: html.Tr.MustNew(component.Props{
				"children": []any{html.Td.MustNew(component.Props{"children": []any{"x"}})},
			}),
		},
		{
			name:   "cell inside div",
			markup: `<div><td class="a">x</td></div>`,
			want: html.Div.MustNew(component.Props{
				"children": []any{html.Td.MustNew(component.Props{"className": "a", "children": []any{"x"}})},
			}),
		},
		{
			name:   "serialized row inside table",
			markup: `<table id="t"><plotly>` + string(data) + `</plotly></table>`,
			want:   html.Table.MustNew(component.Props{"id": "t", "children": []any{row}}),
		},
		{
			name:   "block inside paragraph",
			markup: `<p><div>inner</div></p>`,
			want: html.P.MustNew(component.Props{
				"children": []any{html.Div.MustNew(component.Props{"children": []any{"inner"}})},
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestParser(t)
			c, diags, err := p.ParseString(tt.markup)
			if err != nil {
				t.Fatalf("ParseString() error = %v", err)
			}
			if len(diags) != 0 {
				t.Errorf("diagnostics = %v", diags)
			}
			if diff := cmp.Diff(plain(t, tt.want), plain(t, c)); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_GlobalAttributes(t *testing.T) {
	p, _ := newTestParser(t)
	c, _, err := p.ParseString(`<section contextmenu="m" accesskey="s" contenteditable="true" spellcheck="false" dir="rtl"></section>`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	checks := map[string]any{
		"contextMenu":     "m",
		"accessKey":       "s",
		"contentEditable": "true",
		"spellCheck":      "false",
		"dir":             "rtl",
	}
	for name, want := range checks {
		if got, _ := c.Get(name); got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}
}
