package decode

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dashtmpl/dashtmpl/internal/errors"
	"github.com/dashtmpl/dashtmpl/pkg/component"
	"github.com/dashtmpl/dashtmpl/pkg/dcc"
	"github.com/dashtmpl/dashtmpl/pkg/html"
	"github.com/dashtmpl/dashtmpl/pkg/registry"
)

func plain(t *testing.T, c *component.Component) any {
	t.Helper()
	v, err := component.PlainJSON(c)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestDecode_RoundTrip(t *testing.T) {
	reg := registry.Default()
	tree := html.Div.MustNew(component.Props{
		"id":    "outer",
		"style": map[string]any{"color": "red"},
		"children": []any{
			"text",
			html.P.MustNew(component.Props{"children": "inner"}),
			dcc.Dropdown.MustNew(component.Props{
				"id":      "dd",
				"options": []any{"a", "b"},
				"value":   "a",
			}),
		},
	})
	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Decode(reg, data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(plain(t, tree), plain(t, got)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	children := got.Children()
	if _, ok := children[1].(*component.Component); !ok {
		t.Errorf("children[1] = %T, want *component.Component", children[1])
	}
	if dd := children[2].(*component.Component); dd.Namespace() != dcc.Namespace || dd.Type() != "Dropdown" {
		t.Errorf("children[2] = %s", dd.Descriptor())
	}
}

func TestDecode_Children(t *testing.T) {
	reg := registry.Default()
	tests := []struct {
		name string
		data string
		want []any
	}{
		{
			name: "single record becomes list",
			data: `{"namespace":"dash_html_components","type":"Div","props":{"children":{"namespace":"dash_html_components","type":"P","props":{"id":"p"}}}}`,
			want: []any{"P"},
		},
		{
			name: "mixed list",
			data: `{"namespace":"dash_html_components","type":"Div","props":{"children":["a", 1, null, {"namespace":"dash_html_components","type":"Span","props":{}}]}}`,
			want: []any{"a", float64(1), "Span"},
		},
		{
			name: "plain string",
			data: `{"namespace":"dash_html_components","type":"Div","props":{"children":"hello"}}`,
			want: []any{"hello"},
		},
		{
			name: "null children",
			data: `{"namespace":"dash_html_components","type":"Div","props":{"children":null}}`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Decode(reg, []byte(tt.data))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			var got []any
			for _, ch := range c.Children() {
				if cc, ok := ch.(*component.Component); ok {
					got = append(got, cc.Type())
					continue
				}
				got = append(got, ch)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("children mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_StyleOrder(t *testing.T) {
	data := `{"namespace":"dash_html_components","type":"Div","props":{"style":{"zIndex":"1","color":"red","marginTop":"2px"}}}`
	c, err := Decode(registry.Default(), []byte(data))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"zIndex", "color", "marginTop"}
	if diff := cmp.Diff(want, c.Style().Keys()); diff != "" {
		t.Errorf("style keys mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	reg := registry.Default()
	tests := []struct {
		name string
		data string
		code string
	}{
		{"not json", `{"namespace":`, errors.CodeInvalidRecord},
		{"missing type", `{"namespace":"dash_html_components","props":{}}`, errors.CodeInvalidRecord},
		{"unknown namespace", `{"namespace":"dash_bogus","type":"Div","props":{}}`, errors.CodeUnknownComponentType},
		{"unknown type", `{"namespace":"dash_html_components","type":"Bogus","props":{}}`, errors.CodeUnknownComponentType},
		{"nested unknown type", `{"namespace":"dash_html_components","type":"Div","props":{"children":[{"namespace":"dash_html_components","type":"Bogus","props":{}}]}}`, errors.CodeUnknownComponentType},
		{"rejected prop", `{"namespace":"dash_html_components","type":"Div","props":{"bogus":1}}`, errors.CodeInvalidRecord},
		{"bad child", `{"namespace":"dash_html_components","type":"Div","props":{"children":[true]}}`, errors.CodeInvalidRecord},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(reg, []byte(tt.data))
			if err == nil {
				t.Fatal("Decode() error = nil")
			}
			if !errors.IsCode(err, tt.code) {
				t.Errorf("Decode() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestDecode_ModuleNamespace(t *testing.T) {
	c, err := Decode(registry.Default(), []byte(`{"namespace":"dash.html","type":"Div","props":{"id":"x"}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if c.ID() != "x" {
		t.Errorf("ID() = %q", c.ID())
	}
}

func TestDecode_CustomAliases(t *testing.T) {
	reg := registry.New(registry.Builtin(registry.WithAliases(map[string]string{
		"legacy_html": html.Module,
	}))...)
	if _, err := Decode(reg, []byte(`{"namespace":"legacy_html","type":"Div","props":{}}`)); err != nil {
		t.Errorf("aliased namespace: %v", err)
	}
	div, err := json.Marshal(html.Div.MustNew(component.Props{"id": "x"}))
	if err != nil {
		t.Fatal(err)
	}
	c, err := Decode(reg, div)
	if err != nil {
		t.Fatalf("serialized output with custom aliases: %v", err)
	}
	if c.ID() != "x" {
		t.Errorf("ID() = %q", c.ID())
	}
	_, err = Decode(reg, []byte(`{"namespace":"unknown_components","type":"Div","props":{}}`))
	if !errors.IsCode(err, errors.CodeUnknownComponentType) {
		t.Errorf("unknown namespace error = %v, want E103", err)
	}
}
