package htmlrender

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	nethtml "golang.org/x/net/html"

	"github.com/dashtmpl/dashtmpl/pkg/component"
	"github.com/dashtmpl/dashtmpl/pkg/html"
)

// Config configures the HTML renderer.
type Config struct {
	// Pretty enables indented output. Meant for previews and debugging.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces.
	Indent string
}

// Renderer renders component trees to HTML. It holds no state between
// calls and is safe for concurrent use.
type Renderer struct {
	config Config
}

// New creates a Renderer.
func New(config Config) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders c to an HTML string.
func (r *Renderer) RenderToString(c *component.Component) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams c to w.
func (r *Renderer) RenderToWriter(w io.Writer, c *component.Component) error {
	return r.renderComponent(w, c, 0)
}

func (r *Renderer) renderNode(w io.Writer, node any, depth int) error {
	switch n := node.(type) {
	case nil:
		return nil
	case *component.Component:
		return r.renderComponent(w, n, depth)
	case string:
		if r.config.Pretty {
			r.writeIndent(w, depth)
		}
		if _, err := io.WriteString(w, nethtml.EscapeString(n)); err != nil {
			return err
		}
	default:
		if r.config.Pretty {
			r.writeIndent(w, depth)
		}
		if _, err := io.WriteString(w, nethtml.EscapeString(fmt.Sprint(n))); err != nil {
			return err
		}
	}
	if r.config.Pretty {
		_, err := w.Write([]byte{'\n'})
		return err
	}
	return nil
}

func (r *Renderer) renderComponent(w io.Writer, c *component.Component, depth int) error {
	if c == nil {
		return nil
	}
	tag := "div"
	native := c.Namespace() == html.Namespace
	if native {
		tag = strings.ToLower(c.Type())
	}

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}
	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if !native {
		if err := r.renderPlaceholderAttrs(w, c); err != nil {
			return err
		}
	}
	if err := r.renderAttributes(w, c, native); err != nil {
		return err
	}
	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}
	if voidElements[tag] {
		if r.config.Pretty {
			w.Write([]byte{'\n'})
		}
		return nil
	}

	children := c.Children()
	if !native {
		children = nil
	}
	block := r.config.Pretty && len(children) > 0 && !inlineElements[tag]
	if block {
		w.Write([]byte{'\n'})
	}
	for _, child := range children {
		if block {
			if err := r.renderNode(w, child, depth+1); err != nil {
				return err
			}
			continue
		}
		if err := r.renderInline(w, child); err != nil {
			return err
		}
	}
	if block {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		w.Write([]byte{'\n'})
	}
	return nil
}

// renderInline renders a child without indentation or trailing newline.
func (r *Renderer) renderInline(w io.Writer, child any) error {
	if c, ok := child.(*component.Component); ok {
		inner := &Renderer{config: Config{Indent: r.config.Indent}}
		return inner.renderComponent(w, c, 0)
	}
	if child == nil {
		return nil
	}
	_, err := io.WriteString(w, nethtml.EscapeString(fmt.Sprint(child)))
	return err
}

func (r *Renderer) renderPlaceholderAttrs(w io.Writer, c *component.Component) error {
	if _, err := fmt.Fprintf(w, ` data-dash-type="%s" data-dash-namespace="%s"`,
		escapeAttr(c.Type()), escapeAttr(c.Namespace())); err != nil {
		return err
	}
	props := c.Props()
	delete(props, "id")
	delete(props, "className")
	delete(props, "style")
	if len(props) == 0 {
		return nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("htmlrender: marshal %s props: %w", c.Type(), err)
	}
	_, err = fmt.Fprintf(w, ` data-dash-props="%s"`, escapeAttr(string(data)))
	return err
}

// renderAttributes writes attributes sorted by name. Placeholders only
// carry id, class and style.
func (r *Renderer) renderAttributes(w io.Writer, c *component.Component, native bool) error {
	type attr struct {
		name  string
		value any
	}
	var attrs []attr
	for _, prop := range c.PropNames() {
		if frameworkProps[prop] {
			continue
		}
		if !native && prop != "id" && prop != "className" && prop != "style" {
			continue
		}
		value, _ := c.Get(prop)
		attrs = append(attrs, attr{name: AttrName(prop), value: value})
	}
	sort.SliceStable(attrs, func(i, j int) bool { return attrs[i].name < attrs[j].name })

	for _, a := range attrs {
		if a.name == "style" {
			if s, ok := a.value.(*component.Style); ok {
				css := StyleString(s)
				if css == "" {
					continue
				}
				if _, err := fmt.Fprintf(w, ` style="%s"`, escapeAttr(css)); err != nil {
					return err
				}
				continue
			}
		}

		if booleanAttrs[a.name] {
			if on, ok := boolValue(a.value); ok {
				if on {
					if _, err := fmt.Fprintf(w, " %s", a.name); err != nil {
						return err
					}
				}
				continue
			}
		}

		s, err := attrToString(a.value)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.name, escapeAttr(s)); err != nil {
			return err
		}
	}
	return nil
}

// AttrName returns the HTML attribute name of a component property.
func AttrName(prop string) string {
	if name, ok := attrNames[prop]; ok {
		return name
	}
	if strings.HasPrefix(prop, "data-") || strings.HasPrefix(prop, "aria-") {
		return prop
	}
	return strings.ToLower(prop)
}

// StyleString renders a style mapping as an inline declaration list with
// kebab-case property names, in insertion order.
func StyleString(s *component.Style) string {
	parts := make([]string, 0, s.Len())
	for _, k := range s.Keys() {
		v, _ := s.Get(k)
		parts = append(parts, fmt.Sprintf("%s: %v", KebabCase(k), v))
	}
	return strings.Join(parts, "; ")
}

// KebabCase converts a camel-cased CSS property to its hyphenated form.
// A leading upper-case letter marks a vendor prefix (WebkitBoxShadow ->
// -webkit-box-shadow).
func KebabCase(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func boolValue(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(b) {
		case "false":
			return false, true
		default:
			return true, true
		}
	}
	return false, false
}

func attrToString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case int:
		return fmt.Sprintf("%d", v), nil
	case int64:
		return fmt.Sprintf("%d", v), nil
	case float64:
		return fmt.Sprintf("%g", v), nil
	case map[string]any, []any:
		data, err := json.Marshal(v)
		return string(data), err
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}

// attrWhitespace escapes the newlines and tabs EscapeString leaves as is,
// so a multi-line value stays on one line of markup.
var attrWhitespace = strings.NewReplacer("\n", "&#10;", "\t", "&#9;")

func escapeAttr(s string) string {
	return attrWhitespace.Replace(nethtml.EscapeString(s))
}
