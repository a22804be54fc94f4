// Package parser translates parsed template markup into a component tree.
//
// The walk is depth-first and left-to-right. Each node yields a component,
// a trimmed text string or nothing. Fatal problems (unknown tags, rejected
// props, broken serialized blocks) abort the parse with a coded error;
// recoverable ones are collected as Diagnostics, returned with the result
// and logged at Warn level.
//
// The result always has exactly one root component. A template producing
// nothing fails with E100. When several top-level items are produced the
// first is returned with a W200 diagnostic. A first item that is bare text
// fails with E110: the result type is a component, so text cannot stand in
// for the root, and the template should wrap it in an element.
package parser

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dashtmpl/dashtmpl/internal/errors"
	"github.com/dashtmpl/dashtmpl/pkg/attrs"
	"github.com/dashtmpl/dashtmpl/pkg/component"
	"github.com/dashtmpl/dashtmpl/pkg/decode"
	"github.com/dashtmpl/dashtmpl/pkg/markup"
	"github.com/dashtmpl/dashtmpl/pkg/registry"
)

// excerptWidth bounds the tag excerpt in construction failure messages.
const excerptWidth = 200

// Parser translates markup with one registry. It holds no per-parse state
// and is safe for concurrent use.
type Parser struct {
	registry *registry.Registry
	logger   *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithRegistry sets the component registry. Defaults to registry.Default().
func WithRegistry(r *registry.Registry) Option {
	return func(p *Parser) {
		p.registry = r
	}
}

// WithLogger sets the logger diagnostics are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = l
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	if p.registry == nil {
		p.registry = registry.Default()
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.logger = p.logger.With("component", "parser")
	return p
}

// Registry returns the parser's registry.
func (p *Parser) Registry() *registry.Registry {
	return p.registry
}

// Parse reads markup and returns its root component.
func (p *Parser) Parse(r io.Reader) (*component.Component, Diagnostics, error) {
	nodes, err := markup.Parse(r)
	if err != nil {
		return nil, nil, errors.New(errors.CodeMarkupParse).
			WithDetail(err.Error()).
			Wrap(err)
	}
	return p.ParseNodes(nodes)
}

// ParseString parses a markup string.
func (p *Parser) ParseString(s string) (*component.Component, Diagnostics, error) {
	return p.Parse(strings.NewReader(s))
}

// ParseNodes translates top-level nodes and applies the root rule: no
// output is an error, a text root is an error, and when more than one
// item is produced the first is returned with a W200 diagnostic.
func (p *Parser) ParseNodes(nodes []*markup.Node) (*component.Component, Diagnostics, error) {
	w := &walk{parser: p}
	items, err := w.nodes(nodes)
	if err != nil {
		return nil, w.diags, err
	}
	if len(items) == 0 {
		return nil, w.diags, errors.New(errors.CodeEmptyTemplate)
	}
	if len(items) > 1 {
		w.warn(errors.CodeMultipleRootTags, "", "roots", len(items))
	}
	root, ok := items[0].(*component.Component)
	if !ok {
		return nil, w.diags, errors.New(errors.CodeTextRoot).
			WithDetail(fmt.Sprintf("The template starts with the text %q.", markup.Shorten(fmt.Sprint(items[0]), 60)))
	}
	return root, w.diags, nil
}

// walk carries the diagnostics of a single parse.
type walk struct {
	parser *Parser
	diags  Diagnostics
}

func (w *walk) warn(code, node string, args ...any) {
	d := newDiagnostic(code, node)
	w.diags = append(w.diags, d)
	kv := append([]any{"code", code}, args...)
	if node != "" {
		kv = append(kv, "node", node)
	}
	w.parser.logger.Warn(d.Message, kv...)
}

// nodes translates a sibling list into components and strings.
func (w *walk) nodes(nodes []*markup.Node) ([]any, error) {
	var out []any
	for _, n := range nodes {
		switch n.Kind {
		case markup.KindElement:
			c, err := w.element(n)
			if err != nil {
				return nil, err
			}
			out = append(out, c)

		case markup.KindSerialized:
			c, err := decode.Decode(w.parser.registry, []byte(n.Text))
			if err != nil {
				return nil, err
			}
			out = append(out, c)

		case markup.KindText:
			if text := strings.TrimSpace(n.Text); text != "" {
				out = append(out, text)
			}

		case markup.KindComment:
			// dropped without a diagnostic

		default:
			node := n.Skip
			if n.Tag != "" {
				node = n.Skip + " <" + n.Tag + ">"
			}
			w.warn(errors.CodeUnsupportedNodeKind, node)
		}
	}
	return out, nil
}

func (w *walk) element(n *markup.Node) (*component.Component, error) {
	desc, ok := w.parser.registry.Lookup(n.Tag)
	if !ok {
		return nil, errors.New(errors.CodeUnresolvedTag).
			WithMessage(fmt.Sprintf("Generating dash component from html tag failed. "+
				"No corresponding dash component found for html tag %q.", n.Tag)).
			WithSuggestion("Use a registered component tag, or pass the component through the plotly filter")
	}

	props := attrs.Map(n.Attrs, desc)
	children, err := w.nodes(n.Children)
	if err != nil {
		return nil, err
	}
	if len(children) > 0 {
		props["children"] = children
	}

	c, err := desc.New(props)
	if err != nil {
		return nil, errors.New(errors.CodeConstructionFailure).
			WithMessage(constructionMessage(n, err)).
			Wrap(err)
	}
	return c, nil
}

func constructionMessage(n *markup.Node, err error) string {
	var b strings.Builder
	b.WriteString("Generating dash component from html tag failed.\n")
	b.WriteString("HTML Tag:\n")
	b.WriteString(markup.Indent(markup.Shorten(markup.Pretty(n), excerptWidth), "+ "))
	b.WriteString("\nDash Failure:\n")
	b.WriteString(markup.Indent(err.Error(), "+ "))
	return b.String()
}
