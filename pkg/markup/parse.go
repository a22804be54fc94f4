package markup

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// SerializedTag is the tag wrapping a serialized component.
const SerializedTag = "plotly"

// multiValued lists space-separated attributes, per tag ("*" for all tags).
var multiValued = map[string][]string{
	"*":      {"class", "accesskey", "dropzone"},
	"a":      {"rel", "rev"},
	"link":   {"rel", "rev"},
	"td":     {"headers"},
	"th":     {"headers"},
	"form":   {"accept-charset"},
	"object": {"archive"},
	"area":   {"rel"},
	"icon":   {"sizes"},
	"iframe": {"sandbox"},
	"output": {"for"},
}

// rawTextParents are elements whose contents are skipped along with them.
var rawTextParents = map[string]string{
	"script":   SkipScript,
	"style":    SkipStyle,
	"template": SkipTemplate,
}

// voidElements never have children; their start tag closes them.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

// Parse parses markup into its top-level nodes.
//
// The tree follows the markup as written. Tags are opened and closed where
// they appear, with none of the HTML5 insertion modes that move table
// content or close paragraphs early. A stray end tag is ignored and an end
// tag closes any elements left open inside it. Elements still open at the
// end of input are closed there.
func Parse(r io.Reader) ([]*Node, error) {
	b := &builder{z: html.NewTokenizer(r)}
	if err := b.run(); err != nil {
		return nil, err
	}
	return finish(b.roots, ""), nil
}

// ParseString parses a markup string.
func ParseString(s string) ([]*Node, error) {
	return Parse(strings.NewReader(s))
}

// builder assembles Nodes from tokens with a stack of open elements.
type builder struct {
	z     *html.Tokenizer
	roots []*Node
	open  []*Node
}

func (b *builder) run() error {
	for {
		switch b.z.Next() {
		case html.ErrorToken:
			if err := b.z.Err(); err != io.EOF {
				return err
			}
			return nil

		case html.TextToken:
			b.add(&Node{Kind: KindText, Text: string(b.z.Text())})

		case html.CommentToken, html.DoctypeToken:
			b.add(&Node{Kind: KindComment, Text: string(b.z.Text())})

		case html.StartTagToken:
			tok := b.z.Token()
			if tok.Data == SerializedTag {
				text, err := b.raw(SerializedTag)
				if err != nil {
					return err
				}
				b.add(&Node{Kind: KindSerialized, Tag: SerializedTag, Text: text})
				continue
			}
			n := b.element(tok)
			b.add(n)
			if !voidElements[tok.Data] {
				b.open = append(b.open, n)
			}

		case html.SelfClosingTagToken:
			tok := b.z.Token()
			if tok.Data == SerializedTag {
				b.add(&Node{Kind: KindSerialized, Tag: SerializedTag})
				continue
			}
			b.add(b.element(tok))

		case html.EndTagToken:
			name, _ := b.z.TagName()
			b.close(string(name))
		}
	}
}

func (b *builder) element(tok html.Token) *Node {
	return &Node{Kind: KindElement, Tag: tok.Data, Attrs: convertAttrs(tok.Data, tok.Attr)}
}

func (b *builder) add(n *Node) {
	if len(b.open) == 0 {
		b.roots = append(b.roots, n)
		return
	}
	top := b.open[len(b.open)-1]
	top.Children = append(top.Children, n)
}

// close pops the innermost open element named tag and everything above it.
func (b *builder) close(tag string) {
	for i := len(b.open) - 1; i >= 0; i-- {
		if b.open[i].Tag == tag {
			b.open = b.open[:i]
			return
		}
	}
}

// raw returns the source text up to the end tag of tag, unparsed, and
// consumes that end tag. Serialized payloads are JSON and are never
// tokenized as markup.
func (b *builder) raw(tag string) (string, error) {
	var sb strings.Builder
	depth := 0
	for {
		tt := b.z.Next()
		if tt == html.ErrorToken {
			if err := b.z.Err(); err != io.EOF {
				return "", err
			}
			return sb.String(), nil
		}
		// Raw must be read before TagName, which lower-cases the buffer.
		raw := string(b.z.Raw())
		if tt == html.StartTagToken || tt == html.EndTagToken {
			if name, _ := b.z.TagName(); string(name) == tag {
				switch {
				case tt == html.StartTagToken:
					depth++
				case depth == 0:
					return sb.String(), nil
				default:
					depth--
				}
			}
		}
		sb.WriteString(raw)
	}
}

// finish maps script, style and template elements and ruby text to
// Skipped nodes, recursively.
func finish(nodes []*Node, parent string) []*Node {
	for i, n := range nodes {
		switch n.Kind {
		case KindText:
			if parent == "rt" {
				nodes[i] = &Node{Kind: KindSkipped, Skip: SkipRubyText, Text: n.Text}
			}
		case KindElement:
			if skip, ok := rawTextParents[n.Tag]; ok {
				nodes[i] = &Node{Kind: KindSkipped, Tag: n.Tag, Skip: skip, Text: textContent(n)}
				continue
			}
			n.Children = finish(n.Children, n.Tag)
		}
	}
	return nodes
}

// convertAttrs keeps source order, lets the last duplicate win and splits
// multi-valued attributes on whitespace.
func convertAttrs(tag string, attrs []html.Attribute) []Attr {
	out := make([]Attr, 0, len(attrs))
	pos := make(map[string]int, len(attrs))
	for _, a := range attrs {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		attr := Attr{Key: key, Value: a.Val}
		if isMultiValued(tag, key) {
			attr.Tokens = strings.Fields(a.Val)
		}
		if i, dup := pos[key]; dup {
			out[i] = attr
			continue
		}
		pos[key] = len(out)
		out = append(out, attr)
	}
	return out
}

func isMultiValued(tag, key string) bool {
	for _, k := range multiValued["*"] {
		if k == key {
			return true
		}
	}
	for _, k := range multiValued[tag] {
		if k == key {
			return true
		}
	}
	return false
}

func textContent(n *Node) string {
	var b strings.Builder
	var walk func(*Node)
	walk = func(n *Node) {
		if n.Kind == KindText {
			b.WriteString(n.Text)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
