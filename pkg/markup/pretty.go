package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Placeholder marks truncated text in Shorten.
const Placeholder = " [...]"

// Pretty renders a node as indented markup, one tag or text run per line.
func Pretty(n *Node) string {
	var b strings.Builder
	writePretty(&b, n, 0)
	return strings.TrimRight(b.String(), "\n")
}

func writePretty(b *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat(" ", depth)
	switch n.Kind {
	case KindText:
		text := strings.TrimSpace(n.Text)
		if text == "" {
			return
		}
		b.WriteString(indent)
		b.WriteString(html.EscapeString(text))
		b.WriteString("\n")
	case KindComment:
		b.WriteString(indent)
		b.WriteString("<!--")
		b.WriteString(n.Text)
		b.WriteString("-->\n")
	case KindSerialized, KindSkipped:
		if n.Tag == "" {
			return
		}
		b.WriteString(indent)
		b.WriteString("<" + n.Tag + ">\n")
		if text := strings.TrimSpace(n.Text); text != "" {
			b.WriteString(indent + " ")
			b.WriteString(text)
			b.WriteString("\n")
		}
		b.WriteString(indent)
		b.WriteString("</" + n.Tag + ">\n")
	case KindElement:
		b.WriteString(indent)
		b.WriteString("<")
		b.WriteString(n.Tag)
		for _, a := range n.Attrs {
			b.WriteString(" ")
			b.WriteString(a.Key)
			b.WriteString(`="`)
			b.WriteString(html.EscapeString(a.Joined()))
			b.WriteString(`"`)
		}
		b.WriteString(">\n")
		for _, c := range n.Children {
			writePretty(b, c, depth+1)
		}
		b.WriteString(indent)
		b.WriteString("</" + n.Tag + ">\n")
	}
}

// Shorten collapses whitespace and truncates text to width, dropping whole
// words and appending Placeholder when it does not fit.
func Shorten(text string, width int) string {
	words := strings.Fields(text)
	joined := strings.Join(words, " ")
	if len(joined) <= width {
		return joined
	}
	var b strings.Builder
	for _, w := range words {
		next := len(w)
		if b.Len() > 0 {
			next++
		}
		if b.Len()+next+len(Placeholder) > width {
			break
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(w)
	}
	if b.Len() == 0 {
		return strings.TrimSpace(Placeholder)
	}
	return b.String() + Placeholder
}

// Indent prefixes every line of text with prefix.
func Indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
