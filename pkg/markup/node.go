// Package markup parses rendered template markup into a read-only tree of
// Nodes for the component translator.
//
// Nodes are built from the golang.org/x/net/html tokenizer rather than its
// HTML5 tree builder, so the tree keeps the nesting the template author
// wrote: a <tr> outside a <table> stays a <tr>, and a <plotly> block inside
// a table stays where it was placed.
package markup

import "strings"

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement    Kind = iota // A tag with attributes and children
	KindText                   // Character data
	KindSerialized             // A <plotly> block carrying a serialized component
	KindComment                // An HTML comment or doctype, dropped silently
	KindSkipped                // A node the translator does not support
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindSerialized:
		return "SerializedBlock"
	case KindComment:
		return "Comment"
	case KindSkipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}

// Skipped node categories.
const (
	SkipScript   = "script"
	SkipStyle    = "stylesheet"
	SkipTemplate = "template"
	SkipRubyText = "ruby-text"
	SkipOther    = "other"
)

// Attr is a single attribute. Tokens is set for multi-valued attributes
// such as class; Value then holds the raw attribute text.
type Attr struct {
	Key    string
	Value  string
	Tokens []string
}

// MultiValued reports whether the attribute was split into tokens.
func (a Attr) MultiValued() bool {
	return a.Tokens != nil
}

// Joined returns the tokens joined by single spaces for multi-valued
// attributes and the raw value otherwise.
func (a Attr) Joined() string {
	if a.Tokens != nil {
		return strings.Join(a.Tokens, " ")
	}
	return a.Value
}

// Node is one node of a parsed template.
type Node struct {
	Kind     Kind
	Tag      string  // Element and SerializedBlock tag name, lower-cased
	Attrs    []Attr  // Element attributes in source order, duplicates removed
	Children []*Node // Element children
	Text     string  // Text content; the JSON payload of a SerializedBlock
	Skip     string  // Category of a Skipped node
}

// Attr returns the attribute named key.
func (n *Node) Attr(key string) (Attr, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a, true
		}
	}
	return Attr{}, false
}
