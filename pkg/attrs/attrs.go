// Package attrs maps HTML attributes onto the declared properties of a
// component descriptor.
//
// Mapping happens in this order:
//
//  1. multi-valued attributes are joined with single spaces
//  2. attributes whose name equals a declared property name lower-cased
//     are renamed to the declared spelling (tabindex -> tabIndex)
//  3. class becomes class_name or className, for becomes htmlFor
//  4. an inline style string becomes an ordered, camel-cased Style
//
// Everything else passes through under its lower-case attribute name and
// is left for the component constructor to accept or reject.
package attrs

import (
	"strings"
	"unicode"

	"github.com/dashtmpl/dashtmpl/pkg/component"
	"github.com/dashtmpl/dashtmpl/pkg/markup"
)

// Map converts raw attributes to component props for desc.
func Map(raw []markup.Attr, desc *component.Descriptor) component.Props {
	props := make(component.Props, len(raw))
	for _, a := range raw {
		props[a.Key] = a.Joined()
	}

	for _, name := range desc.DeclaredProperties() {
		lower := strings.ToLower(name)
		if lower == name {
			continue
		}
		if v, ok := props[lower]; ok {
			delete(props, lower)
			props[name] = v
		}
	}

	if v, ok := props["class"]; ok {
		switch {
		case desc.Has("class_name"):
			delete(props, "class")
			props["class_name"] = v
		case desc.Has("className"):
			delete(props, "class")
			props["className"] = v
		}
	}
	if v, ok := props["for"]; ok && desc.Has("htmlFor") {
		delete(props, "for")
		props["htmlFor"] = v
	}

	if v, ok := props["style"].(string); ok && desc.Has("style") {
		props["style"] = ParseStyle(v)
	}
	return props
}

// ParseStyle parses an inline CSS declaration list. Declarations are split
// on ";" and then on the first ":". Keys are trimmed and hyphenated names
// camel-cased (margin-bottom -> marginBottom); empty keys are dropped and a
// repeated key keeps its first position with the last value.
func ParseStyle(s string) *component.Style {
	style := component.NewStyle()
	for _, decl := range strings.Split(s, ";") {
		key, value, _ := strings.Cut(decl, ":")
		key = strings.TrimSpace(CamelCase(key))
		if key == "" {
			continue
		}
		style.Set(key, strings.TrimSpace(value))
	}
	return style
}

// CamelCase removes each hyphen that is followed by a word character and
// upper-cases that character. Other hyphens are kept.
func CamelCase(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '-' && i+1 < len(runes) && isWord(runes[i+1]) {
			b.WriteString(strings.ToUpper(string(runes[i+1])))
			i++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
