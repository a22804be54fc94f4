package component

import (
	"fmt"
	"sort"
	"strings"
)

// PropKind describes the value shapes a property accepts.
type PropKind uint8

const (
	KindAny    PropKind = iota // Any value
	KindString                 // string
	KindNumber                 // string or number
	KindBool                   // bool or string (HTML boolean attributes)
	KindStyle                  // *Style or a string-keyed map
	KindNode                   // string, number, *Component or a list of those
	KindObject                 // string-keyed map
	KindList                   // list
)

// String returns the string representation of the PropKind.
func (k PropKind) String() string {
	switch k {
	case KindAny:
		return "any"
	case KindString:
		return "string"
	case KindNumber:
		return "string | number"
	case KindBool:
		return "bool | string"
	case KindStyle:
		return "style mapping"
	case KindNode:
		return "node"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Prop is a declared property.
type Prop struct {
	Name string
	Kind PropKind
}

// Descriptor is the constructor of one component type.
// It is immutable once created and safe for concurrent use.
type Descriptor struct {
	namespace string
	typeName  string
	props     []Prop
	index     map[string]int
	wildcards []string
}

// DescriptorOption configures a Descriptor.
type DescriptorOption func(*Descriptor)

// WithWildcards lets the descriptor accept any property starting with one
// of the given prefixes (e.g. "data-", "aria-").
func WithWildcards(prefixes ...string) DescriptorOption {
	return func(d *Descriptor) {
		d.wildcards = append(d.wildcards, prefixes...)
	}
}

// NewDescriptor creates a Descriptor. Duplicate property names keep the
// first declaration.
func NewDescriptor(namespace, typeName string, props []Prop, opts ...DescriptorOption) *Descriptor {
	d := &Descriptor{
		namespace: namespace,
		typeName:  typeName,
		props:     make([]Prop, 0, len(props)),
		index:     make(map[string]int, len(props)),
	}
	for _, p := range props {
		if _, dup := d.index[p.Name]; dup {
			continue
		}
		d.index[p.Name] = len(d.props)
		d.props = append(d.props, p)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Namespace returns the namespace written into serialized records.
func (d *Descriptor) Namespace() string { return d.namespace }

// Type returns the component type name (e.g. "Div").
func (d *Descriptor) Type() string { return d.typeName }

// DeclaredProperties returns the declared property names in declaration order.
func (d *Descriptor) DeclaredProperties() []string {
	names := make([]string, len(d.props))
	for i, p := range d.props {
		names[i] = p.Name
	}
	return names
}

// Props returns a copy of the declared properties.
func (d *Descriptor) Props() []Prop {
	out := make([]Prop, len(d.props))
	copy(out, d.props)
	return out
}

// Has reports whether name is a declared property. Wildcard prefixes are
// not considered.
func (d *Descriptor) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Accepts reports whether name is declared or matches a wildcard prefix.
func (d *Descriptor) Accepts(name string) bool {
	if d.Has(name) {
		return true
	}
	for _, prefix := range d.wildcards {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			return true
		}
	}
	return false
}

// Kind returns the kind of a property. Wildcard and unknown names are KindAny.
func (d *Descriptor) Kind(name string) PropKind {
	if i, ok := d.index[name]; ok {
		return d.props[i].Kind
	}
	return KindAny
}

// SupportsChildren reports whether the type declares a children property.
func (d *Descriptor) SupportsChildren() bool {
	return d.Has("children")
}

// String returns "namespace.Type".
func (d *Descriptor) String() string {
	return d.namespace + "." + d.typeName
}

// New constructs a Component from props.
//
// Nil values are treated as absent. Unknown property names and values whose
// shape does not fit the declared kind are rejected with a *PropError.
// Values are normalized: string-keyed maps given for a style become a
// *Style, and []*Component children become []any.
func (d *Descriptor) New(props Props) (*Component, error) {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var perr PropError
	out := make(Props, len(props))
	for _, name := range names {
		value := props[name]
		if value == nil {
			continue
		}
		if !d.Accepts(name) {
			perr.Unexpected = append(perr.Unexpected, name)
			continue
		}
		normalized, ok := normalize(d.Kind(name), value)
		if !ok {
			perr.Invalid = append(perr.Invalid, InvalidProp{
				Name:  name,
				Want:  d.Kind(name),
				Value: value,
			})
			continue
		}
		out[name] = normalized
	}

	if len(perr.Unexpected) > 0 || len(perr.Invalid) > 0 {
		perr.Type = d.typeName
		perr.Namespace = d.namespace
		perr.Allowed = d.DeclaredProperties()
		sort.Strings(perr.Allowed)
		return nil, &perr
	}

	return &Component{desc: d, props: out}, nil
}

// MustNew is like New but panics on error. It is meant for building
// layouts in code where props are literals.
func (d *Descriptor) MustNew(props Props) *Component {
	c, err := d.New(props)
	if err != nil {
		panic(err)
	}
	return c
}

// InvalidProp describes a property whose value has the wrong shape.
type InvalidProp struct {
	Name  string
	Want  PropKind
	Value any
}

// PropError is returned when a Descriptor rejects its props.
type PropError struct {
	Namespace  string
	Type       string
	Unexpected []string
	Invalid    []InvalidProp
	Allowed    []string
}

// Error implements the error interface.
func (e *PropError) Error() string {
	var b strings.Builder
	for i, name := range e.Unexpected {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "The `%s` component received an unexpected keyword argument: `%s`", e.Type, name)
	}
	for i, inv := range e.Invalid {
		if i > 0 || len(e.Unexpected) > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "The `%s` component received an invalid value for `%s`: expected %s, got %T",
			e.Type, inv.Name, inv.Want, inv.Value)
	}
	if len(e.Unexpected) > 0 {
		b.WriteString("\nAllowed arguments: ")
		b.WriteString(strings.Join(e.Allowed, ", "))
	}
	return b.String()
}

func normalize(kind PropKind, v any) (any, bool) {
	switch kind {
	case KindAny:
		return v, true
	case KindString:
		s, ok := v.(string)
		return s, ok
	case KindNumber:
		switch v.(type) {
		case string, int, int32, int64, float32, float64, uint, uint32, uint64:
			return v, true
		}
		return nil, false
	case KindBool:
		switch v.(type) {
		case bool, string:
			return v, true
		}
		return nil, false
	case KindStyle:
		return toStyle(v)
	case KindObject:
		switch m := v.(type) {
		case map[string]any:
			return m, true
		case map[string]string:
			out := make(map[string]any, len(m))
			for k, val := range m {
				out[k] = val
			}
			return out, true
		}
		return nil, false
	case KindList:
		switch l := v.(type) {
		case []any:
			return l, true
		case []string:
			out := make([]any, len(l))
			for i, s := range l {
				out[i] = s
			}
			return out, true
		}
		return nil, false
	case KindNode:
		return toNode(v)
	}
	return nil, false
}

func toStyle(v any) (any, bool) {
	switch s := v.(type) {
	case *Style:
		return s, true
	case Style:
		return &s, true
	case map[string]any:
		return StyleFromMap(s), true
	case map[string]string:
		m := make(map[string]any, len(s))
		for k, val := range s {
			m[k] = val
		}
		return StyleFromMap(m), true
	}
	return nil, false
}

func toNode(v any) (any, bool) {
	switch n := v.(type) {
	case *Component:
		return n, n != nil
	case []*Component:
		out := make([]any, 0, len(n))
		for _, c := range n {
			if c != nil {
				out = append(out, c)
			}
		}
		return out, true
	case []any:
		out := make([]any, 0, len(n))
		for _, item := range n {
			if item == nil {
				continue
			}
			norm, ok := toNode(item)
			if !ok {
				return nil, false
			}
			if _, nested := norm.([]any); nested {
				return nil, false
			}
			out = append(out, norm)
		}
		return out, true
	case []string:
		out := make([]any, len(n))
		for i, s := range n {
			out[i] = s
		}
		return out, true
	case string, int, int64, float64:
		return n, true
	}
	return nil, false
}
