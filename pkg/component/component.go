package component

import (
	"encoding/json"
	"sort"
)

// Props holds property values keyed by property name.
type Props map[string]any

// Component is a live instance of a component type.
type Component struct {
	desc  *Descriptor
	props Props
}

// Descriptor returns the descriptor that built the component.
func (c *Component) Descriptor() *Descriptor { return c.desc }

// Type returns the component type name.
func (c *Component) Type() string { return c.desc.typeName }

// Namespace returns the component namespace.
func (c *Component) Namespace() string { return c.desc.namespace }

// Get returns the value of a property and whether it is set.
func (c *Component) Get(name string) (any, bool) {
	v, ok := c.props[name]
	return v, ok
}

// String returns a property as a string, or "" when unset or not a string.
func (c *Component) String(name string) string {
	s, _ := c.props[name].(string)
	return s
}

// ID returns the id property when it is a string.
func (c *Component) ID() string {
	return c.String("id")
}

// Style returns the style property, or nil.
func (c *Component) Style() *Style {
	s, _ := c.props["style"].(*Style)
	return s
}

// Children returns the children as a list. A single string or component is
// returned as a one-element list; unset children return nil.
func (c *Component) Children() []any {
	switch ch := c.props["children"].(type) {
	case nil:
		return nil
	case []any:
		out := make([]any, len(ch))
		copy(out, ch)
		return out
	default:
		return []any{ch}
	}
}

// Set validates and assigns a single property. Setting nil removes it.
func (c *Component) Set(name string, value any) error {
	if value == nil {
		delete(c.props, name)
		return nil
	}
	checked, err := c.desc.New(Props{name: value})
	if err != nil {
		return err
	}
	c.props[name] = checked.props[name]
	return nil
}

// Props returns a shallow copy of the set properties.
func (c *Component) Props() Props {
	out := make(Props, len(c.props))
	for k, v := range c.props {
		out[k] = v
	}
	return out
}

// PropNames returns the names of the set properties, sorted.
func (c *Component) PropNames() []string {
	names := make([]string, 0, len(c.props))
	for k := range c.props {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// record is the wire shape of a component.
type record struct {
	Props     Props  `json:"props"`
	Type      string `json:"type"`
	Namespace string `json:"namespace"`
}

// MarshalJSON serializes the component and its subtree.
func (c *Component) MarshalJSON() ([]byte, error) {
	props := c.props
	if props == nil {
		props = Props{}
	}
	return json.Marshal(record{
		Props:     props,
		Type:      c.desc.typeName,
		Namespace: c.desc.namespace,
	})
}

// Walk visits c and every component below it, depth first. Returning false
// from fn stops the descent into that component's children.
func (c *Component) Walk(fn func(*Component) bool) {
	if c == nil || !fn(c) {
		return
	}
	for _, child := range c.Children() {
		if cc, ok := child.(*Component); ok {
			cc.Walk(fn)
		}
	}
}

// PlainJSON returns the plain-data JSON form of v (maps, slices, strings,
// float64s), as produced by decoding its serialization.
func PlainJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
