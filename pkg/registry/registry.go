// Package registry resolves tag names and serialized (namespace, type)
// pairs to component descriptors.
//
// A Registry is built once, usually at process start, and is read-only
// afterwards; it is safe for concurrent use.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dashtmpl/dashtmpl/internal/errors"
	"github.com/dashtmpl/dashtmpl/pkg/component"
	"github.com/dashtmpl/dashtmpl/pkg/dcc"
	"github.com/dashtmpl/dashtmpl/pkg/html"
)

// SerializedTag is the tag reserved for serialized component blocks.
// It is never resolved through the tag table.
const SerializedTag = "plotly"

// DefaultAliases maps the catalogs' serialized namespaces to their module
// keys. Descriptors also resolve by their own namespace without an alias,
// so this table is informational for listings.
var DefaultAliases = map[string]string{
	html.Namespace: html.Module,
	dcc.Namespace:  dcc.Module,
}

// Registry maps tags and (namespace, type) pairs to descriptors.
type Registry struct {
	tags    map[string]*component.Descriptor
	modules map[string]map[string]*component.Descriptor
	// namespaces indexes every descriptor by its own serialized namespace,
	// so the records a component marshals to always decode back.
	namespaces map[string]map[string]*component.Descriptor
	aliases    map[string]string
}

// Option configures a Registry.
type Option func(*Registry)

// WithTags registers descriptors that templates may use as tags, keyed by
// their lower-cased type name. They are also registered under module.
func WithTags(module string, descs ...*component.Descriptor) Option {
	return func(r *Registry) {
		for _, d := range descs {
			key := strings.ToLower(d.Type())
			if key == SerializedTag {
				continue
			}
			r.tags[key] = d
		}
		WithModule(module, descs...)(r)
	}
}

// WithModule registers descriptors resolvable by (module, type).
func WithModule(module string, descs ...*component.Descriptor) Option {
	return func(r *Registry) {
		types, ok := r.modules[module]
		if !ok {
			types = make(map[string]*component.Descriptor, len(descs))
			r.modules[module] = types
		}
		for _, d := range descs {
			types[d.Type()] = d
			byNS, ok := r.namespaces[d.Namespace()]
			if !ok {
				byNS = make(map[string]*component.Descriptor)
				r.namespaces[d.Namespace()] = byNS
			}
			byNS[d.Type()] = d
		}
	}
}

// WithAliases adds namespace aliases, mapping a serialized namespace to a
// module key. Later entries override earlier ones for the same namespace.
// Aliases never hide a descriptor's own namespace.
func WithAliases(aliases map[string]string) Option {
	return func(r *Registry) {
		for k, v := range aliases {
			r.aliases[k] = v
		}
	}
}

// New builds a Registry. Without options it is empty.
func New(opts ...Option) *Registry {
	r := &Registry{
		tags:    make(map[string]*component.Descriptor),
		modules:    make(map[string]map[string]*component.Descriptor),
		namespaces: make(map[string]map[string]*component.Descriptor),
		aliases:    map[string]string{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Builtin returns the options registering the built-in catalogs: html
// elements as tags and core components by namespace, with DefaultAliases.
// Extra options are applied afterwards and may add aliases.
func Builtin(extra ...Option) []Option {
	opts := []Option{
		WithTags(html.Module, html.Descriptors()...),
		WithModule(dcc.Module, dcc.Descriptors()...),
		WithAliases(DefaultAliases),
	}
	return append(opts, extra...)
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry of built-in components.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = New(Builtin()...)
	})
	return defaultRegistry
}

// Lookup resolves a tag name case-insensitively. The reserved serialized
// tag never resolves.
func (r *Registry) Lookup(tag string) (*component.Descriptor, bool) {
	key := strings.ToLower(tag)
	if key == SerializedTag {
		return nil, false
	}
	d, ok := r.tags[key]
	return d, ok
}

// ResolveNamespace applies the alias table to a serialized namespace.
func (r *Registry) ResolveNamespace(namespace string) string {
	if module, ok := r.aliases[namespace]; ok {
		return module
	}
	return namespace
}

// Resolve finds the descriptor of a serialized (namespace, type) pair. The
// namespace is tried as an alias, then as a module key, then as the
// namespace descriptors were declared with.
func (r *Registry) Resolve(namespace, typeName string) (*component.Descriptor, error) {
	module := r.ResolveNamespace(namespace)
	types, ok := r.lookupTypes(namespace)
	if !ok {
		return nil, errors.New(errors.CodeUnknownComponentType).
			WithMessage(fmt.Sprintf("No component module found for namespace %q (resolved to %q).", namespace, module)).
			WithSuggestion("Register the module or add a namespace alias")
	}
	d, ok := types[typeName]
	if !ok {
		return nil, errors.New(errors.CodeUnknownComponentType).
			WithMessage(fmt.Sprintf("Module %q has no component type %q.", module, typeName))
	}
	return d, nil
}

func (r *Registry) lookupTypes(namespace string) (map[string]*component.Descriptor, bool) {
	if types, ok := r.modules[r.ResolveNamespace(namespace)]; ok {
		return types, true
	}
	types, ok := r.namespaces[namespace]
	return types, ok
}

// Aliases returns a copy of the alias table.
func (r *Registry) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

// Modules returns the registered module keys, sorted.
func (r *Registry) Modules() []string {
	out := make([]string, 0, len(r.modules))
	for m := range r.modules {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Types returns the descriptors registered under a module, sorted by type.
func (r *Registry) Types(module string) []*component.Descriptor {
	types, _ := r.lookupTypes(module)
	out := make([]*component.Descriptor, 0, len(types))
	for _, d := range types {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type() < out[j].Type() })
	return out
}

// Tags returns the resolvable tag names, sorted.
func (r *Registry) Tags() []string {
	out := make([]string, 0, len(r.tags))
	for t := range r.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
