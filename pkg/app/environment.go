package app

import (
	stderrors "errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"maps"
	"strings"
	"sync"

	"github.com/dashtmpl/dashtmpl/internal/errors"
)

// Environment is a template environment: a loader, a set of filters and a
// cache of parsed templates.
//
// Filters are html/template functions. They must be registered before the
// first template using them is parsed; registering a filter drops the cache.
type Environment struct {
	mu       sync.RWMutex
	loader   fs.FS
	funcs    template.FuncMap
	partials string
	cache    map[string]*template.Template
	logger   *slog.Logger
}

// EnvironmentOption configures an Environment.
type EnvironmentOption func(*Environment)

// WithPartials parses every loader file matching pattern into each template,
// so templates can include them with {{template "name" .}}.
func WithPartials(pattern string) EnvironmentOption {
	return func(e *Environment) {
		e.partials = pattern
	}
}

// WithFuncs registers filters.
func WithFuncs(funcs template.FuncMap) EnvironmentOption {
	return func(e *Environment) {
		maps.Copy(e.funcs, funcs)
	}
}

// WithEnvironmentLogger sets the environment's logger.
func WithEnvironmentLogger(l *slog.Logger) EnvironmentOption {
	return func(e *Environment) {
		e.logger = l
	}
}

// NewEnvironment creates an Environment loading templates from loader.
// A nil loader only supports FromString.
func NewEnvironment(loader fs.FS, opts ...EnvironmentOption) *Environment {
	e := &Environment{
		loader: loader,
		funcs:  template.FuncMap{},
		cache:  make(map[string]*template.Template),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "environment")
	return e
}

// Loader returns the filesystem templates are loaded from.
func (e *Environment) Loader() fs.FS {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loader
}

// SetLoader replaces the loader and drops the cache.
func (e *Environment) SetLoader(loader fs.FS) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loader = loader
	clear(e.cache)
}

// SetFilter registers fn under name and drops the cache.
func (e *Environment) SetFilter(name string, fn any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.funcs[name] = fn
	clear(e.cache)
}

// Filter returns the filter registered under name.
func (e *Environment) Filter(name string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn, ok := e.funcs[name]
	return fn, ok
}

// Invalidate drops the named templates from the cache, or all of them when
// no name is given.
func (e *Environment) Invalidate(names ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(names) == 0 {
		clear(e.cache)
		return
	}
	for _, name := range names {
		delete(e.cache, name)
	}
}

// Lookup returns the first of names that exists in the loader.
//
// Missing names are skipped. When none exists the error has code E106; a
// template that exists but does not parse fails with E107.
func (e *Environment) Lookup(names ...string) (*template.Template, error) {
	for _, name := range names {
		e.mu.RLock()
		t, ok := e.cache[name]
		e.mu.RUnlock()
		if ok {
			return t, nil
		}

		t, err := e.load(name)
		if stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, errors.New(errors.CodeTemplateNotFound).
		WithMessage(fmt.Sprintf("Template not found: %s", strings.Join(names, ", "))).
		WithSuggestion("Check the template names against the templates directory")
}

func (e *Environment) load(name string) (*template.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if t, ok := e.cache[name]; ok {
		return t, nil
	}
	if e.loader == nil || !fs.ValidPath(name) {
		return nil, fs.ErrNotExist
	}

	data, err := fs.ReadFile(e.loader, name)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, errors.New(errors.CodeTemplateNotFound).
			WithMessage(fmt.Sprintf("Cannot read template %s", name)).
			Wrap(err)
	}

	t, err := e.parse(name, string(data))
	if err != nil {
		return nil, err
	}
	e.cache[name] = t
	e.logger.Debug("template loaded", "name", name)
	return t, nil
}

// FromString parses source as an anonymous template. The result is not
// cached.
func (e *Environment) FromString(source string) (*template.Template, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.parse("<string>", source)
}

// parse builds a template with the environment's filters and partials.
// Callers hold e.mu.
func (e *Environment) parse(name, source string) (*template.Template, error) {
	t, err := template.New(name).Funcs(e.funcs).Parse(source)
	if err != nil {
		return nil, errors.New(errors.CodeTemplateExecution).
			WithMessage(fmt.Sprintf("Cannot parse template %s", name)).
			WithDetail(err.Error()).
			WithLocationFromError(err).
			Wrap(err)
	}

	if e.partials == "" || e.loader == nil {
		return t, nil
	}
	files, err := fs.Glob(e.loader, e.partials)
	if err != nil {
		return nil, errors.New(errors.CodeTemplateExecution).
			WithMessage(fmt.Sprintf("Bad partials pattern %q", e.partials)).
			Wrap(err)
	}
	for _, file := range files {
		if file == name {
			continue
		}
		data, err := fs.ReadFile(e.loader, file)
		if err != nil {
			return nil, errors.New(errors.CodeTemplateNotFound).
				WithMessage(fmt.Sprintf("Cannot read partial %s", file)).
				Wrap(err)
		}
		if _, err := t.New(file).Parse(string(data)); err != nil {
			return nil, errors.New(errors.CodeTemplateExecution).
				WithMessage(fmt.Sprintf("Cannot parse partial %s", file)).
				WithDetail(err.Error()).
				WithLocationFromError(err).
				Wrap(err)
		}
	}
	return t, nil
}
