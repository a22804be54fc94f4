package dashtmpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dashtmpl/dashtmpl/internal/errors"
	"github.com/dashtmpl/dashtmpl/pkg/app"
	"github.com/dashtmpl/dashtmpl/pkg/component"
	"github.com/dashtmpl/dashtmpl/pkg/markup"
	"github.com/dashtmpl/dashtmpl/pkg/parser"
	"github.com/dashtmpl/dashtmpl/pkg/registry"
)

// FilterName is the name the serialization filter is installed under.
const FilterName = markup.SerializedTag

// Entry point labels used in metrics and spans.
const (
	EntryName   = "name"
	EntryString = "string"
)

// Context is the data a template is executed with.
type Context map[string]any

// Renderer renders templates of one app into component trees.
//
// A Renderer is bound to exactly one app, either by New or by Init, and
// stays bound for its lifetime. Render calls are safe for concurrent use.
type Renderer struct {
	mu     sync.RWMutex
	app    *app.App
	parser *parser.Parser

	registry *registry.Registry
	logger   *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRegistry sets the component registry tags are resolved with.
func WithRegistry(r *registry.Registry) Option {
	return func(rd *Renderer) {
		rd.registry = r
	}
}

// WithLogger sets the logger. Defaults to the app's logger.
func WithLogger(l *slog.Logger) Option {
	return func(rd *Renderer) {
		rd.logger = l
	}
}

// bound maps each app to its renderer. An app accepts one renderer.
var bound sync.Map

// New creates a Renderer. When a is not nil the renderer is bound to it as
// by Init.
func New(a *app.App, opts ...Option) (*Renderer, error) {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	if a == nil {
		return r, nil
	}
	if err := r.Init(a); err != nil {
		return nil, err
	}
	return r, nil
}

// Init binds the renderer to a and installs the plotly filter in the app's
// template environment.
//
// Init fails with E105 if the renderer is already bound, or if another
// renderer is bound to a.
func (r *Renderer) Init(a *app.App) error {
	if a == nil {
		return errors.New(errors.CodeNotInitialized).
			WithMessage("Cannot bind renderer to a nil app")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.app != nil {
		return errors.New(errors.CodeAlreadyInitialized).
			WithDetail(fmt.Sprintf("The renderer is bound to app %q.", r.app.Name))
	}
	if other, loaded := bound.LoadOrStore(a, r); loaded && other != r {
		return errors.New(errors.CodeAlreadyInitialized).
			WithMessage(fmt.Sprintf("App %q already has a renderer", a.Name)).
			WithSuggestion("Reuse the renderer created for the app, or use RenderTemplate")
	}

	logger := r.logger
	if logger == nil {
		logger = a.Logger()
	}
	r.logger = logger.With("component", "renderer")
	r.parser = parser.New(parser.WithRegistry(r.registry), parser.WithLogger(logger))
	r.app = a

	a.Environment().SetFilter(FilterName, Plotly)
	r.logger.Debug("renderer initialized", "app", a.Name)
	return nil
}

// App returns the app the renderer is bound to, or nil.
func (r *Renderer) App() *app.App {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.app
}

// Render executes the first of names found in the app's template
// environment and parses the result into a component tree.
func (r *Renderer) Render(ctx context.Context, data Context, names ...string) (*component.Component, parser.Diagnostics, error) {
	return r.render(ctx, EntryName, strings.Join(names, ","), data, func(env *app.Environment) (*template.Template, error) {
		return env.Lookup(names...)
	})
}

// RenderString executes source as a template and parses the result into a
// component tree.
func (r *Renderer) RenderString(ctx context.Context, source string, data Context) (*component.Component, parser.Diagnostics, error) {
	return r.render(ctx, EntryString, "<string>", data, func(env *app.Environment) (*template.Template, error) {
		return env.FromString(source)
	})
}

func (r *Renderer) render(
	ctx context.Context,
	entry, name string,
	data Context,
	load func(*app.Environment) (*template.Template, error),
) (*component.Component, parser.Diagnostics, error) {
	r.mu.RLock()
	a, p := r.app, r.parser
	r.mu.RUnlock()
	if a == nil {
		return nil, nil, errors.New(errors.CodeNotInitialized)
	}

	start := time.Now()
	ctx, span := a.Tracer().StartRender(ctx, entry, name)

	var (
		root  *component.Component
		diags parser.Diagnostics
	)
	err := a.Scope(ctx, func(ctx context.Context) error {
		tmpl, err := load(a.Environment())
		if err != nil {
			return err
		}
		span.SetTemplate(tmpl.Name())

		text, err := execute(tmpl, data)
		if err != nil {
			return err
		}
		root, diags, err = p.ParseString(text)
		return err
	})

	a.Metrics().RecordWarnings(diags.Codes()...)
	a.Metrics().ObserveRender(entry, time.Since(start), err)
	span.End(len(diags), err)
	if err != nil {
		r.logger.Debug("render failed", "entry", entry, "template", name, "code", errors.Code(err))
		return nil, diags, err
	}
	return root, diags, nil
}

// Markup executes the first of names without parsing the result. It
// returns the markup the parser would see.
func (r *Renderer) Markup(ctx context.Context, data Context, names ...string) (string, error) {
	a := r.App()
	if a == nil {
		return "", errors.New(errors.CodeNotInitialized)
	}
	var text string
	err := a.Scope(ctx, func(context.Context) error {
		tmpl, err := a.Environment().Lookup(names...)
		if err != nil {
			return err
		}
		text, err = execute(tmpl, data)
		return err
	})
	return text, err
}

func execute(tmpl *template.Template, data Context) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.New(errors.CodeTemplateExecution).
			WithMessage(fmt.Sprintf("Template execution failed: %s", tmpl.Name())).
			WithDetail(err.Error()).
			WithLocationFromError(err).
			Wrap(err)
	}
	return buf.String(), nil
}

// Plotly serializes c into a <plotly> block the parser decodes back into
// an equal component. It is installed as the "plotly" template filter.
func Plotly(c *component.Component) (template.HTML, error) {
	if c == nil {
		return "", fmt.Errorf("plotly: nil component")
	}
	data, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("plotly: %w", err)
	}
	return template.HTML("<" + markup.SerializedTag + ">" + string(data) + "</" + markup.SerializedTag + ">"), nil
}

// =============================================================================
// Current App
// =============================================================================

// RenderTemplate renders the first of names with the renderer bound to the
// current app. It fails with E109 when there is no current app or it has
// no renderer.
func RenderTemplate(ctx context.Context, data Context, names ...string) (*component.Component, parser.Diagnostics, error) {
	r, err := currentRenderer()
	if err != nil {
		return nil, nil, err
	}
	return r.Render(ctx, data, names...)
}

// RenderTemplateString renders source with the renderer bound to the
// current app.
func RenderTemplateString(ctx context.Context, source string, data Context) (*component.Component, parser.Diagnostics, error) {
	r, err := currentRenderer()
	if err != nil {
		return nil, nil, err
	}
	return r.RenderString(ctx, source, data)
}

func currentRenderer() (*Renderer, error) {
	a := app.Current()
	if a == nil {
		return nil, errors.New(errors.CodeNotInitialized).
			WithMessage("No current app").
			WithSuggestion("Create an app with app.New before rendering templates")
	}
	r, ok := bound.Load(a)
	if !ok {
		return nil, errors.New(errors.CodeNotInitialized).
			WithDetail(fmt.Sprintf("App %q has no renderer. Call dashtmpl.New(app) first.", a.Name))
	}
	return r.(*Renderer), nil
}
