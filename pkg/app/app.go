package app

import (
	"context"
	"io/fs"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dashtmpl/dashtmpl/internal/reload"
	"github.com/dashtmpl/dashtmpl/internal/telemetry"
	"github.com/dashtmpl/dashtmpl/pkg/component"
)

// =============================================================================
// App Type
// =============================================================================

// App is a dashboard application: a layout plus the template environment
// and services layouts are rendered with.
//
// All methods are safe for concurrent use.
type App struct {
	// Name identifies the app in logs and page titles.
	Name string

	mu     sync.RWMutex
	layout *component.Component

	loader  fs.FS
	env     *Environment
	logger  *slog.Logger
	metrics *telemetry.Metrics
	tracer  *telemetry.Tracer
	hub     *reload.Hub

	// Stylesheets are linked from the preview page.
	stylesheets []string

	scopes atomic.Int64
}

// Option configures an App.
type Option func(*App)

// WithName sets the app name.
func WithName(name string) Option {
	return func(a *App) {
		a.Name = name
	}
}

// WithLoader sets the filesystem templates are loaded from.
func WithLoader(loader fs.FS) Option {
	return func(a *App) {
		a.loader = loader
	}
}

// WithEnvironment replaces the template environment.
func WithEnvironment(env *Environment) Option {
	return func(a *App) {
		a.env = env
	}
}

// WithLogger sets the app logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(a *App) {
		a.metrics = m
	}
}

// WithTracer sets the render tracer.
func WithTracer(t *telemetry.Tracer) Option {
	return func(a *App) {
		a.tracer = t
	}
}

// WithReloadHub sets the live reload hub.
func WithReloadHub(h *reload.Hub) Option {
	return func(a *App) {
		a.hub = h
	}
}

// WithStylesheets links stylesheets from the preview page.
func WithStylesheets(hrefs ...string) Option {
	return func(a *App) {
		a.stylesheets = append(a.stylesheets, hrefs...)
	}
}

// New creates an App and makes it the current app.
//
// Unless overridden the app gets an Environment over the WithLoader
// filesystem, metrics in a private Prometheus registry, a tracer on the
// global OpenTelemetry provider and a reload hub.
func New(opts ...Option) *App {
	a := &App{
		Name:   "dashtmpl",
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.logger = a.logger.With("component", "app", "app", a.Name)
	if a.env == nil {
		a.env = NewEnvironment(a.loader, WithEnvironmentLogger(a.logger))
	}
	if a.metrics == nil {
		a.metrics = telemetry.NewMetrics()
	}
	if a.tracer == nil {
		a.tracer = telemetry.NewTracer()
	}
	if a.hub == nil {
		a.hub = reload.NewHub(
			reload.WithLogger(a.logger),
			reload.WithConnectHooks(a.metrics.ReloadClientConnected, a.metrics.ReloadClientDisconnected),
		)
	}

	SetCurrent(a)
	return a
}

// =============================================================================
// Accessors
// =============================================================================

// Environment returns the template environment.
func (a *App) Environment() *Environment { return a.env }

// Logger returns the app logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Metrics returns the metrics collectors.
func (a *App) Metrics() *telemetry.Metrics { return a.metrics }

// Tracer returns the render tracer.
func (a *App) Tracer() *telemetry.Tracer { return a.tracer }

// Hub returns the live reload hub.
func (a *App) Hub() *reload.Hub { return a.hub }

// Layout returns the current layout, or nil.
func (a *App) Layout() *component.Component {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.layout
}

// SetLayout replaces the layout and tells preview browsers to reload.
func (a *App) SetLayout(c *component.Component) {
	a.mu.Lock()
	a.layout = c
	a.mu.Unlock()

	a.metrics.RecordLayoutUpdate()
	a.hub.NotifyReload()
	a.logger.Info("layout updated", "type", typeOf(c))
}

// ReportError shows err in the error overlay of preview browsers. file
// names the template that failed, if known.
func (a *App) ReportError(file string, err error) {
	a.logger.Error("layout update failed", "file", file, "error", err)
	a.hub.NotifyError(file, err.Error())
}

func typeOf(c *component.Component) string {
	if c == nil {
		return ""
	}
	return c.Descriptor().String()
}

// =============================================================================
// Scope
// =============================================================================

type scopeKey struct{}

// Scope runs fn with the app scope acquired. The scope is released when fn
// returns, panics included. Scopes nest.
func (a *App) Scope(ctx context.Context, fn func(ctx context.Context) error) error {
	a.scopes.Add(1)
	defer a.scopes.Add(-1)
	return fn(context.WithValue(ctx, scopeKey{}, a))
}

// ActiveScopes returns the number of calls currently inside Scope.
func (a *App) ActiveScopes() int {
	return int(a.scopes.Load())
}

// FromContext returns the app whose scope ctx was created in.
func FromContext(ctx context.Context) (*App, bool) {
	a, ok := ctx.Value(scopeKey{}).(*App)
	return a, ok
}

// =============================================================================
// Current App
// =============================================================================

var current atomic.Pointer[App]

// Current returns the current app, or nil before any app was created.
func Current() *App {
	return current.Load()
}

// SetCurrent makes a the current app. Passing nil clears it.
func SetCurrent(a *App) {
	current.Store(a)
}
