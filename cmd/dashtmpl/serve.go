package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dashtmpl/dashtmpl"
	"github.com/dashtmpl/dashtmpl/internal/config"
	"github.com/dashtmpl/dashtmpl/internal/reload"
	"github.com/dashtmpl/dashtmpl/pkg/app"
	"github.com/dashtmpl/dashtmpl/pkg/registry"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		port       int
		host       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout template with live reload",
		Long: `Render the configured layout template and serve it.

The preview server renders the layout as HTML, serves its component JSON
at /_dash-layout and Prometheus metrics at /metrics. With server.watch set
the layout is re-rendered when a template or the context file changes and
connected browsers reload.

Examples:
  dashtmpl serve
  dashtmpl serve --config dashboards/sales.yaml --port 9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			return runServe(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Config file (default: nearest "+config.ConfigFileName+")")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.LoadFromWorkingDir()
}

// server holds the pieces serve wires together.
type server struct {
	cfg      *config.Config
	app      *app.App
	renderer *dashtmpl.Renderer
	registry *registry.Registry
	logger   *slog.Logger
	stderr   io.Writer
}

func newServer(cfg *config.Config, stderr io.Writer) (*server, error) {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	reg := registry.Default()
	if cfg.Aliases != nil {
		reg = registry.New(registry.Builtin(registry.WithAliases(cfg.Aliases))...)
	}

	var loader fs.FS
	if cfg.S3 != nil {
		client, err := app.NewS3Client(context.Background(), app.S3Config{Region: cfg.S3.Region, Endpoint: cfg.S3.Endpoint})
		if err != nil {
			return nil, err
		}
		loader = app.NewS3Loader(client, cfg.S3.Bucket, cfg.S3.Prefix)
	} else {
		loader = os.DirFS(cfg.TemplatesPath())
	}
	env := app.NewEnvironment(loader,
		app.WithPartials(cfg.Templates.Partials),
		app.WithEnvironmentLogger(logger))

	a := app.New(
		app.WithName(cfg.Name),
		app.WithEnvironment(env),
		app.WithLogger(logger),
		app.WithStylesheets(cfg.Stylesheets...),
	)
	r, err := dashtmpl.New(a, dashtmpl.WithRegistry(reg))
	if err != nil {
		return nil, err
	}
	return &server{cfg: cfg, app: a, renderer: r, registry: reg, logger: logger, stderr: stderr}, nil
}

// refresh re-renders the layout. Failures are shown in the browser overlay
// and keep the previous layout.
func (s *server) refresh(ctx context.Context) error {
	data, err := loadContext(s.cfg.ContextPath(), s.registry)
	if err != nil {
		s.app.ReportError(s.cfg.ContextPath(), err)
		return err
	}
	root, diags, err := s.renderer.Render(ctx, data, s.cfg.Layout)
	printDiagnostics(s.stderr, diags)
	if err != nil {
		s.app.ReportError(s.cfg.Layout, err)
		return err
	}
	s.app.SetLayout(root)
	return nil
}

func (s *server) watch(ctx context.Context) {
	paths := []string{s.cfg.TemplatesPath()}
	if p := s.cfg.ContextPath(); p != "" {
		paths = append(paths, p)
	}

	ignore := append([]string{}, reload.DefaultIgnore...)
	ignore = append(ignore, s.cfg.Server.Ignore...)
	w := reload.NewWatcher(reload.WatcherConfig{Paths: paths, Ignore: ignore})
	w.OnChange(func(changes []reload.Change) {
		relevant := false
		for _, c := range changes {
			if c.Kind != reload.ChangeOther {
				relevant = true
				s.logger.Debug("file changed", "path", c.Path, "kind", c.Kind.String(), "removed", c.Removed)
			}
		}
		if !relevant {
			return
		}
		s.app.Environment().Invalidate()
		if err := s.refresh(ctx); err != nil {
			s.logger.Warn("re-render failed", "error", err)
		}
	})
	go w.Start(ctx)
}

func runServe(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := newServer(cfg, stderr)
	if err != nil {
		return err
	}
	if err := s.refresh(ctx); err != nil {
		return err
	}
	if cfg.Server.Watch && cfg.S3 == nil {
		s.watch(ctx)
	}

	srv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintln(stdout, titleStyle.Render("dashtmpl serve"))
	success(stdout, "Serving %s at %s", cfg.Layout, cfg.URL())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	fmt.Fprintln(stdout, "\n  Shutting down...")
	s.app.Hub().Close()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}
