package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"

	"github.com/dashtmpl/dashtmpl"
	"github.com/dashtmpl/dashtmpl/pkg/app"
	"github.com/dashtmpl/dashtmpl/pkg/htmlrender"
	"github.com/dashtmpl/dashtmpl/pkg/registry"
)

var (
	minifier     *minify.M
	minifierOnce sync.Once
)

// getMinifier returns the shared HTML minifier.
func getMinifier() *minify.M {
	minifierOnce.Do(func() {
		minifier = minify.New()
		minifier.AddFunc("text/html", minhtml.Minify)
	})
	return minifier
}

type renderOptions struct {
	context  string
	format   string
	minify   bool
	partials string
	verbose  bool
}

func renderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template file",
		Long: `Render a template file and print the result.

Formats:
  json     component tree as JSON (default)
  html     component tree rendered back to HTML
  markup   template output before it is parsed

Examples:
  dashtmpl render templates/layout.html
  dashtmpl render layout.html --context data.yaml --format html
  dashtmpl render layout.html --format markup --minify`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.context, "context", "c", "", "YAML file with template data")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format: json, html or markup")
	cmd.Flags().BoolVarP(&opts.minify, "minify", "m", false, "Minify html and markup output")
	cmd.Flags().StringVar(&opts.partials, "partials", "", "Glob of partial templates, relative to the template directory")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level")

	return cmd
}

func runRender(stdout, stderr io.Writer, path string, opts renderOptions) error {
	switch opts.format {
	case "json", "html", "markup":
	default:
		return fmt.Errorf("unknown format %q (want json, html or markup)", opts.format)
	}

	level := slog.LevelError
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	reg := registry.Default()
	data, err := loadContext(opts.context, reg)
	if err != nil {
		return err
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	env := app.NewEnvironment(os.DirFS(dir),
		app.WithPartials(opts.partials),
		app.WithEnvironmentLogger(logger))
	a := app.New(app.WithName(name), app.WithEnvironment(env), app.WithLogger(logger))
	r, err := dashtmpl.New(a, dashtmpl.WithRegistry(reg))
	if err != nil {
		return err
	}

	ctx := context.Background()
	if opts.format == "markup" {
		text, err := r.Markup(ctx, data, name)
		if err != nil {
			return err
		}
		return writeHTML(stdout, text, opts.minify)
	}

	root, diags, err := r.Render(ctx, data, name)
	printDiagnostics(stderr, diags)
	if err != nil {
		return err
	}

	if opts.format == "html" {
		out, err := htmlrender.New(htmlrender.Config{Pretty: !opts.minify}).RenderToString(root)
		if err != nil {
			return err
		}
		return writeHTML(stdout, out, opts.minify)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(root)
}

func writeHTML(w io.Writer, text string, minified bool) error {
	if minified {
		out, err := getMinifier().String("text/html", text)
		if err != nil {
			return fmt.Errorf("minify: %w", err)
		}
		text = out
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}
