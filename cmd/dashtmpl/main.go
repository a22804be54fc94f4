package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dashtmpl/dashtmpl/internal/errors"
	"github.com/dashtmpl/dashtmpl/pkg/parser"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	propStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dashtmpl",
		Short: "Render HTML templates into dashboard component trees",
		Long: `dashtmpl renders html/template files into dashboard components.

Tags resolve to typed components, attributes to component properties and
inline styles to style mappings. Components can be embedded in a template
with the plotly filter.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		initCmd(),
		renderCmd(),
		serveCmd(),
		componentsCmd(),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", successStyle.Render("✓"), fmt.Sprintf(format, args...))
}

// printDiagnostics prints render warnings.
func printDiagnostics(w io.Writer, diags parser.Diagnostics) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s %s\n", warnStyle.Render("⚠ "+d.Code), d.Message)
	}
}
