package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dashtmpl/dashtmpl/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		template    string
		description string
		port        int
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a new dashtmpl project",
		Long: `Create a dashtmpl.yaml and starter templates.

Templates:
  minimal   config and one layout template
  full      layout with partials, a context file and an embedded graph

Examples:
  dashtmpl init
  dashtmpl init sales --template full`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			tmpl, err := templates.Get(template)
			if err != nil {
				return err
			}
			if err := tmpl.Create(abs, templates.Config{
				ProjectName: filepath.Base(abs),
				Description: description,
				Port:        port,
			}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			success(out, "Created %s project in %s", tmpl.Name, abs)
			fmt.Fprintf(out, "  Run %s to preview it\n", typeStyle.Render("dashtmpl serve"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "minimal", "Project template: minimal or full")
	cmd.Flags().StringVarP(&description, "description", "d", "A dashboard rendered from templates", "Project description")
	cmd.Flags().IntVarP(&port, "port", "p", 8050, "Preview server port")

	return cmd
}
