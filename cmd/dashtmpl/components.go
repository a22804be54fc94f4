package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dashtmpl/dashtmpl/pkg/registry"
)

func componentsCmd() *cobra.Command {
	var withProps bool

	cmd := &cobra.Command{
		Use:   "components [module]",
		Short: "List registered component types",
		Long: `List the component types templates can use.

Types of dash.html are available as tags; other modules are only reachable
through serialized components.

Examples:
  dashtmpl components
  dashtmpl components dash.dcc --props`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.Default()
			modules := reg.Modules()
			if len(args) == 1 {
				if len(reg.Types(args[0])) == 0 {
					return fmt.Errorf("unknown module %q (known: %s)", args[0], strings.Join(modules, ", "))
				}
				modules = args
			}

			out := cmd.OutOrStdout()
			for _, module := range modules {
				fmt.Fprintln(out, titleStyle.Render(module))
				for _, d := range reg.Types(module) {
					if !withProps {
						fmt.Fprintf(out, "  %s\n", typeStyle.Render(d.Type()))
						continue
					}
					fmt.Fprintf(out, "  %s %s\n", typeStyle.Render(d.Type()),
						propStyle.Render(strings.Join(d.DeclaredProperties(), ", ")))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&withProps, "props", "p", false, "Show declared properties")

	return cmd
}
