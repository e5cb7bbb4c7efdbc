package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/4STO2NED0/gen-typescript-declarations/convert"
	"github.com/4STO2NED0/gen-typescript-declarations/ts"
)

func newTypeCmd() *cobra.Command {
	var (
		param     bool
		templates []string
	)

	cmd := &cobra.Command{
		Use:   "type <annotation>...",
		Short: "Translate Closure type annotations to TypeScript",
		Example: `  gen-tsd type '?Array<string>'
  gen-tsd type --param 'number='
  gen-tsd type --template T 'Object<string, T>'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, annotation := range args {
				var text string
				var ok bool
				if param {
					var r convert.ParamResult
					r, ok = convert.Param(annotation, templates)
					p := ts.Param{Name: "p", Type: r.Type, Optional: r.Optional, Rest: r.Rest}
					if p.Rest && !ts.IsArray(p.Type) {
						p.Type = ts.Array(p.Type)
					}
					text = p.String()
				} else {
					var t ts.Type
					t, ok = convert.Type(annotation, templates)
					text = t.String()
				}
				if !ok {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not parse %q, using any\n", annotation)
				}
				fmt.Fprintln(out, text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&param, "param", "p", false, "translate as a parameter (optional and rest markers)")
	cmd.Flags().StringSliceVarP(&templates, "template", "t", nil, "template type names")

	return cmd
}
