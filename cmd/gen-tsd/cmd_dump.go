package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/4STO2NED0/gen-typescript-declarations/analysis"
	"github.com/4STO2NED0/gen-typescript-declarations/format"
	"github.com/4STO2NED0/gen-typescript-declarations/generate"
	"github.com/4STO2NED0/gen-typescript-declarations/project"
)

func newDumpCmd() *cobra.Command {
	var dumpFormat string

	cmd := &cobra.Command{
		Use:   "dump <analysis.json>",
		Short: "Print the declarations generated from an analysis file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			a, err := analysis.LoadFile(filename)
			if err != nil {
				return err
			}
			cfg, err := project.LoadFrom(filepath.Dir(filename))
			if err != nil {
				return err
			}
			result, err := generate.Run(cmd.Context(), a, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, o := range result.Outputs {
				switch dumpFormat {
				case "dts":
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "// %s\n", o.Path)
					if _, err := out.Write(o.Text); err != nil {
						return fmt.Errorf("write dts: %w", err)
					}
				case "json":
					if err := format.NewJSONEncoder(out).Encode(o.Document); err != nil {
						return fmt.Errorf("encode json: %w", err)
					}
				default:
					return fmt.Errorf("unknown format: %s (expected dts or json)", dumpFormat)
				}
			}
			for _, d := range result.Diagnostics {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", d)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dumpFormat, "format", "f", "dts", "output format (dts, json)")

	return cmd
}
