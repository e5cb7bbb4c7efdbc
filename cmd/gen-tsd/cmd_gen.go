package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/4STO2NED0/gen-typescript-declarations/generate"
	"github.com/4STO2NED0/gen-typescript-declarations/project"
)

func newGenCmd() *cobra.Command {
	var (
		configPath   string
		analysisPath string
		outDir       string
		metricsFile  string
		watch        bool
	)

	load := func() (*project.Config, error) {
		var cfg *project.Config
		var err error
		if configPath != "" {
			cfg, err = project.LoadFile(configPath)
		} else {
			cfg, err = project.Load()
		}
		if err != nil {
			return nil, err
		}
		if analysisPath != "" {
			cfg.Analysis = absPath(analysisPath)
		}
		if outDir != "" {
			cfg.OutDir = absPath(outDir)
		}
		if metricsFile != "" {
			cfg.MetricsFile = absPath(metricsFile)
		}
		return cfg, nil
	}

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate declaration files for a project",
		Long: `Generate reads the analysis file named by the project configuration
(gen-tsd.yaml in the current directory) and writes one .d.ts file per source
file. Flags override the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if watch {
				return generate.Watch(ctx, load, generate.DefaultDebounce)
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			result, err := generate.Generate(ctx, cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d declaration files to %s (%d diagnostics)\n",
				len(result.Outputs), cfg.OutputDir(), len(result.Diagnostics))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file (default ./"+project.ConfigFile+")")
	cmd.Flags().StringVarP(&analysisPath, "analysis", "a", "", "analysis JSON file")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write run metrics to this file")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate when the analysis or configuration changes")

	return cmd
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
