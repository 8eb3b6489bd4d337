package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eprivalovdev/TunnelX/internal/builder"
	"github.com/eprivalovdev/TunnelX/internal/config"
	"github.com/eprivalovdev/TunnelX/internal/engine"
	"github.com/eprivalovdev/TunnelX/internal/logger"
)

var buildOutput string
var buildValidate bool

var buildCmd = &cobra.Command{
	Use:   "build <link | json-file>",
	Short: "Build an engine config from a share link or raw JSON file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			logger.Log.Fatalf("Error loading config: %v", err)
		}

		b, resolver, err := newBuilder(cfg)
		if err != nil {
			logger.Log.Fatalf("Error initializing builder: %v", err)
		}
		defer resolver.Close()

		src, err := sourceFromArg(args[0])
		if err != nil {
			logger.Log.Fatalf("Error reading input: %v", err)
		}

		data, changes, err := b.Build(src)
		if err != nil {
			logger.Log.Fatalf("Build failed: %v", err)
		}
		for _, c := range changes {
			if c.Country != "" {
				logger.Log.Infof("Resolved %s -> %s (%s)", c.Original, c.Resolved, c.Country)
			} else {
				logger.Log.Infof("Resolved %s -> %s", c.Original, c.Resolved)
			}
		}

		if buildValidate {
			if err := engine.Validate(data); err != nil {
				logger.Log.Fatalf("Validation failed: %v", err)
			}
			logger.Log.Info("Config accepted by the core")
		}

		if buildOutput == "" {
			os.Stdout.Write(data)
			os.Stdout.WriteString("\n")
			return
		}
		if err := os.WriteFile(buildOutput, data, 0644); err != nil {
			logger.Log.Fatalf("Error writing output: %v", err)
		}
		logger.Log.Infof("Wrote %s", buildOutput)
	},
}

// sourceFromArg treats arguments with a share-link scheme as links
// and everything else as a path to a raw JSON document.
func sourceFromArg(arg string) (builder.Source, error) {
	if strings.Contains(arg, "://") {
		return builder.LinkSource(arg), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, err
	}
	return builder.JSONSource(data), nil
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Write the config to a file instead of stdout")
	buildCmd.Flags().BoolVar(&buildValidate, "validate", false, "Run the result through the embedded core's config check")
	rootCmd.AddCommand(buildCmd)
}
