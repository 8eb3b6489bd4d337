package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eprivalovdev/TunnelX/internal/builder"
	"github.com/eprivalovdev/TunnelX/internal/config"
	"github.com/eprivalovdev/TunnelX/internal/logger"
	"github.com/eprivalovdev/TunnelX/internal/resolve"
	"github.com/eprivalovdev/TunnelX/internal/settings"
)

var cfgFile string
var verbose bool
var logFile string

var rootCmd = &cobra.Command{
	Use:   "tunnelx",
	Short: "Builds proxy engine configs from share links",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(verbose, logFile)
	},
	PostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stdout (overwrites file)")
}

// newBuilder wires the settings store, resolver and GeoIP database
// the way every command needs them.
func newBuilder(cfg *config.Config) (*builder.Builder, *resolve.Resolver, error) {
	store, err := settings.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Tunnel.SeedFile != "" {
		if err := store.SeedFromYAML(cfg.Tunnel.SeedFile); err != nil {
			logger.Log.Warnf("Ignoring seed file: %v", err)
		}
	}
	snap, err := store.Snapshot()
	if err != nil {
		return nil, nil, err
	}

	resolver := resolve.New(nil)
	if cfg.GeoIP.CountryPath != "" {
		if err := resolver.AttachCountryDB(cfg.GeoIP.CountryPath); err != nil {
			logger.Log.Debugf("Country DB unavailable: %v", err)
		}
	}
	snap.LogPaths = settings.LogPaths{Access: cfg.Logs.Access, Error: cfg.Logs.Error}

	return builder.New(snap, resolver), resolver, nil
}
