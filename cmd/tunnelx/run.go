package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eprivalovdev/TunnelX/internal/builder"
	"github.com/eprivalovdev/TunnelX/internal/config"
	"github.com/eprivalovdev/TunnelX/internal/engine"
	"github.com/eprivalovdev/TunnelX/internal/logger"
)

var runWithTunnel bool

var runCmd = &cobra.Command{
	Use:   "run <link>",
	Short: "Build a config from a share link and run the embedded core",
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

		data, _, err := b.Build(builder.LinkSource(args[0]))
		if err != nil {
			logger.Log.Fatalf("Build failed: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		core := &engine.Core{}
		if err := core.Start(ctx, data); err != nil {
			logger.Log.Fatalf("Core failed to start: %v", err)
		}
		defer core.Stop()
		logger.Log.Info("Core started")

		if runWithTunnel {
			tunnel := &engine.Tunnel{Binary: cfg.Tunnel.Binary}
			if err := tunnel.Start(ctx, b.Tun2socksConfig()); err != nil {
				logger.Log.Fatalf("Tunnel failed to start: %v", err)
			}
			defer tunnel.Stop()
		}

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Log.Info("Shutting down")
	},
}

func init() {
	runCmd.Flags().BoolVar(&runWithTunnel, "with-tunnel", false, "Also launch the external SOCKS5 tunnel engine")
	rootCmd.AddCommand(runCmd)
}
