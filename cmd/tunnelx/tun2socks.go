package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/eprivalovdev/TunnelX/internal/config"
	"github.com/eprivalovdev/TunnelX/internal/logger"
)

var tun2socksOutput string

var tun2socksCmd = &cobra.Command{
	Use:   "tun2socks",
	Short: "Emit the flat-text config for the SOCKS5 tunnel engine",
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

		data := b.Tun2socksConfig()
		if tun2socksOutput == "" {
			os.Stdout.Write(data)
			return
		}
		if err := os.WriteFile(tun2socksOutput, data, 0644); err != nil {
			logger.Log.Fatalf("Error writing output: %v", err)
		}
		logger.Log.Infof("Wrote %s", tun2socksOutput)
	},
}

func init() {
	tun2socksCmd.Flags().StringVarP(&tun2socksOutput, "output", "o", "", "Write the config to a file instead of stdout")
	rootCmd.AddCommand(tun2socksCmd)
}
