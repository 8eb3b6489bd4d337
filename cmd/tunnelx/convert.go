package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/eprivalovdev/TunnelX/internal/builder"
	"github.com/eprivalovdev/TunnelX/internal/config"
	"github.com/eprivalovdev/TunnelX/internal/logger"
)

var convertOutDir string

var convertCmd = &cobra.Command{
	Use:   "convert <links-file>",
	Short: "Build configs for every share link in a file",
	Long:  `Reads one share link per line (blank lines and # comments are skipped) and writes one config JSON per link into the output directory.`,
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

		links, err := readLinks(args[0])
		if err != nil {
			logger.Log.Fatalf("Error reading links file: %v", err)
		}
		if len(links) == 0 {
			logger.Log.Warn("No links found in input file.")
			return
		}

		if err := os.MkdirAll(convertOutDir, 0755); err != nil {
			logger.Log.Fatalf("Error creating output directory: %v", err)
		}

		bar := progressbar.NewOptions(len(links),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(15),
			progressbar.OptionSetDescription("[cyan]Converting...[reset]"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)

		var failed int
		for i, raw := range links {
			data, _, err := b.Build(builder.LinkSource(raw))
			if err != nil {
				logger.Log.Debugf("Skipping link %d: %v", i+1, err)
				failed++
				bar.Add(1)
				continue
			}
			out := filepath.Join(convertOutDir, fmt.Sprintf("config_%03d.json", i+1))
			if err := os.WriteFile(out, data, 0644); err != nil {
				logger.Log.Fatalf("Error writing %s: %v", out, err)
			}
			bar.Add(1)
		}
		bar.Finish()
		fmt.Fprintln(os.Stderr)

		logger.Log.Infof("Converted %d/%d links into %s", len(links)-failed, len(links), convertOutDir)
	},
}

func readLinks(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var links []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		links = append(links, line)
	}
	return links, scanner.Err()
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutDir, "out-dir", "d", "configs", "Directory for the generated config files")
	rootCmd.AddCommand(convertCmd)
}
