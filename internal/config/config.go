package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	GeoIP    GeoIPConfig    `yaml:"geoip"`
	Tunnel   TunnelConfig   `yaml:"tunnel"`
	Logs     LogsConfig     `yaml:"logs"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type GeoIPConfig struct {
	CountryPath string `yaml:"country_path"`
}

type TunnelConfig struct {
	// Binary is the external SOCKS5 tunnel executable.
	Binary   string `yaml:"binary"`
	SeedFile string `yaml:"seed_file"`
}

type LogsConfig struct {
	Access string `yaml:"access"`
	Error  string `yaml:"error"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	var cfg Config
	// Defaults
	cfg.Database.Path = "tunnelx.db"
	cfg.GeoIP.CountryPath = "GeoLite2-Country.mmdb"
	cfg.Tunnel.Binary = "hev-socks5-tunnel"

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	return &cfg, nil
}
