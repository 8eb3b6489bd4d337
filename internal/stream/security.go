package stream

import (
	"fmt"

	"github.com/eprivalovdev/TunnelX/internal/link"
)

type TLSConfig struct {
	ServerName    string   `json:"serverName"`
	AllowInsecure bool     `json:"allowInsecure"`
	ALPN          []string `json:"alpn"`
	Fingerprint   string   `json:"fingerprint"`
}

type RealityConfig struct {
	ServerName  string `json:"serverName"`
	PublicKey   string `json:"publicKey"`
	ShortID     string `json:"shortId,omitempty"`
	SpiderX     string `json:"spiderX,omitempty"`
	Fingerprint string `json:"fingerprint"`
}

func (*TLSConfig) isSecurity() {}
func (*RealityConfig) isSecurity() {}

func guardSecurity(d *link.Descriptor, want link.Security) error {
	if d.Security != want {
		return fmt.Errorf("%w: expected %q, got %q", ErrInvalidSecurityType, want, d.Security)
	}
	return nil
}

// defaultALPN is announced when the link carries no alpn parameter.
var defaultALPN = []string{"h2", "http/1.1"}

func buildTLS(d *link.Descriptor) (*TLSConfig, error) {
	if err := guardSecurity(d, link.SecurityTLS); err != nil {
		return nil, err
	}
	name, err := serverName(d)
	if err != nil {
		return nil, err
	}
	fp, err := fingerprint(d)
	if err != nil {
		return nil, err
	}

	alpn := append([]string(nil), defaultALPN...)
	if raw, ok := d.Param("alpn"); ok {
		var filtered []string
		for _, tok := range splitList(raw) {
			if tok == "h2" || tok == "http/1.1" {
				filtered = append(filtered, tok)
			}
		}
		if len(filtered) > 0 {
			alpn = filtered
		}
	}

	return &TLSConfig{
		ServerName:    name,
		AllowInsecure: false,
		ALPN:          alpn,
		Fingerprint:   fp,
	}, nil
}

func buildReality(d *link.Descriptor) (*RealityConfig, error) {
	if err := guardSecurity(d, link.SecurityReality); err != nil {
		return nil, err
	}
	publicKey, err := d.RequiredParam("pbk", ErrMissingRealityPublicKey)
	if err != nil {
		return nil, err
	}
	name, err := serverName(d)
	if err != nil {
		return nil, err
	}
	fp, err := fingerprint(d)
	if err != nil {
		return nil, err
	}

	cfg := &RealityConfig{
		ServerName:  name,
		PublicKey:   publicKey,
		Fingerprint: fp,
	}
	if v, ok := d.Param("sid"); ok {
		cfg.ShortID = v
	}
	if v, ok := d.Param("spx"); ok {
		cfg.SpiderX = v
	}
	return cfg, nil
}
