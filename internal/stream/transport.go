package stream

import (
	"fmt"

	"github.com/eprivalovdev/TunnelX/internal/link"
)

// Header is the obfuscation header carried by several transports.
type Header struct {
	Type string `json:"type"`
}

// TCPConfig covers both the tcp and raw transports: no parameters, fixed
// minimal header.
type TCPConfig struct {
	Header Header `json:"header"`
}

type WebSocketConfig struct {
	Path    string            `json:"path"`
	Host    string            `json:"host,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

type GRPCConfig struct {
	ServiceName        string `json:"serviceName,omitempty"`
	Authority          string `json:"authority,omitempty"`
	MultiMode          bool   `json:"multiMode,omitempty"`
	IdleTimeout        int    `json:"idle_timeout,omitempty"`
	HealthCheckTimeout int    `json:"health_check_timeout,omitempty"`
	InitialWindowsSize int    `json:"initial_windows_size,omitempty"`
}

type KCPConfig struct {
	MTU              int    `json:"mtu,omitempty"`
	TTI              int    `json:"tti,omitempty"`
	UplinkCapacity   int    `json:"uplinkCapacity,omitempty"`
	DownlinkCapacity int    `json:"downlinkCapacity,omitempty"`
	Congestion       bool   `json:"congestion,omitempty"`
	ReadBufferSize   int    `json:"readBufferSize,omitempty"`
	WriteBufferSize  int    `json:"writeBufferSize,omitempty"`
	Header           Header `json:"header"`
	Seed             string `json:"seed,omitempty"`
}

type QUICConfig struct {
	Security string `json:"security"`
	Key      string `json:"key,omitempty"`
	Header   Header `json:"header"`
}

type HTTPConfig struct {
	Host    []string          `json:"host,omitempty"`
	Path    string            `json:"path,omitempty"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

type HTTPUpgradeConfig struct {
	Path string `json:"path,omitempty"`
	Host string `json:"host,omitempty"`
}

type XHTTPConfig struct {
	Mode string `json:"mode"`
	Path string `json:"path"`
}

func (*TCPConfig) isTransport() {}
func (*WebSocketConfig) isTransport() {}
func (*GRPCConfig) isTransport() {}
func (*KCPConfig) isTransport() {}
func (*QUICConfig) isTransport() {}
func (*HTTPConfig) isTransport() {}
func (*HTTPUpgradeConfig) isTransport() {}
func (*XHTTPConfig) isTransport() {}

// guardNetwork is a self-consistency check: a sub-builder refuses a
// descriptor whose network tag does not match what it was asked to build.
func guardNetwork(d *link.Descriptor, want ...link.Network) error {
	for _, w := range want {
		if d.Network == w {
			return nil
		}
	}
	return fmt.Errorf("%w: expected %v, got %q", ErrInvalidNetworkType, want, d.Network)
}

func buildTCP(d *link.Descriptor) (*TCPConfig, error) {
	if err := guardNetwork(d, link.NetworkTCP, link.NetworkRaw); err != nil {
		return nil, err
	}
	return &TCPConfig{Header: Header{Type: "none"}}, nil
}

func buildWebSocket(d *link.Descriptor) (*WebSocketConfig, error) {
	if err := guardNetwork(d, link.NetworkWS); err != nil {
		return nil, err
	}
	cfg := &WebSocketConfig{Path: "/"}
	if v, ok := d.Param("path"); ok {
		cfg.Path = v
	}
	if v, ok := d.Param("host"); ok {
		cfg.Host = v
	}
	if v, ok := d.Param("headers"); ok {
		cfg.Headers = parseHeaders(v)
	}
	return cfg, nil
}

func buildGRPC(d *link.Descriptor) (*GRPCConfig, error) {
	if err := guardNetwork(d, link.NetworkGRPC); err != nil {
		return nil, err
	}
	cfg := &GRPCConfig{
		MultiMode:          d.BoolParam("multiMode"),
		IdleTimeout:        d.IntParam("idle_timeout", 0),
		HealthCheckTimeout: d.IntParam("health_check_timeout", 0),
		InitialWindowsSize: d.IntParam("initial_windows_size", 0),
	}
	if v, ok := d.Param("serviceName"); ok {
		cfg.ServiceName = v
	}
	if v, ok := d.Param("authority"); ok {
		cfg.Authority = v
	}
	return cfg, nil
}

func buildKCP(d *link.Descriptor) (*KCPConfig, error) {
	if err := guardNetwork(d, link.NetworkKCP); err != nil {
		return nil, err
	}
	cfg := &KCPConfig{
		MTU:              d.IntParam("mtu", 0),
		TTI:              d.IntParam("tti", 0),
		UplinkCapacity:   d.IntParam("uplinkCapacity", 0),
		DownlinkCapacity: d.IntParam("downlinkCapacity", 0),
		Congestion:       d.BoolParam("congestion"),
		ReadBufferSize:   d.IntParam("readBufferSize", 0),
		WriteBufferSize:  d.IntParam("writeBufferSize", 0),
		Header:           Header{Type: "none"},
	}
	if v, ok := d.Param("headerType"); ok {
		cfg.Header.Type = v
	}
	if v, ok := d.Param("seed"); ok {
		cfg.Seed = v
	}
	return cfg, nil
}

func buildQUIC(d *link.Descriptor) (*QUICConfig, error) {
	if err := guardNetwork(d, link.NetworkQUIC); err != nil {
		return nil, err
	}
	cfg := &QUICConfig{
		Security: "none",
		Header:   Header{Type: "none"},
	}
	if v, ok := d.Param("quicSecurity"); ok {
		cfg.Security = v
	}
	if v, ok := d.Param("key"); ok {
		cfg.Key = v
	}
	if v, ok := d.Param("headerType"); ok {
		cfg.Header.Type = v
	}
	return cfg, nil
}

func buildHTTP(d *link.Descriptor) (*HTTPConfig, error) {
	if err := guardNetwork(d, link.NetworkHTTP); err != nil {
		return nil, err
	}
	cfg := &HTTPConfig{}
	if v, ok := d.Param("host"); ok {
		cfg.Host = splitList(v)
	}
	if v, ok := d.Param("path"); ok {
		cfg.Path = v
	}
	if v, ok := d.Param("method"); ok {
		cfg.Method = v
	}
	if v, ok := d.Param("headers"); ok {
		cfg.Headers = parseHeaders(v)
	}
	return cfg, nil
}

func buildHTTPUpgrade(d *link.Descriptor) (*HTTPUpgradeConfig, error) {
	if err := guardNetwork(d, link.NetworkHTTPUpgrade); err != nil {
		return nil, err
	}
	cfg := &HTTPUpgradeConfig{}
	if v, ok := d.Param("path"); ok {
		cfg.Path = v
	}
	if v, ok := d.Param("host"); ok {
		cfg.Host = v
	}
	return cfg, nil
}

func buildXHTTP(d *link.Descriptor) (*XHTTPConfig, error) {
	if err := guardNetwork(d, link.NetworkXHTTP); err != nil {
		return nil, err
	}
	cfg := &XHTTPConfig{Mode: "auto", Path: "/"}
	if v, ok := d.Param("mode"); ok {
		cfg.Mode = v
	}
	if v, ok := d.Param("path"); ok {
		cfg.Path = v
	}
	return cfg, nil
}
