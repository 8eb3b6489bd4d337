package link

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Protocol identifies a supported proxy protocol scheme.
type Protocol string

const (
	ProtocolVLESS       Protocol = "vless"
	ProtocolVMess       Protocol = "vmess"
	ProtocolTrojan      Protocol = "trojan"
	ProtocolShadowsocks Protocol = "shadowsocks"
	ProtocolWireGuard   Protocol = "wireguard"
)

// Network identifies a stream transport.
type Network string

const (
	NetworkTCP         Network = "tcp"
	NetworkRaw         Network = "raw"
	NetworkWS          Network = "ws"
	NetworkGRPC        Network = "grpc"
	NetworkKCP         Network = "kcp"
	NetworkQUIC        Network = "quic"
	NetworkHTTP        Network = "http"
	NetworkHTTPUpgrade Network = "httpupgrade"
	NetworkXHTTP       Network = "xhttp"
)

// Security identifies a stream security layer.
type Security string

const (
	SecurityNone    Security = "none"
	SecurityTLS     Security = "tls"
	SecurityReality Security = "reality"
)

var schemes = map[string]Protocol{
	"vless":       ProtocolVLESS,
	"vmess":       ProtocolVMess,
	"trojan":      ProtocolTrojan,
	"ss":          ProtocolShadowsocks,
	"shadowsocks": ProtocolShadowsocks,
	"wireguard":   ProtocolWireGuard,
}

var networks = map[string]Network{
	"tcp":         NetworkTCP,
	"raw":         NetworkRaw,
	"ws":          NetworkWS,
	"grpc":        NetworkGRPC,
	"kcp":         NetworkKCP,
	"quic":        NetworkQUIC,
	"http":        NetworkHTTP,
	"h2":          NetworkHTTP,
	"httpupgrade": NetworkHTTPUpgrade,
	"xhttp":       NetworkXHTTP,
	"splithttp":   NetworkXHTTP,
}

var securities = map[string]Security{
	"none":    SecurityNone,
	"tls":     SecurityTLS,
	"reality": SecurityReality,
}

// Descriptor is the normalized form of a share link. It is created once per
// Parse call and never mutated afterwards, so it is safe for concurrent reads.
type Descriptor struct {
	Protocol   Protocol
	Credential string
	Host       string
	Port       int
	Network    Network
	Security   Security
	Fragment   string

	params map[string]string
}

// Parse validates a share link and normalizes it into a Descriptor.
// Validation stops at the first failing step.
func Parse(raw string) (*Descriptor, error) {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || !strings.Contains(raw, "://") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, raw)
	}

	proto, ok := schemes[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProtocol, u.Scheme)
	}

	credential := ""
	if u.User != nil {
		credential = u.User.String()
	}
	if credential == "" {
		return nil, fmt.Errorf("%w in %q", ErrMissingUserID, raw)
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w in %q", ErrMissingHost, raw)
	}

	port, err := strconv.Atoi(u.Port())
	if err != nil || port < 1 || port > 65535 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPort, u.Port())
	}

	params := make(map[string]string)
	for key, values := range u.Query() {
		// Last duplicate wins; empty values are dropped.
		for i := len(values) - 1; i >= 0; i-- {
			if values[i] != "" {
				params[key] = values[i]
				break
			}
		}
	}

	network, ok := networks[params["type"]]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingNetworkType, params["type"])
	}

	security, ok := securities[params["security"]]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingSecurityType, params["security"])
	}

	return &Descriptor{
		Protocol:   proto,
		Credential: credential,
		Host:       host,
		Port:       port,
		Network:    network,
		Security:   security,
		Fragment:   u.Fragment,
		params:     params,
	}, nil
}

// Param returns the value of a query parameter. Values are percent-decoded
// and never empty: empty values are dropped at parse time.
func (d *Descriptor) Param(key string) (string, bool) {
	v, ok := d.params[key]
	return v, ok
}

// RequiredParam returns the value of a query parameter, or the supplied
// error when the parameter is absent.
func (d *Descriptor) RequiredParam(key string, missing error) (string, error) {
	v, ok := d.params[key]
	if !ok || v == "" {
		if missing == nil {
			missing = ErrMissingParameter
		}
		return "", fmt.Errorf("%w: %q", missing, key)
	}
	return v, nil
}

// IntParam returns a query parameter parsed as an integer, or fallback when
// the parameter is absent or not a number.
func (d *Descriptor) IntParam(key string, fallback int) int {
	v, ok := d.params[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// BoolParam applies the loose boolean coercion used across share-link
// dialects: case-insensitive "1", "true" and "yes" are true, everything
// else (including an absent parameter) is false.
func (d *Descriptor) BoolParam(key string) bool {
	switch strings.ToLower(d.params[key]) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// ParamCount reports the number of retained query parameters.
func (d *Descriptor) ParamCount() int { return len(d.params) }
