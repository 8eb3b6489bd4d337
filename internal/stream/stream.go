// Package stream composes the transport and security halves of an outbound's
// stream settings from a parsed share link.
package stream

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eprivalovdev/TunnelX/internal/link"
)

// Transport is the closed set of transport settings variants.
type Transport interface{ isTransport() }

// SecurityConfig is the closed set of security settings variants. A nil
// SecurityConfig means "none".
type SecurityConfig interface{ isSecurity() }

// Settings pairs one transport variant with one security variant.
type Settings struct {
	Network        link.Network
	Security       link.Security
	Transport      Transport
	SecurityConfig SecurityConfig
}

// MarshalJSON emits the engine's streamSettings object: network and security
// tags plus exactly one per-transport settings key and at most one security
// settings key.
func (s *Settings) MarshalJSON() ([]byte, error) {
	doc := map[string]interface{}{
		"network":  string(s.Network),
		"security": string(s.Security),
	}

	switch t := s.Transport.(type) {
	case *TCPConfig:
		if s.Network == link.NetworkRaw {
			doc["rawSettings"] = t
		} else {
			doc["tcpSettings"] = t
		}
	case *WebSocketConfig:
		doc["wsSettings"] = t
	case *GRPCConfig:
		doc["grpcSettings"] = t
	case *KCPConfig:
		doc["kcpSettings"] = t
	case *QUICConfig:
		doc["quicSettings"] = t
	case *HTTPConfig:
		doc["httpSettings"] = t
	case *HTTPUpgradeConfig:
		doc["httpupgradeSettings"] = t
	case *XHTTPConfig:
		doc["xhttpSettings"] = t
	case nil:
	default:
		return nil, fmt.Errorf("unhandled transport variant %T", t)
	}

	switch sec := s.SecurityConfig.(type) {
	case *TLSConfig:
		doc["tlsSettings"] = sec
	case *RealityConfig:
		doc["realitySettings"] = sec
	case nil:
	default:
		return nil, fmt.Errorf("unhandled security variant %T", sec)
	}

	return json.Marshal(doc)
}

// Compose builds the stream settings for a descriptor, selecting the
// transport by its network tag and the security layer by its security tag.
func Compose(d *link.Descriptor) (*Settings, error) {
	var (
		transport Transport
		err       error
	)
	switch d.Network {
	case link.NetworkTCP, link.NetworkRaw:
		transport, err = buildTCP(d)
	case link.NetworkWS:
		transport, err = buildWebSocket(d)
	case link.NetworkGRPC:
		transport, err = buildGRPC(d)
	case link.NetworkKCP:
		transport, err = buildKCP(d)
	case link.NetworkQUIC:
		transport, err = buildQUIC(d)
	case link.NetworkHTTP:
		transport, err = buildHTTP(d)
	case link.NetworkHTTPUpgrade:
		transport, err = buildHTTPUpgrade(d)
	case link.NetworkXHTTP:
		transport, err = buildXHTTP(d)
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidNetworkType, d.Network)
	}
	if err != nil {
		return nil, err
	}

	var security SecurityConfig
	switch d.Security {
	case link.SecurityNone:
	case link.SecurityTLS:
		security, err = buildTLS(d)
	case link.SecurityReality:
		security, err = buildReality(d)
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidSecurityType, d.Security)
	}
	if err != nil {
		return nil, err
	}

	return &Settings{
		Network:        d.Network,
		Security:       d.Security,
		Transport:      transport,
		SecurityConfig: security,
	}, nil
}

// serverName applies the SNI rule: an explicit sni parameter wins, otherwise
// the link host is announced.
func serverName(d *link.Descriptor) (string, error) {
	if v, ok := d.Param("sni"); ok {
		if v == "" {
			return "", fmt.Errorf("%w in link for %s", ErrMissingSNI, d.Host)
		}
		return v, nil
	}
	return d.Host, nil
}

var knownFingerprints = map[string]bool{
	"chrome":     true,
	"firefox":    true,
	"safari":     true,
	"ios":        true,
	"android":    true,
	"edge":       true,
	"360":        true,
	"qq":         true,
	"random":     true,
	"randomized": true,
}

// fingerprint applies the fingerprint rule: absent defaults to "chrome",
// present must be a known token.
func fingerprint(d *link.Descriptor) (string, error) {
	v, ok := d.Param("fp")
	if !ok {
		return "chrome", nil
	}
	if !knownFingerprints[v] {
		return "", fmt.Errorf("%w: %q", ErrInvalidFingerprint, v)
	}
	return v, nil
}

// parseHeaders parses the "K1:V1|K2:V2" header grammar. Keys and values are
// trimmed; entries without a colon are skipped.
func parseHeaders(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	headers := make(map[string]string)
	for _, pair := range strings.Split(raw, "|") {
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key != "" {
			headers[key] = value
		}
	}
	if len(headers) == 0 {
		return nil
	}
	return headers
}

// splitList splits a comma-separated parameter into trimmed non-empty tokens.
func splitList(raw string) []string {
	var out []string
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
