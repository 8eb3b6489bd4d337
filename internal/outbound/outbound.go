// Package outbound builds the protocol-specific settings of an outbound
// entry. Each protocol serializes to its own JSON shape: vless/vmess wrap
// their server in "vnext", trojan/shadowsocks in "servers", and the
// remaining protocols encode their settings object directly.
package outbound

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/eprivalovdev/TunnelX/internal/link"
	"github.com/eprivalovdev/TunnelX/internal/stream"
)

// ErrWireGuardLink is returned when a wireguard outbound is requested from a
// share link: only explicit construction is supported for wireguard.
var ErrWireGuardLink = errors.New("wireguard outbounds cannot be built from a share link")

// Settings is the closed set of protocol settings variants.
type Settings interface {
	json.Marshaler

	// Name returns the protocol tag the engine dispatches on.
	Name() string

	isSettings()
}

// Outbound is one named outbound entry of a configuration document.
type Outbound struct {
	Tag      string
	Settings Settings
	Stream   *stream.Settings
}

func (o *Outbound) MarshalJSON() ([]byte, error) {
	type entry struct {
		Tag            string           `json:"tag"`
		Protocol       string           `json:"protocol"`
		Settings       Settings         `json:"settings"`
		StreamSettings *stream.Settings `json:"streamSettings,omitempty"`
	}
	return json.Marshal(entry{
		Tag:            o.Tag,
		Protocol:       o.Settings.Name(),
		Settings:       o.Settings,
		StreamSettings: o.Stream,
	})
}

// FromLink builds the protocol settings for a parsed share link.
func FromLink(d *link.Descriptor) (Settings, error) {
	switch d.Protocol {
	case link.ProtocolVLESS:
		return vlessFromLink(d)
	case link.ProtocolVMess:
		return vmessFromLink(d)
	case link.ProtocolTrojan:
		return trojanFromLink(d)
	case link.ProtocolShadowsocks:
		return shadowsocksFromLink(d)
	case link.ProtocolWireGuard:
		return nil, ErrWireGuardLink
	default:
		return nil, fmt.Errorf("%w: %q", link.ErrUnsupportedProtocol, d.Protocol)
	}
}
