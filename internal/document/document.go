// Package document assembles full engine configuration documents
// around a single proxy outbound.
package document

import (
	"encoding/json"

	"github.com/eprivalovdev/TunnelX/internal/link"
	"github.com/eprivalovdev/TunnelX/internal/outbound"
	"github.com/eprivalovdev/TunnelX/internal/settings"
	"github.com/eprivalovdev/TunnelX/internal/stream"
)

// Tags of the three outbounds every assembled document carries.
const (
	TagProxy  = "proxy"
	TagDirect = "direct"
	TagBlock  = "block"
)

const socksInboundTag = "socks"

// LogConfig is the document's log section.
type LogConfig struct {
	Access   string `json:"access,omitempty"`
	Error    string `json:"error,omitempty"`
	Loglevel string `json:"loglevel"`
	DNSLog   bool   `json:"dnsLog"`
}

// SocksSettings configures the local no-auth listener.
type SocksSettings struct {
	Auth string `json:"auth"`
	UDP  bool   `json:"udp"`
}

// Inbound is a local listener entry.
type Inbound struct {
	Tag      string                   `json:"tag"`
	Listen   string                   `json:"listen"`
	Port     int                      `json:"port"`
	Protocol string                   `json:"protocol"`
	Settings SocksSettings            `json:"settings"`
	Sniffing *settings.SniffingConfig `json:"sniffing,omitempty"`
}

// Document is a complete engine configuration.
type Document struct {
	Log       LogConfig              `json:"log"`
	DNS       settings.DNSConfig     `json:"dns"`
	Routing   settings.RoutingConfig `json:"routing"`
	Inbounds  []Inbound              `json:"inbounds"`
	Outbounds []*outbound.Outbound   `json:"outbounds"`
}

// FromLink parses nothing itself; the descriptor is already
// validated. It builds the proxy outbound with its stream settings
// and wraps it in an augmented document.
func FromLink(d *link.Descriptor, snap settings.Snapshot) (*Document, error) {
	set, err := outbound.FromLink(d)
	if err != nil {
		return nil, err
	}
	st, err := stream.Compose(d)
	if err != nil {
		return nil, err
	}
	return FromOutbound(&outbound.Outbound{Tag: TagProxy, Settings: set, Stream: st}, snap), nil
}

// FromOutbound assembles an augmented document around the given
// outbound, re-tagging it as the proxy entry.
func FromOutbound(o *outbound.Outbound, snap settings.Snapshot) *Document {
	o.Tag = TagProxy

	snap = snap.Clone()
	rules := snap.Routing.Rules
	for i := range rules {
		if len(rules[i].InboundTag) == 0 {
			rules[i].InboundTag = []string{socksInboundTag}
		}
	}

	sniffing := snap.Sniffing
	doc := &Document{
		Log: LogConfig{
			Access:   snap.LogPaths.Access,
			Error:    snap.LogPaths.Error,
			Loglevel: snap.LogLevel,
			DNSLog:   snap.DNSLogEnabled,
		},
		DNS: snap.DNS,
		Routing: settings.RoutingConfig{
			DomainStrategy: snap.Routing.DomainStrategy,
			Rules:          rules,
		},
		Inbounds: []Inbound{{
			Tag:      socksInboundTag,
			Listen:   snap.TunnelAddress,
			Port:     snap.SocksPort,
			Protocol: "socks",
			Settings: SocksSettings{Auth: "noauth", UDP: true},
			Sniffing: &sniffing,
		}},
		Outbounds: []*outbound.Outbound{
			o,
			{Tag: TagDirect, Settings: outbound.NewFreedom()},
			{Tag: TagBlock, Settings: outbound.NewBlackhole()},
		},
	}
	return doc
}

// Tree re-encodes the document as a generic JSON tree so schema
// agnostic passes can walk it.
func (d *Document) Tree() (any, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return tree, nil
}
