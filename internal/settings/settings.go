// Package settings holds the user preferences that shape generated
// configuration documents. Values live in a small sqlite key-value
// store; Snapshot is the read-side view the builder consumes.
package settings

import "encoding/json"

// Rule is a single routing rule. Only non-empty matchers are emitted.
type Rule struct {
	Type        string   `json:"type" yaml:"type"`
	Domain      []string `json:"domain,omitempty" yaml:"domain"`
	IP          []string `json:"ip,omitempty" yaml:"ip"`
	Port        string   `json:"port,omitempty" yaml:"port"`
	Network     string   `json:"network,omitempty" yaml:"network"`
	Source      []string `json:"source,omitempty" yaml:"source"`
	User        []string `json:"user,omitempty" yaml:"user"`
	Protocol    []string `json:"protocol,omitempty" yaml:"protocol"`
	InboundTag  []string `json:"inboundTag,omitempty" yaml:"inbound_tag"`
	OutboundTag string   `json:"outboundTag,omitempty" yaml:"outbound_tag"`
}

// NewRule returns a rule routed to the given outbound tag. Rules
// always carry type "field"; the engine ignores anything else.
func NewRule(outboundTag string) Rule {
	return Rule{Type: "field", OutboundTag: outboundTag}
}

// RoutingConfig orders rules first-match-wins.
type RoutingConfig struct {
	DomainStrategy string `json:"domainStrategy" yaml:"domain_strategy"`
	Rules          []Rule `json:"rules" yaml:"rules"`
}

// DNSConfig feeds the document's dns section.
type DNSConfig struct {
	Servers       []string `json:"servers" yaml:"servers"`
	QueryStrategy string   `json:"queryStrategy,omitempty" yaml:"query_strategy"`
}

// SniffingConfig controls destination sniffing on the local inbound.
type SniffingConfig struct {
	Enabled         bool     `json:"enabled"`
	DestOverride    []string `json:"destOverride,omitempty"`
	MetadataOnly    bool     `json:"metadataOnly,omitempty"`
	RouteOnly       bool     `json:"routeOnly,omitempty"`
	DomainsExcluded []string `json:"domainsExcluded,omitempty"`
}

// LogPaths names the files the engine writes its logs to. Empty
// values mean stdout.
type LogPaths struct {
	Access string `yaml:"access"`
	Error  string `yaml:"error"`
}

// Snapshot is an immutable view of every preference the document
// assembler reads. It is taken once per build so a concurrent
// settings write cannot produce a half-updated document.
type Snapshot struct {
	TunnelAddress string
	SocksPort     int
	DNS           DNSConfig
	Routing       RoutingConfig
	Sniffing      SniffingConfig
	LogLevel      string
	DNSLogEnabled bool
	LogPaths      LogPaths
}

// Clone deep-copies the snapshot so callers can mutate rule slices
// without touching the store's cached defaults.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.DNS.Servers = append([]string(nil), s.DNS.Servers...)
	out.Sniffing.DestOverride = append([]string(nil), s.Sniffing.DestOverride...)
	out.Sniffing.DomainsExcluded = append([]string(nil), s.Sniffing.DomainsExcluded...)
	out.Routing.Rules = make([]Rule, len(s.Routing.Rules))
	for i, r := range s.Routing.Rules {
		cp := r
		cp.Domain = append([]string(nil), r.Domain...)
		cp.IP = append([]string(nil), r.IP...)
		cp.Source = append([]string(nil), r.Source...)
		cp.User = append([]string(nil), r.User...)
		cp.Protocol = append([]string(nil), r.Protocol...)
		cp.InboundTag = append([]string(nil), r.InboundTag...)
		out.Routing.Rules[i] = cp
	}
	return out
}

// Default returns the snapshot used when the store holds no
// overrides. The tunnel listens on loopback and everything routes
// through the proxy.
func Default() Snapshot {
	return Snapshot{
		TunnelAddress: "127.0.0.1",
		SocksPort:     10808,
		DNS: DNSConfig{
			Servers:       []string{"1.1.1.1", "8.8.8.8"},
			QueryStrategy: "UseIP",
		},
		Routing: RoutingConfig{
			DomainStrategy: "IPIfNonMatch",
			Rules:          nil,
		},
		Sniffing: SniffingConfig{
			Enabled:      true,
			DestOverride: []string{"http", "tls"},
			RouteOnly:    false,
		},
		LogLevel:      "warning",
		DNSLogEnabled: false,
	}
}

func marshalValue(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalValue(raw string, v any) error {
	return json.Unmarshal([]byte(raw), v)
}
