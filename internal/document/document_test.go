package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eprivalovdev/TunnelX/internal/link"
	"github.com/eprivalovdev/TunnelX/internal/outbound"
	"github.com/eprivalovdev/TunnelX/internal/settings"
)

func TestFromLink(t *testing.T) {
	d, err := link.Parse("vless://550e8400-e29b-41d4-a716-446655440000@example.com:443?type=ws&security=tls&path=/ws")
	require.NoError(t, err)

	doc, err := FromLink(d, settings.Default())
	require.NoError(t, err)

	require.Len(t, doc.Outbounds, 3)
	assert.Equal(t, TagProxy, doc.Outbounds[0].Tag)
	assert.Equal(t, TagDirect, doc.Outbounds[1].Tag)
	assert.Equal(t, TagBlock, doc.Outbounds[2].Tag)
	assert.Equal(t, "vless", doc.Outbounds[0].Settings.Name())
	require.NotNil(t, doc.Outbounds[0].Stream)
	assert.Equal(t, "ws", string(doc.Outbounds[0].Stream.Network))
}

func TestFromLink_BuilderErrorsPropagate(t *testing.T) {
	d, err := link.Parse("wireguard://key@10.0.0.1:51820?type=tcp&security=none")
	require.NoError(t, err)

	_, err = FromLink(d, settings.Default())
	assert.ErrorIs(t, err, outbound.ErrWireGuardLink)
}

func TestFromOutbound_Augmentation(t *testing.T) {
	snap := settings.Default()
	snap.TunnelAddress = "10.8.0.1"
	snap.LogLevel = "debug"
	snap.DNSLogEnabled = true
	snap.LogPaths = settings.LogPaths{Access: "/var/log/access.log", Error: "/var/log/error.log"}

	plain := settings.NewRule(TagDirect)
	plain.Domain = []string{"geosite:private"}
	tagged := settings.NewRule(TagBlock)
	tagged.InboundTag = []string{"api"}
	snap.Routing.Rules = []settings.Rule{plain, tagged}

	doc := FromOutbound(&outbound.Outbound{Tag: "whatever", Settings: outbound.NewFreedom()}, snap)

	assert.Equal(t, TagProxy, doc.Outbounds[0].Tag)

	require.Len(t, doc.Routing.Rules, 2)
	assert.Equal(t, []string{"socks"}, doc.Routing.Rules[0].InboundTag)
	assert.Equal(t, []string{"api"}, doc.Routing.Rules[1].InboundTag)
	// The caller's snapshot is left untouched.
	assert.Nil(t, snap.Routing.Rules[0].InboundTag)

	require.Len(t, doc.Inbounds, 1)
	in := doc.Inbounds[0]
	assert.Equal(t, "socks", in.Tag)
	assert.Equal(t, "10.8.0.1", in.Listen)
	assert.Equal(t, 10808, in.Port)
	assert.Equal(t, "socks", in.Protocol)
	assert.Equal(t, SocksSettings{Auth: "noauth", UDP: true}, in.Settings)
	require.NotNil(t, in.Sniffing)
	assert.True(t, in.Sniffing.Enabled)

	assert.Equal(t, "/var/log/access.log", doc.Log.Access)
	assert.Equal(t, "/var/log/error.log", doc.Log.Error)
	assert.Equal(t, "debug", doc.Log.Loglevel)
	assert.True(t, doc.Log.DNSLog)
}

func TestDocument_TopLevelKeys(t *testing.T) {
	doc := FromOutbound(&outbound.Outbound{Settings: outbound.NewFreedom()}, settings.Default())

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &top))
	for _, key := range []string{"log", "dns", "routing", "inbounds", "outbounds"} {
		assert.Contains(t, top, key)
	}
}

func TestDocument_Tree(t *testing.T) {
	doc := FromOutbound(&outbound.Outbound{Settings: outbound.NewFreedom()}, settings.Default())

	tree, err := doc.Tree()
	require.NoError(t, err)

	m, ok := tree.(map[string]any)
	require.True(t, ok)
	outs, ok := m["outbounds"].([]any)
	require.True(t, ok)
	assert.Len(t, outs, 3)
}
