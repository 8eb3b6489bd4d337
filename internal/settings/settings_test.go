package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	return s
}

func TestRule_MarshalOmitsEmptyMatchers(t *testing.T) {
	r := NewRule("proxy")
	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "field", "outboundTag": "proxy"}`, string(data))

	r.Domain = []string{"geosite:category-ads"}
	data, err = json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "field", "domain": ["geosite:category-ads"], "outboundTag": "proxy"}`, string(data))
}

func TestSnapshot_Clone(t *testing.T) {
	snap := Default()
	snap.Routing.Rules = []Rule{NewRule("direct")}
	snap.Routing.Rules[0].Domain = []string{"example.com"}

	clone := snap.Clone()
	clone.DNS.Servers[0] = "9.9.9.9"
	clone.Routing.Rules[0].Domain[0] = "other.com"
	clone.Routing.Rules[0].InboundTag = []string{"socks"}

	assert.Equal(t, "1.1.1.1", snap.DNS.Servers[0])
	assert.Equal(t, "example.com", snap.Routing.Rules[0].Domain[0])
	assert.Nil(t, snap.Routing.Rules[0].InboundTag)
}

func TestStore_SnapshotDefaults(t *testing.T) {
	s := openTestStore(t)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, Default(), snap)
}

func TestStore_SaveRoundTrip(t *testing.T) {
	s := openTestStore(t)

	want := Default()
	want.TunnelAddress = "0.0.0.0"
	want.SocksPort = 1080
	want.LogLevel = "debug"
	want.DNSLogEnabled = true
	rule := NewRule("block")
	rule.Domain = []string{"geosite:category-ads-all"}
	want.Routing.Rules = append(want.Routing.Rules, rule)

	require.NoError(t, s.Save(want))

	got, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_SeedFromYAML(t *testing.T) {
	s := openTestStore(t)

	seed := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(seed, []byte(`
tunnel_address: 10.0.0.1
log_level: info
dns:
  servers: ["9.9.9.9"]
  query_strategy: UseIPv4
`), 0o644))

	require.NoError(t, s.SeedFromYAML(seed))

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", snap.TunnelAddress)
	assert.Equal(t, "info", snap.LogLevel)
	assert.Equal(t, []string{"9.9.9.9"}, snap.DNS.Servers)
	// Fields absent from the seed keep their stored values.
	assert.Equal(t, Default().SocksPort, snap.SocksPort)
	assert.Equal(t, Default().Sniffing, snap.Sniffing)
}
