package outbound

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eprivalovdev/TunnelX/internal/link"
)

func mustParse(t *testing.T, raw string) *link.Descriptor {
	t.Helper()
	d, err := link.Parse(raw)
	require.NoError(t, err)
	return d
}

func TestVLESSFromLink(t *testing.T) {
	d := mustParse(t, "vless://550e8400-e29b-41d4-a716-446655440000@example.com:443?type=ws&security=tls&path=/ws")

	s, err := FromLink(d)
	require.NoError(t, err)
	v, ok := s.(*VLESS)
	require.True(t, ok)
	assert.Equal(t, "example.com", v.Address)
	assert.Equal(t, 443, v.Port)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", v.ID)
	assert.Equal(t, "none", v.Flow)
	assert.Equal(t, "none", v.Encryption)
	assert.Equal(t, 0, v.Level)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"vnext": [{
			"address": "example.com",
			"port": 443,
			"users": [{"id": "550e8400-e29b-41d4-a716-446655440000", "encryption": "none", "level": 0}]
		}]
	}`, string(data))
}

func TestVLESSFromLink_Flow(t *testing.T) {
	d := mustParse(t, "vless://id@example.com:443?type=tcp&security=reality&pbk=k&flow=xtls-rprx-vision")

	s, err := FromLink(d)
	require.NoError(t, err)
	v := s.(*VLESS)
	assert.Equal(t, "xtls-rprx-vision", v.Flow)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"flow":"xtls-rprx-vision"`)
}

func TestVMessFromLink(t *testing.T) {
	d := mustParse(t, "vmess://cred-uuid@example.com:8443?type=ws&security=tls&scy=aes-128-gcm&aid=4&level=1")

	s, err := FromLink(d)
	require.NoError(t, err)
	v := s.(*VMess)
	assert.Equal(t, "example.com", v.Address)
	assert.Equal(t, 8443, v.Port)
	assert.Equal(t, "cred-uuid", v.ID)
	assert.Equal(t, 4, v.AlterID)
	assert.Equal(t, "aes-128-gcm", v.Security)
	assert.Equal(t, 1, v.Level)
}

func TestVMessFromLink_ParamOverrides(t *testing.T) {
	d := mustParse(t, "vmess://cred@fallback.com:443?type=tcp&security=none&address=real.com&port=8080&id=param-uuid&alterId=2")

	s, err := FromLink(d)
	require.NoError(t, err)
	v := s.(*VMess)
	assert.Equal(t, "real.com", v.Address)
	assert.Equal(t, 8080, v.Port)
	assert.Equal(t, "param-uuid", v.ID)
	assert.Equal(t, 2, v.AlterID)
	// No scy parameter: the cipher defaults to auto.
	assert.Equal(t, "auto", v.Security)
}

func TestVMess_MarshalShape(t *testing.T) {
	v := &VMess{Address: "a.com", Port: 1, ID: "u", Security: "auto"}
	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"vnext": [{
			"address": "a.com",
			"port": 1,
			"users": [{"id": "u", "alterId": 0, "security": "auto", "level": 0}]
		}]
	}`, string(data))
}

func TestTrojanFromLink(t *testing.T) {
	d := mustParse(t, "trojan://secret@host.com:443?type=tcp&security=tls")

	s, err := FromLink(d)
	require.NoError(t, err)
	tr := s.(*Trojan)
	assert.Equal(t, "host.com", tr.Address)
	assert.Equal(t, 443, tr.Port)
	assert.Equal(t, "secret", tr.Password)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"servers": [{"address": "host.com", "port": 443, "password": "secret", "level": 0}]
	}`, string(data))
}

func TestNewTrojan_PortSentinel(t *testing.T) {
	// The zero-port default is unreachable from parsed links (the parser
	// rejects port 0); it only applies to explicit construction.
	tr := NewTrojan("host.com", 0, "pw")
	assert.Equal(t, 443, tr.Port)

	tr = NewTrojan("host.com", 8443, "pw")
	assert.Equal(t, 8443, tr.Port)
}

func TestShadowsocksFromLink(t *testing.T) {
	d := mustParse(t, "ss://cred@server.net:9000?type=tcp&security=none&method=aes-256-gcm&password=pw&port=2222&uot=1&uot_version=2")

	s, err := FromLink(d)
	require.NoError(t, err)
	ss := s.(*Shadowsocks)
	assert.Equal(t, "server.net", ss.Address)
	// Port comes from the query parameter, not the link authority.
	assert.Equal(t, 2222, ss.Port)
	assert.Equal(t, "aes-256-gcm", ss.Method)
	assert.Equal(t, "pw", ss.Password)
	assert.True(t, ss.UoT)
	assert.Equal(t, 2, ss.UoTVersion)
}

func TestShadowsocksFromLink_Defaults(t *testing.T) {
	d := mustParse(t, "ss://cred@server.net:9000?type=tcp&security=none")

	s, err := FromLink(d)
	require.NoError(t, err)
	ss := s.(*Shadowsocks)
	assert.Equal(t, 8388, ss.Port)
	assert.Equal(t, "none", ss.Method)
	assert.Equal(t, "cred", ss.Password)
}

func TestShadowsocksFromLink_UnknownMethod(t *testing.T) {
	d := mustParse(t, "ss://cred@server.net:9000?type=tcp&security=none&method=rot13")

	s, err := FromLink(d)
	require.NoError(t, err)
	assert.Equal(t, "none", s.(*Shadowsocks).Method)
}

func TestWireGuardFromLink_Unsupported(t *testing.T) {
	d := mustParse(t, "wireguard://privkey@10.0.0.1:51820?type=tcp&security=none")

	_, err := FromLink(d)
	assert.ErrorIs(t, err, ErrWireGuardLink)
}

func TestWireGuard_MarshalShape(t *testing.T) {
	w := &WireGuard{
		SecretKey: "sk",
		Addresses: []string{"172.16.0.2/32"},
		Peers: []WireGuardPeer{{
			PublicKey: "pk",
			Endpoint:  "1.2.3.4:51820",
		}},
		MTU: 1420,
	}
	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"secretKey": "sk",
		"address": ["172.16.0.2/32"],
		"peers": [{"publicKey": "pk", "endpoint": "1.2.3.4:51820"}],
		"mtu": 1420
	}`, string(data))
}

func TestFreedom_Defaults(t *testing.T) {
	f := NewFreedom()
	data, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"domainStrategy": "asIs", "userLevel": 0}`, string(data))
}

func TestBlackhole_Responses(t *testing.T) {
	b := NewBlackhole()
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"response": {"type": "none"}}`, string(data))

	b.Response = "http"
	data, err = json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"response": {"type": "http"}}`, string(data))
}

func TestOutbound_MarshalJSON(t *testing.T) {
	o := &Outbound{Tag: "direct", Settings: NewFreedom()}
	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"tag": "direct",
		"protocol": "freedom",
		"settings": {"domainStrategy": "asIs", "userLevel": 0}
	}`, string(data))
}
