package outbound

import (
	"encoding/json"
	"fmt"

	"github.com/eprivalovdev/TunnelX/internal/link"
)

// VLESS carries one server with a single user.
type VLESS struct {
	Address    string
	Port       int
	ID         string
	Flow       string
	Encryption string
	Level      int
}

func (*VLESS) isSettings() {}
func (v *VLESS) Name() string { return "vless" }

func vlessFromLink(d *link.Descriptor) (*VLESS, error) {
	if d.Credential == "" {
		return nil, fmt.Errorf("%w for vless link", link.ErrMissingUserID)
	}
	flow := "none"
	if v, ok := d.Param("flow"); ok {
		flow = v
	}
	return &VLESS{
		Address:    d.Host,
		Port:       d.Port,
		ID:         d.Credential,
		Flow:       flow,
		Encryption: "none",
		Level:      d.IntParam("level", 0),
	}, nil
}

func (v *VLESS) MarshalJSON() ([]byte, error) {
	type user struct {
		ID         string `json:"id"`
		Flow       string `json:"flow,omitempty"`
		Encryption string `json:"encryption"`
		Level      int    `json:"level"`
	}
	type server struct {
		Address string `json:"address"`
		Port    int    `json:"port"`
		Users   []user `json:"users"`
	}

	u := user{ID: v.ID, Encryption: v.Encryption, Level: v.Level}
	if v.Flow != "" && v.Flow != "none" {
		u.Flow = v.Flow
	}
	return json.Marshal(map[string][]server{
		"vnext": {{Address: v.Address, Port: v.Port, Users: []user{u}}},
	})
}

// VMess carries one server with a single user.
type VMess struct {
	Address  string
	Port     int
	ID       string
	AlterID  int
	Security string
	Level    int
}

func (*VMess) isSettings() {}
func (v *VMess) Name() string { return "vmess" }

func vmessFromLink(d *link.Descriptor) (*VMess, error) {
	id := d.Credential
	if v, ok := d.Param("id"); ok {
		id = v
	} else if v, ok := d.Param("uuid"); ok {
		id = v
	}
	if id == "" {
		return nil, fmt.Errorf("%w for vmess link", link.ErrMissingUserID)
	}

	address := d.Host
	if v, ok := d.Param("address"); ok {
		address = v
	}

	alterID := d.IntParam("alterId", d.IntParam("aid", 0))

	// The "security" query key is consumed by the stream layer, so the
	// cipher only travels as "scy" in practice.
	method := "auto"
	if v, ok := d.Param("scy"); ok {
		method = v
	}

	return &VMess{
		Address:  address,
		Port:     d.IntParam("port", d.Port),
		ID:       id,
		AlterID:  alterID,
		Security: method,
		Level:    d.IntParam("level", 0),
	}, nil
}

func (v *VMess) MarshalJSON() ([]byte, error) {
	type user struct {
		ID       string `json:"id"`
		AlterID  int    `json:"alterId"`
		Security string `json:"security"`
		Level    int    `json:"level"`
	}
	type server struct {
		Address string `json:"address"`
		Port    int    `json:"port"`
		Users   []user `json:"users"`
	}
	return json.Marshal(map[string][]server{
		"vnext": {{
			Address: v.Address,
			Port:    v.Port,
			Users:   []user{{ID: v.ID, AlterID: v.AlterID, Security: v.Security, Level: v.Level}},
		}},
	})
}

// Trojan carries one server.
type Trojan struct {
	Address  string
	Port     int
	Password string
	Email    string
	Level    int
}

func (*Trojan) isSettings() {}
func (t *Trojan) Name() string { return "trojan" }

// NewTrojan builds trojan settings from explicit parameters. A zero port
// falls back to 443.
func NewTrojan(address string, port int, password string) *Trojan {
	if port == 0 {
		port = 443
	}
	return &Trojan{Address: address, Port: port, Password: password}
}

func trojanFromLink(d *link.Descriptor) (*Trojan, error) {
	address := d.Host
	if v, ok := d.Param("address"); ok {
		address = v
	}
	password := d.Credential
	if v, ok := d.Param("password"); ok {
		password = v
	}

	t := NewTrojan(address, d.IntParam("port", d.Port), password)
	if v, ok := d.Param("email"); ok {
		t.Email = v
	}
	t.Level = d.IntParam("level", 0)
	return t, nil
}

func (t *Trojan) MarshalJSON() ([]byte, error) {
	type server struct {
		Address  string `json:"address"`
		Port     int    `json:"port"`
		Password string `json:"password"`
		Email    string `json:"email,omitempty"`
		Level    int    `json:"level"`
	}
	return json.Marshal(map[string][]server{
		"servers": {{
			Address:  t.Address,
			Port:     t.Port,
			Password: t.Password,
			Email:    t.Email,
			Level:    t.Level,
		}},
	})
}

// Shadowsocks carries one server. All fields are read from query
// parameters; the userinfo part of the link is only a fallback password.
type Shadowsocks struct {
	Address    string
	Port       int
	Method     string
	Password   string
	Email      string
	Level      int
	UoT        bool
	UoTVersion int
}

func (*Shadowsocks) isSettings() {}
func (s *Shadowsocks) Name() string { return "shadowsocks" }

var knownCiphers = map[string]bool{
	"aes-128-gcm":                   true,
	"aes-256-gcm":                   true,
	"chacha20-poly1305":             true,
	"chacha20-ietf-poly1305":        true,
	"xchacha20-poly1305":            true,
	"xchacha20-ietf-poly1305":       true,
	"2022-blake3-aes-128-gcm":       true,
	"2022-blake3-aes-256-gcm":       true,
	"2022-blake3-chacha20-poly1305": true,
	"none":                          true,
	"plain":                         true,
}

func shadowsocksFromLink(d *link.Descriptor) (*Shadowsocks, error) {
	address := d.Host
	if v, ok := d.Param("address"); ok {
		address = v
	}

	method := "none"
	if v, ok := d.Param("method"); ok && knownCiphers[v] {
		method = v
	}

	password := d.Credential
	if v, ok := d.Param("password"); ok {
		password = v
	}

	s := &Shadowsocks{
		Address:    address,
		Port:       d.IntParam("port", 8388),
		Method:     method,
		Password:   password,
		Level:      d.IntParam("level", 0),
		UoT:        d.BoolParam("uot"),
		UoTVersion: d.IntParam("uot_version", 0),
	}
	if v, ok := d.Param("email"); ok {
		s.Email = v
	}
	return s, nil
}

func (s *Shadowsocks) MarshalJSON() ([]byte, error) {
	type server struct {
		Address    string `json:"address"`
		Port       int    `json:"port"`
		Method     string `json:"method"`
		Password   string `json:"password"`
		Email      string `json:"email,omitempty"`
		Level      int    `json:"level"`
		UoT        bool   `json:"uot,omitempty"`
		UoTVersion int    `json:"uotVersion,omitempty"`
	}
	return json.Marshal(map[string][]server{
		"servers": {{
			Address:    s.Address,
			Port:       s.Port,
			Method:     s.Method,
			Password:   s.Password,
			Email:      s.Email,
			Level:      s.Level,
			UoT:        s.UoT,
			UoTVersion: s.UoTVersion,
		}},
	})
}

// WireGuardPeer is one remote peer of a wireguard outbound.
type WireGuardPeer struct {
	PublicKey    string   `json:"publicKey"`
	PreSharedKey string   `json:"preSharedKey,omitempty"`
	Endpoint     string   `json:"endpoint"`
	AllowedIPs   []string `json:"allowedIPs,omitempty"`
}

// WireGuard settings can only be constructed explicitly.
type WireGuard struct {
	SecretKey string          `json:"secretKey"`
	Addresses []string        `json:"address"`
	Peers     []WireGuardPeer `json:"peers"`
	MTU       int             `json:"mtu,omitempty"`
	Reserved  []int           `json:"reserved,omitempty"`
}

func (*WireGuard) isSettings() {}
func (w *WireGuard) Name() string { return "wireguard" }

func (w *WireGuard) MarshalJSON() ([]byte, error) {
	type plain WireGuard
	return json.Marshal((*plain)(w))
}

// Freedom passes connections through directly. Link data never reaches it.
type Freedom struct {
	DomainStrategy string `json:"domainStrategy"`
	Redirect       string `json:"redirect,omitempty"`
	UserLevel      int    `json:"userLevel"`
}

func (*Freedom) isSettings() {}
func (f *Freedom) Name() string { return "freedom" }

func NewFreedom() *Freedom {
	return &Freedom{DomainStrategy: "asIs"}
}

func (f *Freedom) MarshalJSON() ([]byte, error) {
	type plain Freedom
	return json.Marshal((*plain)(f))
}

// Blackhole silently drops connections. The "http" response is only
// reachable by setting Response explicitly.
type Blackhole struct {
	Response string
}

func (*Blackhole) isSettings() {}
func (b *Blackhole) Name() string { return "blackhole" }

func NewBlackhole() *Blackhole {
	return &Blackhole{Response: "none"}
}

func (b *Blackhole) MarshalJSON() ([]byte, error) {
	response := b.Response
	if response == "" {
		response = "none"
	}
	return json.Marshal(map[string]interface{}{
		"response": map[string]string{"type": response},
	})
}
