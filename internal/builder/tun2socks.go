package builder

import (
	"bytes"
	"fmt"
)

// Defaults of the flat-text tunnel config. The external tunnel
// engine parses these keys verbatim, so they must not change shape.
const (
	tunnelName = "tun0"
	tunnelMTU  = 8500

	miscTaskStackSize     = 20480
	miscTCPBufferSize     = 65536
	miscConnectTimeout    = 5000
	miscReadWriteTimeout  = 60000
	miscKeepAliveInterval = 30000
	miscConnectRetryCount = 3
)

// DefaultSocksPort is where the document's local inbound listens.
const DefaultSocksPort = 10808

// Tun2socksConfig renders the companion config for the SOCKS5 tunnel
// engine, pointing it at the current tunnel address. A zero port
// falls back to the default.
func (b *Builder) Tun2socksConfig() []byte {
	port := b.snapshot.SocksPort
	if port == 0 {
		port = DefaultSocksPort
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tunnel:\n")
	fmt.Fprintf(&buf, "  name: %s\n", tunnelName)
	fmt.Fprintf(&buf, "  mtu: %d\n", tunnelMTU)
	fmt.Fprintf(&buf, "socks5:\n")
	fmt.Fprintf(&buf, "  port: %d\n", port)
	fmt.Fprintf(&buf, "  address: %s\n", b.snapshot.TunnelAddress)
	fmt.Fprintf(&buf, "  udp: 'udp'\n")
	fmt.Fprintf(&buf, "misc:\n")
	fmt.Fprintf(&buf, "  task-stack-size: %d\n", miscTaskStackSize)
	fmt.Fprintf(&buf, "  tcp-buffer-size: %d\n", miscTCPBufferSize)
	fmt.Fprintf(&buf, "  connect-timeout: %d\n", miscConnectTimeout)
	fmt.Fprintf(&buf, "  read-write-timeout: %d\n", miscReadWriteTimeout)
	fmt.Fprintf(&buf, "  keep-alive: %d\n", miscKeepAliveInterval)
	fmt.Fprintf(&buf, "  connect-retry-count: %d\n", miscConnectRetryCount)
	fmt.Fprintf(&buf, "  log-level: error\n")
	return buf.Bytes()
}
