package link

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Equal reports whether two descriptors carry exactly the same link data,
// including the full parameter map.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Protocol != other.Protocol ||
		d.Credential != other.Credential ||
		d.Host != other.Host ||
		d.Port != other.Port ||
		d.Network != other.Network ||
		d.Security != other.Security ||
		d.Fragment != other.Fragment {
		return false
	}
	if len(d.params) != len(other.params) {
		return false
	}
	for k, v := range d.params {
		if ov, ok := other.params[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Hash returns a stable identifier for the descriptor. Parameters are
// folded in sorted key order so the hash does not depend on query order.
func (d *Descriptor) Hash() string {
	parts := []string{
		string(d.Protocol),
		strings.ToLower(d.Host),
		fmt.Sprintf("%d", d.Port),
		d.Credential,
		string(d.Network),
		string(d.Security),
		d.Fragment,
	}

	keys := make([]string, 0, len(d.params))
	for k := range d.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+d.params[k])
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}
