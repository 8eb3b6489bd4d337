package resolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedLookup(table map[string][]string) LookupFunc {
	return func(host string) ([]string, error) {
		if addrs, ok := table[host]; ok {
			return addrs, nil
		}
		return nil, errors.New("no such host")
	}
}

func TestApply_RewritesAddressKeys(t *testing.T) {
	r := New(fixedLookup(map[string][]string{
		"example.com": {"93.184.216.34", "93.184.216.35"},
	}))

	tree := map[string]any{
		"outbounds": []any{
			map[string]any{
				"settings": map[string]any{
					"vnext": []any{
						map[string]any{"address": "example.com", "port": float64(443)},
					},
				},
			},
		},
	}

	changes := r.Apply(tree)

	require.Len(t, changes, 1)
	assert.Equal(t, Change{Original: "example.com", Resolved: "93.184.216.34"}, changes[0])

	vnext := tree["outbounds"].([]any)[0].(map[string]any)["settings"].(map[string]any)["vnext"].([]any)
	assert.Equal(t, "93.184.216.34", vnext[0].(map[string]any)["address"])
}

func TestApply_SkipsIPv4AndIPv6(t *testing.T) {
	r := New(fixedLookup(nil))

	tree := map[string]any{
		"a": map[string]any{"address": "192.168.1.1"},
		"b": map[string]any{"address": "999.1.1.1"},
		"c": map[string]any{"address": "2001:db8::1"},
	}

	changes := r.Apply(tree)

	assert.Empty(t, changes)
	assert.Equal(t, "192.168.1.1", tree["a"].(map[string]any)["address"])
	assert.Equal(t, "999.1.1.1", tree["b"].(map[string]any)["address"])
	assert.Equal(t, "2001:db8::1", tree["c"].(map[string]any)["address"])
}

func TestApply_LookupFailureLeavesValue(t *testing.T) {
	r := New(fixedLookup(nil))

	tree := map[string]any{"address": "does-not-exist.invalid"}
	changes := r.Apply(tree)

	assert.Empty(t, changes)
	assert.Equal(t, "does-not-exist.invalid", tree["address"])
}

func TestApply_NonAddressKeysUntouched(t *testing.T) {
	r := New(fixedLookup(map[string][]string{
		"example.com": {"93.184.216.34"},
	}))

	tree := map[string]any{
		"sni":      "example.com",
		"host":     "example.com",
		"address":  float64(42),
		"headers":  map[string]any{"Host": "example.com"},
		"fallback": []any{"example.com"},
	}

	changes := r.Apply(tree)

	assert.Empty(t, changes)
	assert.Equal(t, "example.com", tree["sni"])
	assert.Equal(t, "example.com", tree["headers"].(map[string]any)["Host"])
}

func TestApply_Idempotent(t *testing.T) {
	r := New(fixedLookup(map[string][]string{
		"example.com": {"93.184.216.34"},
	}))

	tree := map[string]any{"address": "example.com"}

	first := r.Apply(tree)
	require.Len(t, first, 1)

	second := r.Apply(tree)
	assert.Empty(t, second)
	assert.Equal(t, "93.184.216.34", tree["address"])
}

func TestApply_Localhost(t *testing.T) {
	// The system resolver maps localhost on every supported platform.
	r := New(nil)

	tree := map[string]any{"address": "localhost"}
	changes := r.Apply(tree)

	require.Len(t, changes, 1)
	assert.Equal(t, "localhost", changes[0].Original)
	assert.Contains(t, []string{"127.0.0.1", "::1"}, changes[0].Resolved)
	assert.Equal(t, changes[0].Resolved, tree["address"])
}

func TestApply_IDNANormalization(t *testing.T) {
	r := New(fixedLookup(map[string][]string{
		"xn--bcher-kva.example": {"203.0.113.7"},
	}))

	tree := map[string]any{"address": "bücher.example"}
	changes := r.Apply(tree)

	require.Len(t, changes, 1)
	assert.Equal(t, "bücher.example", changes[0].Original)
	assert.Equal(t, "203.0.113.7", tree["address"])
}
