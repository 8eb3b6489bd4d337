// Package builder turns share links, raw JSON, or explicit outbound
// models into serialized engine configuration documents.
package builder

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/eprivalovdev/TunnelX/internal/document"
	"github.com/eprivalovdev/TunnelX/internal/link"
	"github.com/eprivalovdev/TunnelX/internal/outbound"
	"github.com/eprivalovdev/TunnelX/internal/resolve"
	"github.com/eprivalovdev/TunnelX/internal/settings"
)

// ErrMalformedJSON wraps parse failures of the raw JSON source.
var ErrMalformedJSON = errors.New("malformed json document")

// Source is one of the three build inputs.
type Source interface {
	isSource()
}

// LinkSource is a share link URI.
type LinkSource string

func (LinkSource) isSource() {}

// JSONSource is a complete document supplied as raw JSON text. It is
// passed through untouched except for the host resolution pass.
type JSONSource string

func (JSONSource) isSource() {}

// OutboundSource wraps an explicitly constructed outbound model.
type OutboundSource struct {
	Outbound *outbound.Outbound
}

func (OutboundSource) isSource() {}

// Builder assembles documents. Each Build call is a pure function of
// the source and the snapshot captured at construction, apart from
// DNS lookups in the resolution pass.
type Builder struct {
	snapshot settings.Snapshot
	resolver *resolve.Resolver
}

// New captures the snapshot and the resolver the builds will use. A
// nil resolver gets the system-backed default.
func New(snap settings.Snapshot, r *resolve.Resolver) *Builder {
	if r == nil {
		r = resolve.New(nil)
	}
	return &Builder{snapshot: snap, resolver: r}
}

// Build produces the pretty-printed document for the source plus the
// hostname rewrites performed along the way.
func (b *Builder) Build(src Source) ([]byte, []resolve.Change, error) {
	var (
		tree any
		err  error
	)
	switch s := src.(type) {
	case LinkSource:
		d, perr := link.Parse(string(s))
		if perr != nil {
			return nil, nil, perr
		}
		doc, derr := document.FromLink(d, b.snapshot)
		if derr != nil {
			return nil, nil, derr
		}
		tree, err = doc.Tree()
	case JSONSource:
		if uerr := json.Unmarshal([]byte(s), &tree); uerr != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedJSON, uerr)
		}
	case OutboundSource:
		tree, err = document.FromOutbound(s.Outbound, b.snapshot).Tree()
	default:
		return nil, nil, fmt.Errorf("unknown source type %T", src)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode document: %w", err)
	}

	changes := b.resolver.Apply(tree)

	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return data, changes, nil
}
