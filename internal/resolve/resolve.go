// Package resolve rewrites hostnames to IP literals inside generic
// JSON trees. It only touches string values stored under the key
// "address"; everything else recurses untouched.
package resolve

import (
	"net"
	"regexp"
	"strings"

	"github.com/oschwald/geoip2-golang"
	"golang.org/x/net/idna"

	"github.com/eprivalovdev/TunnelX/internal/logger"
)

// Four dot-separated groups of up to three digits. Pattern only, no
// range validation; "999.1.1.1" is treated as an address literal too.
var ipv4Pattern = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

// LookupFunc resolves a hostname to one or more addresses.
type LookupFunc func(host string) ([]string, error)

// Change records one rewrite performed by a pass. Country is filled
// only when a GeoIP database is attached.
type Change struct {
	Original string
	Resolved string
	Country  string
}

// Resolver walks JSON trees and replaces resolvable hostnames.
type Resolver struct {
	lookup  LookupFunc
	country *geoip2.Reader
}

// New returns a resolver backed by the system resolver. Pass a
// non-nil lookup to override it in tests.
func New(lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = net.LookupHost
	}
	return &Resolver{lookup: lookup}
}

// AttachCountryDB loads an MMDB country database used to annotate
// change records. Missing databases fail here, not during passes.
func (r *Resolver) AttachCountryDB(path string) error {
	reader, err := geoip2.Open(path)
	if err != nil {
		return err
	}
	r.country = reader
	return nil
}

// Close releases the GeoIP reader if one was attached.
func (r *Resolver) Close() error {
	if r.country == nil {
		return nil
	}
	return r.country.Close()
}

// Apply rewrites the tree in place and returns one change record per
// rewritten value. Lookup failures leave the original value alone; a
// pass never fails.
func (r *Resolver) Apply(tree any) []Change {
	var changes []Change
	r.walk(tree, &changes)
	return changes
}

func (r *Resolver) walk(node any, changes *[]Change) {
	switch v := node.(type) {
	case map[string]any:
		for key, val := range v {
			if key == "address" {
				if s, ok := val.(string); ok {
					if resolved, ok := r.resolve(s); ok {
						v[key] = resolved.Resolved
						*changes = append(*changes, resolved)
					}
					continue
				}
			}
			r.walk(val, changes)
		}
	case []any:
		for _, item := range v {
			r.walk(item, changes)
		}
	}
}

// resolve reports whether the value was rewritten. IPv4-shaped
// strings and anything containing a colon pass through untouched.
func (r *Resolver) resolve(value string) (Change, bool) {
	if ipv4Pattern.MatchString(value) || strings.Contains(value, ":") {
		return Change{}, false
	}

	host := value
	if ascii, err := idna.Lookup.ToASCII(value); err == nil {
		host = ascii
	}

	addrs, err := r.lookup(host)
	if err != nil || len(addrs) == 0 {
		logger.Log.Debugf("leaving %q unresolved: %v", value, err)
		return Change{}, false
	}

	change := Change{Original: value, Resolved: addrs[0]}
	if r.country != nil {
		if ip := net.ParseIP(change.Resolved); ip != nil {
			if rec, err := r.country.Country(ip); err == nil {
				change.Country = rec.Country.IsoCode
			}
		}
	}
	logger.Log.Debugf("resolved %q to %q", value, change.Resolved)
	return change, true
}
