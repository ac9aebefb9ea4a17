// Package geo derives a coarse geocode from a request IP.
package geo

import (
	"net"
)

// Resolver maps an originating IP to a country code for payment audit.
type Resolver interface {
	Country(ip string) string
}

type staticResolver struct {
	defaultCountry string
}

// NewStaticResolver returns a resolver that tags every routable address
// with the configured country. Good enough for a single-region
// deployment; swap in a GeoIP-backed resolver behind the same interface
// when needed.
func NewStaticResolver(defaultCountry string) Resolver {
	return &staticResolver{defaultCountry: defaultCountry}
}

func (r *staticResolver) Country(ip string) string {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() {
		return ""
	}
	return r.defaultCountry
}
