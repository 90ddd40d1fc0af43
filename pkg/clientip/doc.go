// Package clientip determines the caller address of an HTTP request behind
// CDN and load balancer proxies.
//
// GetIP checks CF-Connecting-IP, DO-Connecting-IP, X-Forwarded-For and
// X-Real-IP in that order and falls back to RemoteAddr. Every candidate is
// parsed with net/netip, so malformed values are skipped rather than
// returned. Zones are dropped and IPv4-mapped IPv6 addresses are unmapped.
//
// These headers are only trustworthy when the gateway sits behind a proxy
// that overwrites them. The value is used for logging, never for
// authorisation.
package clientip
