package tenant

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/idna"
)

const (
	// QueryPreview enables preview mode when set to "1" or "true".
	QueryPreview = "preview"
	// QueryWebsiteID carries the tenant id in preview mode.
	QueryWebsiteID = "website_id"
)

// DefaultReservedSubdomains are platform labels that never name a tenant.
var DefaultReservedSubdomains = []string{"admin"}

// Classifier maps a host and query string to a Route. It holds no mutable
// state and the same input always yields the same result.
type Classifier struct {
	baseDomain string
	reserved   map[string]struct{}
	fallback   string
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithReservedSubdomains replaces the reserved label set.
func WithReservedSubdomains(labels ...string) ClassifierOption {
	return func(c *Classifier) {
		c.reserved = make(map[string]struct{}, len(labels))
		for _, l := range labels {
			if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
				c.reserved[l] = struct{}{}
			}
		}
	}
}

// WithDevFallback sets the subdomain used for localhost and loopback hosts.
func WithDevFallback(subdomain string) ClassifierOption {
	return func(c *Classifier) {
		c.fallback = strings.ToLower(strings.TrimSpace(subdomain))
	}
}

// NewClassifier creates a Classifier for the platform base domain.
func NewClassifier(baseDomain string, opts ...ClassifierOption) (*Classifier, error) {
	base, err := normalizeHost(baseDomain)
	if err != nil || !strings.Contains(base, ".") || isIPLiteral(base) {
		return nil, fmt.Errorf("tenant: invalid base domain %q", baseDomain)
	}

	c := &Classifier{baseDomain: base}
	WithReservedSubdomains(DefaultReservedSubdomains...)(c)
	for _, opt := range opts {
		opt(c)
	}

	if c.fallback != "" && !validLabel(c.fallback) {
		return nil, fmt.Errorf("tenant: invalid dev fallback subdomain %q", c.fallback)
	}
	return c, nil
}

// ClassifyRequest classifies r by its Host header and query string.
func (c *Classifier) ClassifyRequest(r *http.Request) (Route, error) {
	return c.Classify(r.Host, r.URL.Query())
}

// Classify derives the route for host and query.
//
// Preview wins when preview=1|true and website_id are both present; the host
// is then ignored. Loopback hosts use the dev fallback subdomain. Hosts under
// the base domain resolve by their single leading label. Any other valid
// domain name resolves as a custom domain with a leading "www." removed.
func (c *Classifier) Classify(host string, query url.Values) (Route, error) {
	if isPreview(query) {
		id, err := uuid.Parse(query.Get(QueryWebsiteID))
		if err != nil {
			return Route{}, errors.Join(ErrInvalidIdentifier, err)
		}
		return Route{Mode: ModePreview, Key: id.String(), ID: id}, nil
	}

	h, err := normalizeHost(host)
	if err != nil {
		return Route{}, err
	}

	if isLoopback(h) {
		if c.fallback == "" {
			return Route{}, ErrNoRoute
		}
		return Route{Mode: ModeSubdomain, Key: c.fallback}, nil
	}

	if isIPLiteral(h) || h == c.baseDomain {
		return Route{}, ErrNoRoute
	}

	if label, ok := strings.CutSuffix(h, "."+c.baseDomain); ok {
		if !validLabel(label) {
			return Route{}, ErrNoRoute
		}
		if _, reserved := c.reserved[label]; reserved {
			return Route{}, ErrReservedSubdomain
		}
		return Route{Mode: ModeSubdomain, Key: label}, nil
	}

	domain := strings.TrimPrefix(h, "www.")
	if !strings.Contains(domain, ".") || !validHostname(domain) {
		return Route{}, ErrNoRoute
	}
	return Route{Mode: ModeCustomDomain, Key: domain}, nil
}

func isPreview(query url.Values) bool {
	if query == nil || !query.Has(QueryWebsiteID) {
		return false
	}
	switch strings.ToLower(query.Get(QueryPreview)) {
	case "1", "true":
		return true
	}
	return false
}

// normalizeHost strips the port, lower-cases, drops a trailing dot and
// converts internationalised names to ASCII. IP literals are returned
// without brackets or zone.
func normalizeHost(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", ErrNoRoute
	}

	switch {
	case strings.HasPrefix(host, "["):
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		} else if strings.HasSuffix(host, "]") {
			host = host[1 : len(host)-1]
		} else {
			return "", ErrNoRoute
		}
	case strings.Count(host, ":") == 1:
		host = host[:strings.IndexByte(host, ':')]
	}

	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return "", ErrNoRoute
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.WithZone("").String(), nil
	}
	if strings.Contains(host, ":") {
		return "", ErrNoRoute
	}

	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil || !validHostname(ascii) {
		return "", ErrNoRoute
	}
	return ascii, nil
}

func isIPLiteral(host string) bool {
	_, err := netip.ParseAddr(host)
	return err == nil
}

func isLoopback(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	addr, err := netip.ParseAddr(host)
	return err == nil && addr.Unmap().IsLoopback()
}

func validHostname(host string) bool {
	if host == "" || len(host) > 253 {
		return false
	}
	for label := range strings.SplitSeq(host, ".") {
		if !validLabel(label) {
			return false
		}
	}
	return true
}

// validLabel reports whether s is an LDH DNS label.
func validLabel(s string) bool {
	if s == "" || len(s) > 63 || s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if (b < 'a' || b > 'z') && (b < '0' || b > '9') && b != '-' {
			return false
		}
	}
	return true
}
