package tenant

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/storefront/pkg/cookie"
	"github.com/dmitrymomot/storefront/pkg/logger"
)

// Forwarded request headers carrying the resolved tenant.
const (
	HeaderWebsiteID     = "X-Website-Id"
	HeaderWebsiteTheme  = "X-Website-Theme"
	HeaderWebsiteConfig = "X-Website-Config"
	HeaderBusinessType  = "X-Business-Type"
)

// Response cookies mirroring the forwarded headers.
const (
	CookieWebsiteID     = "website_id"
	CookieWebsiteTheme  = "website_theme"
	CookieWebsiteConfig = "website_config"
	CookieBusinessType  = "business_type"
)

var ErrInvalidConfigEncoding = errors.New("tenant: invalid config encoding")

// Fields are the four propagated strings.
type Fields struct {
	WebsiteID    string
	Theme        string
	Config       string
	BusinessType string
}

type fieldBinding struct {
	header string
	cookie string
	value  func(*Fields) *string
}

var bindings = [...]fieldBinding{
	{HeaderWebsiteID, CookieWebsiteID, func(f *Fields) *string { return &f.WebsiteID }},
	{HeaderWebsiteTheme, CookieWebsiteTheme, func(f *Fields) *string { return &f.Theme }},
	{HeaderWebsiteConfig, CookieWebsiteConfig, func(f *Fields) *string { return &f.Config }},
	{HeaderBusinessType, CookieBusinessType, func(f *Fields) *string { return &f.BusinessType }},
}

// Propagator is the single place that writes tenant context to a request:
// forwarded headers, signed response cookies and the request context.
type Propagator struct {
	cookies *cookie.Manager
	metrics *Metrics
	log     *slog.Logger
}

// PropagatorOption configures a Propagator.
type PropagatorOption func(*Propagator)

// WithPropagatorMetrics counts cookies that could not be written.
func WithPropagatorMetrics(m *Metrics) PropagatorOption {
	return func(p *Propagator) { p.metrics = m }
}

// WithPropagatorLogger sets the logger for cookies that could not be written.
func WithPropagatorLogger(log *slog.Logger) PropagatorOption {
	return func(p *Propagator) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPropagator creates a Propagator. A nil cookie manager disables the
// cookie path; headers and context are still written.
func NewPropagator(cookies *cookie.Manager, opts ...PropagatorOption) *Propagator {
	p := &Propagator{cookies: cookies, log: logger.Discard()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fields returns the propagated strings for t. The result depends only on
// the snapshot, so propagating the same snapshot twice yields identical
// headers and cookies.
func (p *Propagator) Fields(t *Tenant) Fields {
	return Fields{
		WebsiteID:    t.ID.String(),
		Theme:        t.Theme,
		Config:       EncodeConfig(t.Config),
		BusinessType: t.BusinessType,
	}
}

// Propagate returns a clone of r carrying t in its context and forwarded
// headers, and writes the matching signed cookies to w. Client supplied
// copies of the forwarded headers are dropped first.
//
// The cookies are readable by client scripts. A cookie that would exceed the
// browser size limit is skipped, logged and counted; the headers still carry
// the value.
func (p *Propagator) Propagate(w http.ResponseWriter, r *http.Request, t *Tenant) *http.Request {
	f := p.Fields(t)

	out := r.Clone(WithTenant(r.Context(), t))
	StripHeaders(out.Header)
	for _, b := range bindings {
		v := *b.value(&f)
		if v != "" {
			out.Header.Set(b.header, v)
		}
		if p.cookies == nil {
			continue
		}
		if err := p.cookies.SetSigned(w, b.cookie, v, cookie.WithHTTPOnly(false)); err != nil {
			p.log.WarnContext(r.Context(), "tenant cookie not written",
				slog.String("cookie", b.cookie),
				logger.TenantID(f.WebsiteID),
				logger.Error(err),
			)
			p.metrics.recordCookieDropped(r.Context(), b.cookie)
		}
	}
	return out
}

// StripHeaders removes the forwarded tenant headers from h.
func StripHeaders(h http.Header) {
	for _, b := range bindings {
		h.Del(b.header)
	}
}

// ReadFields returns the tenant context of r for downstream handlers. The
// request context set by Propagate wins; forwarded headers come next and
// signed cookies last. Cookies are a fallback signal only and are never used
// to resolve a tenant.
func (p *Propagator) ReadFields(r *http.Request) (Fields, bool) {
	if t, ok := FromContext(r.Context()); ok {
		return p.Fields(t), true
	}

	var f Fields
	if id := r.Header.Get(HeaderWebsiteID); id != "" {
		for _, b := range bindings {
			*b.value(&f) = r.Header.Get(b.header)
		}
		return f, true
	}

	if p.cookies == nil {
		return Fields{}, false
	}
	id, err := p.cookies.GetSigned(r, CookieWebsiteID)
	if err != nil || id == "" {
		return Fields{}, false
	}
	for _, b := range bindings {
		v, _ := p.cookies.GetSigned(r, b.cookie)
		*b.value(&f) = v
	}
	return f, true
}

// EncodeConfig renders the config blob as compact JSON in unpadded base64url,
// which is safe in both headers and cookies. Invalid JSON is encoded as is.
func EncodeConfig(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return base64.RawURLEncoding.EncodeToString(raw)
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes())
}

// DecodeConfig reverses EncodeConfig.
func DecodeConfig(s string) (json.RawMessage, error) {
	if s == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfigEncoding, err)
	}
	return json.RawMessage(b), nil
}
