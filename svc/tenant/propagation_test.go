package tenant_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/dmitrymomot/storefront/pkg/cookie"
	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/svc/tenant"
)

const cookieSecret = "storefront-cookie-secret-for-tests-01"

func newPropagator(t *testing.T) *tenant.Propagator {
	t.Helper()
	m, err := cookie.New([]string{cookieSecret})
	require.NoError(t, err)
	return tenant.NewPropagator(m)
}

func resolved() *tenant.Tenant {
	t := website("acme")
	t.BusinessType = "salon"
	return t
}

func TestPropagate(t *testing.T) {
	t.Parallel()

	p := newPropagator(t)
	acme := resolved()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(tenant.HeaderWebsiteID, "spoofed")
	req.Header.Set(tenant.HeaderBusinessType, "spoofed")
	rec := httptest.NewRecorder()

	out := p.Propagate(rec, req, acme)

	assert.Equal(t, acme.ID.String(), out.Header.Get(tenant.HeaderWebsiteID))
	assert.Equal(t, "sunset", out.Header.Get(tenant.HeaderWebsiteTheme))
	assert.Equal(t, "salon", out.Header.Get(tenant.HeaderBusinessType))

	cfg, err := tenant.DecodeConfig(out.Header.Get(tenant.HeaderWebsiteConfig))
	require.NoError(t, err)
	assert.JSONEq(t, `{"currency":"EUR"}`, string(cfg))

	got, ok := tenant.FromContext(out.Context())
	require.True(t, ok)
	assert.Same(t, acme, got)

	assert.Equal(t, "spoofed", req.Header.Get(tenant.HeaderWebsiteID), "input request must not be modified")

	names := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		names[c.Name] = true
		assert.False(t, c.HttpOnly, c.Name)
	}
	for _, n := range []string{tenant.CookieWebsiteID, tenant.CookieWebsiteTheme, tenant.CookieWebsiteConfig, tenant.CookieBusinessType} {
		assert.True(t, names[n], n)
	}
}

func TestPropagateIdempotent(t *testing.T) {
	t.Parallel()

	p := newPropagator(t)
	acme := resolved()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec1 := httptest.NewRecorder()
	once := p.Propagate(rec1, req, acme)

	rec2 := httptest.NewRecorder()
	twice := p.Propagate(rec2, p.Propagate(httptest.NewRecorder(), req, acme), acme)

	assert.Equal(t, once.Header, twice.Header)
	assert.Equal(t, rec1.Header().Values("Set-Cookie"), rec2.Header().Values("Set-Cookie"))
}

func TestPropagateEmptyFields(t *testing.T) {
	t.Parallel()

	p := newPropagator(t)
	bare := website("bare")
	bare.Theme = ""
	bare.Config = nil

	out := p.Propagate(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), bare)
	assert.Equal(t, bare.ID.String(), out.Header.Get(tenant.HeaderWebsiteID))
	for _, h := range []string{tenant.HeaderWebsiteTheme, tenant.HeaderWebsiteConfig, tenant.HeaderBusinessType} {
		_, present := out.Header[h]
		assert.False(t, present, h)
	}
}

func withConfigSize(n int) *tenant.Tenant {
	t := resolved()
	t.Config = json.RawMessage(`{"business_name":"` + strings.Repeat("x", n) + `"}`)
	return t
}

func TestPropagateLargeConfig(t *testing.T) {
	t.Parallel()

	t.Run("fits in cookie", func(t *testing.T) {
		t.Parallel()

		p := newPropagator(t)
		acme := withConfigSize(2300)

		rec := httptest.NewRecorder()
		p.Propagate(rec, httptest.NewRequest(http.MethodGet, "/", nil), acme)

		var found bool
		for _, c := range rec.Result().Cookies() {
			assert.LessOrEqual(t, len(c.Name)+len(c.Value)+1, cookie.MaxSize, c.Name)
			if c.Name == tenant.CookieWebsiteConfig {
				found = true
				encoded := tenant.EncodeConfig(acme.Config)
				assert.Less(t, len(c.Value), len(encoded)+64, "config must not be encoded twice")
			}
		}
		require.True(t, found)

		next := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range rec.Result().Cookies() {
			next.AddCookie(c)
		}
		got, ok := p.ReadFields(next)
		require.True(t, ok)
		assert.Equal(t, p.Fields(acme), got)
	})

	t.Run("over the limit", func(t *testing.T) {
		t.Parallel()

		m, err := cookie.New([]string{cookieSecret})
		require.NoError(t, err)

		reader := sdkmetric.NewManualReader()
		metrics, err := tenant.NewMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)))
		require.NoError(t, err)

		var logs bytes.Buffer
		p := tenant.NewPropagator(m,
			tenant.WithPropagatorMetrics(metrics),
			tenant.WithPropagatorLogger(logger.New(logger.WithOutput(&logs))),
		)
		acme := withConfigSize(4000)

		rec := httptest.NewRecorder()
		out := p.Propagate(rec, httptest.NewRequest(http.MethodGet, "/", nil), acme)

		assert.Equal(t, tenant.EncodeConfig(acme.Config), out.Header.Get(tenant.HeaderWebsiteConfig))

		names := map[string]bool{}
		for _, c := range rec.Result().Cookies() {
			names[c.Name] = true
		}
		assert.False(t, names[tenant.CookieWebsiteConfig])
		assert.True(t, names[tenant.CookieWebsiteID])
		assert.True(t, names[tenant.CookieWebsiteTheme])
		assert.True(t, names[tenant.CookieBusinessType])

		assert.Contains(t, logs.String(), "tenant cookie not written")
		assert.Contains(t, logs.String(), tenant.CookieWebsiteConfig)

		var rm metricdata.ResourceMetrics
		require.NoError(t, reader.Collect(context.Background(), &rm))
		assert.Equal(t, int64(1), counterTotal(rm, "storefront.tenant.cookies.dropped"))
	})
}

func TestPropagateWithoutCookies(t *testing.T) {
	t.Parallel()

	p := tenant.NewPropagator(nil)
	rec := httptest.NewRecorder()
	out := p.Propagate(rec, httptest.NewRequest(http.MethodGet, "/", nil), resolved())

	assert.NotEmpty(t, out.Header.Get(tenant.HeaderWebsiteID))
	assert.Empty(t, rec.Result().Cookies())
}

func TestStripHeaders(t *testing.T) {
	t.Parallel()

	h := http.Header{}
	h.Set(tenant.HeaderWebsiteID, "x")
	h.Set(tenant.HeaderWebsiteTheme, "x")
	h.Set(tenant.HeaderWebsiteConfig, "x")
	h.Set(tenant.HeaderBusinessType, "x")
	h.Set("Accept", "text/html")

	tenant.StripHeaders(h)
	assert.Equal(t, http.Header{"Accept": {"text/html"}}, h)
}

func TestReadFields(t *testing.T) {
	t.Parallel()

	p := newPropagator(t)
	acme := resolved()
	want := p.Fields(acme)

	t.Run("from context", func(t *testing.T) {
		t.Parallel()

		out := p.Propagate(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), acme)
		out.Header.Set(tenant.HeaderWebsiteID, "ignored")

		got, ok := p.ReadFields(out)
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("from headers", func(t *testing.T) {
		t.Parallel()

		out := p.Propagate(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), acme)
		upstream := httptest.NewRequest(http.MethodGet, "/", nil)
		upstream.Header = out.Header.Clone()

		got, ok := p.ReadFields(upstream)
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("from signed cookies", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		p.Propagate(rec, httptest.NewRequest(http.MethodGet, "/", nil), acme)

		next := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range rec.Result().Cookies() {
			next.AddCookie(c)
		}

		got, ok := p.ReadFields(next)
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("forged cookie", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: tenant.CookieWebsiteID, Value: acme.ID.String()})

		_, ok := p.ReadFields(req)
		assert.False(t, ok)
	})

	t.Run("nothing", func(t *testing.T) {
		t.Parallel()

		_, ok := p.ReadFields(httptest.NewRequest(http.MethodGet, "/", nil))
		assert.False(t, ok)
	})
}

func TestConfigEncoding(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage("{\n  \"currency\": \"EUR\",\n  \"hours\": [9, 17]\n}")
	enc := tenant.EncodeConfig(raw)
	assert.NotContains(t, enc, "=")
	assert.NotContains(t, enc, "\n")

	dec, err := tenant.DecodeConfig(enc)
	require.NoError(t, err)
	assert.Equal(t, `{"currency":"EUR","hours":[9,17]}`, string(dec))

	assert.Empty(t, tenant.EncodeConfig(nil))
	dec, err = tenant.DecodeConfig("")
	require.NoError(t, err)
	assert.Nil(t, dec)

	_, err = tenant.DecodeConfig("%%%")
	assert.ErrorIs(t, err, tenant.ErrInvalidConfigEncoding)
}
