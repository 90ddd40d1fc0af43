package portal_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/pkg/jwt"
	"github.com/dmitrymomot/storefront/svc/portal"
	"github.com/dmitrymomot/storefront/svc/tenant"
)

var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func issue(t *testing.T, secret string, mutate func(*portal.AccessClaims)) string {
	t.Helper()

	signer, err := jwt.New(secret)
	require.NoError(t, err)

	var c portal.AccessClaims
	c.Subject = "user-1"
	c.Email = "owner@example.com"
	c.Role = "authenticated"
	c.Audience = jwt.Audience{"authenticated"}
	c.ExpiresAt = now.Add(time.Hour).Unix()
	if mutate != nil {
		mutate(&c)
	}
	token, err := signer.Generate(c)
	require.NoError(t, err)
	return token
}

func tenantRequest(websiteID uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/portal/bookings", nil)
	return req.WithContext(tenant.WithTenant(req.Context(), &tenant.Tenant{ID: websiteID, IsActive: true}))
}

func TestTokenAuthenticator(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	auth, err := portal.NewTokenAuthenticator(cfg, jwt.WithClock(clock))
	require.NoError(t, err)

	websiteID := uuid.New()
	valid := issue(t, cfg.JWTSecret, func(c *portal.AccessClaims) { c.AppMetadata.WebsiteID = websiteID.String() })

	t.Run("cookie", func(t *testing.T) {
		t.Parallel()

		req := tenantRequest(websiteID)
		req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: valid})

		s, err := auth.Authenticate(req)
		require.NoError(t, err)
		assert.Equal(t, "user-1", s.UserID)
		assert.Equal(t, "owner@example.com", s.Email)
		assert.Equal(t, websiteID, s.WebsiteID)
		assert.Equal(t, now.Add(time.Hour).Unix(), s.ExpiresAt.Unix())
	})

	t.Run("bearer", func(t *testing.T) {
		t.Parallel()

		req := tenantRequest(websiteID)
		req.Header.Set("Authorization", "Bearer "+valid)
		_, err := auth.Authenticate(req)
		require.NoError(t, err)
	})

	t.Run("no token", func(t *testing.T) {
		t.Parallel()

		_, err := auth.Authenticate(tenantRequest(websiteID))
		assert.ErrorIs(t, err, portal.ErrNoSession)
	})

	t.Run("no tenant", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/portal", nil)
		req.Header.Set("Authorization", "Bearer "+valid)
		_, err := auth.Authenticate(req)
		assert.ErrorIs(t, err, portal.ErrNoTenant)
	})

	t.Run("other website", func(t *testing.T) {
		t.Parallel()

		req := tenantRequest(uuid.New())
		req.Header.Set("Authorization", "Bearer "+valid)
		_, err := auth.Authenticate(req)
		assert.ErrorIs(t, err, portal.ErrTenantMismatch)
	})

	t.Run("missing website claim", func(t *testing.T) {
		t.Parallel()

		req := tenantRequest(websiteID)
		req.Header.Set("Authorization", "Bearer "+issue(t, cfg.JWTSecret, nil))
		_, err := auth.Authenticate(req)
		assert.ErrorIs(t, err, portal.ErrMissingWebsite)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()

		token := issue(t, cfg.JWTSecret, func(c *portal.AccessClaims) {
			c.AppMetadata.WebsiteID = websiteID.String()
			c.ExpiresAt = now.Unix()
		})
		req := tenantRequest(websiteID)
		req.Header.Set("Authorization", "Bearer "+token)
		_, err := auth.Authenticate(req)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		t.Parallel()

		token := issue(t, cfg.JWTSecret, func(c *portal.AccessClaims) {
			c.AppMetadata.WebsiteID = websiteID.String()
			c.Audience = jwt.Audience{"anon"}
		})
		req := tenantRequest(websiteID)
		req.Header.Set("Authorization", "Bearer "+token)
		_, err := auth.Authenticate(req)
		assert.ErrorIs(t, err, jwt.ErrInvalidAudience)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()

		token := issue(t, "some-other-secret", func(c *portal.AccessClaims) { c.AppMetadata.WebsiteID = websiteID.String() })
		req := tenantRequest(websiteID)
		req.Header.Set("Authorization", "Bearer "+token)
		_, err := auth.Authenticate(req)
		assert.ErrorIs(t, err, jwt.ErrInvalidSignature)
	})
}

func TestGateWithTokenAuthenticator(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	auth, err := portal.NewTokenAuthenticator(cfg, jwt.WithClock(clock))
	require.NoError(t, err)
	gate, err := portal.Gate(cfg, auth)
	require.NoError(t, err)

	websiteID := uuid.New()
	h := gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	req := tenantRequest(websiteID)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)

	req = tenantRequest(websiteID)
	req.AddCookie(&http.Cookie{Name: cfg.CookieName, Value: issue(t, cfg.JWTSecret, func(c *portal.AccessClaims) {
		c.AppMetadata.WebsiteID = websiteID.String()
	})})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
