package tenant_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/storefront/svc/tenant"
)

func TestContext(t *testing.T) {
	t.Parallel()

	acme := website("acme")
	ctx := tenant.WithTenant(context.Background(), acme)

	got, ok := tenant.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, acme, got)

	id, ok := tenant.IDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, acme.ID, id)
	assert.Same(t, acme, tenant.MustFromContext(ctx))

	_, ok = tenant.FromContext(tenant.WithTenant(context.Background(), nil))
	assert.False(t, ok)

	id, ok = tenant.IDFromContext(context.Background())
	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, id)

	assert.PanicsWithError(t, tenant.ErrNoTenantInContext.Error(), func() {
		tenant.MustFromContext(context.Background())
	})
}

func TestRouteContext(t *testing.T) {
	t.Parallel()

	route := tenant.Route{Mode: tenant.ModeCustomDomain, Key: "example-bakery.com"}
	got, ok := tenant.RouteFromContext(tenant.WithRoute(context.Background(), route))
	require.True(t, ok)
	assert.Equal(t, route, got)

	_, ok = tenant.RouteFromContext(context.Background())
	assert.False(t, ok)
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := tenant.LoggerExtractor()
	acme := website("acme")

	attr, ok := extract(tenant.WithTenant(context.Background(), acme))
	require.True(t, ok)
	assert.Equal(t, "tenant_id", attr.Key)
	assert.Equal(t, acme.ID.String(), attr.Value.String())

	_, ok = extract(context.Background())
	assert.False(t, ok)
}

func TestTenantClone(t *testing.T) {
	t.Parallel()

	src := website("acme")
	c := src.Clone()
	assert.Equal(t, src, c)
	c.Config[0] = '['
	assert.JSONEq(t, `{"currency":"EUR"}`, string(src.Config))

	var nilTenant *tenant.Tenant
	assert.Nil(t, nilTenant.Clone())
}
