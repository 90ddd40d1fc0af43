package tenant

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/dmitrymomot/storefront/svc/tenant"

// Metrics holds the tenant resolution instruments.
// A nil *Metrics records nothing.
type Metrics struct {
	resolutions  metric.Int64Counter
	cacheLookups metric.Int64Counter
	storeErrors  metric.Int64Counter
	rejections   metric.Int64Counter
	cookieDrops  metric.Int64Counter
}

// NewMetrics creates the instruments from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(instrumentationName)
	m := &Metrics{}
	var err, e error

	m.resolutions, e = meter.Int64Counter("storefront.tenant.resolutions",
		metric.WithDescription("Tenant resolutions by mode and outcome"))
	err = errors.Join(err, e)

	m.cacheLookups, e = meter.Int64Counter("storefront.tenant.cache.lookups",
		metric.WithDescription("Tenant cache lookups by result"))
	err = errors.Join(err, e)

	m.storeErrors, e = meter.Int64Counter("storefront.tenant.store.errors",
		metric.WithDescription("Failed backing store queries by query"))
	err = errors.Join(err, e)

	m.rejections, e = meter.Int64Counter("storefront.tenant.rejections",
		metric.WithDescription("Requests rewritten to not found by reason"))
	err = errors.Join(err, e)

	m.cookieDrops, e = meter.Int64Counter("storefront.tenant.cookies.dropped",
		metric.WithDescription("Tenant cookies not written because they exceed the size limit"))
	err = errors.Join(err, e)

	if err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) recordResolution(ctx context.Context, mode Mode, err error) {
	if m == nil {
		return
	}
	m.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", string(mode)),
		attribute.String("outcome", Reason(err)),
	))
}

func (m *Metrics) recordCacheLookup(ctx context.Context, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (m *Metrics) recordStoreError(ctx context.Context, query string) {
	if m == nil {
		return
	}
	m.storeErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("query", query)))
}

func (m *Metrics) recordRejection(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *Metrics) recordCookieDropped(ctx context.Context, name string) {
	if m == nil {
		return
	}
	m.cookieDrops.Add(ctx, 1, metric.WithAttributes(attribute.String("cookie", name)))
}
