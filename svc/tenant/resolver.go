package tenant

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Resolver turns a Route into a Tenant snapshot using the cache before the
// store. Concurrent misses on the same key are not coalesced.
type Resolver struct {
	store   Store
	cache   Cache
	metrics *Metrics
	tracer  trace.Tracer
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCache sets the snapshot cache. Nil disables caching.
func WithCache(c Cache) ResolverOption {
	return func(r *Resolver) {
		if c == nil {
			c = NoOpCache{}
		}
		r.cache = c
	}
}

// WithMetrics enables resolution metrics.
func WithMetrics(m *Metrics) ResolverOption {
	return func(r *Resolver) { r.metrics = m }
}

// WithTracerProvider sets the provider for store lookup spans.
func WithTracerProvider(tp trace.TracerProvider) ResolverOption {
	return func(r *Resolver) {
		if tp != nil {
			r.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// NewResolver creates a Resolver. Without WithCache it uses a MemoryCache
// with DefaultCacheTTL.
func NewResolver(store Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:  store,
		cache:  NewMemoryCache(DefaultCacheTTL),
		tracer: otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the active tenant for route.
//
// Preview routes always read the store by id and never touch the cache.
// Other routes return a live cached snapshot when present; on a miss the
// website row and the client's business type are read, merged and cached.
// Missing and inactive tenants are never cached. Store failures are returned
// as ErrStoreUnavailable joined with the cause.
func (r *Resolver) Resolve(ctx context.Context, route Route) (*Tenant, error) {
	t, err := r.resolve(ctx, route)
	r.metrics.recordResolution(ctx, route.Mode, err)
	return t, err
}

func (r *Resolver) resolve(ctx context.Context, route Route) (*Tenant, error) {
	switch route.Mode {
	case ModePreview:
		return r.load(ctx, route, func(ctx context.Context) (*Tenant, error) {
			return r.store.FindByID(ctx, route.ID)
		})
	case ModeSubdomain, ModeCustomDomain:
		if route.Key == "" {
			return nil, ErrNoRoute
		}
	default:
		return nil, ErrNoRoute
	}

	if t, ok := r.cache.Get(ctx, route.Key); ok {
		r.metrics.recordCacheLookup(ctx, true)
		return t, nil
	}
	r.metrics.recordCacheLookup(ctx, false)

	t, err := r.load(ctx, route, func(ctx context.Context) (*Tenant, error) {
		return r.store.FindByRoutingKey(ctx, route.Mode, route.Key)
	})
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, route.Key, t); err != nil {
		// The snapshot is still valid; the next request pays another lookup.
		trace.SpanFromContext(ctx).RecordError(err)
	}
	return t, nil
}

func (r *Resolver) load(ctx context.Context, route Route, find func(context.Context) (*Tenant, error)) (*Tenant, error) {
	ctx, span := r.tracer.Start(ctx, "tenant.store.lookup", trace.WithAttributes(
		attribute.String("tenant.mode", string(route.Mode)),
		attribute.String("tenant.routing_key", route.Key),
	))
	defer span.End()

	t, err := find(ctx)
	switch {
	case errors.Is(err, ErrTenantNotFound), err == nil && t == nil:
		return nil, ErrTenantNotFound
	case err != nil:
		r.storeFailed(ctx, span, "website", err)
		return nil, errors.Join(ErrStoreUnavailable, err)
	case !t.IsActive:
		return nil, ErrTenantInactive
	}

	businessType, err := r.store.BusinessType(ctx, t.ClientID)
	if err != nil {
		r.storeFailed(ctx, span, "business_type", err)
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	merged := t.Clone()
	merged.BusinessType = businessType
	span.SetAttributes(attribute.String("tenant.id", merged.ID.String()))
	return merged, nil
}

func (r *Resolver) storeFailed(ctx context.Context, span trace.Span, query string, err error) {
	r.metrics.recordStoreError(ctx, query)
	span.RecordError(err)
	span.SetStatus(codes.Error, query+" lookup failed")
}
