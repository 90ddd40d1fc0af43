// Package tenant resolves which website an inbound storefront request belongs
// to and carries that answer through the rest of the request.
//
// A request flows through four pieces:
//
//   - Classifier maps the Host header and query string to a Route: preview by
//     id, a subdomain of the platform base domain, or a custom domain.
//   - Resolver turns the Route into a Tenant snapshot, reading a Cache first
//     and the Store on a miss. Missing and inactive websites are never cached.
//   - Propagator writes the snapshot into the request context, the forwarded
//     X-Website-* headers and signed response cookies.
//   - Middleware wires the three together and rewrites every failure to a
//     single not-found destination.
//
// Basic usage:
//
//	classifier, err := tenant.NewClassifier("platform.example",
//		tenant.WithDevFallback("demo-salon"),
//	)
//	resolver := tenant.NewResolver(tenant.NewPGStore(pool),
//		tenant.WithCache(tenant.NewMemoryCache(time.Minute)),
//	)
//	propagator := tenant.NewPropagator(cookies)
//
//	r := chi.NewRouter()
//	r.Use(tenant.Middleware(classifier, resolver, propagator))
//
// Downstream handlers read the tenant with FromContext, or with
// Propagator.ReadFields when only the forwarded headers are available.
package tenant
