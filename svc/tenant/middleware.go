package tenant

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/storefront/pkg/logger"
)

// DefaultNotFoundPath is where failed resolutions are rewritten to.
const DefaultNotFoundPath = "/404"

// DefaultSkipPaths bypass resolution.
var DefaultSkipPaths = []string{"/healthz", "/readyz"}

type middlewareConfig struct {
	notFoundPath    string
	notFoundHandler http.Handler
	skipPaths       []string
	logger          *slog.Logger
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

// WithNotFoundPath sets the path failed requests are rewritten to.
func WithNotFoundPath(path string) MiddlewareOption {
	return func(c *middlewareConfig) {
		if path != "" {
			c.notFoundPath = path
		}
	}
}

// WithNotFoundHandler serves rewritten requests, for example a proxy to the
// page renderer's not-found page. Defaults to a plain 404.
func WithNotFoundHandler(h http.Handler) MiddlewareOption {
	return func(c *middlewareConfig) {
		if h != nil {
			c.notFoundHandler = h
		}
	}
}

// WithSkipPaths replaces the path prefixes that bypass resolution.
func WithSkipPaths(paths ...string) MiddlewareOption {
	return func(c *middlewareConfig) { c.skipPaths = paths }
}

// WithLogger sets the logger for rejected requests.
func WithLogger(log *slog.Logger) MiddlewareOption {
	return func(c *middlewareConfig) {
		if log != nil {
			c.logger = log
		}
	}
}

// Middleware classifies, resolves and propagates the tenant of every request
// before calling next.
//
// Any failure, whether a malformed host, reserved label, unknown or inactive
// tenant or store outage, rewrites the request path to the not-found path and
// hands it to the not-found handler without tenant context. The failure kind
// is logged and counted but never changes the response.
func Middleware(classifier *Classifier, resolver *Resolver, propagator *Propagator, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := &middlewareConfig{
		notFoundPath:    DefaultNotFoundPath,
		notFoundHandler: http.NotFoundHandler(),
		skipPaths:       DefaultSkipPaths,
		logger:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			StripHeaders(r.Header)

			for _, skip := range cfg.skipPaths {
				if strings.HasPrefix(r.URL.Path, skip) {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := r.Context()
			route, err := classifier.ClassifyRequest(r)
			if err != nil {
				reject(w, r, cfg, resolver, err, slog.Attr{})
				return
			}

			t, err := resolver.Resolve(ctx, route)
			if err != nil {
				reject(w, r, cfg, resolver, err, logger.Group("route",
					logger.Mode(string(route.Mode)),
					logger.RoutingKey(route.Key),
				))
				return
			}

			r = r.WithContext(WithRoute(ctx, route))
			next.ServeHTTP(w, propagator.Propagate(w, r, t))
		})
	}
}

func reject(w http.ResponseWriter, r *http.Request, cfg *middlewareConfig, resolver *Resolver, err error, route slog.Attr) {
	ctx := r.Context()
	reason := Reason(err)
	resolver.metrics.recordRejection(ctx, reason)

	level := slog.LevelInfo
	if reason == "store_unavailable" || reason == "internal" {
		level = slog.LevelError
	}
	cfg.logger.LogAttrs(ctx, level, "tenant not resolved",
		logger.Component("tenant"),
		logger.Reason(reason),
		logger.Host(r.Host),
		route,
		logger.Error(err),
	)

	rewritten := r.Clone(ctx)
	rewritten.URL.Path = cfg.notFoundPath
	rewritten.URL.RawPath = ""
	rewritten.URL.RawQuery = ""
	rewritten.RequestURI = cfg.notFoundPath
	cfg.notFoundHandler.ServeHTTP(w, rewritten)
}
