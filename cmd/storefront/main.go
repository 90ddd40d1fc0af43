package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"

	"github.com/dmitrymomot/storefront/db/migrations"
	"github.com/dmitrymomot/storefront/pkg/clientip"
	"github.com/dmitrymomot/storefront/pkg/config"
	"github.com/dmitrymomot/storefront/pkg/cookie"
	"github.com/dmitrymomot/storefront/pkg/environment"
	"github.com/dmitrymomot/storefront/pkg/httpserver"
	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/pg"
	"github.com/dmitrymomot/storefront/pkg/redis"
	"github.com/dmitrymomot/storefront/pkg/requestid"
	"github.com/dmitrymomot/storefront/pkg/telemetry"
	"github.com/dmitrymomot/storefront/svc/gateway"
	"github.com/dmitrymomot/storefront/svc/portal"
	"github.com/dmitrymomot/storefront/svc/tenant"
)

const readinessTimeout = 2 * time.Second

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("storefront stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := loadConfigs()
	if err != nil {
		return err
	}

	env := environment.Parse(cfg.app.Env)
	log := logger.New(
		logger.WithEnvironment(env, cfg.app.ServiceName),
		logger.WithConfig(cfg.log),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			tenant.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.telemetry)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			log.ErrorContext(sctx, "telemetry shutdown failed", logger.Error(err))
		}
	}()

	pool, err := pg.Connect(ctx, cfg.pg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.pg.AutoMigrate {
		if err := pg.Migrate(ctx, pool, cfg.pg, migrations.FS, log); err != nil {
			return err
		}
	}

	checks := []httpserver.Check{{Name: "postgres", Fn: pg.Healthcheck(pool)}}

	cache, closeCache, err := newTenantCache(ctx, cfg.tenant, log)
	if err != nil {
		return err
	}
	defer closeCache()
	if c, ok := cache.(*tenant.RedisCache); ok {
		checks = append(checks, httpserver.Check{Name: "redis", Fn: c.Ping})
	}

	metrics, err := tenant.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		return err
	}

	classifier, err := tenant.NewClassifierFromConfig(cfg.tenant)
	if err != nil {
		return err
	}
	resolver := tenant.NewResolver(tenant.NewPGStore(pool),
		tenant.WithCache(cache),
		tenant.WithMetrics(metrics),
	)

	cookies, err := cookie.NewFromConfig(cfg.cookie)
	if err != nil {
		return err
	}
	propagator := tenant.NewPropagator(cookies,
		tenant.WithPropagatorMetrics(metrics),
		tenant.WithPropagatorLogger(log),
	)

	authenticator, err := portal.NewTokenAuthenticator(cfg.portal)
	if err != nil {
		return err
	}
	gate, err := portal.Gate(cfg.portal, authenticator, portal.WithLogger(log))
	if err != nil {
		return err
	}

	// Without an upstream renderer only the site endpoint is served.
	var upstream http.Handler = http.NotFoundHandler()
	if cfg.app.UpstreamURL != "" {
		if upstream, err = gateway.NewProxy(cfg.app.UpstreamURL, log); err != nil {
			return err
		}
	}

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.Middleware,
		environment.Middleware(env),
		chimw.Recoverer,
		telemetry.HTTPMiddleware(cfg.app.ServiceName),
	)

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, readinessTimeout, checks...))

	r.Group(func(r chi.Router) {
		r.Use(
			tenant.Middleware(classifier, resolver, propagator,
				tenant.WithNotFoundPath(cfg.tenant.NotFoundPath),
				tenant.WithNotFoundHandler(upstream),
				tenant.WithLogger(log),
			),
			gate,
		)
		r.Get(gateway.SitePath, gateway.SiteHandler(propagator))
		r.Handle("/*", upstream)
	})

	return httpserver.NewFromConfig(cfg.http, httpserver.WithLogger(log)).Run(ctx, r)
}

// newTenantCache builds the cache selected by TENANT_CACHE_DRIVER. The
// returned func releases any connection it opened.
func newTenantCache(ctx context.Context, cfg tenant.Config, log *slog.Logger) (tenant.Cache, func(), error) {
	noop := func() {}

	driver, err := cfg.Driver()
	if err != nil {
		return nil, noop, err
	}

	switch driver {
	case tenant.CacheDriverNone:
		return tenant.NoOpCache{}, noop, nil
	case tenant.CacheDriverRedis:
		var rcfg redis.Config
		if err := config.Load(&rcfg); err != nil {
			return nil, noop, err
		}
		client, err := redis.Connect(ctx, rcfg)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Error("redis close failed", logger.Error(err))
			}
		}
		return tenant.NewRedisCache(client, cfg.CacheTTL,
			tenant.WithKeyPrefix(rcfg.KeyPrefix+"tenant:"),
			tenant.WithRedisLogger(log),
		), closeFn, nil
	default:
		return tenant.NewMemoryCache(cfg.CacheTTL, tenant.WithMaxEntries(cfg.CacheSize)), noop, nil
	}
}

