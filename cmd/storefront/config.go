package main

import (
	"errors"

	"github.com/dmitrymomot/storefront/pkg/config"
	"github.com/dmitrymomot/storefront/pkg/cookie"
	"github.com/dmitrymomot/storefront/pkg/httpserver"
	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/pg"
	"github.com/dmitrymomot/storefront/pkg/telemetry"
	"github.com/dmitrymomot/storefront/svc/portal"
	"github.com/dmitrymomot/storefront/svc/tenant"
)

type appConfig struct {
	Env         string `env:"APP_ENV" envDefault:"development"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"storefront"`
	UpstreamURL string `env:"UPSTREAM_URL"`
}

type configs struct {
	app       appConfig
	log       logger.Config
	telemetry telemetry.Config
	http      httpserver.Config
	pg        pg.Config
	cookie    cookie.Config
	tenant    tenant.Config
	portal    portal.Config
}

func loadConfigs() (configs, error) {
	var c configs
	err := errors.Join(
		config.Load(&c.app),
		config.Load(&c.log),
		config.Load(&c.telemetry),
		config.Load(&c.http),
		config.Load(&c.pg),
		config.Load(&c.cookie),
		config.Load(&c.tenant),
		config.Load(&c.portal),
	)
	return c, err
}
