// Package logger builds *slog.Logger instances for the gateway.
//
// New takes functional options selecting the format, level, output and static
// attributes, then wraps the handler in ContextHandler which appends values
// pulled from the record's context (request id, client ip, tenant id) through
// registered ContextExtractor functions.
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "storefront"),
//		logger.WithConfig(logCfg),
//		logger.WithContextExtractors(
//			requestid.LoggerExtractor(),
//			clientip.LoggerExtractor(),
//			tenant.LoggerExtractor(),
//		),
//	)
//	log.InfoContext(ctx, "tenant resolved", logger.RoutingKey("acme"))
//
// Attribute helpers in attr.go keep key names consistent. Error returns an
// empty attribute for a nil error, so it can be passed unconditionally.
package logger
