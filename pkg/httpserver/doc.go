// Package httpserver wraps net/http.Server with graceful shutdown on context
// cancellation or SIGINT/SIGTERM, timeouts loaded from HTTP_* variables and
// liveness/readiness handlers.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Request contexts derive from the Run context without its cancellation, so
// in-flight requests finish during the drain window.
package httpserver
