// Package redis connects to Redis with go-redis/v9 for the optional shared
// tenant cache. Connect retries the initial PING and Healthcheck feeds the
// readiness endpoint.
package redis
