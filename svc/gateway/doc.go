// Package gateway holds the handlers that sit behind tenant resolution: a
// reverse proxy to the page renderer and a small JSON endpoint exposing the
// resolved site to client code.
package gateway
