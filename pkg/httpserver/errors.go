package httpserver

import "errors"

var (
	ErrStart          = errors.New("httpserver: failed to start")
	ErrShutdown       = errors.New("httpserver: failed to shutdown gracefully")
	ErrAlreadyRunning = errors.New("httpserver: already running")
)
