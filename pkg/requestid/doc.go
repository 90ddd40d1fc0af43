// Package requestid assigns every inbound request an identifier that is
// echoed in the X-Request-ID response header, forwarded upstream, stored in
// the request context and attached to log records via LoggerExtractor.
//
// Client supplied ids are accepted only when they are at most 128 characters
// of letters, digits, dash or underscore; anything else is replaced with a
// fresh UUID.
package requestid
