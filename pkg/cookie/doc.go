// Package cookie writes and reads HMAC-SHA256 signed HTTP cookies.
//
// Signed values have the form value "." base64url(mac) when value only uses
// the base64url alphabet, and base64url(value) "|" base64url(mac) otherwise.
// The MAC covers the cookie name and the value. Cookies larger than MaxSize
// are refused with ErrCookieTooLarge. Verification tries every
// configured secret with a constant-time comparison, so secrets can be
// rotated by prepending a new one:
//
//	COOKIE_SECRET=new-secret-at-least-32-characters,old-secret-at-least-32-characters
//
// Defaults are Path "/", HttpOnly and SameSite=Lax; Domain, Secure and
// MaxAge come from Config or options.
//
//	m, err := cookie.NewFromConfig(cfg)
//	m.SetSigned(w, "website_id", id.String())
//	v, err := m.GetSigned(r, "website_id")
//
// Signing protects integrity only. Values are readable by the client.
package cookie
