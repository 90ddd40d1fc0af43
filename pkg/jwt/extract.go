package jwt

import (
	"net/http"
	"strings"
)

// Extractor pulls a raw token from a request.
type Extractor func(r *http.Request) (string, error)

// FromBearer reads "Authorization: Bearer <token>".
func FromBearer(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrTokenNotFound
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

// FromCookie reads the token from the named cookie.
func FromCookie(name string) Extractor {
	return func(r *http.Request) (string, error) {
		c, err := r.Cookie(name)
		if err != nil || c.Value == "" {
			return "", ErrTokenNotFound
		}
		return c.Value, nil
	}
}

// FirstOf returns the first token found by extractors in order.
func FirstOf(extractors ...Extractor) Extractor {
	return func(r *http.Request) (string, error) {
		for _, ex := range extractors {
			if token, err := ex(r); err == nil {
				return token, nil
			}
		}
		return "", ErrTokenNotFound
	}
}
