package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const (
	minSecretLength = 32

	// MaxSize is the largest name=value pair browsers reliably store.
	MaxSize = 4096
)

// Manager writes and reads HMAC-SHA256 signed cookies.
type Manager struct {
	secrets  []string
	defaults Options
}

// New creates a Manager. The first secret signs; all secrets verify.
// Every secret must be at least 32 characters long.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d", ErrSecretTooShort, i, len(s), minSecretLength)
		}
	}

	defaults := applyOptions(Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, opts)

	return &Manager{secrets: secrets, defaults: defaults}, nil
}

// Set writes a plain cookie. A name=value pair larger than MaxSize is not
// written and ErrCookieTooLarge is returned.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	if size := len(name) + len(value) + 1; size > MaxSize {
		return fmt.Errorf("%w: %s is %d bytes", ErrCookieTooLarge, name, size)
	}
	o := applyOptions(m.defaults, opts)
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	})
	return nil
}

// Get returns a plain cookie value or ErrCookieNotFound.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires the cookie on the client.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
		Secure:   m.defaults.Secure,
	})
}

// SetSigned writes value signed together with the cookie name, so a valid
// value cannot be replayed under a different cookie.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, opts ...Option) error {
	return m.Set(w, name, m.sign(name, value), opts...)
}

// GetSigned returns the verified value of a signed cookie.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	signed, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	return m.verify(name, signed)
}

// sign keeps base64url-safe values as they are ("value.mac") and encodes
// anything else ("base64url(value)|mac").
func (m *Manager) sign(name, value string) string {
	sig := base64.RawURLEncoding.EncodeToString(mac(m.secrets[0], name, value))
	if urlSafe(value) {
		return value + "." + sig
	}
	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "|" + sig
}

func (m *Manager) verify(name, signed string) (string, error) {
	var value string
	if encodedValue, encodedSig, ok := strings.Cut(signed, "|"); ok {
		b, err := base64.RawURLEncoding.DecodeString(encodedValue)
		if err != nil {
			return "", ErrInvalidFormat
		}
		value, signed = string(b), encodedSig
	} else if raw, encodedSig, ok := strings.Cut(signed, "."); ok && urlSafe(raw) {
		value, signed = raw, encodedSig
	} else {
		return "", ErrInvalidFormat
	}

	sig, err := base64.RawURLEncoding.DecodeString(signed)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, secret := range m.secrets {
		if hmac.Equal(sig, mac(secret, name, value)) {
			return value, nil
		}
	}
	return "", ErrInvalidSignature
}

func urlSafe(s string) bool {
	for i := range len(s) {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

func mac(secret, name, value string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(value))
	return h.Sum(nil)
}
